// Package route implements shortest-path search over the facility
// graph, turn-by-turn narration of the result, and live-position
// snapping onto the route geometry.
//
// # Search
//
// Find runs A* with a haversine heuristic. The heuristic is an
// admissible and consistent lower bound for strictly positive edge
// weights measured in meters, so the returned path cost is always the
// true minimum. Ties on f = g + h are broken by smaller node id, which
// makes the chosen path deterministic across runs and platforms.
//
// # Failure model
//
// The search distinguishes an unknown endpoint (ErrNodeNotFound) from a
// goal that exists but cannot be reached (ErrNoPath). Callers that only
// care about "no route" can match both with errors.Is against ErrNoRoute.
package route

import (
	"errors"
	"fmt"

	"github.com/matzehuels/wayfinder/pkg/graph"
)

// Sentinel errors for route computation.
var (
	// ErrNoRoute is the common class for all "no route" outcomes.
	// ErrNodeNotFound and ErrNoPath both wrap it.
	ErrNoRoute = errors.New("no route")

	// ErrNodeNotFound is returned by Find when the start or goal id
	// does not resolve to a graph node.
	ErrNodeNotFound = fmt.Errorf("node not found: %w", ErrNoRoute)

	// ErrNoPath is returned by Find when both endpoints exist but the
	// frontier is exhausted before reaching the goal.
	ErrNoPath = fmt.Errorf("no path: %w", ErrNoRoute)
)

// Route is an ordered node sequence from start to goal, length >= 1.
type Route []*graph.Node

// Cost returns the summed weight of the route in meters, following the
// cheapest arc between each consecutive node pair (parallel arcs may
// exist). A single-node route costs 0.
func (r Route) Cost() float64 {
	total := 0.0
	for i := 0; i+1 < len(r); i++ {
		best := 0.0
		found := false
		for _, a := range r[i].Arcs {
			if a.To.ID != r[i+1].ID {
				continue
			}
			if !found || a.Weight < best {
				best = a.Weight
				found = true
			}
		}
		total += best
	}
	return total
}

// IDs returns the node ids along the route in order.
func (r Route) IDs() []int64 {
	ids := make([]int64, len(r))
	for i, n := range r {
		ids[i] = n.ID
	}
	return ids
}
