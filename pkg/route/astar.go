package route

import (
	"container/heap"

	"github.com/matzehuels/wayfinder/pkg/geo"
	"github.com/matzehuels/wayfinder/pkg/graph"
)

// Find returns the shortest route from startID to goalID.
//
// Returns ErrNodeNotFound if either id does not resolve, or ErrNoPath
// if the goal is unreachable. Find(g, x, x) returns the single-node
// route [x] with cost 0.
func Find(g *graph.Graph, startID, goalID int64) (Route, error) {
	start, ok := g.Node(startID)
	if !ok {
		return nil, ErrNodeNotFound
	}
	goal, ok := g.Node(goalID)
	if !ok {
		return nil, ErrNodeNotFound
	}

	h := func(n *graph.Node) float64 {
		return geo.Haversine(n.Coordinate, goal.Coordinate)
	}

	gScore := map[int64]float64{start.ID: 0}
	cameFrom := make(map[int64]*graph.Node)

	frontier := &frontierQueue{}
	heap.Init(frontier)
	heap.Push(frontier, frontierItem{node: start, f: h(start)})

	for frontier.Len() > 0 {
		item := heap.Pop(frontier).(frontierItem)
		current := item.node

		if current.ID == goal.ID {
			return reconstruct(cameFrom, current), nil
		}

		// A node can sit in the frontier multiple times after repeated
		// improvements. Entries made stale by a better g are discarded
		// here instead of being pruned at insertion time.
		if item.f > gScore[current.ID]+h(current) {
			continue
		}

		for _, arc := range current.Arcs {
			tentative := gScore[current.ID] + arc.Weight
			if best, seen := gScore[arc.To.ID]; seen && tentative >= best {
				continue
			}
			cameFrom[arc.To.ID] = current
			gScore[arc.To.ID] = tentative
			heap.Push(frontier, frontierItem{node: arc.To, f: tentative + h(arc.To)})
		}
	}

	return nil, ErrNoPath
}

// reconstruct walks predecessor links backwards from the goal and
// reverses the result.
func reconstruct(cameFrom map[int64]*graph.Node, goal *graph.Node) Route {
	path := Route{goal}
	for {
		prev, ok := cameFrom[path[len(path)-1].ID]
		if !ok {
			break
		}
		path = append(path, prev)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// frontierItem is a frontier entry ordered by f = g + h.
type frontierItem struct {
	node *graph.Node
	f    float64
}

// frontierQueue is a min-heap over frontier entries. Equal f values are
// ordered by smaller node id so the search is fully deterministic.
type frontierQueue []frontierItem

func (q frontierQueue) Len() int { return len(q) }

func (q frontierQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].node.ID < q[j].node.ID
}

func (q frontierQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *frontierQueue) Push(x any) {
	*q = append(*q, x.(frontierItem))
}

func (q *frontierQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
