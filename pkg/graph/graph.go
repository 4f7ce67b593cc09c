// Package graph builds the weighted directed routing graph from map
// features.
//
// The builder runs a single O(V+E) pass: one GraphNode per node
// feature, then one outgoing arc per edge feature whose endpoints
// resolve. Edges with unresolved endpoints are skipped silently - the
// lenient ingestion policy from the feature layer continues here, so a
// malformed source row never aborts a venue load. Repeated start→end
// pairs yield parallel arcs; the pathfinder simply relaxes both.
//
// A Graph is immutable once Build returns and is safe for concurrent
// readers.
package graph

import "github.com/matzehuels/wayfinder/pkg/feature"

// Arc is a weighted outgoing connection to a neighboring node.
type Arc struct {
	To     *Node
	Weight float64 // meters
}

// Node wraps a map feature with its adjacency list.
// Arcs are ordered by insertion (edge record order).
type Node struct {
	feature.Node
	Arcs []Arc
}

// Graph owns all nodes, keyed by feature id.
type Graph struct {
	nodes map[int64]*Node
	arcs  int
}

// Build constructs a routing graph from parsed features.
//
// Every node feature becomes a graph node; for duplicate ids the last
// record wins. Every edge whose start and end ids resolve appends one
// arc start→end at the edge's distance. Unresolvable edges are dropped
// without error.
func Build(nodes []feature.Node, edges []feature.Edge) *Graph {
	g := &Graph{nodes: make(map[int64]*Node, len(nodes))}

	for _, n := range nodes {
		g.nodes[n.ID] = &Node{Node: n}
	}

	for _, e := range edges {
		start, ok := g.nodes[e.StartID]
		if !ok {
			continue
		}
		end, ok := g.nodes[e.EndID]
		if !ok {
			continue
		}
		start.Arcs = append(start.Arcs, Arc{To: end, Weight: e.Distance})
		g.arcs++
	}

	return g
}

// Node returns the node with the given id and true, or nil and false.
func (g *Graph) Node(id int64) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// ArcCount returns the number of arcs in the graph.
func (g *Graph) ArcCount() int { return g.arcs }

// Nodes returns all nodes in the graph. The order is not guaranteed.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// Components returns the number of weakly connected components,
// treating every arc as bidirectional. Useful as a map quality signal:
// a well-formed venue map has exactly one.
func (g *Graph) Components() int {
	adj := make(map[int64][]int64, len(g.nodes))
	for id, n := range g.nodes {
		for _, a := range n.Arcs {
			adj[id] = append(adj[id], a.To.ID)
			adj[a.To.ID] = append(adj[a.To.ID], id)
		}
	}

	seen := make(map[int64]bool, len(g.nodes))
	components := 0
	for id := range g.nodes {
		if seen[id] {
			continue
		}
		components++
		stack := []int64{id}
		seen[id] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range adj[cur] {
				if !seen[next] {
					seen[next] = true
					stack = append(stack, next)
				}
			}
		}
	}
	return components
}
