package route

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/matzehuels/wayfinder/pkg/feature"
	"github.com/matzehuels/wayfinder/pkg/geo"
	"github.com/matzehuels/wayfinder/pkg/graph"
)

func node(id int64, lon, lat float64) feature.Node {
	return feature.Node{ID: id, Coordinate: geo.Coordinate{Lon: lon, Lat: lat}}
}

func edge(start, end int64, dist float64) feature.Edge {
	return feature.Edge{StartID: start, EndID: end, Distance: dist}
}

// corridor builds the three-node straight line used across tests:
// A(1) → B(2) → C(3), 100 m per hop.
func corridor() *graph.Graph {
	return graph.Build(
		[]feature.Node{
			{ID: 1, Name: "A", Coordinate: geo.Coordinate{Lon: 0, Lat: 0}},
			{ID: 2, Name: "B", Coordinate: geo.Coordinate{Lon: 0, Lat: 0.001}},
			{ID: 3, Name: "C", Coordinate: geo.Coordinate{Lon: 0, Lat: 0.002}},
		},
		[]feature.Edge{edge(1, 2, 100), edge(2, 3, 100)},
	)
}

func TestFindCorridor(t *testing.T) {
	g := corridor()

	r, err := Find(g, 1, 3)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	wantIDs := []int64{1, 2, 3}
	gotIDs := r.IDs()
	if len(gotIDs) != len(wantIDs) {
		t.Fatalf("route = %v, want %v", gotIDs, wantIDs)
	}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Fatalf("route = %v, want %v", gotIDs, wantIDs)
		}
	}
	if cost := r.Cost(); cost != 200 {
		t.Errorf("cost = %v, want 200", cost)
	}
}

func TestFindSameNode(t *testing.T) {
	g := corridor()
	r, err := Find(g, 2, 2)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(r) != 1 || r[0].ID != 2 {
		t.Errorf("route = %v, want [2]", r.IDs())
	}
	if cost := r.Cost(); cost != 0 {
		t.Errorf("cost = %v, want 0", cost)
	}
}

func TestFindUnknownID(t *testing.T) {
	g := corridor()

	for _, pair := range [][2]int64{{99, 3}, {1, 99}, {98, 99}} {
		if _, err := Find(g, pair[0], pair[1]); !errors.Is(err, ErrNodeNotFound) {
			t.Errorf("Find(%d, %d) error = %v, want ErrNodeNotFound", pair[0], pair[1], err)
		}
	}
}

func TestFindDisconnected(t *testing.T) {
	g := graph.Build(
		[]feature.Node{node(1, 0, 0), node(2, 0, 0.001), node(3, 0.01, 0), node(4, 0.01, 0.001)},
		[]feature.Edge{edge(1, 2, 100), edge(3, 4, 100)},
	)

	_, err := Find(g, 1, 4)
	if !errors.Is(err, ErrNoPath) {
		t.Errorf("error = %v, want ErrNoPath", err)
	}
	// Both failure modes share the ErrNoRoute class.
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("error = %v, should wrap ErrNoRoute", err)
	}
}

func TestFindRespectsDirection(t *testing.T) {
	// A single directed arc must not provide reverse connectivity.
	g := graph.Build(
		[]feature.Node{node(1, 0, 0), node(2, 0, 0.001)},
		[]feature.Edge{edge(1, 2, 100)},
	)

	if _, err := Find(g, 1, 2); err != nil {
		t.Errorf("forward: %v", err)
	}
	if _, err := Find(g, 2, 1); !errors.Is(err, ErrNoPath) {
		t.Errorf("reverse error = %v, want ErrNoPath", err)
	}
}

func TestFindPrefersCheaperDetour(t *testing.T) {
	// Direct arc 1→3 costs 500; the detour over 2 costs 300.
	g := graph.Build(
		[]feature.Node{node(1, 0, 0), node(2, 0.001, 0.001), node(3, 0, 0.002)},
		[]feature.Edge{edge(1, 3, 500), edge(1, 2, 150), edge(2, 3, 150)},
	)

	r, err := Find(g, 1, 3)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(r) != 3 || r[1].ID != 2 {
		t.Errorf("route = %v, want detour over node 2", r.IDs())
	}
	if cost := r.Cost(); cost != 300 {
		t.Errorf("cost = %v, want 300", cost)
	}
}

func TestFindParallelArcsUseCheapest(t *testing.T) {
	g := graph.Build(
		[]feature.Node{node(1, 0, 0), node(2, 0, 0.001)},
		[]feature.Edge{edge(1, 2, 250), edge(1, 2, 100)},
	)

	r, err := Find(g, 1, 2)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if cost := r.Cost(); cost != 100 {
		t.Errorf("cost = %v, want 100", cost)
	}
}

// dijkstra is a brute-force reference used to verify A* optimality.
// It returns the minimal cost from start to goal, or +Inf.
func dijkstra(g *graph.Graph, startID, goalID int64) float64 {
	dist := map[int64]float64{startID: 0}
	done := map[int64]bool{}

	for {
		var current *graph.Node
		best := math.Inf(1)
		for _, n := range g.Nodes() {
			if d, ok := dist[n.ID]; ok && !done[n.ID] && d < best {
				best = d
				current = n
			}
		}
		if current == nil {
			break
		}
		if current.ID == goalID {
			return best
		}
		done[current.ID] = true
		for _, a := range current.Arcs {
			if d, ok := dist[a.To.ID]; !ok || best+a.Weight < d {
				dist[a.To.ID] = best + a.Weight
			}
		}
	}

	if d, ok := dist[goalID]; ok {
		return d
	}
	return math.Inf(1)
}

func TestFindMatchesDijkstraOnRandomGraphs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		const n = 20
		nodes := make([]feature.Node, n)
		for i := range nodes {
			nodes[i] = node(int64(i+1), rng.Float64()*0.01, rng.Float64()*0.01)
		}

		// Edge weights are at least the great-circle distance between
		// their endpoints, keeping the heuristic admissible the same
		// way real walking distances do.
		var edges []feature.Edge
		for i := 0; i < n*3; i++ {
			a := nodes[rng.Intn(n)]
			b := nodes[rng.Intn(n)]
			if a.ID == b.ID {
				continue
			}
			base := geo.Haversine(a.Coordinate, b.Coordinate)
			edges = append(edges, edge(a.ID, b.ID, base*(1+rng.Float64())+1))
		}

		g := graph.Build(nodes, edges)
		start := int64(rng.Intn(n) + 1)
		goal := int64(rng.Intn(n) + 1)

		want := dijkstra(g, start, goal)
		r, err := Find(g, start, goal)

		if math.IsInf(want, 1) {
			if !errors.Is(err, ErrNoPath) && start != goal {
				t.Fatalf("trial %d: Find(%d, %d) = %v, want ErrNoPath", trial, start, goal, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("trial %d: Find(%d, %d): %v (dijkstra found %v)", trial, start, goal, err, want)
		}
		if got := r.Cost(); math.Abs(got-want) > 1e-6 {
			t.Fatalf("trial %d: cost = %v, dijkstra = %v", trial, got, want)
		}
	}
}

func TestFindDeterministicTieBreak(t *testing.T) {
	// Two equal-cost paths 1→2→4 and 1→3→4 over symmetric coordinates.
	// The id tie-break must always pick the same one.
	build := func() *graph.Graph {
		return graph.Build(
			[]feature.Node{
				node(1, 0, 0),
				node(2, -0.001, 0.001),
				node(3, 0.001, 0.001),
				node(4, 0, 0.002),
			},
			[]feature.Edge{
				edge(1, 2, 100), edge(2, 4, 100),
				edge(1, 3, 100), edge(3, 4, 100),
			},
		)
	}

	first, err := Find(build(), 1, 4)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	for i := 0; i < 10; i++ {
		r, err := Find(build(), 1, 4)
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		for j := range first {
			if r[j].ID != first[j].ID {
				t.Fatalf("run %d: route %v differs from %v", i, r.IDs(), first.IDs())
			}
		}
	}
}
