package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/wayfinder/pkg/feature"
	"github.com/matzehuels/wayfinder/pkg/geo"
	"github.com/matzehuels/wayfinder/pkg/graph"
)

func testGraph() *graph.Graph {
	nodes := []feature.Node{
		{ID: 1, Name: "Lobby", Coordinate: geo.Coordinate{Lon: 0, Lat: 0}},
		{ID: 2, Name: "Stairwell", Type: feature.TypeStairsUp, Coordinate: geo.Coordinate{Lon: 0, Lat: 0.001}},
		{ID: 3, Coordinate: geo.Coordinate{Lon: 0, Lat: 0.002}},
	}
	edges := []feature.Edge{
		{ID: "e1", StartID: 1, EndID: 2, Distance: 100},
		{ID: "e2", StartID: 2, EndID: 3, Distance: 50},
	}
	return graph.Build(nodes, edges)
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(), Options{})

	for _, want := range []string{
		"digraph facility {",
		`1 [label="Lobby"]`,
		"fillcolor=lightblue",
		`3 [label="#3"]`,
		"1 -> 2;",
		"2 -> 3;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testGraph(), Options{Detailed: true})

	for _, want := range []string{
		"id: 2",
		"type: stairs-up",
		"level: 0",
		`label="100m"`,
		`label="50m"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTHighlight(t *testing.T) {
	dot := ToDOT(testGraph(), Options{Highlight: []int64{1, 2}})

	if !strings.Contains(dot, "1 -> 2 [color=red, penwidth=2];") {
		t.Errorf("highlighted arc missing:\n%s", dot)
	}
	if strings.Contains(dot, "2 -> 3 [color=red") {
		t.Errorf("non-route arc should not be highlighted:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="10.00 20.00 100.00 50.00">`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
}

func TestNormalizeViewBoxNoMatch(t *testing.T) {
	in := []byte("<svg>")
	if got := normalizeViewBox(in); string(got) != "<svg>" {
		t.Errorf("unmatched input should pass through, got %s", got)
	}
}
