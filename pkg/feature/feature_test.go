package feature

import (
	"strings"
	"testing"
)

func TestParseNode(t *testing.T) {
	tests := []struct {
		name   string
		record NodeRecord
		wantOK bool
		check  func(t *testing.T, n Node)
	}{
		{
			name:   "Valid",
			record: NodeRecord{ID: 7, Name: "Lobby", Type: "junction", Level: 1, Coordinate: []float64{13.41, 52.52}},
			wantOK: true,
			check: func(t *testing.T, n Node) {
				if n.ID != 7 || n.Name != "Lobby" || n.Type != TypeJunction || n.Level != 1 {
					t.Errorf("unexpected node: %+v", n)
				}
				if n.Coordinate.Lon != 13.41 || n.Coordinate.Lat != 52.52 {
					t.Errorf("coordinate = %v, want lon 13.41 lat 52.52", n.Coordinate)
				}
			},
		},
		{
			name:   "MissingCoordinate",
			record: NodeRecord{ID: 8, Name: "Broken"},
			wantOK: false,
		},
		{
			name:   "ShortCoordinate",
			record: NodeRecord{ID: 9, Coordinate: []float64{13.41}},
			wantOK: false,
		},
		{
			name:   "UnknownTypePreserved",
			record: NodeRecord{ID: 10, Type: "helipad", Coordinate: []float64{1, 2}},
			wantOK: true,
			check: func(t *testing.T, n Node) {
				if n.Type != Type("helipad") {
					t.Errorf("type = %q, want helipad", n.Type)
				}
				if n.Type.Known() {
					t.Error("helipad should not be a known type")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := ParseNode(tt.record)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.check != nil {
				tt.check(t, n)
			}
		})
	}
}

func TestParseEdge(t *testing.T) {
	tests := []struct {
		name   string
		record EdgeRecord
		wantOK bool
		check  func(t *testing.T, e Edge)
	}{
		{
			name: "Valid",
			record: EdgeRecord{
				ID: "e1", StartID: "1", EndID: "2", Distance: "12.5",
				Level: "2", Accessibility: "true",
				Geometry: [][]float64{{0, 0}, {0, 0.0001}},
			},
			wantOK: true,
			check: func(t *testing.T, e Edge) {
				if e.StartID != 1 || e.EndID != 2 || e.Distance != 12.5 {
					t.Errorf("unexpected edge: %+v", e)
				}
				if e.Level != 2 || !e.Accessible {
					t.Errorf("level/accessible = %d/%v, want 2/true", e.Level, e.Accessible)
				}
				if len(e.Geometry) != 2 {
					t.Errorf("geometry len = %d, want 2", len(e.Geometry))
				}
			},
		},
		{
			name:   "BadStartID",
			record: EdgeRecord{ID: "e2", StartID: "abc", EndID: "2", Distance: "10"},
			wantOK: false,
		},
		{
			name:   "BadEndID",
			record: EdgeRecord{ID: "e3", StartID: "1", EndID: "", Distance: "10"},
			wantOK: false,
		},
		{
			name:   "BadDistance",
			record: EdgeRecord{ID: "e4", StartID: "1", EndID: "2", Distance: "n/a"},
			wantOK: false,
		},
		{
			name:   "ZeroDistance",
			record: EdgeRecord{ID: "e5", StartID: "1", EndID: "2", Distance: "0"},
			wantOK: false,
		},
		{
			name:   "NegativeDistance",
			record: EdgeRecord{ID: "e6", StartID: "1", EndID: "2", Distance: "-4"},
			wantOK: false,
		},
		{
			name:   "WhitespaceTolerated",
			record: EdgeRecord{ID: "e7", StartID: " 3 ", EndID: " 4 ", Distance: " 7.5 "},
			wantOK: true,
			check: func(t *testing.T, e Edge) {
				if e.StartID != 3 || e.EndID != 4 || e.Distance != 7.5 {
					t.Errorf("unexpected edge: %+v", e)
				}
			},
		},
		{
			name: "SingleVertexGeometryDropped",
			record: EdgeRecord{
				ID: "e8", StartID: "1", EndID: "2", Distance: "5",
				Geometry: [][]float64{{1, 1}},
			},
			wantOK: true,
			check: func(t *testing.T, e Edge) {
				if e.Geometry != nil {
					t.Errorf("geometry = %v, want nil", e.Geometry)
				}
			},
		},
		{
			name:   "BadLevelDegrades",
			record: EdgeRecord{ID: "e9", StartID: "1", EndID: "2", Distance: "5", Level: "mezzanine"},
			wantOK: true,
			check: func(t *testing.T, e Edge) {
				if e.Level != 0 {
					t.Errorf("level = %d, want 0", e.Level)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := ParseEdge(tt.record)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.check != nil {
				tt.check(t, e)
			}
		})
	}
}

func TestParseEdgesCountsDropped(t *testing.T) {
	records := []EdgeRecord{
		{ID: "a", StartID: "1", EndID: "2", Distance: "10"},
		{ID: "b", StartID: "x", EndID: "2", Distance: "10"},
		{ID: "c", StartID: "2", EndID: "3", Distance: "bad"},
	}
	edges, dropped := ParseEdges(records)
	if len(edges) != 1 {
		t.Errorf("edges = %d, want 1", len(edges))
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
}

func TestReadMap(t *testing.T) {
	input := `{
		"nodes": [
			{"id": 1, "name": "A", "level": 0, "coordinate": [0, 0]},
			{"id": 2, "name": "B", "level": 0, "coordinate": [0, 0.001]}
		],
		"edges": [
			{"id": "e1", "start_id": "1", "end_id": "2", "distance": "100",
			 "geometry": [[0, 0], [0, 0.001]]}
		]
	}`

	m, err := ReadMap(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadMap: %v", err)
	}

	nodes, edges, droppedNodes, droppedEdges := m.Parse()
	if len(nodes) != 2 || droppedNodes != 0 {
		t.Errorf("nodes = %d (dropped %d), want 2 (dropped 0)", len(nodes), droppedNodes)
	}
	if len(edges) != 1 || droppedEdges != 0 {
		t.Errorf("edges = %d (dropped %d), want 1 (dropped 0)", len(edges), droppedEdges)
	}
}

func TestReadMapInvalid(t *testing.T) {
	if _, err := ReadMap(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"Named", Node{Name: "Main Hall"}, "Main Hall"},
		{"StairsUp", Node{Type: TypeStairsUp}, "the stairs"},
		{"StairsDown", Node{Type: TypeStairsDown}, "the stairs"},
		{"LiftUp", Node{Type: TypeLiftUp}, "the lift"},
		{"Entry", Node{Type: TypeEntry}, "the Exit"},
		{"Unnamed", Node{}, "the next point"},
		{"NameBeatsType", Node{Name: "North Stairs", Type: TypeStairsUp}, "North Stairs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.DisplayName(); got != tt.want {
				t.Errorf("DisplayName = %q, want %q", got, tt.want)
			}
		})
	}
}
