// Package feature defines the map feature model consumed by the
// wayfinding engine.
//
// Features arrive from external loaders (exported geofence tooling,
// Mongo collections, JSON map files) in a loosely typed wire format:
// edge endpoints and distances are strings, coordinates are [lon, lat]
// arrays. This package parses those records defensively into the typed
// Node and Edge values the graph builder consumes.
//
// # Lenient ingestion
//
// Malformed records never abort a load. A node without a usable
// coordinate, or an edge whose endpoints or distance fail to parse, is
// dropped and counted; everything well-formed survives. This tolerance
// for partial data is deliberate and covered by tests - exported map
// data is routinely messy and a single broken row must not take the
// whole venue offline.
package feature

import (
	"strconv"
	"strings"

	"github.com/matzehuels/wayfinder/pkg/geo"
)

// Type tags the role of a node within the facility.
// Unknown tags are preserved verbatim; the narrator falls back to
// generic phrasing for types it does not recognize.
type Type string

// Known node types.
const (
	TypeNone       Type = ""
	TypeJunction   Type = "junction"
	TypeStairsUp   Type = "stairs-up"
	TypeStairsDown Type = "stairs-down"
	TypeLiftUp     Type = "lift-up"
	TypeLiftDown   Type = "lift-down"
	TypeEntry      Type = "entry"
)

// Known reports whether t is one of the recognized node types.
func (t Type) Known() bool {
	switch t {
	case TypeJunction, TypeStairsUp, TypeStairsDown, TypeLiftUp, TypeLiftDown, TypeEntry:
		return true
	}
	return false
}

// Node is a typed point feature. Immutable once constructed.
type Node struct {
	ID         int64
	Name       string
	Type       Type
	Level      int
	Note       string
	Coordinate geo.Coordinate
}

// Edge is a typed, directed line feature connecting two nodes.
// A single Edge yields exactly one arc StartID→EndID in the graph;
// reverse connectivity requires a separate edge record.
type Edge struct {
	ID         string
	Type       string
	StartID    int64
	EndID      int64
	Level      int
	Distance   float64 // meters, always > 0 after parsing
	Accessible bool
	Geometry   []geo.Coordinate // rendered path, len >= 2 when present
}

// NodeRecord is the wire format for node features.
type NodeRecord struct {
	ID         int64     `json:"id" bson:"id"`
	Name       string    `json:"name,omitempty" bson:"name,omitempty"`
	Type       string    `json:"type,omitempty" bson:"type,omitempty"`
	Level      int       `json:"level" bson:"level"`
	Note       string    `json:"note,omitempty" bson:"note,omitempty"`
	Coordinate []float64 `json:"coordinate" bson:"coordinate"` // [lon, lat]
}

// EdgeRecord is the wire format for edge features. Endpoint ids and
// distance are strings on the wire and require defensive parsing.
type EdgeRecord struct {
	ID            string      `json:"id" bson:"id"`
	Type          string      `json:"type,omitempty" bson:"type,omitempty"`
	StartID       string      `json:"start_id" bson:"start_id"`
	EndID         string      `json:"end_id" bson:"end_id"`
	Level         string      `json:"level,omitempty" bson:"level,omitempty"`
	Distance      string      `json:"distance" bson:"distance"`
	Accessibility string      `json:"accessibility,omitempty" bson:"accessibility,omitempty"`
	Geometry      [][]float64 `json:"geometry" bson:"geometry"` // [[lon, lat], ...]
}

// ParseNode converts a wire record into a Node.
// Returns false if the record has no usable [lon, lat] coordinate.
func ParseNode(r NodeRecord) (Node, bool) {
	if len(r.Coordinate) < 2 {
		return Node{}, false
	}
	return Node{
		ID:         r.ID,
		Name:       r.Name,
		Type:       Type(r.Type),
		Level:      r.Level,
		Note:       r.Note,
		Coordinate: geo.Coordinate{Lon: r.Coordinate[0], Lat: r.Coordinate[1]},
	}, true
}

// ParseEdge converts a wire record into an Edge.
// Returns false if the endpoints or distance fail to parse, or if the
// distance is not strictly positive. Level and accessibility are
// optional; failures there degrade to zero values instead of dropping
// the edge. Geometry vertices without both components are skipped.
func ParseEdge(r EdgeRecord) (Edge, bool) {
	startID, err := strconv.ParseInt(strings.TrimSpace(r.StartID), 10, 64)
	if err != nil {
		return Edge{}, false
	}
	endID, err := strconv.ParseInt(strings.TrimSpace(r.EndID), 10, 64)
	if err != nil {
		return Edge{}, false
	}
	dist, err := strconv.ParseFloat(strings.TrimSpace(r.Distance), 64)
	if err != nil || dist <= 0 {
		return Edge{}, false
	}

	level, _ := strconv.Atoi(strings.TrimSpace(r.Level))

	geom := make([]geo.Coordinate, 0, len(r.Geometry))
	for _, v := range r.Geometry {
		if len(v) < 2 {
			continue
		}
		geom = append(geom, geo.Coordinate{Lon: v[0], Lat: v[1]})
	}
	if len(geom) < 2 {
		geom = nil
	}

	return Edge{
		ID:         r.ID,
		Type:       r.Type,
		StartID:    startID,
		EndID:      endID,
		Level:      level,
		Distance:   dist,
		Accessible: strings.EqualFold(strings.TrimSpace(r.Accessibility), "true"),
		Geometry:   geom,
	}, true
}

// ParseNodes converts wire records into Nodes, dropping malformed ones.
// The second return value is the number of dropped records.
func ParseNodes(records []NodeRecord) ([]Node, int) {
	nodes := make([]Node, 0, len(records))
	dropped := 0
	for _, r := range records {
		n, ok := ParseNode(r)
		if !ok {
			dropped++
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes, dropped
}

// ParseEdges converts wire records into Edges, dropping malformed ones.
// The second return value is the number of dropped records.
func ParseEdges(records []EdgeRecord) ([]Edge, int) {
	edges := make([]Edge, 0, len(records))
	dropped := 0
	for _, r := range records {
		e, ok := ParseEdge(r)
		if !ok {
			dropped++
			continue
		}
		edges = append(edges, e)
	}
	return edges, dropped
}

// DisplayName returns the node's name, or a generic fallback phrase
// derived from its type when the name is empty.
func (n Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	switch n.Type {
	case TypeStairsUp, TypeStairsDown:
		return "the stairs"
	case TypeLiftUp, TypeLiftDown:
		return "the lift"
	case TypeEntry:
		return "the Exit"
	default:
		return "the next point"
	}
}
