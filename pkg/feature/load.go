package feature

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Map is the canonical serialization format for a venue map: the raw
// node and edge records as exported by the geofence tooling.
type Map struct {
	Nodes []NodeRecord `json:"nodes" bson:"nodes"`
	Edges []EdgeRecord `json:"edges" bson:"edges"`
}

// ReadMap decodes a JSON venue map from an io.Reader.
// Use ReadMapFile for files or pass bytes.NewReader for in-memory data.
func ReadMap(r io.Reader) (Map, error) {
	var m Map
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Map{}, fmt.Errorf("decode: %w", err)
	}
	return m, nil
}

// ReadMapFile reads a JSON venue map file.
func ReadMapFile(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return Map{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadMap(f)
}

// Parse converts the map's wire records into typed features, dropping
// malformed records per the lenient ingestion policy. The returned
// counts report how many node and edge records were dropped.
func (m Map) Parse() (nodes []Node, edges []Edge, droppedNodes, droppedEdges int) {
	nodes, droppedNodes = ParseNodes(m.Nodes)
	edges, droppedEdges = ParseEdges(m.Edges)
	return nodes, edges, droppedNodes, droppedEdges
}
