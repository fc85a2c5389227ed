package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/stationcover/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// Wire is the JSON form of a graph: a vertex count and an edge list.
// Used for API requests and responses and for `render --format json`.
type Wire struct {
	Vertices int      `json:"vertices"`
	Edges    [][2]int `json:"edges"`
	Cover    []int    `json:"cover,omitempty"`
}

// ToWire converts g to its JSON form. Edges are emitted with A < B in
// sorted order, so the output is deterministic.
func ToWire(g *Graph) Wire {
	edges := make([][2]int, len(g.edges))
	for i, e := range g.edges {
		edges[i] = [2]int{e.A, e.B}
	}
	return Wire{Vertices: g.n, Edges: edges}
}

// FromWire builds a graph from its JSON form. Validation failures are
// INVALID_FORMAT errors.
func FromWire(w Wire) (*Graph, error) {
	return FromWireLimited(w, errors.Limits{})
}

// FromWireLimited is [FromWire] with the vertex count checked against limits
// before the graph is allocated.
func FromWireLimited(w Wire, limits errors.Limits) (*Graph, error) {
	if w.Vertices < 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "vertices must not be negative (got %d)", w.Vertices)
	}
	if err := limits.ValidateGraphSize(w.Vertices, 0); err != nil {
		return nil, err
	}
	b := NewBuilder(w.Vertices)
	for i, e := range w.Edges {
		if err := b.AddEdge(e[0], e[1]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "edge %d", i)
		}
	}
	return b.Build(), nil
}

// MarshalGraph converts a graph to JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, nil, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes g as indented JSON to w. A non-nil cover is included
// under the "cover" key.
func WriteJSON(g *Graph, cover []int, w io.Writer) error {
	out := ToWire(g)
	out.Cover = cover
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a JSON graph from r. Any "cover" field is ignored.
func ReadJSON(r io.Reader) (*Graph, error) {
	return ReadJSONLimited(r, errors.Limits{})
}

// ReadJSONLimited is [ReadJSON] built through [FromWireLimited].
func ReadJSONLimited(r io.Reader, limits errors.Limits) (*Graph, error) {
	var data Wire
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	return FromWireLimited(data, limits)
}

// ReadJSONFile reads a JSON graph file.
func ReadJSONFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fileErr(path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
