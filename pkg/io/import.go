package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/voxelgraph/pkg/graph"
	"github.com/matzehuels/voxelgraph/pkg/grid"
	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

// ReadJSON decodes a document written by [WriteJSON] or [MarshalJSON].
//
// Node phases are restored; edge contact and weight fields are ignored
// because they are derived from the grid metadata. ReadJSON returns an error
// if the JSON is malformed or an edge violates the simple-graph invariant
// (self-loop, duplicate, unknown endpoint). It does not close r.
func ReadJSON(r io.Reader) (*graph.Undirected, Meta, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, Meta{}, fmt.Errorf("decode: %w", err)
	}
	return fromDocument(doc)
}

// UnmarshalJSON decodes an in-memory document.
func UnmarshalJSON(data []byte) (*graph.Undirected, Meta, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, Meta{}, fmt.Errorf("decode: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc document) (*graph.Undirected, Meta, error) {
	m := Meta{
		Dims:      voxel.ArrayDimensions{X: doc.Dims.X, Y: doc.Dims.Y, Z: doc.Dims.Z},
		PixelSize: doc.PixelSize,
	}
	if doc.Boundary == grid.Periodic.String() {
		m.Boundary = grid.Periodic
	}

	g := graph.New(len(doc.Nodes))
	for _, n := range doc.Nodes {
		if err := g.AddNode(n.ID); err != nil {
			return nil, Meta{}, fmt.Errorf("node %d: %w", n.ID, err)
		}
		g.SetPhase(n.ID, n.Phase)
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, Meta{}, fmt.Errorf("edge %d-%d: %w", e.From, e.To, err)
		}
	}
	return g, m, nil
}

// ImportJSON reads a JSON file at path.
func ImportJSON(path string) (*graph.Undirected, Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
