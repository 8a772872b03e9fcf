package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/matzehuels/voxelgraph/pkg/errors"
	"github.com/matzehuels/voxelgraph/pkg/graph"
	"github.com/matzehuels/voxelgraph/pkg/grid"
	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

// Export formats.
const (
	FormatJSON      = "json"
	FormatAdjacency = "adjacency"
	FormatEdgeList  = "edgelist"
)

// FormatNames lists the supported export formats.
func FormatNames() []string {
	return []string{FormatAdjacency, FormatEdgeList, FormatJSON}
}

// Extension returns the file extension conventionally used for format.
func Extension(format string) string {
	switch format {
	case FormatJSON:
		return ".json"
	case FormatEdgeList:
		return ".edges"
	default:
		return ".adj"
	}
}

// Graph is the read side exporters need.
type Graph interface {
	graph.View
	Edges() []graph.Edge
	Phase(id int) (int, bool)
}

// Meta describes the grid a graph was built from.
type Meta struct {
	Dims      voxel.ArrayDimensions
	Boundary  grid.Boundary
	PixelSize float64
}

func (m Meta) pixelSize() float64 {
	if m.PixelSize <= 0 {
		return 1
	}
	return m.PixelSize
}

type document struct {
	Dims      dims    `json:"dims"`
	Boundary  string  `json:"boundary"`
	PixelSize float64 `json:"pixel_size"`
	Nodes     []node  `json:"nodes"`
	Edges     []edge  `json:"edges"`
}

type dims struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

type node struct {
	ID    int `json:"id"`
	Phase int `json:"phase"`
}

type edge struct {
	From    int     `json:"from"`
	To      int     `json:"to"`
	Contact string  `json:"contact,omitempty"`
	Weight  float64 `json:"weight,omitempty"`
}

func newDocument(g Graph, m Meta) document {
	d := m.Dims.Normalize()
	doc := document{
		Dims:      dims{X: d.X, Y: d.Y, Z: d.Z},
		Boundary:  m.Boundary.String(),
		PixelSize: m.pixelSize(),
		Nodes:     make([]node, 0, g.NodeCount()),
	}
	for _, id := range g.Nodes() {
		p, _ := g.Phase(id)
		doc.Nodes = append(doc.Nodes, node{ID: id, Phase: p})
	}
	es := g.Edges()
	doc.Edges = make([]edge, len(es))
	for i, e := range es {
		out := edge{From: e.A, To: e.B}
		if c, ok := grid.Classify(d, e.A, e.B, m.Boundary); ok {
			out.Contact = c.String()
			out.Weight = c.Weight(doc.PixelSize)
		}
		doc.Edges[i] = out
	}
	return doc
}

// MarshalJSON encodes g as a compact JSON document.
func MarshalJSON(g Graph, m Meta) ([]byte, error) {
	data, err := json.Marshal(newDocument(g, m))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// WriteJSON encodes g as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(w io.Writer, g Graph, m Meta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newDocument(g, m)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteAdjacency writes "Node <id>: <neighbors...>" for every node.
func WriteAdjacency(w io.Writer, g graph.View) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for _, id := range g.Nodes() {
		buf = append(buf[:0], "Node "...)
		buf = strconv.AppendInt(buf, int64(id), 10)
		buf = append(buf, ':')
		for _, n := range g.Neighbors(id) {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(n), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteEdgeList writes "<a> <b> <weight>" for every edge, a < b.
func WriteEdgeList(w io.Writer, g Graph, m Meta) error {
	bw := bufio.NewWriter(w)
	d := m.Dims.Normalize()
	px := m.pixelSize()
	for _, e := range g.Edges() {
		wt := px
		if c, ok := grid.Classify(d, e.A, e.B, m.Boundary); ok {
			wt = c.Weight(px)
		}
		if _, err := fmt.Fprintf(bw, "%d %d %s\n", e.A, e.B, strconv.FormatFloat(wt, 'g', 10, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Write encodes g to w in the named format.
func Write(w io.Writer, format string, g Graph, m Meta) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, g, m)
	case FormatAdjacency:
		return WriteAdjacency(w, g)
	case FormatEdgeList:
		return WriteEdgeList(w, g, m)
	default:
		return errors.New(errors.ErrCodeInvalidFormat,
			"unknown export format %q (must be one of: %v)", format, FormatNames())
	}
}

// ValidateFormat reports whether format is a supported export format.
func ValidateFormat(format string) error {
	if !slices.Contains(FormatNames(), format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"unknown export format %q (must be one of: %v)", format, FormatNames())
	}
	return nil
}

// ExportFile writes g to path in the named format and returns the number of
// bytes written.
func ExportFile(path, format string, g Graph, m Meta) (int64, error) {
	if err := ValidateFormat(format); err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	cw := &countingWriter{w: f}
	if err := Write(cw, format, g, m); err != nil {
		f.Close()
		return cw.n, err
	}
	return cw.n, f.Close()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
