package io

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/voxelgraph/pkg/errors"
	"github.com/matzehuels/voxelgraph/pkg/graph"
	"github.com/matzehuels/voxelgraph/pkg/grid"
	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

func built(t *testing.T, d voxel.ArrayDimensions, labels []int, b grid.Boundary) (*graph.Undirected, Meta) {
	t.Helper()
	g := graph.New(len(labels))
	if _, err := grid.Build(context.Background(), g, d, labels, grid.Options{Boundary: b}); err != nil {
		t.Fatal(err)
	}
	return g, Meta{Dims: d, Boundary: b, PixelSize: 2}
}

func TestWriteAdjacency(t *testing.T) {
	g, _ := built(t, voxel.ArrayDimensions{X: 3, Y: 1, Z: 0}, []int{0, 1, 0}, grid.Bounded)
	var buf bytes.Buffer
	if err := WriteAdjacency(&buf, g); err != nil {
		t.Fatal(err)
	}
	want := "Node 0: 1\nNode 1: 0 2\nNode 2: 1\n"
	if buf.String() != want {
		t.Errorf("WriteAdjacency() = %q, want %q", buf.String(), want)
	}
}

func TestWriteEdgeList(t *testing.T) {
	g, m := built(t, voxel.ArrayDimensions{X: 2, Y: 2, Z: 0}, []int{0, 1, 1, 0}, grid.Bounded)
	var buf bytes.Buffer
	if err := WriteEdgeList(&buf, g, m); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), buf.String())
	}
	if lines[0] != "0 1 2" {
		t.Errorf("first line = %q, want face weight 2", lines[0])
	}
	if lines[2] != "0 3 2.828427125" {
		t.Errorf("diagonal line = %q", lines[2])
	}
}

func TestJSONRoundTrip(t *testing.T) {
	for _, b := range []grid.Boundary{grid.Bounded, grid.Periodic} {
		d := voxel.ArrayDimensions{X: 3, Y: 3, Z: 2}
		labels := make([]int, d.Volume())
		for i := range labels {
			labels[i] = i % 3
		}
		g, m := built(t, d, labels, b)

		var buf bytes.Buffer
		if err := WriteJSON(&buf, g, m); err != nil {
			t.Fatal(err)
		}
		back, meta, err := ReadJSON(&buf)
		if err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		if !slices.Equal(back.Edges(), g.Edges()) || back.NodeCount() != g.NodeCount() {
			t.Errorf("%s: graph changed in round trip", b)
		}
		if meta.Boundary != b || meta.Dims != d || meta.PixelSize != 2 {
			t.Errorf("meta = %+v", meta)
		}
		for id, want := range labels {
			if got, _ := back.Phase(id); got != want {
				t.Fatalf("Phase(%d) = %d, want %d", id, got, want)
			}
		}
	}
}

func TestJSONContacts(t *testing.T) {
	g, m := built(t, voxel.ArrayDimensions{X: 2, Y: 2, Z: 2}, make([]int, 8), grid.Bounded)
	data, err := MarshalJSON(g, m)
	if err != nil {
		t.Fatal(err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	for _, e := range doc.Edges {
		if e.From >= e.To {
			t.Errorf("edge %d-%d not canonical", e.From, e.To)
		}
		counts[e.Contact]++
	}
	// a 2x2x2 cube: 12 face pairs, 12 edge pairs, 4 corner pairs
	if counts["face"] != 12 || counts["edge"] != 12 || counts["corner"] != 4 {
		t.Errorf("contacts = %v", counts)
	}

	back, _, err := UnmarshalJSON(data)
	if err != nil || back.EdgeCount() != 28 {
		t.Errorf("UnmarshalJSON: %v edges, err %v", back, err)
	}
}

func TestReadJSONRejectsBadGraphs(t *testing.T) {
	tests := []struct {
		name, in string
	}{
		{"malformed", `{"nodes": [`},
		{"self loop", `{"nodes":[{"id":0}],"edges":[{"from":0,"to":0}]}`},
		{"unknown node", `{"nodes":[{"id":0}],"edges":[{"from":0,"to":1}]}`},
		{"duplicate", `{"nodes":[{"id":0},{"id":1}],"edges":[{"from":0,"to":1},{"from":1,"to":0}]}`},
		{"negative id", `{"nodes":[{"id":-1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ReadJSON(strings.NewReader(tt.in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExportFile(t *testing.T) {
	g, m := built(t, voxel.ArrayDimensions{X: 2, Y: 1, Z: 1}, []int{0, 1}, grid.Bounded)
	dir := t.TempDir()
	for _, f := range FormatNames() {
		path := filepath.Join(dir, "out"+Extension(f))
		n, err := ExportFile(path, f, g, m)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() != n || n == 0 {
			t.Errorf("%s: wrote %d bytes, file has %v (%v)", f, n, info, err)
		}
	}

	if _, err := ExportFile(filepath.Join(dir, "x"), "xml", g, m); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("xml: got %v, want INVALID_FORMAT", err)
	}
	if _, _, err := ImportJSON(filepath.Join(dir, "out.json")); err != nil {
		t.Errorf("ImportJSON: %v", err)
	}
}
