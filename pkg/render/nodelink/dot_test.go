package nodelink

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/voxelgraph/pkg/graph"
	"github.com/matzehuels/voxelgraph/pkg/grid"
	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

func buildGraph(t *testing.T, d voxel.ArrayDimensions, b grid.Boundary) *graph.Undirected {
	t.Helper()
	d = d.Normalize()
	labels := make([]int, d.Volume())
	for i := range labels {
		labels[i] = i % 2
	}
	g := graph.New(d.Volume())
	if _, err := grid.Build(context.Background(), g, d, labels, grid.Options{Boundary: b}); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	d := voxel.ArrayDimensions{X: 2, Y: 2, Z: 0}
	g := buildGraph(t, d, grid.Bounded)
	dot, err := ToDOT(g, Options{Dims: d, Labels: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"graph G {", `0 [label="0"`, "0 -- 3;", Palette[1], `pos="0.60,0.00!"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Count(dot, " -- ") != 6 {
		t.Errorf("want 6 edges in DOT")
	}
	if strings.Contains(dot, "dashed") {
		t.Error("bounded graph has dashed edges")
	}
}

func TestToDOTPeriodicDashed(t *testing.T) {
	d := voxel.ArrayDimensions{X: 3, Y: 1, Z: 0}
	g := buildGraph(t, d, grid.Periodic)
	dot, err := ToDOT(g, Options{Dims: d, Boundary: grid.Periodic})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, "0 -- 2 [style=dashed];") {
		t.Errorf("wrapped edge not dashed:\n%s", dot)
	}
}

func TestToDOTTooLarge(t *testing.T) {
	d := voxel.ArrayDimensions{X: 3, Y: 3, Z: 3}
	g := buildGraph(t, d, grid.Bounded)
	_, err := ToDOT(g, Options{Dims: d, MaxNodes: 10})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("got %v, want ErrTooLarge", err)
	}
}

func TestPosition(t *testing.T) {
	d := voxel.ArrayDimensions{X: 2, Y: 2, Z: 2}
	// voxel (1,0,1) sits in the second layer block: column 1 + 1*(2+1) = 4
	x, y := position(d, d.Index(voxel.Coord{X: 1, Y: 0, Z: 1}))
	if x != 4*spacing || y != 0 {
		t.Errorf("position = %v,%v", x, y)
	}
}

func TestPhaseColor(t *testing.T) {
	if phaseColor(0) != Palette[0] || phaseColor(99) != Palette[len(Palette)-1] || phaseColor(-3) != Palette[0] {
		t.Error("phaseColor out of palette")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.25" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.50 200.25"`) || !strings.Contains(out, `width="100"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should be unchanged: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz wasm startup is slow")
	}
	d := voxel.ArrayDimensions{X: 2, Y: 1, Z: 0}
	dot, _ := ToDOT(buildGraph(t, d, grid.Bounded), Options{Dims: d})
	svg, err := RenderSVG(dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
}
