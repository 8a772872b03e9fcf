package nodelink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/voxelgraph/pkg/graph"
	"github.com/matzehuels/voxelgraph/pkg/grid"
	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

// DefaultMaxNodes bounds the graphs ToDOT accepts when Options.MaxNodes is 0.
const DefaultMaxNodes = 2000

// ErrTooLarge is returned by [ToDOT] for graphs above the node limit.
var ErrTooLarge = errors.New("graph too large to draw")

// spacing is the distance between voxel centers in inches.
const spacing = 0.6

// Palette colours phases 0, 1, 2...; phases beyond it reuse the last entry.
var Palette = []string{"#f4f1de", "#3d405b", "#e07a5f", "#81b29a", "#f2cc8f"}

// Graph is the read side ToDOT needs.
type Graph interface {
	graph.View
	Edges() []graph.Edge
	Phase(id int) (int, bool)
}

// Options configures node-link rendering.
type Options struct {
	Dims     voxel.ArrayDimensions
	Boundary grid.Boundary
	// MaxNodes overrides DefaultMaxNodes.
	MaxNodes int
	// Labels prints node ids inside the circles.
	Labels bool
}

func (o Options) maxNodes() int {
	if o.MaxNodes > 0 {
		return o.MaxNodes
	}
	return DefaultMaxNodes
}

// ToDOT converts g to Graphviz DOT with pinned node positions.
func ToDOT(g Graph, opts Options) (string, error) {
	if n := g.NodeCount(); n > opts.maxNodes() {
		return "", fmt.Errorf("%w: %d nodes (limit %d)", ErrTooLarge, n, opts.maxNodes())
	}
	d := opts.Dims.Normalize()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.3, fontsize=8, color=\"#555555\"];\n")
	buf.WriteString("  edge [color=\"#99999988\"];\n")
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		phase, _ := g.Phase(id)
		x, y := position(d, id)
		label := ""
		if opts.Labels {
			label = strconv.Itoa(id)
		}
		fmt.Fprintf(&buf, "  %d [label=%q, fillcolor=%q, fontcolor=%q, pos=\"%.2f,%.2f!\"];\n",
			id, label, phaseColor(phase), fontColor(phase), x, y)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if _, ok := grid.Classify(d, e.A, e.B, grid.Bounded); !ok && opts.Boundary == grid.Periodic {
			fmt.Fprintf(&buf, "  %d -- %d [style=dashed];\n", e.A, e.B)
			continue
		}
		fmt.Fprintf(&buf, "  %d -- %d;\n", e.A, e.B)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// position returns the pinned drawing position of voxel id. Layers are
// placed side by side with a one-voxel gap; y grows downward like the file.
func position(d voxel.ArrayDimensions, id int) (float64, float64) {
	c := d.Coord(id)
	col := c.X + c.Z*(d.X+1)
	return float64(col) * spacing, float64(-c.Y) * spacing
}

func phaseColor(phase int) string {
	if phase < 0 {
		phase = 0
	}
	return Palette[min(phase, len(Palette)-1)]
}

func fontColor(phase int) string {
	if phase == 1 {
		return "white"
	}
	return "black"
}

// RenderSVG lays out a DOT graph with neato (honouring pinned positions) and
// renders it to SVG.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
