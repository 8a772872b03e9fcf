package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/voxelgraph/pkg/errors"
	"github.com/matzehuels/voxelgraph/pkg/graph"
	"github.com/matzehuels/voxelgraph/pkg/grid"
	vio "github.com/matzehuels/voxelgraph/pkg/io"
	"github.com/matzehuels/voxelgraph/pkg/render/nodelink"
	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

// Layer viewer styles
var (
	cellCursorStyle = lipgloss.NewStyle().Reverse(true).Bold(true)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command: an interactive layer viewer,
// or a plain summary with --summary.
func (c *CLI) inspectCommand() *cobra.Command {
	var f buildFlags
	var summary bool
	var graphFile string

	cmd := &cobra.Command{
		Use:   "inspect [array-file]",
		Short: "Browse the layers of a voxel array and the degree of each voxel",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, m, phases, err := c.loadInspectGraph(cmd, args, f, graphFile)
			if err != nil {
				return err
			}
			if summary {
				return writeSummary(cmd.OutOrStdout(), g, phases, m.Dims, m.Boundary)
			}
			return runLayerViewer(cmd.Context(), newLayerModel(g, m.Dims, m.Boundary))
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&summary, "summary", false, "print phase counts and the degree histogram instead of the viewer")
	cmd.Flags().StringVar(&graphFile, "graph", "", "inspect a graph exported with --format json instead of a voxel array")
	return cmd
}

// loadInspectGraph returns the graph from --graph or builds it from the
// array, along with the voxel count of each phase.
func (c *CLI) loadInspectGraph(cmd *cobra.Command, args []string, f buildFlags, graphFile string) (*graph.Undirected, vio.Meta, map[int]int, error) {
	if graphFile != "" {
		if len(args) > 0 || f.array != "" {
			return nil, vio.Meta{}, nil, errors.New(errors.ErrCodeInvalidInput, "--graph cannot be combined with a voxel array")
		}
		g, m, err := vio.ImportJSON(graphFile)
		if err != nil {
			return nil, vio.Meta{}, nil, err
		}
		c.Logger.Debug("loaded graph", "path", graphFile, "nodes", g.NodeCount())
		return g, m, graphPhaseCounts(g), nil
	}

	opts, err := f.options(cmd, args)
	if err != nil {
		return nil, vio.Meta{}, nil, err
	}
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, f.cache)
	if err != nil {
		return nil, vio.Meta{}, nil, err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, vio.Meta{}, nil, err
	}
	// A cache hit carries no array.
	if res.Array != nil {
		return res.Graph, res.Meta, res.Array.PhaseCounts(), nil
	}
	return res.Graph, res.Meta, graphPhaseCounts(res.Graph), nil
}

func graphPhaseCounts(g *graph.Undirected) map[int]int {
	phases := map[int]int{}
	for _, id := range g.Nodes() {
		p, _ := g.Phase(id)
		phases[p]++
	}
	return phases
}

func runLayerViewer(ctx context.Context, m layerModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// writeSummary prints grid size, phase counts and the degree histogram.
func writeSummary(w io.Writer, g *graph.Undirected, phases map[int]int, d voxel.ArrayDimensions, b grid.Boundary) error {
	hist := g.DegreeHistogram()

	var sb strings.Builder
	fmt.Fprintf(&sb, "grid      %s (%s)\n", d, b)
	fmt.Fprintf(&sb, "nodes     %s\n", humanize.Comma(int64(g.NodeCount())))
	fmt.Fprintf(&sb, "edges     %s\n", humanize.Comma(int64(g.EdgeCount())))
	for _, p := range sortedKeys(phases) {
		fmt.Fprintf(&sb, "phase %-3d %s\n", p, humanize.Comma(int64(phases[p])))
	}
	for _, deg := range sortedKeys(hist) {
		fmt.Fprintf(&sb, "degree %-2d %s\n", deg, humanize.Comma(int64(hist[deg])))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// =============================================================================
// layerModel - Interactive z-layer viewer
// =============================================================================

// layerModel is the bubbletea model for browsing one z layer at a time.
// Rows are x and columns are y, matching the text file layout.
type layerModel struct {
	g        *graph.Undirected
	dims     voxel.ArrayDimensions
	boundary grid.Boundary

	cursor voxel.Coord
	rows   int // visible rows
	cols   int // visible columns
}

func newLayerModel(g *graph.Undirected, d voxel.ArrayDimensions, b grid.Boundary) layerModel {
	return layerModel{g: g, dims: d.Normalize(), boundary: b, rows: 20, cols: 40}
}

func (m layerModel) Init() tea.Cmd {
	return nil
}

func (m layerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.cursor.X = max(m.cursor.X-1, 0)
		case "down", "j":
			m.cursor.X = min(m.cursor.X+1, m.dims.X-1)
		case "left", "h":
			m.cursor.Y = max(m.cursor.Y-1, 0)
		case "right", "l":
			m.cursor.Y = min(m.cursor.Y+1, m.dims.Y-1)
		case "pgup", "[":
			m.cursor.Z = max(m.cursor.Z-1, 0)
		case "pgdown", "]":
			m.cursor.Z = min(m.cursor.Z+1, m.dims.Z-1)
		}
	case tea.WindowSizeMsg:
		m.rows = max(msg.Height-8, 3)
		m.cols = max(msg.Width/2-1, 3)
	}
	return m, nil
}

// window returns the first visible index of an axis of extent n so that
// pos stays inside a window of size span.
func window(pos, n, span int) int {
	if n <= span {
		return 0
	}
	start := pos - span/2
	return max(0, min(start, n-span))
}

func (m layerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Layer z=%d of %d", m.cursor.Z, m.dims.Z)))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s %s", m.dims, m.boundary)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows/hjkl: move  [ ]: layer  q: quit"))
	b.WriteString("\n\n")

	x0 := window(m.cursor.X, m.dims.X, m.rows)
	y0 := window(m.cursor.Y, m.dims.Y, m.cols)
	for x := x0; x < min(x0+m.rows, m.dims.X); x++ {
		for y := y0; y < min(y0+m.cols, m.dims.Y); y++ {
			c := voxel.Coord{X: x, Y: y, Z: m.cursor.Z}
			p, _ := m.g.Phase(m.dims.Index(c))
			cell := phaseCellStyle(p).Render(fmt.Sprintf("%d", p))
			if c == m.cursor {
				cell = cellCursorStyle.Render(fmt.Sprintf("%d", p))
			}
			b.WriteString(cell)
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.details())
	return b.String()
}

// details describes the voxel under the cursor.
func (m layerModel) details() string {
	id := m.dims.Index(m.cursor)
	p, _ := m.g.Phase(id)
	counts := map[grid.Contact]int{}
	same := 0
	for _, n := range m.g.Neighbors(id) {
		if k, ok := grid.Classify(m.dims, id, n, m.boundary); ok {
			counts[k]++
		}
		if q, _ := m.g.Phase(n); q == p {
			same++
		}
	}
	return fmt.Sprintf("voxel (%d,%d,%d)  id %d  phase %d\ndegree %d  face %d  edge %d  corner %d  same phase %d\n",
		m.cursor.X, m.cursor.Y, m.cursor.Z, id, p,
		m.g.Degree(id), counts[grid.ContactFace], counts[grid.ContactEdge], counts[grid.ContactCorner], same)
}

func phaseCellStyle(phase int) lipgloss.Style {
	i := min(max(phase, 0), len(nodelink.Palette)-1)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(nodelink.Palette[i]))
}
