package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/voxelgraph/pkg/graph"
	"github.com/matzehuels/voxelgraph/pkg/grid"
	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

func buildGraph(t *testing.T, d voxel.ArrayDimensions, labels []int, b grid.Boundary) *graph.Undirected {
	t.Helper()
	g := graph.New(len(labels))
	if _, err := grid.Build(context.Background(), g, d, labels, grid.Options{Boundary: b}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWriteSummary(t *testing.T) {
	d := voxel.ArrayDimensions{X: 2, Y: 2, Z: 1}
	g := buildGraph(t, d, []int{0, 1, 1, 0}, grid.Bounded)

	var buf bytes.Buffer
	if err := writeSummary(&buf, g, graphPhaseCounts(g), d, grid.Bounded); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"grid      2x2x1 (bounded)",
		"nodes     4",
		"edges     6",
		"phase 0   2",
		"phase 1   2",
		"degree 3  4",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("summary =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestInspectSummaryCommand(t *testing.T) {
	input := writeFile(t, t.TempDir(), "three.txt", "3 1 0\n0\n2\n2\n")
	out, err := runCLI(t, "inspect", input, "--summary", "--no-cache", "--phases", "3")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"edges     2", "phase 0   1", "phase 2   2"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestInspectSummaryFromCache(t *testing.T) {
	input := writeFile(t, t.TempDir(), "square.txt", squareGrid)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envRedisURL, "")

	run := func(args ...string) string {
		var out bytes.Buffer
		root := New(io.Discard, LogInfo).RootCommand()
		root.SetOut(&out)
		root.SetArgs(args)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatal(err)
		}
		return out.String()
	}
	run("build", input, "-r", t.TempDir())
	out := run("inspect", input, "--summary")
	if !strings.Contains(out, "phase 1   2") {
		t.Errorf("summary from cache missing phase count:\n%s", out)
	}
}

func TestLayerModelNavigation(t *testing.T) {
	d := voxel.ArrayDimensions{X: 3, Y: 3, Z: 3}
	g := buildGraph(t, d, make([]int, 27), grid.Bounded)

	var m tea.Model = newLayerModel(g, d, grid.Bounded)
	for _, k := range []string{"j", "l", "]", "j", "j", "k"} {
		m, _ = m.Update(key(k))
	}
	lm := m.(layerModel)
	if want := (voxel.Coord{X: 1, Y: 1, Z: 1}); lm.cursor != want {
		t.Fatalf("cursor = %+v, want %+v", lm.cursor, want)
	}

	details := lm.details()
	for _, want := range []string{"voxel (1,1,1)", "id 13", "degree 26", "face 6", "edge 12", "corner 8", "same phase 26"} {
		if !strings.Contains(details, want) {
			t.Errorf("details missing %q:\n%s", want, details)
		}
	}

	view := lm.View()
	if !strings.Contains(view, "Layer z=1 of 3") {
		t.Errorf("view header wrong:\n%s", view)
	}
}

func TestLayerModelClampsAndQuits(t *testing.T) {
	d := voxel.ArrayDimensions{X: 2, Y: 2, Z: 1}
	g := buildGraph(t, d, []int{0, 1, 1, 0}, grid.Periodic)

	var m tea.Model = newLayerModel(g, d, grid.Periodic)
	for _, k := range []string{"k", "h", "[", "]"} {
		m, _ = m.Update(key(k))
	}
	if c := m.(layerModel).cursor; c != (voxel.Coord{}) {
		t.Errorf("cursor should stay at origin, got %+v", c)
	}

	m, _ = m.Update(tea.WindowSizeMsg{Width: 10, Height: 5})
	lm := m.(layerModel)
	if lm.rows != 3 || lm.cols != 4 {
		t.Errorf("window = %dx%d, want 3x4", lm.rows, lm.cols)
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestWindow(t *testing.T) {
	tests := []struct{ pos, n, span, want int }{
		{0, 5, 10, 0},
		{0, 100, 10, 0},
		{50, 100, 10, 45},
		{99, 100, 10, 90},
	}
	for _, tt := range tests {
		if got := window(tt.pos, tt.n, tt.span); got != tt.want {
			t.Errorf("window(%d, %d, %d) = %d, want %d", tt.pos, tt.n, tt.span, got, tt.want)
		}
	}
}

func TestInspectGraphFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "line.txt", "3 1 0\n0 1 0\n")
	if _, err := runCLI(t, "build", input, "-p", "-r", dir, "-f", "json", "--no-cache"); err != nil {
		t.Fatalf("build: %v", err)
	}

	out, err := runCLI(t, "inspect", "--graph", filepath.Join(dir, "line.json"), "--summary")
	if err != nil {
		t.Fatalf("inspect --graph: %v", err)
	}
	for _, want := range []string{"grid      3x1x1 (periodic)", "edges     3", "degree 2  3"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "inspect", input, "--graph", filepath.Join(dir, "line.json")); err == nil {
		t.Error("--graph with an array should fail")
	}
}
