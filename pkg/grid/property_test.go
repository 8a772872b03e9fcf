package grid

import (
	"context"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/voxelgraph/pkg/graph"
	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

func boundaryOf(periodic bool) Boundary {
	if periodic {
		return Periodic
	}
	return Bounded
}

func buildQuiet(d voxel.ArrayDimensions, opts Options) (*graph.Undirected, error) {
	d = d.Normalize()
	g := graph.New(d.Volume())
	_, err := Build(context.Background(), g, d, make([]int, d.Volume()), opts)
	return g, err
}

// TestAdjacencyInvariants checks the graph-level invariants on random grids.
func TestAdjacencyInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40

	properties := gopter.NewProperties(parameters)

	extent := gen.IntRange(1, 5)
	layers := gen.IntRange(0, 4)

	properties.Property("node count equals volume", prop.ForAll(
		func(x, y, z int, periodic bool) bool {
			d := voxel.ArrayDimensions{X: x, Y: y, Z: z}
			g, err := buildQuiet(d, Options{Boundary: boundaryOf(periodic)})
			return err == nil && g.NodeCount() == d.Normalize().Volume()
		},
		extent, extent, layers, gen.Bool(),
	))

	properties.Property("symmetric without self-loops", prop.ForAll(
		func(x, y, z int, periodic bool) bool {
			d := voxel.ArrayDimensions{X: x, Y: y, Z: z}
			g, err := buildQuiet(d, Options{Boundary: boundaryOf(periodic), Strategy: HalfSpace})
			if err != nil {
				return false
			}
			for _, a := range g.Nodes() {
				if g.HasEdge(a, a) {
					return false
				}
				for _, b := range g.Neighbors(a) {
					if !g.HasEdge(b, a) {
						return false
					}
				}
			}
			return true
		},
		extent, extent, layers, gen.Bool(),
	))

	properties.Property("degree matches neighbor count per axis", prop.ForAll(
		func(x, y, z int, periodic bool) bool {
			d := voxel.ArrayDimensions{X: x, Y: y, Z: z}.Normalize()
			b := boundaryOf(periodic)
			g, err := buildQuiet(d, Options{Boundary: b, Workers: 2})
			if err != nil {
				return false
			}
			for _, id := range g.Nodes() {
				if g.Degree(id) != expectedDegree(d, d.Coord(id), b) {
					return false
				}
			}
			return true
		},
		extent, extent, layers, gen.Bool(),
	))

	properties.Property("every edge is a Chebyshev contact", prop.ForAll(
		func(x, y, z int, periodic bool) bool {
			d := voxel.ArrayDimensions{X: x, Y: y, Z: z}
			b := boundaryOf(periodic)
			g, err := buildQuiet(d, Options{Boundary: b})
			if err != nil {
				return false
			}
			for _, e := range g.Edges() {
				if _, ok := Classify(d, e.A, e.B, b); !ok {
					return false
				}
			}
			return true
		},
		extent, extent, layers, gen.Bool(),
	))

	properties.Property("strategies and worker counts agree", prop.ForAll(
		func(x, y, z int, periodic bool, workers int) bool {
			d := voxel.ArrayDimensions{X: x, Y: y, Z: z}
			b := boundaryOf(periodic)
			ref, err := buildQuiet(d, Options{Boundary: b})
			if err != nil {
				return false
			}
			other, err := buildQuiet(d, Options{Boundary: b, Strategy: HalfSpace, Workers: workers})
			if err != nil {
				return false
			}
			return slices.Equal(ref.Edges(), other.Edges())
		},
		extent, extent, layers, gen.Bool(), gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}

func TestPeriodicFullDegree(t *testing.T) {
	for _, d := range []voxel.ArrayDimensions{{3, 3, 3}, {3, 4, 5}, {6, 3, 0}} {
		g, err := buildQuiet(d, Options{Boundary: Periodic, Strategy: HalfSpace, Workers: 2})
		require.NoError(t, err)

		want := 26
		if d.Normalize().Is2D() {
			want = 8
		}
		hist := g.DegreeHistogram()
		assert.Len(t, hist, 1, "%v: all nodes must share one degree", d)
		assert.Equal(t, d.Normalize().Volume(), hist[want], "%v: nodes with degree %d", d, want)
		assert.Equal(t, d.Normalize().Volume()*want/2, g.EdgeCount())
	}
}

func TestClassify(t *testing.T) {
	d := voxel.ArrayDimensions{X: 4, Y: 4, Z: 4}
	origin := d.Index(voxel.Coord{})

	tests := []struct {
		name     string
		to       voxel.Coord
		boundary Boundary
		want     Contact
		ok       bool
	}{
		{"face", voxel.Coord{X: 1}, Bounded, ContactFace, true},
		{"edge", voxel.Coord{X: 1, Z: 1}, Bounded, ContactEdge, true},
		{"corner", voxel.Coord{X: 1, Y: 1, Z: 1}, Bounded, ContactCorner, true},
		{"too far", voxel.Coord{X: 2}, Bounded, 0, false},
		{"wrapped face", voxel.Coord{X: 3}, Periodic, ContactFace, true},
		{"wrapped corner", voxel.Coord{X: 3, Y: 3, Z: 1}, Periodic, ContactCorner, true},
		{"not wrapped when bounded", voxel.Coord{X: 3}, Bounded, 0, false},
		{"self", voxel.Coord{}, Bounded, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(d, origin, d.Index(tt.to), tt.boundary)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Classify(d, origin, 1000, Bounded)
	assert.False(t, ok, "out of range id")
}

func TestContactWeight(t *testing.T) {
	assert.InDelta(t, 2.0, ContactFace.Weight(2), 1e-12)
	assert.InDelta(t, 2*1.4142135623730951, ContactEdge.Weight(2), 1e-12)
	assert.InDelta(t, 1.7320508075688772, ContactCorner.Weight(1), 1e-12)
	assert.Equal(t, "corner", ContactCorner.String())
	assert.Equal(t, "none", Contact(0).String())
}
