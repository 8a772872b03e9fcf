package grid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/voxelgraph/pkg/errors"
	"github.com/matzehuels/voxelgraph/pkg/graph"
	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

// Boundary selects how neighbors outside the grid are treated.
type Boundary int

const (
	// Bounded discards out-of-range neighbors.
	Bounded Boundary = iota
	// Periodic wraps out-of-range neighbors around each axis.
	Periodic
)

func (b Boundary) String() string {
	if b == Periodic {
		return "periodic"
	}
	return "bounded"
}

// Strategy selects how duplicate pairs are avoided.
type Strategy int

const (
	// Checked visits all 26 offsets and checks for an existing edge before
	// each insert.
	Checked Strategy = iota
	// HalfSpace visits the 13 positive offsets only.
	HalfSpace
)

func (s Strategy) String() string {
	if s == HalfSpace {
		return "halfspace"
	}
	return "checked"
}

// ParseStrategy maps a flag value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "", "checked":
		return Checked, nil
	case "halfspace", "half-space", "half":
		return HalfSpace, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput,
			"unknown strategy %q (must be checked or halfspace)", s)
	}
}

func (s Strategy) offsets() []Offset {
	if s == HalfSpace {
		return halfOffsets
	}
	return offsets
}

// Options configures [Build]. The zero value builds a bounded graph with the
// checked strategy on one goroutine.
type Options struct {
	Boundary Boundary
	Strategy Strategy
	// Workers > 1 enables the slab-parallel edge generator.
	Workers int
}

// Stats summarizes one Build call.
type Stats struct {
	Nodes      int           // nodes passed to AddNode
	Edges      int           // edges inserted by this call
	Candidates int           // in-range neighbor pairs examined
	Existing   int           // candidates skipped because HasEdge was true
	Duration   time.Duration // wall time
}

// Build inserts one node per label and every Chebyshev-adjacent pair of dims
// into sink. Labels are forwarded to sinks implementing [graph.PhaseSetter].
//
// Build fails with DIMENSION_MISMATCH when dims describes a different number
// of voxels than len(labels), and with INVALID_INPUT for negative extents.
// Sink errors and context cancellation abort the build; the sink then holds
// a partial graph that the caller must discard.
//
// Building the same grid into the same sink twice adds no edges.
func Build(ctx context.Context, sink graph.Sink, dims voxel.ArrayDimensions, labels []int, opts Options) (Stats, error) {
	start := time.Now()
	var stats Stats

	dims = dims.Normalize()
	if err := dims.Validate(); err != nil {
		return stats, err
	}
	if dims.Volume() != len(labels) {
		return stats, errors.New(errors.ErrCodeDimensionMismatch,
			"dimensions %s describe %d voxels, got %d labels", dims, dims.Volume(), len(labels))
	}

	if err := addNodes(sink, labels); err != nil {
		return stats, err
	}
	stats.Nodes = len(labels)

	var err error
	if opts.Workers > 1 && dims.X > 1 {
		err = buildParallel(ctx, sink, dims, opts, &stats)
	} else {
		err = buildSequential(ctx, sink, dims, opts, &stats)
	}
	stats.Duration = time.Since(start)
	return stats, err
}

func addNodes(sink graph.Sink, labels []int) error {
	ps, _ := sink.(graph.PhaseSetter)
	for id, l := range labels {
		if err := sink.AddNode(id); err != nil {
			return fmt.Errorf("add node %d: %w", id, err)
		}
		if ps != nil {
			if err := ps.SetPhase(id, l); err != nil {
				return fmt.Errorf("set phase of node %d: %w", id, err)
			}
		}
	}
	return nil
}

func buildSequential(ctx context.Context, sink graph.Sink, d voxel.ArrayDimensions, opts Options, stats *Stats) error {
	offs := opts.Strategy.offsets()
	for x := 0; x < d.X; x++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for y := 0; y < d.Y; y++ {
			for z := 0; z < d.Z; z++ {
				c := voxel.Coord{X: x, Y: y, Z: z}
				id := d.Index(c)
				for _, o := range offs {
					nb, ok := neighbor(d, c, o, opts.Boundary)
					if !ok {
						continue
					}
					nid := d.Index(nb)
					if nid == id {
						continue
					}
					stats.Candidates++
					if err := insert(sink, id, nid, stats); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// insert adds {a, b} unless the sink already has it.
func insert(sink graph.Sink, a, b int, stats *Stats) error {
	if sink.HasEdge(a, b) {
		stats.Existing++
		return nil
	}
	if err := sink.AddEdge(a, b); err != nil {
		return fmt.Errorf("add edge %d-%d: %w", a, b, err)
	}
	stats.Edges++
	return nil
}

// neighbor applies o to c under the boundary policy.
func neighbor(d voxel.ArrayDimensions, c voxel.Coord, o Offset, b Boundary) (voxel.Coord, bool) {
	n := voxel.Coord{X: c.X + o.DX, Y: c.Y + o.DY, Z: c.Z + o.DZ}
	if b == Periodic {
		n.X, n.Y, n.Z = wrap(n.X, d.X), wrap(n.Y, d.Y), wrap(n.Z, d.Z)
		return n, true
	}
	return n, d.Contains(n)
}

func wrap(c, n int) int {
	return ((c % n) + n) % n
}
