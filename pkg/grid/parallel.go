package grid

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/voxelgraph/pkg/graph"
	"github.com/matzehuels/voxelgraph/pkg/voxel"
)

// ctxCheckEvery is how many merged edges are inserted between context checks.
const ctxCheckEvery = 1 << 16

// packEdge encodes an unordered pair as lo<<32 | hi. Ids fit in 32 bits
// because volumes are capped at voxel.MaxVoxels.
func packEdge(a, b int) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

func unpackEdge(e uint64) (int, int) {
	return int(e >> 32), int(e & 0xffffffff)
}

// slab is a half-open range of X planes handled by one worker.
type slab struct{ lo, hi int }

func slabs(nx, workers int) []slab {
	workers = min(workers, nx)
	out := make([]slab, 0, workers)
	for w := range workers {
		out = append(out, slab{lo: w * nx / workers, hi: (w + 1) * nx / workers})
	}
	return out
}

// collectSlab returns the sorted, de-duplicated edges found from the voxels
// of s, and the number of candidate pairs examined.
func collectSlab(ctx context.Context, d voxel.ArrayDimensions, s slab, opts Options) ([]uint64, int, error) {
	offs := opts.Strategy.offsets()
	plane := d.Y * d.Z
	local := make([]uint64, 0, (s.hi-s.lo)*plane*len(halfOffsets))
	candidates := 0
	for x := s.lo; x < s.hi; x++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
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
					candidates++
					local = append(local, packEdge(id, nid))
				}
			}
		}
	}
	slices.Sort(local)
	return slices.Compact(local), candidates, nil
}

func buildParallel(ctx context.Context, sink graph.Sink, d voxel.ArrayDimensions, opts Options, stats *Stats) error {
	parts := slabs(d.X, opts.Workers)
	lists := make([][]uint64, len(parts))
	counts := make([]int, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range parts {
		g.Go(func() error {
			edges, n, err := collectSlab(gctx, d, s, opts)
			if err != nil {
				return err
			}
			lists[i], counts[i] = edges, n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	merged := slices.Concat(lists...)
	slices.Sort(merged)
	merged = slices.Compact(merged)

	for _, n := range counts {
		stats.Candidates += n
	}
	for i, e := range merged {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		a, b := unpackEdge(e)
		if err := insert(sink, a, b, stats); err != nil {
			return err
		}
	}
	return nil
}
