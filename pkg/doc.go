// Package pkg provides the core libraries for voxelgraph.
//
// # Overview
//
// voxelgraph turns a 2D or 3D array of phase labels (a voxel array) into an
// undirected graph: every voxel is a node and every pair of voxels touching
// by a face, an edge or a corner is connected. With periodic boundaries the
// grid wraps around into a torus. The pkg directory is organized into:
//
//  1. [voxel] - Voxel arrays, dimensions and the text/binary file formats
//  2. [grid] - The 26-connected edge builder and contact classification
//  3. [graph] - The undirected graph the builder writes into
//  4. [io] - Graph exports (adjacency list, edge list, JSON)
//  5. [pipeline] - Orchestration (read → build → export) with caching
//
// # Architecture
//
// The typical data flow:
//
//	voxel array file (text or binary, optionally compressed)
//	         ↓
//	    [voxel] package (decode + validate labels)
//	         ↓
//	    [grid] package (nodes + 26-neighborhood edges)
//	         ↓
//	    [graph] package (adjacency storage)
//	         ↓
//	    [io] / [render/nodelink] (adjacency, edgelist, JSON, SVG/PNG/DOT)
//
// # Quick Start
//
//	a, err := voxel.ReadFile("sample.txt", voxel.ReadOptions{Phases: 2})
//	if err != nil {
//	    return err
//	}
//	g := graph.New(a.Len())
//	if _, err := grid.Build(ctx, g, a.Dims, a.Labels, grid.Options{Boundary: grid.Periodic}); err != nil {
//	    return err
//	}
//	return io.WriteAdjacency(os.Stdout, g)
//
// # Supporting Packages
//
// [cache] - Graph cache backends (file, Redis, null) keyed by input hash and
// the options that change the edge set.
//
// [errors] - Error codes shared by every package.
//
// [observability] - Hooks for read, build, export and cache events.
//
// [metrics] - Prometheus implementation of the observability hooks.
//
// [render/nodelink] - Grid-positioned Graphviz drawings of small graphs.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/grid/...     # Specific package
//	go test -run Example       # Examples only
//
// [voxel]: https://pkg.go.dev/github.com/matzehuels/voxelgraph/pkg/voxel
// [grid]: https://pkg.go.dev/github.com/matzehuels/voxelgraph/pkg/grid
// [graph]: https://pkg.go.dev/github.com/matzehuels/voxelgraph/pkg/graph
// [io]: https://pkg.go.dev/github.com/matzehuels/voxelgraph/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/voxelgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/voxelgraph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/voxelgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/voxelgraph/pkg/observability
// [metrics]: https://pkg.go.dev/github.com/matzehuels/voxelgraph/pkg/metrics
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/voxelgraph/pkg/render/nodelink
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/voxelgraph/pkg/buildinfo
package pkg
