// Package nodelink draws small voxel adjacency graphs as node-link diagrams.
//
// # Overview
//
// [ToDOT] emits an undirected Graphviz graph: one filled circle per voxel,
// coloured by phase, pinned at its grid position so the picture reads like
// the voxel array itself. Z layers are laid out side by side from left to
// right. Edges that only exist because of periodic wrap-around are dashed.
//
//	dot, err := nodelink.ToDOT(g, nodelink.Options{Dims: dims})
//	svg, err := nodelink.RenderSVG(dot)
//
// Rendering uses the WebAssembly build of Graphviz bundled with
// github.com/goccy/go-graphviz, so no system Graphviz install is needed.
//
// # Size Limit
//
// A 26-connected grid has roughly 13 edges per voxel, so drawings stop being
// useful long before the builder's limits. ToDOT refuses graphs with more
// than Options.MaxNodes nodes ([DefaultMaxNodes] when zero) and returns
// [ErrTooLarge].
package nodelink
