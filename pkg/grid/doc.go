// Package grid builds the Chebyshev adjacency graph of a voxel array.
//
// Every voxel becomes a node whose id is the linear index
// x*(Y*Z) + y*Z + z (see [voxel.ArrayDimensions.Index]). Two voxels are
// connected when they differ by at most one step on every axis, which gives
// 26 neighbors per interior voxel in 3D and 8 in a single-layer grid. The
// single-layer case needs no special handling: offsets leaving the only z
// layer fail the bounds check.
//
// # Boundaries
//
// [Bounded] discards neighbors outside the grid. [Periodic] wraps each axis
// with ((c % n) + n) % n, turning the grid into a torus. On axes shorter than
// three voxels wrapping maps distinct offsets onto the same neighbor, or onto
// the voxel itself; those candidates are dropped so the result stays a simple
// graph.
//
// # Strategies
//
// [Checked] walks all 26 offsets from every voxel and relies on
// [graph.Sink.HasEdge] to skip pairs already inserted from the other end.
// [HalfSpace] walks only the 13 offsets of [HalfOffsets], visiting each
// unordered pair once. Both produce the same edge set; HalfSpace avoids most
// existence checks.
//
// With Options.Workers > 1 the X axis is split into slabs. Each worker
// collects its slab's edges into a local sorted list, the lists are merged
// and de-duplicated, and the result is inserted into the sink from one
// goroutine, so sinks need no locking.
//
// # Contacts
//
// [Classify] reports whether an adjacent pair shares a face, an edge or a
// corner. [Contact.Weight] turns that into a center-to-center distance for
// exporters that attach weights to edges.
package grid
