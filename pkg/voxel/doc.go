// Package voxel models a voxelized material microstructure: a regular
// X×Y×Z grid whose cells carry an integer phase label.
//
// # Dimensions
//
// [ArrayDimensions] holds the grid extents read from an input file. A zero
// Z extent means a single-layer 2D grid and is normalized to 1 by
// [ArrayDimensions.Normalize]. [GraphDimensions] derives the graph sizing
// from it: NBulk voxel nodes plus a reserved BoundaryCount of virtual
// nodes.
//
// # Linearization
//
// Every voxel (x, y, z) maps to a dense node identifier
//
//	id = x*(Y*Z) + y*Z + z
//
// via [ArrayDimensions.Index]; [ArrayDimensions.Coord] is the inverse.
// Readers assign labels in file order, which is exactly this order, so the
// identifiers produced while reading and those computed by the grid builder
// always agree.
//
// # Reading
//
// [ReadFile] and [Read] decode an [Array]. Input may be plain text
//
//	<x> <y> <z>
//	<phase> <phase> ...
//	...
//
// or the compact binary format, optionally wrapped in gzip, zstd or framed
// snappy compression. The encoding is sniffed from the stream, so callers
// never name it. A failed read returns a nil array: dimensions are only
// committed after every label has been read and checked.
//
// Errors carry codes from [github.com/matzehuels/voxelgraph/pkg/errors]:
// FILE_NOT_FOUND, MALFORMED_INPUT, DIMENSION_MISMATCH and
// INVALID_PHASE_LABEL.
package voxel
