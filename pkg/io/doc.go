// Package io exports voxel adjacency graphs for downstream analysis tools.
//
// # Overview
//
// The grid builder hands back an in-memory graph. This package writes it in
// the formats percolation and transport codes usually consume:
//
//   - [FormatJSON]: a self-describing document with grid metadata, node
//     phases and per-edge contact kind and weight
//   - [FormatAdjacency]: one line per node, "Node <id>: <n1> <n2> ...",
//     neighbors ascending
//   - [FormatEdgeList]: one "<a> <b> <weight>" line per edge, a < b
//
// Only the JSON format can be read back ([ReadJSON]); the pipeline uses it as
// the cache payload.
//
// # JSON Format
//
//	{
//	  "dims": {"x": 2, "y": 2, "z": 1},
//	  "boundary": "bounded",
//	  "pixel_size": 1,
//	  "nodes": [{"id": 0, "phase": 0}, {"id": 1, "phase": 1}, ...],
//	  "edges": [{"from": 0, "to": 1, "contact": "face", "weight": 1}, ...]
//	}
//
// Edges are listed once with from < to, sorted. The weight is the
// center-to-center distance: pixel_size × √k where k is 1 for voxels sharing
// a face, 2 for an edge and 3 for a corner. Under periodic boundaries the
// minimum image is used, so wrapped neighbors weigh the same as interior
// ones.
package io
