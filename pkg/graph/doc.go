// Package graph provides the undirected simple graph that voxel adjacency is
// built into, and the capability interfaces the builder is written against.
//
// # Overview
//
// The grid builder never depends on a concrete graph type. It needs three
// operations, captured by [Sink]:
//
//	AddNode(id)      // insert node id (idempotent)
//	HasEdge(a, b)    // existence check, symmetric
//	AddEdge(a, b)    // insert the undirected edge {a, b}
//
// Downstream consumers (exporters, renderers, the inspect TUI) read the result
// through [View], which adds node and neighbor enumeration. Sinks that can
// store a phase label per node also implement [PhaseSetter]; the builder uses
// it when present.
//
// # Undirected
//
// [Undirected] is the default backend. Node identifiers are dense
// non-negative integers, so adjacency is a slice of int32 neighbor lists
// indexed by id. It enforces the simple-graph invariant:
//
//   - [ErrSelfLoop]: a == b
//   - [ErrDuplicateEdge]: {a, b} already present
//   - [ErrUnknownNode]: an endpoint was never added
//
// Basic use:
//
//	g := graph.New(4)
//	for id := range 4 {
//	    g.AddNode(id)
//	}
//	g.AddEdge(0, 1)
//	g.HasEdge(1, 0) // true
//
// [Undirected.Edges] returns every edge once, canonicalized as A < B and
// sorted, which gives exporters and tests a deterministic order.
//
// # Concurrency
//
// Undirected is not safe for concurrent mutation. The parallel builder
// collects per-worker edge lists and inserts them from a single goroutine.
// Concurrent reads of a finished graph are safe.
package graph
