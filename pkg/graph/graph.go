package graph

import (
	"cmp"
	"errors"
	"slices"
)

var (
	// ErrSelfLoop is returned by [Undirected.AddEdge] when both endpoints are
	// the same node.
	ErrSelfLoop = errors.New("self-loop")

	// ErrDuplicateEdge is returned by [Undirected.AddEdge] when the unordered
	// pair is already connected.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrUnknownNode is returned when an edge endpoint or phase target was
	// never added with AddNode.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNegativeNodeID is returned by [Undirected.AddNode] for ids below zero.
	ErrNegativeNodeID = errors.New("node ID must not be negative")
)

// Sink is the capability set the grid builder needs from a graph backend.
type Sink interface {
	AddNode(id int) error
	HasEdge(a, b int) bool
	AddEdge(a, b int) error
}

// View is the read side used by exporters and renderers.
type View interface {
	NodeCount() int
	EdgeCount() int
	Nodes() []int
	Neighbors(id int) []int
	Degree(id int) int
}

// PhaseSetter is implemented by sinks that record a phase label per node.
type PhaseSetter interface {
	SetPhase(id, phase int) error
}

// Edge is an undirected edge in canonical form, A < B.
type Edge struct {
	A, B int
}

// NewEdge returns the canonical edge for the pair.
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Undirected is a simple undirected graph over dense integer node ids.
//
// The zero value is an empty graph ready for use.
type Undirected struct {
	adj     [][]int32
	present []bool
	phase   []int32
	nodes   int
	edges   int
}

// New returns an empty graph with room for n nodes.
func New(n int) *Undirected {
	return &Undirected{
		adj:     make([][]int32, 0, n),
		present: make([]bool, 0, n),
		phase:   make([]int32, 0, n),
	}
}

// AddNode inserts id. Adding an existing node is a no-op.
func (g *Undirected) AddNode(id int) error {
	if id < 0 {
		return ErrNegativeNodeID
	}
	if id >= len(g.present) {
		g.grow(id + 1)
	}
	if !g.present[id] {
		g.present[id] = true
		g.nodes++
	}
	return nil
}

func (g *Undirected) grow(n int) {
	extra := n - len(g.present)
	g.adj = append(g.adj, make([][]int32, extra)...)
	g.present = append(g.present, make([]bool, extra)...)
	g.phase = append(g.phase, make([]int32, extra)...)
}

// HasNode reports whether id was added.
func (g *Undirected) HasNode(id int) bool {
	return id >= 0 && id < len(g.present) && g.present[id]
}

// HasEdge reports whether a and b are adjacent. It is symmetric and false
// for unknown nodes and for a == b.
func (g *Undirected) HasEdge(a, b int) bool {
	if !g.HasNode(a) || !g.HasNode(b) || a == b {
		return false
	}
	// scan the shorter list
	if len(g.adj[a]) > len(g.adj[b]) {
		a, b = b, a
	}
	return slices.Contains(g.adj[a], int32(b))
}

// AddEdge inserts the undirected edge {a, b}.
func (g *Undirected) AddEdge(a, b int) error {
	if a == b {
		return ErrSelfLoop
	}
	if !g.HasNode(a) || !g.HasNode(b) {
		return ErrUnknownNode
	}
	if g.HasEdge(a, b) {
		return ErrDuplicateEdge
	}
	g.adj[a] = append(g.adj[a], int32(b))
	g.adj[b] = append(g.adj[b], int32(a))
	g.edges++
	return nil
}

// SetPhase records the phase label of id.
func (g *Undirected) SetPhase(id, phase int) error {
	if !g.HasNode(id) {
		return ErrUnknownNode
	}
	g.phase[id] = int32(phase)
	return nil
}

// Phase returns the phase label of id and whether id exists.
func (g *Undirected) Phase(id int) (int, bool) {
	if !g.HasNode(id) {
		return 0, false
	}
	return int(g.phase[id]), true
}

// NodeCount returns the number of nodes.
func (g *Undirected) NodeCount() int { return g.nodes }

// EdgeCount returns the number of undirected edges.
func (g *Undirected) EdgeCount() int { return g.edges }

// Nodes returns all node ids in ascending order.
func (g *Undirected) Nodes() []int {
	out := make([]int, 0, g.nodes)
	for id, ok := range g.present {
		if ok {
			out = append(out, id)
		}
	}
	return out
}

// Neighbors returns the neighbors of id in ascending order, or nil for an
// unknown node.
func (g *Undirected) Neighbors(id int) []int {
	if !g.HasNode(id) {
		return nil
	}
	out := make([]int, len(g.adj[id]))
	for i, n := range g.adj[id] {
		out[i] = int(n)
	}
	slices.Sort(out)
	return out
}

// Degree returns the number of neighbors of id.
func (g *Undirected) Degree(id int) int {
	if !g.HasNode(id) {
		return 0
	}
	return len(g.adj[id])
}

// Edges returns every edge once, A < B, sorted by (A, B).
func (g *Undirected) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for a, ns := range g.adj {
		for _, n := range ns {
			if b := int(n); a < b {
				out = append(out, Edge{A: a, B: b})
			}
		}
	}
	slices.SortFunc(out, func(x, y Edge) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return out
}

// DegreeHistogram maps each degree to the number of nodes having it.
func (g *Undirected) DegreeHistogram() map[int]int {
	h := make(map[int]int)
	for id, ok := range g.present {
		if ok {
			h[len(g.adj[id])]++
		}
	}
	return h
}
