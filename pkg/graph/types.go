package graph

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"

	"github.com/matzehuels/stationcover/pkg/errors"
)

// Edge is an undirected edge stored with A < B.
type Edge struct {
	A, B int
}

// Graph is an immutable undirected graph over vertices [0, N).
//
// Membership queries go through one roaring bitmap per vertex; iteration uses
// the sorted neighbor slices materialized at build time.
//
// The zero value is an empty graph with no vertices.
type Graph struct {
	n     int
	m     int
	sets  []*roaring.Bitmap
	adj   [][]int
	edges []Edge
}

// Builder accumulates edges for a graph with a fixed vertex count.
// Call [Builder.Build] once all edges are added; the builder must not be used
// afterwards.
type Builder struct {
	n    int
	sets []*roaring.Bitmap
}

// NewBuilder creates a builder for a graph with n vertices. Negative n is
// treated as zero.
func NewBuilder(n int) *Builder {
	if n < 0 {
		n = 0
	}
	sets := make([]*roaring.Bitmap, n)
	for i := range sets {
		sets[i] = roaring.New()
	}
	return &Builder{n: n, sets: sets}
}

// AddEdge records the undirected edge a-b. Adding an edge twice is a no-op.
// Out-of-range ids and self-loops are rejected with an INVALID_INPUT error.
func (b *Builder) AddEdge(a, c int) error {
	if a < 0 || a >= b.n || c < 0 || c >= b.n {
		return errors.New(errors.ErrCodeInvalidInput, "edge %d-%d references a vertex outside [0, %d)", a, c, b.n)
	}
	if a == c {
		return errors.New(errors.ErrCodeInvalidInput, "self-loop on vertex %d", a)
	}
	b.sets[a].Add(uint32(c))
	b.sets[c].Add(uint32(a))
	return nil
}

// Build freezes the builder into a Graph.
func (b *Builder) Build() *Graph {
	g := &Graph{
		n:    b.n,
		sets: b.sets,
		adj:  make([][]int, b.n),
	}
	for v, set := range b.sets {
		set.RunOptimize()
		ids := set.ToArray()
		nbrs := make([]int, len(ids))
		for i, u := range ids {
			nbrs[i] = int(u)
			if v < int(u) {
				g.edges = append(g.edges, Edge{A: v, B: int(u)})
			}
		}
		g.adj[v] = nbrs
	}
	g.m = len(g.edges)
	b.sets = nil
	return g
}

// N returns the number of vertices.
func (g *Graph) N() int { return g.n }

// M returns the number of distinct undirected edges.
func (g *Graph) M() int { return g.m }

// Degree returns the number of neighbors of v.
func (g *Graph) Degree(v int) int { return len(g.adj[v]) }

// Neighbors returns the neighbors of v in ascending order.
// The slice is shared with the graph and must not be modified.
func (g *Graph) Neighbors(v int) []int { return g.adj[v] }

// HasEdge reports whether a and b are adjacent.
func (g *Graph) HasEdge(a, b int) bool {
	if a < 0 || a >= g.n || b < 0 || b >= g.n {
		return false
	}
	return g.sets[a].Contains(uint32(b))
}

// Edges returns all edges with A < B, sorted by (A, B).
// The slice is shared with the graph and must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// MaxDegree returns the largest vertex degree, or 0 for an edgeless graph.
func (g *Graph) MaxDegree() int {
	best := 0
	for _, nbrs := range g.adj {
		best = max(best, len(nbrs))
	}
	return best
}

// IsCover reports whether ids forms a vertex cover: every edge has at least
// one endpoint in ids. Ids outside [0, N) are ignored.
func (g *Graph) IsCover(ids []int) bool {
	return len(g.UncoveredEdges(ids)) == 0
}

// IsCoverBits is IsCover for a bitset keyed by vertex id. It scans every
// edge, so it costs O(N + M).
func (g *Graph) IsCoverBits(in *bitset.BitSet) bool {
	for _, e := range g.edges {
		if !in.Test(uint(e.A)) && !in.Test(uint(e.B)) {
			return false
		}
	}
	return true
}

// UncoveredEdges returns the edges with neither endpoint in ids.
func (g *Graph) UncoveredEdges(ids []int) []Edge {
	in := bitset.New(uint(g.n))
	for _, v := range ids {
		if v >= 0 && v < g.n {
			in.Set(uint(v))
		}
	}
	var out []Edge
	for _, e := range g.edges {
		if !in.Test(uint(e.A)) && !in.Test(uint(e.B)) {
			out = append(out, e)
		}
	}
	return out
}

// Components returns the connected components, each sorted ascending and
// ordered by their smallest vertex. Isolated vertices form singleton
// components.
func (g *Graph) Components() [][]int {
	seen := bitset.New(uint(g.n))
	var comps [][]int
	for s := 0; s < g.n; s++ {
		if seen.Test(uint(s)) {
			continue
		}
		seen.Set(uint(s))
		comp := []int{s}
		for i := 0; i < len(comp); i++ {
			for _, u := range g.adj[comp[i]] {
				if !seen.Test(uint(u)) {
					seen.Set(uint(u))
					comp = append(comp, u)
				}
			}
		}
		slices.Sort(comp)
		comps = append(comps, comp)
	}
	return comps
}
