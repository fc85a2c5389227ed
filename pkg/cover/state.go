package cover

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/matzehuels/stationcover/pkg/errors"
	"github.com/matzehuels/stationcover/pkg/graph"
)

// State is a partial assignment: every vertex is exactly one of included,
// excluded or undecided. It tracks coverage incrementally. An edge is open
// while neither endpoint is included, and a vertex is covered once none of its
// incident edges is open. Included vertices are always covered.
//
// A State is not safe for concurrent use. Use [State.Clone] to hand a snapshot
// to another goroutine.
type State struct {
	g *graph.Graph

	included  *bitset.BitSet
	excluded  *bitset.BitSet
	undecided *bitset.BitSet
	covered   *bitset.BitSet

	open      []int32 // open incident edges per vertex
	openEdges int
	nIncluded int
	nExcluded int
}

// NewState returns the root state of g: every vertex undecided, every edge open.
func NewState(g *graph.Graph) *State {
	n := uint(g.N())
	s := &State{
		g:         g,
		included:  bitset.New(n),
		excluded:  bitset.New(n),
		undecided: bitset.New(n),
		covered:   bitset.New(n),
		open:      make([]int32, n),
		openEdges: g.M(),
	}
	for v := 0; v < g.N(); v++ {
		s.undecided.Set(uint(v))
		s.open[v] = int32(g.Degree(v))
		if s.open[v] == 0 {
			s.covered.Set(uint(v))
		}
	}
	return s
}

// Include moves v from undecided to included and closes its open edges.
// It panics with an INVALID_STATE error if v is not undecided.
func (s *State) Include(v int) {
	s.mustBeUndecided("include", v)
	u := uint(v)
	s.undecided.Clear(u)
	s.included.Set(u)
	s.nIncluded++
	if s.open[v] > 0 {
		for _, w := range s.g.Neighbors(v) {
			if s.included.Test(uint(w)) {
				continue
			}
			s.open[w]--
			if s.open[w] == 0 {
				s.covered.Set(uint(w))
			}
			s.openEdges--
		}
		s.open[v] = 0
	}
	s.covered.Set(u)
}

// Exclude moves v from undecided to excluded. Coverage is unchanged.
// It panics with an INVALID_STATE error if v is not undecided.
func (s *State) Exclude(v int) {
	s.mustBeUndecided("exclude", v)
	s.undecided.Clear(uint(v))
	s.excluded.Set(uint(v))
	s.nExcluded++
}

// undoInclude reverts Include(v). It must be called in reverse order of the
// decisions it unwinds.
func (s *State) undoInclude(v int) {
	u := uint(v)
	s.included.Clear(u)
	s.undecided.Set(u)
	s.nIncluded--
	for _, w := range s.g.Neighbors(v) {
		if s.included.Test(uint(w)) {
			continue
		}
		s.open[w]++
		s.covered.Clear(uint(w))
		s.open[v]++
		s.openEdges++
	}
	if s.open[v] > 0 {
		s.covered.Clear(u)
	}
}

// undoExclude reverts Exclude(v).
func (s *State) undoExclude(v int) {
	s.excluded.Clear(uint(v))
	s.undecided.Set(uint(v))
	s.nExcluded--
}

func (s *State) mustBeUndecided(op string, v int) {
	if v < 0 || v >= s.g.N() {
		panic(errors.New(errors.ErrCodeInvalidState, "%s %d: vertex outside [0, %d)", op, v, s.g.N()))
	}
	if !s.undecided.Test(uint(v)) {
		panic(errors.New(errors.ErrCodeInvalidState, "%s %d: vertex is already %s", op, v, s.status(v)))
	}
}

func (s *State) status(v int) string {
	switch {
	case s.included.Test(uint(v)):
		return "included"
	case s.excluded.Test(uint(v)):
		return "excluded"
	default:
		return "undecided"
	}
}

// Clone returns an independent copy sharing only the immutable graph.
func (s *State) Clone() *State {
	c := *s
	c.included = s.included.Clone()
	c.excluded = s.excluded.Clone()
	c.undecided = s.undecided.Clone()
	c.covered = s.covered.Clone()
	c.open = append([]int32(nil), s.open...)
	return &c
}

// Gain returns the number of open edges that including v would close.
func (s *State) Gain(v int) int { return int(s.open[v]) }

// Size returns the number of included vertices.
func (s *State) Size() int { return s.nIncluded }

// Undecided returns the number of undecided vertices.
func (s *State) Undecided() int { return s.g.N() - s.nIncluded - s.nExcluded }

// OpenEdges returns the number of edges with no included endpoint.
func (s *State) OpenEdges() int { return s.openEdges }

// IsIncluded, IsExcluded, IsUndecided and IsCovered report the status of v.
func (s *State) IsIncluded(v int) bool  { return s.included.Test(uint(v)) }
func (s *State) IsExcluded(v int) bool  { return s.excluded.Test(uint(v)) }
func (s *State) IsUndecided(v int) bool { return s.undecided.Test(uint(v)) }
func (s *State) IsCovered(v int) bool   { return s.covered.Test(uint(v)) }

// Included returns the included vertex ids in ascending order.
func (s *State) Included() []int {
	return bitsToIDs(s.included)
}

// excludeBlocked reports whether excluding v would strand an edge: some
// neighbor is already excluded, so their shared edge can never be covered.
func (s *State) excludeBlocked(v int) bool {
	if s.nExcluded == 0 {
		return false
	}
	for _, w := range s.g.Neighbors(v) {
		if s.excluded.Test(uint(w)) {
			return true
		}
	}
	return false
}

// Check verifies the partition and coverage invariants against a full
// recount. It returns an INVALID_STATE error describing the first violation.
func (s *State) Check() error {
	n := s.g.N()
	var nIn, nEx, open int
	for v := 0; v < n; v++ {
		u := uint(v)
		in, ex, un := s.included.Test(u), s.excluded.Test(u), s.undecided.Test(u)
		k := 0
		for _, b := range []bool{in, ex, un} {
			if b {
				k++
			}
		}
		if k != 1 {
			return errors.New(errors.ErrCodeInvalidState, "vertex %d is in %d partitions", v, k)
		}
		if in {
			nIn++
		}
		if ex {
			nEx++
		}

		want := int32(0)
		if !in {
			for _, w := range s.g.Neighbors(v) {
				if !s.included.Test(uint(w)) {
					want++
				}
			}
		}
		if s.open[v] != want {
			return errors.New(errors.ErrCodeInvalidState, "vertex %d has %d open edges, counted %d", v, s.open[v], want)
		}
		if s.covered.Test(u) != (want == 0) {
			return errors.New(errors.ErrCodeInvalidState, "vertex %d covered=%v with %d open edges", v, s.covered.Test(u), want)
		}
		open += int(want)
	}
	if nIn != s.nIncluded || nEx != s.nExcluded {
		return errors.New(errors.ErrCodeInvalidState, "counts included=%d excluded=%d, recounted %d and %d",
			s.nIncluded, s.nExcluded, nIn, nEx)
	}
	// every open edge is counted from both endpoints
	if open != 2*s.openEdges {
		return errors.New(errors.ErrCodeInvalidState, "open edge count %d, recounted %d", s.openEdges, open/2)
	}
	return nil
}

func bitsToIDs(b *bitset.BitSet) []int {
	ids := make([]int, 0, b.Count())
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		ids = append(ids, int(i))
	}
	return ids
}
