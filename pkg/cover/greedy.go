package cover

import (
	"sort"

	"github.com/matzehuels/stationcover/pkg/graph"
)

// GreedyMaxCoverage builds a cover by repeatedly including the vertex that
// closes the most open edges, lowest id on ties, until no edge is open. The
// result is always a valid cover, sorted ascending, though not necessarily a
// minimum one.
func GreedyMaxCoverage(g *graph.Graph) []int {
	return CompleteCover(g, nil)
}

// CompleteCover includes seed and then extends it with the max-coverage rule
// until every edge is covered. Seed ids that are out of range or repeated are
// skipped.
func CompleteCover(g *graph.Graph, seed []int) []int {
	s := NewState(g)
	for _, v := range seed {
		if v >= 0 && v < g.N() && s.IsUndecided(v) {
			s.Include(v)
		}
	}
	for s.OpenEdges() > 0 {
		v, ok := SelectBranchVertex(s, SelectMaxCoverage)
		if !ok {
			break
		}
		s.Include(v)
	}
	return s.Included()
}

// Preprocessed is the result of [Preprocess].
type Preprocessed struct {
	// Forced are vertices some minimum cover always contains: the neighbors
	// of degree-one vertices whose edge was still open when visited.
	Forced []int

	// Candidates are Forced followed by the high-gain vertices picked by the
	// threshold rule. They need not cover every edge.
	Candidates []int
}

// Preprocess runs the leaf rule and the threshold rule.
//
// Leaf rule: vertices of degree one are visited in id order. If a leaf's only
// edge is still open, its neighbor is included. Two adjacent leaves therefore
// force only one vertex.
//
// Threshold rule: vertices are visited by descending degree, lowest id on
// ties, and each one that would close more than threshold open edges is
// included.
//
// Forced is safe to commit before searching. Candidates is only a heuristic
// and must be completed and checked before it is used as a bound.
func Preprocess(g *graph.Graph, threshold int) Preprocessed {
	s := NewState(g)
	var p Preprocessed

	for v := 0; v < g.N(); v++ {
		if g.Degree(v) != 1 || s.Gain(v) == 0 {
			continue
		}
		w := g.Neighbors(v)[0]
		s.Include(w)
		p.Forced = append(p.Forced, w)
	}
	p.Candidates = append(p.Candidates, p.Forced...)

	order := make([]int, g.N())
	for v := range order {
		order[v] = v
	}
	sort.SliceStable(order, func(i, j int) bool {
		return g.Degree(order[i]) > g.Degree(order[j])
	})
	for _, v := range order {
		if s.IsUndecided(v) && s.Gain(v) > threshold {
			s.Include(v)
			p.Candidates = append(p.Candidates, v)
		}
	}
	return p
}
