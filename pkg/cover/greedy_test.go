package cover

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreedyMaxCoverageIsValid(t *testing.T) {
	for name, g := range smallGraphs(t) {
		c := GreedyMaxCoverage(g)
		assert.True(t, g.IsCover(c), "%s: greedy cover %v leaves %v", name, c, g.UncoveredEdges(c))
		assert.GreaterOrEqual(t, len(c), bruteForce(g), name)
	}
}

func TestGreedyMaxCoverage(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
		want  []int
	}{
		{"empty", 3, nil, []int{}},
		{"edge", 2, [][2]int{{0, 1}}, []int{0}},
		{"star", 5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}}, []int{0}},
		{"path", 4, [][2]int{{0, 1}, {1, 2}, {2, 3}}, []int{1, 2}},
		{"triangle", 3, [][2]int{{0, 1}, {1, 2}, {0, 2}}, []int{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.n, tt.edges...)
			assert.Equal(t, tt.want, GreedyMaxCoverage(g))
		})
	}
}

func TestCompleteCover(t *testing.T) {
	g := build(t, 4, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3})

	assert.Equal(t, []int{0, 2}, CompleteCover(g, []int{0}))
	assert.Equal(t, []int{1, 3}, CompleteCover(g, []int{3, 3, -1, 9}))
	assert.Equal(t, []int{0, 1, 2, 3}, CompleteCover(g, []int{0, 1, 2, 3}))
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		edges      [][2]int
		threshold  int
		forced     []int
		candidates []int
	}{
		{
			name:       "adjacent leaves force one vertex",
			n:          2,
			edges:      [][2]int{{0, 1}},
			threshold:  2,
			forced:     []int{1},
			candidates: []int{1},
		},
		{
			name:       "star",
			n:          5,
			edges:      [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}},
			threshold:  2,
			forced:     []int{0},
			candidates: []int{0},
		},
		{
			name:       "path",
			n:          4,
			edges:      [][2]int{{0, 1}, {1, 2}, {2, 3}},
			threshold:  2,
			forced:     []int{1, 2},
			candidates: []int{1, 2},
		},
		{
			name:       "triangle has no leaves",
			n:          3,
			edges:      [][2]int{{0, 1}, {1, 2}, {0, 2}},
			threshold:  1,
			forced:     nil,
			candidates: []int{0},
		},
		{
			name:       "threshold above every gain",
			n:          3,
			edges:      [][2]int{{0, 1}, {1, 2}, {0, 2}},
			threshold:  2,
			forced:     nil,
			candidates: nil,
		},
		{
			// the leaf 5 forces 4, which leaves 0 with three open edges
			name:       "threshold after leaves",
			n:          6,
			edges:      [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {4, 5}, {1, 2}, {2, 3}},
			threshold:  2,
			forced:     []int{4},
			candidates: []int{4, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.n, tt.edges...)
			p := Preprocess(g, tt.threshold)
			assert.Equal(t, tt.forced, p.Forced)
			assert.Equal(t, tt.candidates, p.Candidates)
		})
	}
}

func TestPreprocessForcedIsSafe(t *testing.T) {
	for name, g := range smallGraphs(t) {
		p := Preprocess(g, DefaultThreshold)
		want := bruteForce(g)

		// the minimum with Forced committed must equal the unrestricted minimum
		s := NewState(g)
		for _, v := range p.Forced {
			s.Include(v)
		}
		best := g.N()
		var walk func(v int)
		walk = func(v int) {
			if s.OpenEdges() == 0 {
				best = min(best, s.Size())
				return
			}
			if v == g.N() {
				return
			}
			if !s.IsUndecided(v) {
				walk(v + 1)
				return
			}
			s.Include(v)
			walk(v + 1)
			s.undoInclude(v)
			s.Exclude(v)
			walk(v + 1)
			s.undoExclude(v)
		}
		walk(0)
		assert.Equal(t, want, best, name)
	}
}
