package cover

import (
	"fmt"
	"math/bits"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stationcover/pkg/graph"
)

func build(t testing.TB, n int, edges ...[2]int) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(n)
	for _, e := range edges {
		require.NoError(t, b.AddEdge(e[0], e[1]))
	}
	return b.Build()
}

func randomGraph(rng *rand.Rand, n int, p float64) *graph.Graph {
	b := graph.NewBuilder(n)
	for a := 0; a < n; a++ {
		for c := a + 1; c < n; c++ {
			if rng.Float64() < p {
				_ = b.AddEdge(a, c)
			}
		}
	}
	return b.Build()
}

func complete(t testing.TB, n int) *graph.Graph {
	var edges [][2]int
	for a := 0; a < n; a++ {
		for c := a + 1; c < n; c++ {
			edges = append(edges, [2]int{a, c})
		}
	}
	return build(t, n, edges...)
}

// bruteForce returns the minimum cover size by enumerating all 2^N subsets.
func bruteForce(g *graph.Graph) int {
	n := g.N()
	best := n
	for mask := uint32(0); mask < 1<<n; mask++ {
		size := bits.OnesCount32(mask)
		if size >= best {
			continue
		}
		ok := true
		for _, e := range g.Edges() {
			if mask&(1<<e.A) == 0 && mask&(1<<e.B) == 0 {
				ok = false
				break
			}
		}
		if ok {
			best = size
		}
	}
	return best
}

// smallGraphs returns a fixed family of graphs with at most 12 vertices:
// named shapes plus seeded random graphs over a range of densities.
func smallGraphs(t testing.TB) map[string]*graph.Graph {
	gs := map[string]*graph.Graph{
		"empty-0":   build(t, 0),
		"empty-1":   build(t, 1),
		"edge":      build(t, 2, [2]int{0, 1}),
		"triangle":  build(t, 3, [2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2}),
		"star-5":    build(t, 5, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3}, [2]int{0, 4}),
		"path-4":    build(t, 4, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}),
		"triangles": build(t, 6, [2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2}, [2]int{3, 4}, [2]int{4, 5}, [2]int{3, 5}),
		"k5":        complete(t, 5),
		"cycle-7":   build(t, 7, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 5}, [2]int{5, 6}, [2]int{6, 0}),
		"two-k2":    build(t, 4, [2]int{0, 1}, [2]int{2, 3}),
	}
	rng := rand.New(rand.NewPCG(7, 11))
	for _, p := range []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.7, 0.9} {
		for n := 6; n <= 12; n += 3 {
			gs[fmt.Sprintf("random-p%.1f-n%d", p, n)] = randomGraph(rng, n, p)
		}
	}
	return gs
}
