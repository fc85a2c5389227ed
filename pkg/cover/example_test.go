package cover_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/stationcover/pkg/cover"
	"github.com/matzehuels/stationcover/pkg/graph"
)

func ExampleSolve() {
	// Two triangles joined by nothing: each needs two stations.
	g, _ := graph.Load(strings.NewReader("6 6\n0 1\n1 2\n0 2\n3 4\n4 5\n3 5\n"))

	res, err := cover.Solve(context.Background(), g, cover.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Size, res.Cover, res.Exact)
	// Output: 4 [0 1 3 4] true
}

func ExampleGreedyMaxCoverage() {
	b := graph.NewBuilder(5)
	for _, leaf := range []int{1, 2, 3, 4} {
		_ = b.AddEdge(0, leaf)
	}
	fmt.Println(cover.GreedyMaxCoverage(b.Build()))
	// Output: [0]
}

func ExamplePreprocess() {
	g, _ := graph.Load(strings.NewReader("4 3\n0 1\n1 2\n2 3\n"))
	p := cover.Preprocess(g, cover.DefaultThreshold)
	fmt.Println("forced:", p.Forced)
	// Output: forced: [1 2]
}
