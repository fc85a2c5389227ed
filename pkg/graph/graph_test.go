package graph

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/bits-and-blooms/bitset"

	"github.com/matzehuels/stationcover/pkg/errors"
)

func mustBuild(t *testing.T, n int, edges ...[2]int) *Graph {
	t.Helper()
	b := NewBuilder(n)
	for _, e := range edges {
		if err := b.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("AddEdge(%d, %d) error: %v", e[0], e[1], err)
		}
	}
	return b.Build()
}

func TestBuilderSymmetricAndDeduplicated(t *testing.T) {
	g := mustBuild(t, 4, [2]int{0, 1}, [2]int{1, 0}, [2]int{1, 2}, [2]int{0, 1}, [2]int{3, 1})

	if g.N() != 4 {
		t.Errorf("N() = %d, want 4", g.N())
	}
	if g.M() != 3 {
		t.Errorf("M() = %d, want 3 (duplicates collapse)", g.M())
	}
	for _, e := range g.Edges() {
		if !g.HasEdge(e.A, e.B) || !g.HasEdge(e.B, e.A) {
			t.Errorf("edge %v is not symmetric", e)
		}
		if e.A >= e.B {
			t.Errorf("edge %v not normalized", e)
		}
	}
	if got := g.Neighbors(1); !reflect.DeepEqual(got, []int{0, 2, 3}) {
		t.Errorf("Neighbors(1) = %v, want [0 2 3]", got)
	}
	if g.Degree(1) != 3 || g.MaxDegree() != 3 {
		t.Errorf("Degree(1) = %d, MaxDegree() = %d, want 3, 3", g.Degree(1), g.MaxDegree())
	}
	if g.HasEdge(0, 2) {
		t.Error("HasEdge(0, 2) = true, want false")
	}
	if g.HasEdge(-1, 2) || g.HasEdge(0, 9) {
		t.Error("HasEdge with out-of-range ids should be false")
	}
}

func TestBuilderRejects(t *testing.T) {
	tests := []struct {
		name string
		a, b int
	}{
		{"self loop", 2, 2},
		{"negative", -1, 0},
		{"out of range", 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewBuilder(3).AddEdge(tt.a, tt.b)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("AddEdge(%d, %d) error = %v, want INVALID_INPUT", tt.a, tt.b, err)
			}
		})
	}
}

func TestIsCover(t *testing.T) {
	// path 0-1-2-3
	g := mustBuild(t, 4, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3})

	tests := []struct {
		ids  []int
		want bool
	}{
		{[]int{1, 2}, true},
		{[]int{1, 3}, true},
		{[]int{0, 2}, true},
		{[]int{1}, false},
		{[]int{0, 3}, false},
		{nil, false},
		{[]int{0, 1, 2, 3}, true},
		{[]int{1, 2, 99}, true},
	}
	for _, tt := range tests {
		if got := g.IsCover(tt.ids); got != tt.want {
			t.Errorf("IsCover(%v) = %v, want %v", tt.ids, got, tt.want)
		}
		bits := bitset.New(4)
		for _, v := range tt.ids {
			if v < 4 {
				bits.Set(uint(v))
			}
		}
		if got := g.IsCoverBits(bits); got != tt.want {
			t.Errorf("IsCoverBits(%v) = %v, want %v", tt.ids, got, tt.want)
		}
	}

	if got := g.UncoveredEdges([]int{1}); !reflect.DeepEqual(got, []Edge{{2, 3}}) {
		t.Errorf("UncoveredEdges([1]) = %v, want [{2 3}]", got)
	}
}

func TestEmptyGraphIsCovered(t *testing.T) {
	g := NewBuilder(1).Build()
	if !g.IsCover(nil) {
		t.Error("edgeless graph should be covered by the empty set")
	}
	var zero Graph
	if zero.N() != 0 || zero.M() != 0 || !zero.IsCover(nil) {
		t.Error("zero Graph should be empty and covered")
	}
}

func TestComponents(t *testing.T) {
	g := mustBuild(t, 7,
		[2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2},
		[2]int{3, 4}, [2]int{4, 5}, [2]int{3, 5},
	)
	want := [][]int{{0, 1, 2}, {3, 4, 5}, {6}}
	if got := g.Components(); !reflect.DeepEqual(got, want) {
		t.Errorf("Components() = %v, want %v", got, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	g := mustBuild(t, 3, [2]int{2, 0}, [2]int{1, 2})

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph() error: %v", err)
	}
	if !strings.Contains(string(data), `"vertices": 3`) {
		t.Errorf("MarshalGraph() = %s, missing vertex count", data)
	}

	back, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if !reflect.DeepEqual(back.Edges(), g.Edges()) || back.N() != g.N() {
		t.Errorf("round trip = %v (n=%d), want %v (n=%d)", back.Edges(), back.N(), g.Edges(), g.N())
	}
}

func TestWriteJSONWithCover(t *testing.T) {
	g := mustBuild(t, 2, [2]int{0, 1})
	var buf bytes.Buffer
	if err := WriteJSON(g, []int{1}, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"cover"`) {
		t.Errorf("WriteJSON() = %s, want cover key", buf.String())
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"vertices": 2, "edges": [[0,1]`},
		{"negative vertices", `{"vertices": -1, "edges": []}`},
		{"out of range", `{"vertices": 2, "edges": [[0, 2]]}`},
		{"self loop", `{"vertices": 2, "edges": [[1, 1]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !IsFormatError(err) {
				t.Errorf("ReadJSON() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestReadJSONLimited(t *testing.T) {
	limits := errors.Limits{MaxVertices: 10}

	g, err := ReadJSONLimited(strings.NewReader(`{"vertices": 3, "edges": [[0,1]]}`), limits)
	if err != nil || g.N() != 3 {
		t.Fatalf("ReadJSONLimited() = %v, %v, want 3 vertices", g, err)
	}

	_, err = ReadJSONLimited(strings.NewReader(`{"vertices": 1000000000, "edges": []}`), limits)
	if !errors.Is(err, errors.ErrCodeTooLarge) {
		t.Errorf("ReadJSONLimited() error = %v, want TOO_LARGE", err)
	}

	_, err = FromWireLimited(Wire{Vertices: -3}, limits)
	if !IsFormatError(err) {
		t.Errorf("FromWireLimited(-3) error = %v, want INVALID_FORMAT", err)
	}
}
