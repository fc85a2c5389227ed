package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/stationcover/pkg/errors"
	"github.com/matzehuels/stationcover/pkg/graph"
)

func path4(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder(4)
	for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 3}} {
		if err := b.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return b.Build()
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(path4(t), Options{})

	for _, want := range []string{"graph G {", `0 [label="0"]`, "0 -- 1;", "2 -- 3;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "fillcolor=\"#7C3AED\"") {
		t.Error("no vertex should be highlighted without a cover")
	}
	if strings.Contains(dot, "color=red") {
		t.Error("no edge should be flagged without a cover")
	}
}

func TestToDOTHighlightsCover(t *testing.T) {
	dot := ToDOT(path4(t), Options{Cover: []int{1, 2}})

	if got := strings.Count(dot, "fillcolor=\"#7C3AED\""); got != 2 {
		t.Errorf("highlighted vertices = %d, want 2", got)
	}
	if strings.Contains(dot, "color=red") {
		t.Errorf("valid cover should flag no edges:\n%s", dot)
	}
}

func TestToDOTFlagsUncoveredEdges(t *testing.T) {
	dot := ToDOT(path4(t), Options{Cover: []int{1, 99}})

	if !strings.Contains(dot, "2 -- 3 [color=red") {
		t.Errorf("edge 2-3 should be flagged:\n%s", dot)
	}
	if strings.Contains(dot, "0 -- 1 [color=red") {
		t.Error("edge 0-1 is covered by 1")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(path4(t), Options{Detailed: true})
	if !strings.Contains(dot, `label="1\ndeg 2"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in   string
		want Layout
	}{
		{"", LayoutNeato},
		{"neato", LayoutNeato},
		{"circo", LayoutCirco},
		{"fdp", LayoutFDP},
		{"dot", LayoutDot},
	}
	for _, tt := range tests {
		got, err := ParseLayout(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLayout(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLayout("spring"); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("ParseLayout(spring) error = %v, want INVALID_OPTION", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg><g/></svg>")); string(got) != "<svg><g/></svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	g := path4(t)
	svg, err := RenderSVG(context.Background(), ToDOT(g, Options{Cover: []int{1, 2}}), LayoutNeato)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("RenderSVG output is not SVG: %.80s", svg)
	}
}

func TestToPNGRejectsScale(t *testing.T) {
	if _, err := ToPNG(context.Background(), nil, 0); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("ToPNG(scale=0) error = %v, want INVALID_OPTION", err)
	}
}
