package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/matzehuels/stationcover/pkg/graph"
)

// Options configures diagram rendering.
type Options struct {
	// Cover lists the stations to highlight. Ids outside the graph are
	// ignored. When nil, no vertex is highlighted and no edge is flagged.
	Cover []int

	// Detailed adds each vertex's degree to its label.
	// When false, only the vertex id is shown.
	Detailed bool
}

// ToDOT converts a graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *graph.Graph, opts Options) string {
	stations := bitset.New(uint(g.N()))
	for _, v := range opts.Cover {
		if v >= 0 && v < g.N() {
			stations.Set(uint(v))
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14, width=0.4];\n")
	buf.WriteString("\n")

	for v := 0; v < g.N(); v++ {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(g, v, opts.Detailed))}
		if stations.Test(uint(v)) {
			attrs = append(attrs, "fillcolor=\"#7C3AED\"", "fontcolor=white", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", v, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if opts.Cover != nil && !stations.Test(uint(e.A)) && !stations.Test(uint(e.B)) {
			fmt.Fprintf(&buf, "  %d -- %d [color=red, style=dashed, penwidth=2];\n", e.A, e.B)
			continue
		}
		fmt.Fprintf(&buf, "  %d -- %d;\n", e.A, e.B)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(g *graph.Graph, v int, detailed bool) string {
	if !detailed {
		return fmt.Sprint(v)
	}
	return fmt.Sprintf("%d\ndeg %d", v, g.Degree(v))
}
