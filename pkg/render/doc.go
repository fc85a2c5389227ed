// Package render draws station graphs.
//
// # Overview
//
// Graphs are drawn as undirected node-link diagrams with Graphviz. Vertices in
// the cover (stations) are filled; edges with no station on either end are
// drawn red and dashed, so a partial or broken cover is visible at a glance.
//
//	dot := render.ToDOT(g, render.Options{Cover: res.Cover})
//	svg, err := render.RenderSVG(ctx, dot, render.LayoutNeato)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
package render
