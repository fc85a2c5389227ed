package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/stationcover/pkg/graph"
	"github.com/matzehuels/stationcover/pkg/render"
)

// Render generates each format in opts.Formats for g with the stations in
// cover highlighted. SVG is rendered once and reused for PNG and PDF.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, cover []int, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	layout, _ := render.ParseLayout(opts.Layout)
	dot := render.ToDOT(g, render.Options{Cover: cover, Detailed: opts.Detailed})

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte
	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			artifacts[format] = []byte(dot)
		case FormatJSON:
			var buf bytes.Buffer
			if err := graph.WriteJSON(g, cover, &buf); err != nil {
				return nil, err
			}
			artifacts[format] = buf.Bytes()
		default:
			if svg == nil {
				var err error
				if svg, err = render.RenderSVG(ctx, dot, layout); err != nil {
					return nil, err
				}
			}
			data, err := convertSVG(ctx, svg, format)
			if err != nil {
				return nil, err
			}
			artifacts[format] = data
		}
	}
	return artifacts, nil
}

func convertSVG(ctx context.Context, svg []byte, format string) ([]byte, error) {
	switch format {
	case FormatPNG:
		return render.ToPNG(ctx, svg, DefaultPNGScale)
	case FormatPDF:
		return render.ToPDF(ctx, svg)
	default:
		return svg, nil
	}
}
