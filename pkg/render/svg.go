package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stationcover/pkg/errors"
)

// Layout names a Graphviz layout engine.
type Layout string

const (
	LayoutNeato Layout = "neato"
	LayoutCirco Layout = "circo"
	LayoutFDP   Layout = "fdp"
	LayoutDot   Layout = "dot"
)

// ParseLayout parses a layout engine name. An empty name selects neato.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case "":
		return LayoutNeato, nil
	case LayoutNeato, LayoutCirco, LayoutFDP, LayoutDot:
		return Layout(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidOption, "unknown layout %q (valid: neato, circo, fdp, dot)", s)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [ToPDF] or [ToPNG].
func RenderSVG(ctx context.Context, dot string, layout Layout) ([]byte, error) {
	if layout == "" {
		layout = LayoutNeato
	}
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(layout))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the drawing scales to its
// container while keeping Graphviz's intrinsic size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
