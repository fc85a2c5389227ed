// Package pipeline provides the load → solve → render pipeline for stationcover.
//
// This package implements the complete pipeline that is used by both the CLI
// and the HTTP API. By centralizing this logic, both entry points share
// defaults, validation and logging.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a graph from a file, stdin or request body
//  2. Solve: Find a minimum vertex cover with [cover.Solve]
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Source:  "stations.txt",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Solution.Size)
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, err := runner.Load(ctx, "stations.txt.gz", graph.FormatAuto)
//	res, err := runner.Solve(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, g, res.Cover, opts)
//
// [cover.Solve]: github.com/matzehuels/stationcover/pkg/cover.Solve
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stationcover/pkg/cover"
	"github.com/matzehuels/stationcover/pkg/errors"
	"github.com/matzehuels/stationcover/pkg/graph"
	"github.com/matzehuels/stationcover/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// DefaultPNGScale is the resolution multiplier for PNG output.
const DefaultPNGScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Source      string `json:"-"`                      // path, or "-" for stdin
	InputFormat string `json:"input_format,omitempty"` // auto, edges, adjacency

	// Solve options
	Selection string `json:"selection,omitempty"`
	Bound     string `json:"bound,omitempty"`
	Validity  string `json:"validity,omitempty"`
	Order     string `json:"order,omitempty"`
	Seed      string `json:"seed,omitempty"`
	Threshold *int   `json:"threshold,omitempty"`
	Workers   int    `json:"workers,omitempty"`
	TimeoutMS int    `json:"timeout_ms,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Layout   string   `json:"layout,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger                       `json:"-"`
	Progress func(explored, pruned, best int) `json:"-"`
	Debug    func(cover.DebugInfo)             `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run in logs and API responses.
	ID string

	// Graph is the loaded graph.
	Graph *graph.Graph

	// Solution is the cover found by the search.
	Solution cover.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Vertices   int
	Edges      int
	LoadTime   time.Duration
	SolveTime  time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidOption, "invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// dropping duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// CoverOptions converts the solve options into [cover.Options], applying
// defaults for empty fields. Unknown names yield INVALID_OPTION errors.
func (o *Options) CoverOptions() (cover.Options, error) {
	c := cover.DefaultOptions()
	var err error
	if o.Selection != "" {
		if c.Selection, err = cover.ParseSelection(o.Selection); err != nil {
			return c, err
		}
	}
	if o.Bound != "" {
		if c.Bound, err = cover.ParseBound(o.Bound); err != nil {
			return c, err
		}
	}
	if o.Validity != "" {
		if c.Validity, err = cover.ParseValidity(o.Validity); err != nil {
			return c, err
		}
	}
	if o.Order != "" {
		if c.Order, err = cover.ParseOrder(o.Order); err != nil {
			return c, err
		}
	}
	if o.Seed != "" {
		if c.Seed, err = cover.ParseSeed(o.Seed); err != nil {
			return c, err
		}
	}
	if o.Threshold != nil {
		c.Threshold = *o.Threshold
	}
	if o.Workers < 0 {
		return c, errors.New(errors.ErrCodeInvalidOption, "workers must be >= 0, got %d", o.Workers)
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
	if o.TimeoutMS < 0 {
		return c, errors.New(errors.ErrCodeInvalidOption, "timeout must be >= 0, got %dms", o.TimeoutMS)
	}
	c.Timeout = time.Duration(o.TimeoutMS) * time.Millisecond
	c.Progress = o.Progress
	c.Debug = o.Debug
	return c, c.Validate()
}

// InputFormatValue parses InputFormat, defaulting to auto-detection.
func (o *Options) InputFormatValue() (graph.Format, error) {
	if o.InputFormat == "" {
		return graph.FormatAuto, nil
	}
	return graph.ParseFormat(o.InputFormat)
}

// ValidateForRender validates the render options. Formats may be empty,
// which renders nothing.
func (o *Options) ValidateForRender() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	_, err := render.ParseLayout(o.Layout)
	return err
}

// Validate checks every stage's options.
func (o *Options) Validate() error {
	if _, err := o.InputFormatValue(); err != nil {
		return err
	}
	if _, err := o.CoverOptions(); err != nil {
		return err
	}
	return o.ValidateForRender()
}
