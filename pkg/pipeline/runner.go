package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stationcover/pkg/cache"
	"github.com/matzehuels/stationcover/pkg/cover"
	"github.com/matzehuels/stationcover/pkg/errors"
	"github.com/matzehuels/stationcover/pkg/graph"
	"github.com/matzehuels/stationcover/pkg/observability"
)

// Runner encapsulates pipeline execution.
// Both CLI and API use this to avoid duplicating stage logic.
//
// The Runner is stateless except for the logger and limits - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Logger *log.Logger

	// Limits bounds the graphs accepted by Load and LoadReader.
	Limits errors.Limits

	// Cache, when set, holds exact results keyed by graph and strategy.
	// Entries expire after CacheTTL; zero keeps them forever.
	Cache    cache.Cache
	CacheTTL time.Duration
}

// NewRunner creates a runner. If logger is nil, the default logger is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → solve → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	format, _ := opts.InputFormatValue()

	result := &Result{ID: uuid.NewString()}
	logger := opts.Logger.With("run", result.ID[:8])

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(ctx, opts.Source, format)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Vertices = g.N()
	result.Stats.Edges = g.M()

	logger.Info("loaded graph",
		"vertices", g.N(),
		"edges", g.M(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Solve
	solveStart := time.Now()
	res, err := r.Solve(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Solution = res
	result.Stats.SolveTime = time.Since(solveStart)

	logger.Info("solved",
		"size", res.Size,
		"exact", res.Exact,
		"explored", res.Stats.Explored,
		"duration", result.Stats.SolveTime)

	// Stage 3: Render
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, err := r.Render(ctx, g, res.Cover, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)

		logger.Info("rendered outputs",
			"formats", opts.Formats,
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// Load reads a graph from path ("-" for stdin) in the given input format.
// Compressed and JSON files are handled by [graph.LoadFile].
func (r *Runner) Load(ctx context.Context, path string, format graph.Format) (*graph.Graph, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no graph source given")
	}
	return r.load(ctx, path, func() (*graph.Graph, error) {
		return graph.LoadFileLimited(path, format, r.Limits)
	})
}

// LoadReader reads a graph from rd. name identifies the source in logs and
// hooks. JSON input is recognized by a leading '{'.
func (r *Runner) LoadReader(ctx context.Context, name string, rd io.Reader, format graph.Format) (*graph.Graph, error) {
	return r.load(ctx, name, func() (*graph.Graph, error) {
		data, err := io.ReadAll(rd)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", name)
		}
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
			return graph.ReadJSONLimited(bytes.NewReader(trimmed), r.Limits)
		}
		return graph.LoadLimited(bytes.NewReader(data), format, r.Limits)
	})
}

func (r *Runner) load(ctx context.Context, source string, fn func() (*graph.Graph, error)) (*graph.Graph, error) {
	hooks := observability.Load()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	g, err := fn()
	// Adjacency and JSON edge counts are only known once parsed.
	if err == nil {
		err = r.Limits.ValidateGraphSize(g.N(), g.M())
	}

	var n, m int
	if err == nil {
		n, m = g.N(), g.M()
	}
	hooks.OnLoadComplete(ctx, source, n, m, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Solve finds a minimum vertex cover of g with the solve options in opts.
// With a Cache configured, a stored exact result is returned without
// searching and new exact results are stored.
func (r *Runner) Solve(ctx context.Context, g *graph.Graph, opts Options) (cover.Result, error) {
	copts, err := opts.CoverOptions()
	if err != nil {
		return cover.Result{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	var key string
	if r.Cache != nil && g != nil {
		key = cache.Key(g, copts)
		res, ok, err := cache.Lookup(ctx, r.Cache, key)
		if err != nil {
			logger.Warn("cache read failed", "err", err)
		} else if ok {
			logger.Debug("cache hit", "key", key[:14], "size", res.Size)
			return res, nil
		}
	}

	logger.Debug("searching",
		"variant", copts.String(),
		"seed", copts.Seed,
		"workers", copts.Workers,
		"timeout", copts.Timeout)

	res, err := cover.Solve(ctx, g, copts)
	if err != nil {
		return res, err
	}
	if !res.Exact {
		logger.Warn("search stopped early; cover may not be minimum", "size", res.Size)
	}
	if key != "" {
		if _, err := cache.Store(ctx, r.Cache, key, res, r.CacheTTL); err != nil {
			logger.Warn("cache write failed", "err", err)
		}
	}
	return res, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
