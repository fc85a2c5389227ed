// Package server implements the stationcover HTTP API.
//
// Routes:
//
//	POST /v1/solve    solve the graph in the request body
//	POST /v1/render   solve and render the graph in the request body
//	GET  /healthz     liveness probe
//	GET  /version     build information
//
// Request bodies are either the text formats accepted by [graph.Load] or the
// JSON wire format. Solve options are passed as query parameters
// (selection, bound, validity, order, seed, threshold, workers, timeout_ms,
// input_format). Every response carries an X-Request-ID header.
//
// [graph.Load]: github.com/matzehuels/stationcover/pkg/graph.Load
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/matzehuels/stationcover/pkg/cache"
	cerrors "github.com/matzehuels/stationcover/pkg/errors"
	"github.com/matzehuels/stationcover/pkg/pipeline"
)

// Defaults applied by [Config.withDefaults].
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 30 * time.Second
	DefaultRatePerSecond  = 5.0
	DefaultBurst          = 10
	DefaultMaxBodyBytes   = 16 << 20
	DefaultMaxVertices    = 100_000
	DefaultMaxEdges       = 1_000_000
	DefaultMaxWorkers     = 4
)

// Config configures the API server. Zero fields take the defaults above.
type Config struct {
	Addr string

	// RequestTimeout caps each search. A request may ask for less with
	// timeout_ms but never for more.
	RequestTimeout time.Duration

	// RatePerSecond and Burst configure the token bucket shared by the
	// solve and render routes.
	RatePerSecond float64
	Burst         int

	MaxBodyBytes int64
	Limits       cerrors.Limits

	// MaxWorkers caps the workers query parameter.
	MaxWorkers int

	// CacheEntries enables an in-memory cache of exact results holding
	// this many entries. Zero disables it. Entries expire after CacheTTL
	// unless it is zero.
	CacheEntries int
	CacheTTL     time.Duration
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = DefaultRatePerSecond
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Limits.MaxVertices == 0 {
		c.Limits.MaxVertices = DefaultMaxVertices
	}
	if c.Limits.MaxEdges == 0 {
		c.Limits.MaxEdges = DefaultMaxEdges
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = DefaultMaxWorkers
	}
	return c
}

// Server serves the API. Create one with [New].
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	logger  *log.Logger
	limiter *rate.Limiter
	router  chi.Router
}

// New creates a server. The runner's Limits are replaced by cfg.Limits.
func New(cfg Config, logger *log.Logger) *Server {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = log.Default()
	}
	runner := pipeline.NewRunner(logger)
	runner.Limits = cfg.Limits
	if cfg.CacheEntries > 0 {
		runner.Cache = cache.NewMemoryCache(cfg.CacheEntries)
		runner.CacheTTL = cfg.CacheTTL
	}

	s := &Server{
		cfg:     cfg,
		runner:  runner,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/solve", s.handleSolve)
		r.Post("/render", s.handleRender)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, cerrors.New(cerrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
