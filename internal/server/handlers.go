package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/stationcover/pkg/buildinfo"
	"github.com/matzehuels/stationcover/pkg/cover"
	cerrors "github.com/matzehuels/stationcover/pkg/errors"
	"github.com/matzehuels/stationcover/pkg/graph"
	"github.com/matzehuels/stationcover/pkg/pipeline"
)

// SolveResponse is the body of a successful POST /v1/solve.
type SolveResponse struct {
	ID    string     `json:"id"`
	Size  int        `json:"size"`
	Cover []int      `json:"cover"`
	Exact bool       `json:"exact"`
	Stats StatsWire  `json:"stats"`
	Graph GraphStats `json:"graph"`
}

// StatsWire is the JSON form of [cover.Stats].
type StatsWire struct {
	Explored     int     `json:"explored"`
	Pruned       int     `json:"pruned"`
	DeadEnds     int     `json:"dead_ends"`
	Improvements int     `json:"improvements"`
	MaxDepth     int     `json:"max_depth"`
	SeedSize     int     `json:"seed_size"`
	Forced       int     `json:"forced"`
	Subproblems  int     `json:"subproblems,omitempty"`
	DurationMS   float64 `json:"duration_ms"`
}

// GraphStats describes the graph that was solved.
type GraphStats struct {
	Vertices int `json:"vertices"`
	Edges    int `json:"edges"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	ID      string `json:"id,omitempty"`
	Code    string `json:"error"`
	Message string `json:"message"`
}

func toStatsWire(s cover.Stats) StatsWire {
	return StatsWire{
		Explored:     s.Explored,
		Pruned:       s.Pruned,
		DeadEnds:     s.DeadEnds,
		Improvements: s.Improvements,
		MaxDepth:     s.MaxDepth,
		SeedSize:     s.SeedSize,
		Forced:       s.Forced,
		Subproblems:  s.Subproblems,
		DurationMS:   float64(s.Duration.Microseconds()) / 1000,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	g, res, err := s.solve(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SolveResponse{
		ID:    requestIDFrom(r.Context()),
		Size:  res.Size,
		Cover: res.Cover,
		Exact: res.Exact,
		Stats: toStatsWire(res.Stats),
		Graph: GraphStats{Vertices: g.N(), Edges: g.M()},
	})
}

var renderContentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	contentType, ok := renderContentTypes[format]
	if !ok {
		writeError(w, r, cerrors.New(cerrors.ErrCodeInvalidOption, "unsupported render format %q (valid: svg, dot, json)", format))
		return
	}
	opts := pipeline.Options{
		Formats:  []string{format},
		Layout:   q.Get("layout"),
		Detailed: q.Get("detailed") == "true",
	}
	if err := opts.ValidateForRender(); err != nil {
		writeError(w, r, err)
		return
	}

	g, res, err := s.solve(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), g, res.Cover, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cover-Size", strconv.Itoa(res.Size))
	w.Header().Set("X-Cover-Exact", strconv.FormatBool(res.Exact))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// solve loads the request body and runs the search with the query options.
func (s *Server) solve(w http.ResponseWriter, r *http.Request) (*graph.Graph, cover.Result, error) {
	opts, err := s.solveOptions(r.URL.Query())
	if err != nil {
		return nil, cover.Result{}, err
	}
	format, err := opts.InputFormatValue()
	if err != nil {
		return nil, cover.Result{}, err
	}

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer body.Close()
	g, err := s.runner.LoadReader(r.Context(), "request "+requestIDFrom(r.Context()), body, format)
	if err != nil {
		return nil, cover.Result{}, err
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()
	res, err := s.runner.Solve(ctx, g, opts)
	if err != nil {
		return nil, cover.Result{}, err
	}
	return g, res, nil
}

func (s *Server) solveOptions(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{
		InputFormat: q.Get("input_format"),
		Selection:   q.Get("selection"),
		Bound:       q.Get("bound"),
		Validity:    q.Get("validity"),
		Order:       q.Get("order"),
		Seed:        q.Get("seed"),
	}
	if v := q.Get("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, cerrors.New(cerrors.ErrCodeInvalidOption, "threshold: %q is not an integer", v)
		}
		opts.Threshold = &n
	}
	if v := q.Get("workers"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, cerrors.New(cerrors.ErrCodeInvalidOption, "workers: %q is not an integer", v)
		}
		opts.Workers = min(n, s.cfg.MaxWorkers)
	}
	if v := q.Get("timeout_ms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, cerrors.New(cerrors.ErrCodeInvalidOption, "timeout_ms: %q is not an integer", v)
		}
		opts.TimeoutMS = min(n, int(s.cfg.RequestTimeout/time.Millisecond))
	}
	if _, err := opts.CoverOptions(); err != nil {
		return opts, err
	}
	return opts, nil
}

// =============================================================================
// Responses
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := cerrors.GetCode(err)
	if code == "" {
		code = cerrors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), ErrorResponse{
		ID:      requestIDFrom(r.Context()),
		Code:    string(code),
		Message: cerrors.UserMessage(err),
	})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	switch cerrors.GetCode(err) {
	case cerrors.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case cerrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case cerrors.ErrCodeNotFound, cerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case cerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if cerrors.IsInvalid(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
