package cli

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stationcover/pkg/cover"
	"github.com/matzehuels/stationcover/pkg/pipeline"
)

// heartbeatInterval is how often a long search logs its counters.
const heartbeatInterval = 10 * time.Second

// =============================================================================
// Search Flags
// =============================================================================

// searchFlags holds the flags shared by every command that runs a search.
type searchFlags struct {
	inputFormat string
	selection   string
	bound       string
	validity    string
	order       string
	seed        string
	threshold   int
	workers     int
	timeout     time.Duration
}

func newSearchFlags() searchFlags {
	d := cover.DefaultOptions()
	return searchFlags{
		inputFormat: "auto",
		selection:   string(d.Selection),
		bound:       string(d.Bound),
		validity:    string(d.Validity),
		order:       string(d.Order),
		seed:        string(d.Seed),
		threshold:   d.Threshold,
		workers:     d.Workers,
	}
}

// register adds the search flags to cmd. inputFlag names the input format
// flag, which differs between commands that also choose an output format.
func (f *searchFlags) register(cmd *cobra.Command, inputFlag string) {
	fs := cmd.Flags()
	fs.StringVar(&f.inputFormat, inputFlag, f.inputFormat, "input format: auto, edges, adjacency")
	fs.StringVar(&f.selection, "selection", f.selection, "branch vertex selection: maxCoverage, firstUndecided")
	fs.StringVar(&f.bound, "bound", f.bound, "pruning bound: strict, loose, matching")
	fs.StringVar(&f.validity, "validity", f.validity, "cover check: incremental, fullScan")
	fs.StringVar(&f.order, "order", f.order, "branch order: includeFirst, excludeFirst")
	fs.StringVar(&f.seed, "seed", f.seed, "initial cover: greedy, preprocess, none")
	fs.IntVar(&f.threshold, "threshold", f.threshold, "preprocessing gain threshold")
	fs.IntVarP(&f.workers, "workers", "w", f.workers, "parallel search workers")
	fs.DurationVar(&f.timeout, "timeout", 0, "stop searching after this long and keep the best cover (0 = no limit)")
}

// pipelineOptions converts the flags into pipeline options for source.
func (f *searchFlags) pipelineOptions(source string) pipeline.Options {
	threshold := f.threshold
	return pipeline.Options{
		Source:      source,
		InputFormat: f.inputFormat,
		Selection:   f.selection,
		Bound:       f.bound,
		Validity:    f.validity,
		Order:       f.order,
		Seed:        f.seed,
		Threshold:   &threshold,
		Workers:     f.workers,
		TimeoutMS:   int(f.timeout / time.Millisecond),
	}
}

// =============================================================================
// Search Observer
// =============================================================================

// searchObserver turns progress callbacks into log lines: the initial cover,
// each improvement, and a heartbeat while nothing changes.
type searchObserver struct {
	logger   *log.Logger
	interval time.Duration
	now      func() time.Time

	started bool
	best    int
	last    time.Time
}

func newSearchObserver(logger *log.Logger) *searchObserver {
	return &searchObserver{logger: logger, interval: heartbeatInterval, now: time.Now}
}

// progress is a cover.Options.Progress callback.
func (o *searchObserver) progress(explored, pruned, best int) {
	now := o.now()
	switch {
	case !o.started:
		o.started = true
		o.logger.Info("Initial", "stations", best)
	case best < o.best:
		o.logger.Info("Improved", "stations", best, "explored", explored)
	case now.Sub(o.last) >= o.interval:
		o.logger.Info("searching", "explored", explored, "pruned", pruned, "best", best)
	default:
		return
	}
	o.best = best
	o.last = now
}

// debug logs the search summary at debug level.
func (o *searchObserver) debug(info cover.DebugInfo) {
	o.logger.Debug("search finished",
		"vertices", info.Vertices,
		"edges", info.Edges,
		"components", info.Components,
		"max_degree", info.MaxDegree,
		"forced", info.Forced,
		"seed", info.SeedSize,
		"depth", info.MaxDepth,
		"subproblems", info.Subproblems,
		"stopped", info.Stopped)
}

// attach wires the observer into opts.
func (o *searchObserver) attach(opts *pipeline.Options) {
	opts.Progress = o.progress
	opts.Debug = o.debug
}
