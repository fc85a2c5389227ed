package cover

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bits-and-blooms/bitset"

	"github.com/matzehuels/stationcover/pkg/errors"
	"github.com/matzehuels/stationcover/pkg/graph"
	"github.com/matzehuels/stationcover/pkg/observability"
)

const (
	// checkInterval is how many nodes a searcher visits between cancellation
	// checks. Must be a power of two.
	checkInterval = 1 << 10

	// heartbeatInterval is how many nodes a searcher visits between periodic
	// Progress calls. Must be a power of two.
	heartbeatInterval = 1 << 14
)

// Result is the outcome of [Solve].
type Result struct {
	// Size is the number of stations in Cover.
	Size int

	// Cover is a valid vertex cover in ascending id order.
	Cover []int

	// Exact is true when the search ran to completion, so Size is the
	// minimum. It is false when the search was cancelled or timed out;
	// Cover is then the best cover found, still valid.
	Exact bool

	Stats Stats
}

// Stats describes the work done by one [Solve] call.
type Stats struct {
	Explored     int // search nodes visited
	Pruned       int // nodes cut by the bound
	DeadEnds     int // nodes that cannot be completed into a cover
	Improvements int // times the best cover improved after seeding
	MaxDepth     int
	SeedSize     int // size of the initial best cover
	Forced       int // vertices committed before searching
	Subproblems  int // subtrees handed to workers in parallel mode
	Duration     time.Duration
}

// DebugInfo is passed to Options.Debug when a search ends.
type DebugInfo struct {
	Vertices    int
	Edges       int
	Components  int
	MaxDegree   int
	Forced      int
	SeedSize    int
	MaxDepth    int
	Subproblems int
	Stopped     bool
}

// Solve returns a minimum vertex cover of g.
//
// The search branches on include/exclude decisions per vertex, prunes with
// opts.Bound against the best cover found so far, and starts from the cover
// chosen by opts.Seed. All state lives in the call, so Solve may run
// concurrently on different graphs.
//
// Cancelling ctx or exceeding opts.Timeout is not an error: Solve returns the
// best cover found with Exact set to false. Invalid options yield an
// INVALID_OPTION error.
func Solve(ctx context.Context, g *graph.Graph, opts Options) (Result, error) {
	if g == nil {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	opts = opts.withDefaults()

	hooks := observability.Solve()
	hooks.OnSolveStart(ctx, g.N(), g.M())
	start := time.Now()

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	r := newRun(ctx, g, opts, hooks)
	res, err := r.solve()
	res.Stats.Duration = time.Since(start)

	hooks.OnSolveComplete(ctx, res.Size, res.Exact, res.Stats.Duration, err)
	return res, err
}

// run holds everything shared by the searchers of one Solve call.
type run struct {
	ctx   context.Context
	g     *graph.Graph
	opts  Options
	hooks observability.SolveHooks

	inc     *incumbent
	stopped atomic.Bool

	explored atomic.Int64
	pruned   atomic.Int64

	progressMu sync.Mutex
}

func newRun(ctx context.Context, g *graph.Graph, opts Options, hooks observability.SolveHooks) *run {
	return &run{ctx: ctx, g: g, opts: opts, hooks: hooks}
}

func (r *run) solve() (Result, error) {
	root := NewState(r.g)
	var stats Stats

	seed := r.seed(root, &stats)
	r.inc = newIncumbent(seed, r.improved)
	stats.SeedSize = r.inc.best()
	r.report()

	if r.ctx.Err() != nil {
		r.stopped.Store(true)
	} else if r.opts.Workers > 1 {
		r.parallel(root, &stats)
	} else {
		s := r.newSearcher(root)
		s.branch(0)
		s.flush()
		stats.add(s.stats)
	}

	cover, improvements := r.inc.snapshot()
	stats.Improvements = improvements
	res := Result{
		Size:  len(cover),
		Cover: cover,
		Exact: !r.stopped.Load(),
		Stats: stats,
	}

	if r.opts.Debug != nil {
		r.opts.Debug(DebugInfo{
			Vertices:    r.g.N(),
			Edges:       r.g.M(),
			Components:  len(r.g.Components()),
			MaxDegree:   r.g.MaxDegree(),
			Forced:      stats.Forced,
			SeedSize:    stats.SeedSize,
			MaxDepth:    stats.MaxDepth,
			Subproblems: stats.Subproblems,
			Stopped:     !res.Exact,
		})
	}

	if !r.g.IsCover(cover) {
		return res, errors.New(errors.ErrCodeInternal, "search returned an invalid cover of size %d", len(cover))
	}
	return res, nil
}

// seed commits forced vertices to root and returns the initial best cover.
// A heuristic seed that fails the cover check falls back to all vertices.
func (r *run) seed(root *State, stats *Stats) *bitset.BitSet {
	var ids []int
	switch r.opts.Seed {
	case SeedGreedy:
		ids = GreedyMaxCoverage(r.g)
	case SeedPreprocess:
		p := Preprocess(r.g, r.opts.Threshold)
		for _, v := range p.Forced {
			root.Include(v)
		}
		stats.Forced = len(p.Forced)
		ids = CompleteCover(r.g, p.Candidates)
	}

	cover := bitset.New(uint(r.g.N()))
	if ids == nil || !r.g.IsCover(ids) {
		for v := 0; v < r.g.N(); v++ {
			cover.Set(uint(v))
		}
		return cover
	}
	for _, v := range ids {
		cover.Set(uint(v))
	}
	return cover
}

// improved is the incumbent's callback. It runs under the incumbent lock.
func (r *run) improved(size int) {
	r.hooks.OnImprove(r.ctx, size)
	r.report()
}

// report calls Options.Progress with the current totals. The best size is
// read under progressMu so successive calls never see it increase.
func (r *run) report() {
	if r.opts.Progress == nil {
		return
	}
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.opts.Progress(int(r.explored.Load()), int(r.pruned.Load()), r.inc.best())
}

func (s *Stats) add(o Stats) {
	s.Explored += o.Explored
	s.Pruned += o.Pruned
	s.DeadEnds += o.DeadEnds
	s.MaxDepth = max(s.MaxDepth, o.MaxDepth)
}

// =============================================================================
// Searcher
// =============================================================================

// searcher runs the depth-first branch and bound over one State, mutating it
// on the way down and restoring it on the way back.
type searcher struct {
	r       *run
	g       *graph.Graph
	opts    Options
	state   *State
	scratch *bitset.BitSet

	stats   Stats
	steps   int
	flushed Stats // counters already added to the run totals

	// splitAt and frontier are set while expanding the top of the tree in
	// parallel mode: nodes at depth splitAt are recorded instead of searched.
	splitAt  int
	frontier []*State
}

func (r *run) newSearcher(s *State) *searcher {
	return &searcher{
		r:       r,
		g:       r.g,
		opts:    r.opts,
		state:   s,
		scratch: bitset.New(uint(r.g.N())),
		splitAt: -1,
	}
}

func (s *searcher) branch(depth int) {
	if s.r.stopped.Load() {
		return
	}
	if depth == s.splitAt {
		s.frontier = append(s.frontier, s.state.Clone())
		return
	}
	if s.tick() {
		return
	}
	s.stats.Explored++
	s.stats.MaxDepth = max(s.stats.MaxDepth, depth)

	st := s.state
	if s.isCover() {
		s.r.inc.offer(st.included, st.nIncluded)
		return
	}
	if st.Undecided() == 0 {
		s.stats.DeadEnds++
		return
	}
	if prune(st, s.opts.Bound, s.r.inc.best(), s.scratch) {
		s.stats.Pruned++
		return
	}

	v, ok := SelectBranchVertex(st, s.opts.Selection)
	if !ok {
		s.stats.DeadEnds++
		return
	}
	if s.opts.Order == OrderExcludeFirst {
		s.exclude(v, depth)
		s.include(v, depth)
	} else {
		s.include(v, depth)
		s.exclude(v, depth)
	}
}

func (s *searcher) include(v, depth int) {
	s.state.Include(v)
	s.branch(depth + 1)
	s.state.undoInclude(v)
}

func (s *searcher) exclude(v, depth int) {
	if s.state.excludeBlocked(v) {
		s.stats.DeadEnds++
		return
	}
	s.state.Exclude(v)
	s.branch(depth + 1)
	s.state.undoExclude(v)
}

func (s *searcher) isCover() bool {
	if s.opts.Validity == ValidityFullScan {
		return s.g.IsCoverBits(s.state.included)
	}
	return s.state.openEdges == 0
}

// tick counts a node and, every checkInterval nodes, publishes counters and
// checks for cancellation. It reports true once the search must stop.
func (s *searcher) tick() bool {
	s.steps++
	if s.steps&(checkInterval-1) != 0 {
		return false
	}
	s.flush()
	if s.r.ctx.Err() != nil {
		s.r.stopped.Store(true)
		return true
	}
	if s.steps&(heartbeatInterval-1) == 0 {
		s.r.report()
	}
	return false
}

// flush adds counters gathered since the last flush to the run totals.
func (s *searcher) flush() {
	s.r.explored.Add(int64(s.stats.Explored - s.flushed.Explored))
	s.r.pruned.Add(int64(s.stats.Pruned - s.flushed.Pruned))
	s.flushed = s.stats
}
