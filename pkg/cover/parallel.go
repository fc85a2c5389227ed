package cover

import (
	"golang.org/x/sync/errgroup"
)

// parallel expands the tree sequentially down to SplitDepth, then solves the
// recorded subtrees on up to Workers goroutines. Every worker owns a clone of
// its subtree root and shares the run's incumbent, so a cover found in one
// subtree tightens the bound in all others.
func (r *run) parallel(root *State, stats *Stats) {
	top := r.newSearcher(root)
	top.splitAt = r.opts.SplitDepth
	top.branch(0)
	top.flush()
	stats.add(top.stats)
	stats.Subproblems = len(top.frontier)

	results := make([]Stats, len(top.frontier))
	g, ctx := errgroup.WithContext(r.ctx)
	g.SetLimit(r.opts.Workers)
	for i, st := range top.frontier {
		g.Go(func() error {
			if ctx.Err() != nil {
				r.stopped.Store(true)
				return nil
			}
			s := r.newSearcher(st)
			s.branch(r.opts.SplitDepth)
			s.flush()
			results[i] = s.stats
			return nil
		})
	}
	_ = g.Wait()

	for _, s := range results {
		stats.add(s)
	}
}
