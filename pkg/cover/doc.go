// Package cover finds minimum vertex covers: the smallest set of stations
// such that every relay (edge) has a station on at least one end.
//
// # The Search
//
// [Solve] runs an exact branch-and-bound over include/exclude decisions per
// vertex. Each node of the search tree is a [State] that partitions the
// vertices into included, excluded and undecided, and tracks which edges are
// still open (no included endpoint). At each node the engine:
//
//  1. Offers the included set to the incumbent if no edge is open
//  2. Gives up if nothing is undecided
//  3. Prunes when the bound shows no completion can beat the incumbent
//  4. Picks a branch vertex with [SelectBranchVertex]
//  5. Searches the include child and the exclude child
//
// Excluding a vertex next to an already excluded one is cut immediately,
// since their shared edge can no longer be covered.
//
// States are mutated on the way down and restored on the way back, so a
// sequential search allocates nothing per node.
//
// # Seeding
//
// The incumbent starts from a valid cover so that pruning bites from the first
// node:
//
//   - [SeedGreedy]: [GreedyMaxCoverage], the default
//   - [SeedPreprocess]: leaf neighbors from [Preprocess] are committed to the
//     root state, and the candidate set is completed with [CompleteCover]
//   - [SeedNone]: all N vertices
//
// # Variants
//
// The engine is parameterized rather than duplicated. [Options] selects the
// branch vertex rule, the bound, how cover completeness is detected, and which
// child is searched first. Every combination returns the same minimum size;
// they differ only in how much of the tree they visit. [Variants] enumerates
// them, which the bench command and the tests use.
//
// # Parallel Search
//
// With Options.Workers > 1 the top SplitDepth levels of the tree are expanded
// sequentially and each remaining subtree is solved on its own goroutine from a
// cloned State. Workers share one incumbent: its size is an atomic read on
// every bound check, and improvements are applied under a mutex.
//
// # Cancellation
//
//	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
//	defer cancel()
//	res, err := cover.Solve(ctx, g, cover.DefaultOptions())
//	if err == nil && !res.Exact {
//	    // res.Cover is valid but may not be minimum
//	}
//
// Cancellation is checked every 1024 nodes.
package cover
