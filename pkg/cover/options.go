package cover

import (
	"fmt"
	"math/bits"
	"strings"
	"time"

	"github.com/matzehuels/stationcover/pkg/errors"
)

// Selection chooses the undecided vertex to branch on at each search node.
type Selection string

const (
	// SelectMaxCoverage branches on the undecided vertex with the most open
	// incident edges, lowest id on ties.
	SelectMaxCoverage Selection = "maxCoverage"
	// SelectFirstUndecided branches on the lowest undecided id.
	SelectFirstUndecided Selection = "firstUndecided"
)

// Bound chooses the pruning test applied to each non-terminal node.
type Bound string

const (
	// BoundStrict prunes when |included|+1 >= best. A node that is not yet a
	// cover needs at least one more station, so it cannot beat best.
	BoundStrict Bound = "strict"
	// BoundLoose prunes when |included| >= best.
	BoundLoose Bound = "loose"
	// BoundMatching prunes when |included| plus the size of a greedy maximal
	// matching over the open edges reaches best. Every matched edge needs its
	// own station, so the sum is a lower bound on any completion.
	BoundMatching Bound = "matching"
)

// Validity chooses how a node decides that its included set is a cover.
type Validity string

const (
	// ValidityIncremental reads the open-edge counter kept by the State.
	ValidityIncremental Validity = "incremental"
	// ValidityFullScan rescans every edge at every node. Slower, used as a
	// cross-check.
	ValidityFullScan Validity = "fullScan"
)

// Order chooses which child of a branch vertex is explored first.
type Order string

const (
	OrderIncludeFirst Order = "includeFirst"
	OrderExcludeFirst Order = "excludeFirst"
)

// Seed chooses how the initial best-so-far cover is built.
type Seed string

const (
	// SeedGreedy starts from [GreedyMaxCoverage].
	SeedGreedy Seed = "greedy"
	// SeedPreprocess forces the neighbors of leaves into the root state and
	// starts from the completed [Preprocess] candidate set.
	SeedPreprocess Seed = "preprocess"
	// SeedNone starts from the trivial cover of all N vertices.
	SeedNone Seed = "none"
)

// DefaultThreshold is the preprocessing threshold: a vertex becomes a
// candidate when it would newly cover more than this many open edges.
const DefaultThreshold = 2

// Options configures [Solve]. The zero value is usable; empty fields take the
// defaults of [DefaultOptions] except Threshold, which is used as given.
type Options struct {
	Selection Selection
	Bound     Bound
	Validity  Validity
	Order     Order
	Seed      Seed

	// Threshold is the preprocessing gain threshold (see [Preprocess]).
	Threshold int

	// Workers is the number of goroutines solving subtrees. Values below 2
	// run the sequential search.
	Workers int

	// SplitDepth is the tree depth at which the parallel search hands
	// subtrees to workers. Zero derives it from Workers.
	SplitDepth int

	// Timeout caps the search. When it expires the best cover found so far
	// is returned with Result.Exact set to false. Zero means no limit.
	Timeout time.Duration

	// Progress is called when the best cover improves and periodically while
	// searching. best never increases between calls. Calls are serialized.
	Progress func(explored, pruned, best int)

	// Debug is called once when the search ends.
	Debug func(DebugInfo)
}

// DefaultOptions returns the recommended configuration.
func DefaultOptions() Options {
	return Options{
		Selection: SelectMaxCoverage,
		Bound:     BoundStrict,
		Validity:  ValidityIncremental,
		Order:     OrderIncludeFirst,
		Seed:      SeedGreedy,
		Threshold: DefaultThreshold,
		Workers:   1,
	}
}

// withDefaults fills empty fields and maps every enum field to its
// canonical spelling, since the engine compares against the constants.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	o.Selection = canonical(o.Selection, d.Selection, Selections())
	o.Bound = canonical(o.Bound, d.Bound, Bounds())
	o.Validity = canonical(o.Validity, d.Validity, Validities())
	o.Order = canonical(o.Order, d.Order, Orders())
	o.Seed = canonical(o.Seed, d.Seed, Seeds())
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Workers > 1 && o.SplitDepth == 0 {
		o.SplitDepth = bits.Len(uint(o.Workers)) + 2
	}
	return o
}

// Validate reports the first unrecognized or out-of-range field as an
// INVALID_OPTION error. Empty enum fields are accepted.
func (o Options) Validate() error {
	if o.Selection != "" {
		if _, err := ParseSelection(string(o.Selection)); err != nil {
			return err
		}
	}
	if o.Bound != "" {
		if _, err := ParseBound(string(o.Bound)); err != nil {
			return err
		}
	}
	if o.Validity != "" {
		if _, err := ParseValidity(string(o.Validity)); err != nil {
			return err
		}
	}
	if o.Order != "" {
		if _, err := ParseOrder(string(o.Order)); err != nil {
			return err
		}
	}
	if o.Seed != "" {
		if _, err := ParseSeed(string(o.Seed)); err != nil {
			return err
		}
	}
	if o.Threshold < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "threshold must be >= 0, got %d", o.Threshold)
	}
	if o.SplitDepth < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "split depth must be >= 0, got %d", o.SplitDepth)
	}
	if o.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "timeout must be >= 0, got %v", o.Timeout)
	}
	return nil
}

// String names the search variant, e.g. "maxCoverage/strict/incremental/includeFirst".
func (o Options) String() string {
	o = o.withDefaults()
	return fmt.Sprintf("%s/%s/%s/%s", o.Selection, o.Bound, o.Validity, o.Order)
}

// Variants returns every combination of Selection, Bound, Validity and Order
// applied on top of base.
func Variants(base Options) []Options {
	var out []Options
	for _, sel := range Selections() {
		for _, b := range Bounds() {
			for _, v := range Validities() {
				for _, ord := range Orders() {
					o := base
					o.Selection, o.Bound, o.Validity, o.Order = sel, b, v, ord
					out = append(out, o)
				}
			}
		}
	}
	return out
}

func Selections() []Selection { return []Selection{SelectMaxCoverage, SelectFirstUndecided} }
func Bounds() []Bound         { return []Bound{BoundStrict, BoundLoose, BoundMatching} }
func Validities() []Validity  { return []Validity{ValidityIncremental, ValidityFullScan} }
func Orders() []Order         { return []Order{OrderIncludeFirst, OrderExcludeFirst} }
func Seeds() []Seed           { return []Seed{SeedGreedy, SeedPreprocess, SeedNone} }

// =============================================================================
// Parsing
// =============================================================================

// ParseSelection parses a selection name. Matching ignores case, so both
// "maxCoverage" and "maxcoverage" are accepted.
func ParseSelection(s string) (Selection, error) {
	return parseEnum("selection", s, Selections())
}

// ParseBound parses a bound name.
func ParseBound(s string) (Bound, error) {
	return parseEnum("bound", s, Bounds())
}

// ParseValidity parses a validity mode name.
func ParseValidity(s string) (Validity, error) {
	return parseEnum("validity", s, Validities())
}

// ParseOrder parses a branch order name.
func ParseOrder(s string) (Order, error) {
	return parseEnum("order", s, Orders())
}

// ParseSeed parses a seed strategy name.
func ParseSeed(s string) (Seed, error) {
	return parseEnum("seed", s, Seeds())
}

// canonical returns def for an empty v, the matching constant when v names
// one in any case, and v unchanged otherwise.
func canonical[T ~string](v, def T, valid []T) T {
	if v == "" {
		return def
	}
	if c, err := parseEnum("", string(v), valid); err == nil {
		return c
	}
	return v
}

func parseEnum[T ~string](kind, s string, valid []T) (T, error) {
	names := make([]string, len(valid))
	for i, v := range valid {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
		names[i] = string(v)
	}
	var zero T
	return zero, errors.New(errors.ErrCodeInvalidOption, "unknown %s %q (valid: %s)", kind, s, strings.Join(names, ", "))
}
