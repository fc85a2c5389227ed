package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stationcover/pkg/cover"
	"github.com/matzehuels/stationcover/pkg/errors"
	"github.com/matzehuels/stationcover/pkg/graph"
)

// benchOpts holds the command-line flags for the bench command.
type benchOpts struct {
	search   searchFlags
	seeds    []string
	variants []string
}

// benchRow is the outcome of one variant.
type benchRow struct {
	opts   cover.Options
	result cover.Result
	err    error
}

// benchCommand creates the bench command, which solves one graph with every
// combination of search strategies and compares the work each one did.
func (c *CLI) benchCommand() *cobra.Command {
	opts := benchOpts{search: newSearchFlags()}

	cmd := &cobra.Command{
		Use:   "bench [file|-]",
		Short: "Compare every search variant on one graph",
		Long: `Bench solves the graph once per combination of selection, bound, validity
check, branch order and seed, then prints nodes explored, nodes pruned and
time taken for each. Every exact run must agree on the cover size.`,
		Example: `  stationcover bench relays.txt
  stationcover bench --seeds greedy --timeout 5s relays.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			cfg.Solve.apply(cmd, &opts.search)
			return c.runBench(cmd, sourceArg(args), opts)
		},
	}

	opts.search.register(cmd, "input")
	cmd.Flags().StringSliceVar(&opts.seeds, "seeds", []string{string(cover.SeedGreedy)}, "seeds to compare: greedy, preprocess, none")
	cmd.Flags().StringSliceVar(&opts.variants, "only", nil, "run only these variants (sel/bound/validity/order)")

	return cmd
}

func (c *CLI) runBench(cmd *cobra.Command, source string, opts benchOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	runner := c.newRunner()

	popts := opts.search.pipelineOptions(source)
	base, err := popts.CoverOptions()
	if err != nil {
		return err
	}
	seeds := make([]cover.Seed, 0, len(opts.seeds))
	for _, s := range opts.seeds {
		seed, err := cover.ParseSeed(s)
		if err != nil {
			return err
		}
		seeds = append(seeds, seed)
	}

	g, err := c.loadGraph(cmd, runner, popts)
	if err != nil {
		return err
	}

	variants := benchVariants(base, seeds, opts.variants)
	if len(variants) == 0 {
		return errors.New(errors.ErrCodeInvalidOption, "no variant matches %v", opts.variants)
	}
	logger.Infof("Running %d variants", len(variants))

	prog := newProgress(logger)
	rows := runBench(ctx, g, variants)
	prog.done("Benchmark finished")

	fmt.Fprintln(cmd.OutOrStdout(), benchTable(rows))
	return checkBench(rows)
}

// benchVariants expands base into every variant for each seed, keeping only
// the variants named in only when it is non-empty.
func benchVariants(base cover.Options, seeds []cover.Seed, only []string) []cover.Options {
	keep := make(map[string]bool, len(only))
	for _, v := range only {
		keep[v] = true
	}
	var out []cover.Options
	for _, seed := range seeds {
		base.Seed = seed
		for _, v := range cover.Variants(base) {
			if len(keep) == 0 || keep[v.String()] {
				out = append(out, v)
			}
		}
	}
	return out
}

// runBench solves g with each variant in turn. Progress callbacks are
// dropped so the table is the only output.
func runBench(ctx context.Context, g *graph.Graph, variants []cover.Options) []benchRow {
	rows := make([]benchRow, 0, len(variants))
	for _, opts := range variants {
		if ctx.Err() != nil {
			break
		}
		opts.Progress, opts.Debug = nil, nil
		res, err := cover.Solve(ctx, g, opts)
		rows = append(rows, benchRow{opts: opts, result: res, err: err})
	}
	return rows
}

// checkBench reports an error when two exact runs disagree on the size.
func checkBench(rows []benchRow) error {
	best := -1
	for _, r := range rows {
		if r.err != nil {
			return fmt.Errorf("%s/%s: %w", r.opts, r.opts.Seed, r.err)
		}
		if !r.result.Exact {
			continue
		}
		if best >= 0 && r.result.Size != best {
			return errors.New(errors.ErrCodeInternal, "%s/%s found %d stations, another exact variant found %d",
				r.opts, r.opts.Seed, r.result.Size, best)
		}
		best = r.result.Size
	}
	return nil
}

// benchTable renders the rows with the fastest exact run highlighted.
func benchTable(rows []benchRow) string {
	fastest := -1
	for i, r := range rows {
		if r.err != nil || !r.result.Exact {
			continue
		}
		if fastest < 0 || r.result.Stats.Duration < rows[fastest].result.Stats.Duration {
			fastest = i
		}
	}

	data := make([][]string, len(rows))
	for i, r := range rows {
		exact := iconSuccess
		if !r.result.Exact {
			exact = iconWarning
		}
		data[i] = []string{
			r.opts.String(),
			string(r.opts.Seed),
			fmt.Sprint(r.result.Size),
			exact,
			fmt.Sprint(r.result.Stats.Explored),
			fmt.Sprint(r.result.Stats.Pruned),
			fmt.Sprint(r.result.Stats.DeadEnds),
			r.result.Stats.Duration.Round(time.Microsecond).String(),
		}
		if r.err != nil {
			data[i][2] = iconError
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Variant", "Seed", "Size", "Exact", "Explored", "Pruned", "Dead ends", "Time").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == fastest:
				return StyleSuccess
			case col == 0:
				return StyleValue
			default:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
		}).
		Render()
}
