package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stationcover/pkg/cover"
	"github.com/matzehuels/stationcover/pkg/graph"
	"github.com/matzehuels/stationcover/pkg/pipeline"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	search    searchFlags
	showCover bool
	json      bool
	tui       bool
}

// solveOutput is the --json result.
type solveOutput struct {
	Size  int         `json:"size"`
	Cover []int       `json:"cover"`
	Exact bool        `json:"exact"`
	Stats cover.Stats `json:"stats"`
}

// solveCommand creates the solve command, which prints the size of a
// minimum vertex cover.
func (c *CLI) solveCommand() *cobra.Command {
	opts := solveOpts{search: newSearchFlags()}

	cmd := &cobra.Command{
		Use:   "solve [file|-]",
		Short: "Find the fewest stations that cover every relay",
		Long: `Solve reads a graph and prints the size of a minimum vertex cover.

The graph is read from a file or from standard input ("-" or no argument).
Files may be gzip (.gz), zstd (.zst) or lz4 (.lz4) compressed, and .json
files hold the JSON graph format.`,
		Example: `  stationcover solve relays.txt
  stationcover solve --show-cover --bound matching relays.txt.gz
  cat relays.txt | stationcover solve --workers 4 --timeout 30s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			cfg.Solve.apply(cmd, &opts.search)
			return c.runSolve(cmd, sourceArg(args), opts)
		},
	}

	opts.search.register(cmd, "format")
	cmd.Flags().BoolVar(&opts.showCover, "show-cover", false, "also print the station ids")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show live search progress")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, source string, opts solveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	runner := c.newRunner()

	popts := opts.search.pipelineOptions(source)
	if err := popts.Validate(); err != nil {
		return err
	}

	g, err := c.loadGraph(cmd, runner, popts)
	if err != nil {
		return err
	}

	var res cover.Result
	if opts.tui {
		res, err = solveWithTUI(ctx, cmd.ErrOrStderr(), runner, g, popts)
	} else {
		prog := newProgress(logger)
		newSearchObserver(logger).attach(&popts)
		res, err = runner.Solve(ctx, g, popts)
		if err == nil {
			prog.done(fmt.Sprintf("Searched %d nodes", res.Stats.Explored))
		}
	}
	if err != nil {
		return err
	}

	if !res.Exact {
		printWarning(cmd.ErrOrStderr(), "search stopped early; %d stations may not be minimum", res.Size)
	}
	return writeSolveResult(cmd, res, opts)
}

func writeSolveResult(cmd *cobra.Command, res cover.Result, opts solveOpts) error {
	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(solveOutput{Size: res.Size, Cover: res.Cover, Exact: res.Exact, Stats: res.Stats})
	}
	fmt.Fprintln(out, res.Size)
	if opts.showCover {
		fmt.Fprintln(out, formatStations(res.Cover))
	}
	return nil
}

// =============================================================================
// Shared Helpers
// =============================================================================

// sourceArg returns the graph source named by args, defaulting to stdin.
func sourceArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// loadGraph loads the graph named by opts.Source. Standard input is read
// from the command so tests can supply it.
func (c *CLI) loadGraph(cmd *cobra.Command, runner *pipeline.Runner, opts pipeline.Options) (*graph.Graph, error) {
	ctx := cmd.Context()
	format, err := opts.InputFormatValue()
	if err != nil {
		return nil, err
	}

	prog := newProgress(loggerFromContext(ctx))
	var g *graph.Graph
	if opts.Source == "-" {
		g, err = runner.LoadReader(ctx, "stdin", cmd.InOrStdin(), format)
	} else {
		g, err = runner.Load(ctx, opts.Source, format)
	}
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d vertices, %d edges", g.N(), g.M()))
	return g, nil
}
