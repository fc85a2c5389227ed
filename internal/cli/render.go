package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stationcover/pkg/pipeline"
)

// compressedExts are stripped before deriving output names from the input.
var compressedExts = map[string]bool{".gz": true, ".zst": true, ".lz4": true}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	search   searchFlags
	output   string   // output file, base path for several formats, or "-" for stdout
	formats  []string // svg, png, pdf, dot, json
	layout   string   // graphviz engine
	detailed bool     // label vertices with their degree
}

// renderCommand creates the render command, which solves a graph and draws
// it with the stations highlighted.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{search: newSearchFlags()}
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Draw a graph with its stations highlighted",
		Long: `Render solves the graph, then writes it in each requested format with the
stations of the minimum cover filled in. SVG, PNG and PDF output is laid out
with Graphviz; PNG and PDF additionally need rsvg-convert on PATH.`,
		Example: `  stationcover render relays.txt
  stationcover render -f svg,png -o out/relays relays.txt
  stationcover render -f dot -o - relays.txt | dot -Tpng > relays.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			cfg.Solve.apply(cmd, &opts.search)
			setString(cmd, "layout", &opts.layout, cfg.Render.Layout)
			if !cmd.Flags().Changed("detailed") && cfg.Render.Detailed {
				opts.detailed = true
			}

			opts.formats = pipeline.ParseFormats(formatsStr)
			if !cmd.Flags().Changed("format") && len(cfg.Render.Formats) > 0 {
				opts.formats = cfg.Render.Formats
			}
			if len(opts.formats) == 0 {
				opts.formats = []string{pipeline.FormatSVG}
			}
			if opts.output == "-" && len(opts.formats) > 1 {
				return fmt.Errorf("--output - needs exactly one format, got %d", len(opts.formats))
			}
			return c.runRender(cmd, sourceArg(args), opts)
		},
	}

	opts.search.register(cmd, "input")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (one format), base path (several), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.layout, "layout", "neato", "graphviz layout: neato, circo, fdp, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label vertices with their degree")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, source string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	runner := c.newRunner()

	popts := opts.search.pipelineOptions(source)
	popts.Formats = opts.formats
	popts.Layout = opts.layout
	popts.Detailed = opts.detailed
	if err := popts.Validate(); err != nil {
		return err
	}

	g, err := c.loadGraph(cmd, runner, popts)
	if err != nil {
		return err
	}

	newSearchObserver(logger).attach(&popts)
	res, err := runner.Solve(ctx, g, popts)
	if err != nil {
		return err
	}
	logger.Infof("Found %d stations", res.Size)

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+strings.Join(opts.formats, ", "))
	spinner.Start()
	artifacts, err := runner.Render(ctx, g, res.Cover, popts)
	if err != nil {
		spinner.StopWithError("render failed")
		return err
	}
	spinner.Stop()

	if opts.output == "-" {
		_, err := cmd.OutOrStdout().Write(artifacts[opts.formats[0]])
		return err
	}

	errOut := cmd.ErrOrStderr()
	printSuccess(errOut, "Rendered %d stations", res.Size)
	printStats(errOut, g.N(), g.M(), fmt.Sprintf("%d explored", res.Stats.Explored))
	for _, format := range opts.formats {
		path := outputPath(opts.output, source, format, len(opts.formats))
		if err := writeArtifact(path, artifacts[format]); err != nil {
			return err
		}
		printFile(errOut, path)
	}
	return nil
}

// outputPath names the file for format. A single format writes to output
// as given; otherwise output (or the input name) is a base path.
func outputPath(output, input, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path. Without output it strips the
// compression and format extensions from input; a known format extension
// on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" || input == "" {
			return "graph"
		}
		base := input
		if ext := filepath.Ext(base); compressedExts[ext] {
			base = strings.TrimSuffix(base, ext)
		}
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
