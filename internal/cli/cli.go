// Package cli implements the stationcover command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log. Loggers
// are passed through context.Context so every command reports progress the
// same way.
//
// # Commands
//
//   - solve: Find a minimum vertex cover and print its size
//   - render: Draw a graph with its stations highlighted (SVG, PNG, PDF, DOT, JSON)
//   - bench: Compare every search variant on one graph
//   - serve: Run the HTTP API
//   - completion: Generate shell completion scripts
//
// # Configuration
//
// Defaults for every command can be set in a TOML file, by default
// $XDG_CONFIG_HOME/stationcover/config.toml. Flags given on the command line
// take precedence over the file.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stationcover/pkg/buildinfo"
	"github.com/matzehuels/stationcover/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stationcover"

	// configFileName is the name of the config file inside the config directory.
	configFileName = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a logger writing to w. Command
// results go to the command's output stream, so logs never mix with them.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stationcover places the fewest stations that cover every relay",
		Long: `Stationcover solves minimum vertex cover exactly: given a graph of relays,
it finds the smallest set of stations such that every relay has a station on
at least one end. The search is a branch-and-bound seeded by a greedy cover.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/stationcover/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// versionCommand prints the build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			printKeyValue(out, "version", buildinfo.Version)
			printKeyValue(out, "commit", buildinfo.Commit)
			printKeyValue(out, "built", buildinfo.Date)
			printKeyValue(out, "go", buildinfo.Get().GoVersion)
		},
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/stationcover/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
