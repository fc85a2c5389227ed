package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stationcover/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API until the
// process is interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var cfg server.Config

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes the solver over HTTP:

  POST /v1/solve    solve a graph sent as the request body
  POST /v1/render   solve and draw a graph (format=svg|dot|json)
  GET  /healthz     liveness probe
  GET  /version     build information`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := c.config()
			if err != nil {
				return err
			}
			mergeServeConfig(cmd, &cfg, file.Serve)
			return server.New(cfg, c.Logger).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&cfg.RequestTimeout, "request-timeout", server.DefaultRequestTimeout, "maximum search time per request")
	cmd.Flags().Float64Var(&cfg.RatePerSecond, "rate", server.DefaultRatePerSecond, "solve requests per second")
	cmd.Flags().IntVar(&cfg.Burst, "burst", server.DefaultBurst, "request burst size")
	cmd.Flags().IntVar(&cfg.MaxWorkers, "max-workers", server.DefaultMaxWorkers, "upper bound for the workers parameter")
	cmd.Flags().IntVar(&cfg.Limits.MaxVertices, "max-vertices", server.DefaultMaxVertices, "largest accepted graph (vertices)")
	cmd.Flags().IntVar(&cfg.Limits.MaxEdges, "max-edges", server.DefaultMaxEdges, "largest accepted graph (edges)")
	cmd.Flags().IntVar(&cfg.CacheEntries, "cache-entries", 0, "keep this many exact results in memory (0 = off)")
	cmd.Flags().DurationVar(&cfg.CacheTTL, "cache-ttl", time.Hour, "lifetime of cached results")

	return cmd
}

// mergeServeConfig fills flags the user left unset from the serve section.
func mergeServeConfig(cmd *cobra.Command, dst *server.Config, file ServeConfig) {
	from := file.ServerConfig()
	setString(cmd, "addr", &dst.Addr, from.Addr)
	setInt(cmd, "burst", &dst.Burst, from.Burst)
	setInt(cmd, "max-workers", &dst.MaxWorkers, from.MaxWorkers)
	setInt(cmd, "max-vertices", &dst.Limits.MaxVertices, from.Limits.MaxVertices)
	setInt(cmd, "max-edges", &dst.Limits.MaxEdges, from.Limits.MaxEdges)
	if from.RequestTimeout > 0 && !cmd.Flags().Changed("request-timeout") {
		dst.RequestTimeout = from.RequestTimeout
	}
	if from.RatePerSecond > 0 && !cmd.Flags().Changed("rate") {
		dst.RatePerSecond = from.RatePerSecond
	}
	setInt(cmd, "cache-entries", &dst.CacheEntries, from.CacheEntries)
	if from.CacheTTL > 0 && !cmd.Flags().Changed("cache-ttl") {
		dst.CacheTTL = from.CacheTTL
	}
	if from.MaxBodyBytes > 0 {
		dst.MaxBodyBytes = from.MaxBodyBytes
	}
}
