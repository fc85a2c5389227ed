package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stationcover/internal/server"
	"github.com/matzehuels/stationcover/pkg/errors"
)

// Config is the on-disk configuration. Every field is optional; unset
// fields keep the command's built-in default.
//
//	[solve]
//	bound = "matching"
//	workers = 4
//	timeout = "2m"
//
//	[render]
//	formats = ["svg", "png"]
//	layout = "circo"
//
//	[serve]
//	addr = ":9090"
//	rate = 10.0
type Config struct {
	Solve  SolveConfig  `toml:"solve"`
	Render RenderConfig `toml:"render"`
	Serve  ServeConfig  `toml:"serve"`
}

// SolveConfig holds search defaults shared by solve, render and bench.
type SolveConfig struct {
	Selection string   `toml:"selection"`
	Bound     string   `toml:"bound"`
	Validity  string   `toml:"validity"`
	Order     string   `toml:"order"`
	Seed      string   `toml:"seed"`
	Threshold *int     `toml:"threshold"`
	Workers   int      `toml:"workers"`
	Timeout   duration `toml:"timeout"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Formats  []string `toml:"formats"`
	Layout   string   `toml:"layout"`
	Detailed bool     `toml:"detailed"`
}

// ServeConfig holds API server defaults.
type ServeConfig struct {
	Addr           string   `toml:"addr"`
	RequestTimeout duration `toml:"request_timeout"`
	Rate           float64  `toml:"rate"`
	Burst          int      `toml:"burst"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
	MaxVertices    int      `toml:"max_vertices"`
	MaxEdges       int      `toml:"max_edges"`
	MaxWorkers     int      `toml:"max_workers"`
	CacheEntries   int      `toml:"cache_entries"`
	CacheTTL       duration `toml:"cache_ttl"`
}

// duration decodes TOML strings such as "90s" or "2m".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// ServerConfig converts the serve section into a server.Config. Zero
// fields are left for the server to default.
func (c ServeConfig) ServerConfig() server.Config {
	return server.Config{
		Addr:           c.Addr,
		RequestTimeout: time.Duration(c.RequestTimeout),
		RatePerSecond:  c.Rate,
		Burst:          c.Burst,
		MaxBodyBytes:   c.MaxBodyBytes,
		Limits:         errors.Limits{MaxVertices: c.MaxVertices, MaxEdges: c.MaxEdges},
		MaxWorkers:     c.MaxWorkers,
		CacheEntries:   c.CacheEntries,
		CacheTTL:       time.Duration(c.CacheTTL),
	}
}

// loadConfig reads the config file at path. An empty path means the default
// location, which may be absent. An explicit path must exist.
func loadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidOption, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// config loads the file named by --config, or the default one.
func (c *CLI) config() (Config, error) {
	return loadConfig(c.configPath)
}

// =============================================================================
// Flag Merging
// =============================================================================

// setString overwrites dst with v when the flag was not given explicitly.
func setString(cmd *cobra.Command, flag string, dst *string, v string) {
	if v != "" && !cmd.Flags().Changed(flag) {
		*dst = v
	}
}

// setInt overwrites dst with v when the flag was not given explicitly.
func setInt(cmd *cobra.Command, flag string, dst *int, v int) {
	if v != 0 && !cmd.Flags().Changed(flag) {
		*dst = v
	}
}

// apply fills search flags the user left unset from the solve section.
func (s SolveConfig) apply(cmd *cobra.Command, f *searchFlags) {
	setString(cmd, "selection", &f.selection, s.Selection)
	setString(cmd, "bound", &f.bound, s.Bound)
	setString(cmd, "validity", &f.validity, s.Validity)
	setString(cmd, "order", &f.order, s.Order)
	setString(cmd, "seed", &f.seed, s.Seed)
	setInt(cmd, "workers", &f.workers, s.Workers)
	if s.Threshold != nil && !cmd.Flags().Changed("threshold") {
		f.threshold = *s.Threshold
	}
	if s.Timeout != 0 && !cmd.Flags().Changed("timeout") {
		f.timeout = time.Duration(s.Timeout)
	}
}
