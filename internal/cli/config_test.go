package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/stationcover/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[solve]
bound = "matching"
seed = "preprocess"
threshold = 0
workers = 4
timeout = "90s"

[render]
formats = ["svg", "dot"]
layout = "circo"
detailed = true

[serve]
addr = ":9090"
request_timeout = "5s"
rate = 2.5
max_vertices = 50
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Solve.Bound != "matching" || cfg.Solve.Seed != "preprocess" || cfg.Solve.Workers != 4 {
		t.Errorf("solve section = %+v", cfg.Solve)
	}
	if cfg.Solve.Threshold == nil || *cfg.Solve.Threshold != 0 {
		t.Errorf("Threshold = %v, want explicit 0", cfg.Solve.Threshold)
	}
	if got := time.Duration(cfg.Solve.Timeout); got != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", got)
	}
	if len(cfg.Render.Formats) != 2 || cfg.Render.Layout != "circo" || !cfg.Render.Detailed {
		t.Errorf("render section = %+v", cfg.Render)
	}

	sc := cfg.Serve.ServerConfig()
	if sc.Addr != ":9090" || sc.RequestTimeout != 5*time.Second || sc.RatePerSecond != 2.5 {
		t.Errorf("ServerConfig() = %+v", sc)
	}
	if sc.Limits.MaxVertices != 50 || sc.Limits.MaxEdges != 0 {
		t.Errorf("Limits = %+v", sc.Limits)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"unknown key", "[solve]\nbund = \"strict\"\n", errors.ErrCodeInvalidOption},
		{"bad duration", "[solve]\ntimeout = \"soon\"\n", errors.ErrCodeInvalidFormat},
		{"bad syntax", "[solve\n", errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("loadConfig() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("missing default config should not fail: %v", err)
	}
	if cfg.Solve.Bound != "" || cfg.Serve.Addr != "" {
		t.Errorf("missing config should be empty, got %+v", cfg)
	}

	_, err = loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing config error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadConfigDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	dir := filepath.Join(home, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte("[serve]\nburst = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Serve.Burst != 3 {
		t.Errorf("Burst = %d, want 3", cfg.Serve.Burst)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := configDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", appName); dir != want {
		t.Errorf("configDir() = %q, want %q", dir, want)
	}
}
