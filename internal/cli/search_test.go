package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stationcover/pkg/cover"
)

func TestSearchObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := newSearchObserver(newLogger(&buf, log.InfoLevel))
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	obs.now = func() time.Time { return clock }

	lines := func() []string {
		return strings.Split(strings.TrimSpace(buf.String()), "\n")
	}

	obs.progress(0, 0, 5)
	obs.progress(10, 2, 4)
	clock = clock.Add(time.Second)
	obs.progress(20, 3, 4)

	got := lines()
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(got), buf.String())
	}
	if !strings.Contains(got[0], "Initial") || !strings.Contains(got[0], "stations=5") {
		t.Errorf("first line = %q", got[0])
	}
	if !strings.Contains(got[1], "Improved") || !strings.Contains(got[1], "stations=4") {
		t.Errorf("second line = %q", got[1])
	}

	clock = clock.Add(heartbeatInterval)
	obs.progress(30, 4, 4)
	got = lines()
	if len(got) != 3 || !strings.Contains(got[2], "searching") {
		t.Errorf("expected heartbeat line, got:\n%s", buf.String())
	}
}

func TestSearchFlagsPipelineOptions(t *testing.T) {
	f := newSearchFlags()
	f.bound = "matching"
	f.threshold = 0
	f.workers = 3
	f.timeout = 1500 * time.Millisecond

	opts := f.pipelineOptions("g.txt")
	if opts.Source != "g.txt" || opts.Bound != "matching" || opts.Workers != 3 {
		t.Errorf("pipelineOptions() = %+v", opts)
	}
	if opts.TimeoutMS != 1500 {
		t.Errorf("TimeoutMS = %d, want 1500", opts.TimeoutMS)
	}

	copts, err := opts.CoverOptions()
	if err != nil {
		t.Fatalf("CoverOptions() error = %v", err)
	}
	if copts.Threshold != 0 {
		t.Errorf("Threshold = %d, want explicit 0", copts.Threshold)
	}
	if copts.Selection != cover.SelectMaxCoverage {
		t.Errorf("Selection = %s, want default", copts.Selection)
	}
}
