package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stationcover/pkg/observability"
)

// logHooks reports observability events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

// RegisterHooks routes load, solve and HTTP events to the CLI logger at
// debug level. Call it once from main.
func (c *CLI) RegisterHooks() {
	h := &logHooks{logger: c.Logger}
	observability.SetLoadHooks(h)
	observability.SetSolveHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load start", "source", source)
}

func (h *logHooks) OnLoadComplete(_ context.Context, source string, vertices, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("load done", "source", source, "vertices", vertices, "edges", edges, "duration", d)
}

func (h *logHooks) OnSolveStart(_ context.Context, vertices, edges int) {
	h.logger.Debug("solve start", "vertices", vertices, "edges", edges)
}

func (h *logHooks) OnImprove(_ context.Context, size int) {
	h.logger.Debug("improved", "size", size)
}

func (h *logHooks) OnSolveComplete(_ context.Context, size int, exact bool, d time.Duration, err error) {
	h.logger.Debug("solve done", "size", size, "exact", exact, "duration", d, "err", err)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}
