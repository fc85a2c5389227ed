// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about graph loading, cover searches, and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by library packages, so the solver
// stays free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSolveHooks(&mySolveHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Solve().OnSolveStart(ctx, g.N(), g.M())
//	// ... search ...
//	observability.Solve().OnSolveComplete(ctx, size, exact, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Load Hooks
// =============================================================================

// LoadHooks receives events from graph loading.
type LoadHooks interface {
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, vertices, edges int, duration time.Duration, err error)
}

// =============================================================================
// Solve Hooks
// =============================================================================

// SolveHooks receives events from the branch-and-bound search.
//
// OnImprove may be called from several goroutines when the parallel search
// mode is enabled; implementations must be safe for concurrent use.
type SolveHooks interface {
	// OnSolveStart records the start of a search on a graph of the given size.
	OnSolveStart(ctx context.Context, vertices, edges int)

	// OnImprove records a new best cover size. Sizes reported during one
	// search are strictly decreasing.
	OnImprove(ctx context.Context, size int)

	// OnSolveComplete records the end of a search. exact is false when the
	// search was cut short by cancellation or a timeout.
	OnSolveComplete(ctx context.Context, size int, exact bool, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response sent for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLoadHooks is a no-op implementation of LoadHooks.
type NoopLoadHooks struct{}

func (NoopLoadHooks) OnLoadStart(context.Context, string) {}
func (NoopLoadHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopSolveHooks is a no-op implementation of SolveHooks.
type NoopSolveHooks struct{}

func (NoopSolveHooks) OnSolveStart(context.Context, int, int)                           {}
func (NoopSolveHooks) OnImprove(context.Context, int)                                   {}
func (NoopSolveHooks) OnSolveComplete(context.Context, int, bool, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                     {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	loadHooks  LoadHooks  = NoopLoadHooks{}
	solveHooks SolveHooks = NoopSolveHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetLoadHooks registers custom load hooks.
// This should be called once at application startup before any graph is loaded.
func SetLoadHooks(h LoadHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		loadHooks = h
	}
}

// SetSolveHooks registers custom solve hooks.
// This should be called once at application startup before any search runs.
func SetSolveHooks(h SolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solveHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before the server starts.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Load returns the registered load hooks.
func Load() LoadHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return loadHooks
}

// Solve returns the registered solve hooks.
func Solve() SolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solveHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	loadHooks = NoopLoadHooks{}
	solveHooks = NoopSolveHooks{}
	httpHooks = NoopHTTPHooks{}
}
