// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about transform gestures, history changes, script runs
// and served HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (Prometheus, OpenTelemetry, logs)
//
// Transform and history hooks carry no context: the interaction core is
// synchronous and never blocks. Script and HTTP hooks do.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTransformHooks(metrics.New(reg))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Transform().OnBegin("move", len(ids))
//	// ... updates ...
//	observability.Transform().OnCommit("move", len(ids), elapsed)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Transform Hooks
// =============================================================================

// TransformHooks receives events from transform sessions.
type TransformHooks interface {
	// OnBegin records a gesture that became active with n participants.
	OnBegin(mode string, participants int)

	// OnUpdate records one applied update and its snap statistics.
	OnUpdate(mode string, duration time.Duration, candidates, hits int)

	// OnCommit records a committed gesture and how long it was active.
	OnCommit(mode string, participants int, duration time.Duration)

	// OnCancel records a cancelled gesture.
	OnCancel(mode string)
}

// =============================================================================
// History Hooks
// =============================================================================

// HistoryHooks receives events from the undo history.
type HistoryHooks interface {
	// OnCommit records a new history entry with the given number of entity changes.
	OnCommit(changes int)

	// OnDiscard records a transaction that produced no entry.
	OnDiscard()

	// OnUndo records an undo step.
	OnUndo()

	// OnRedo records a redo step.
	OnRedo()
}

// =============================================================================
// Script Hooks
// =============================================================================

// ScriptHooks receives events from gesture script runs.
type ScriptHooks interface {
	OnStepStart(ctx context.Context, script string, step int, op string)
	OnStepComplete(ctx context.Context, script string, step int, op string, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the debug server.
type HTTPHooks interface {
	// OnRequest records a served request.
	OnRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTransformHooks is a no-op implementation of TransformHooks.
type NoopTransformHooks struct{}

func (NoopTransformHooks) OnBegin(string, int)                      {}
func (NoopTransformHooks) OnUpdate(string, time.Duration, int, int) {}
func (NoopTransformHooks) OnCommit(string, int, time.Duration)      {}
func (NoopTransformHooks) OnCancel(string)                          {}

// NoopHistoryHooks is a no-op implementation of HistoryHooks.
type NoopHistoryHooks struct{}

func (NoopHistoryHooks) OnCommit(int) {}
func (NoopHistoryHooks) OnDiscard()   {}
func (NoopHistoryHooks) OnUndo()      {}
func (NoopHistoryHooks) OnRedo()      {}

// NoopScriptHooks is a no-op implementation of ScriptHooks.
type NoopScriptHooks struct{}

func (NoopScriptHooks) OnStepStart(context.Context, string, int, string) {}
func (NoopScriptHooks) OnStepComplete(context.Context, string, int, string, time.Duration, error) {
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	transformHooks TransformHooks = NoopTransformHooks{}
	historyHooks   HistoryHooks   = NoopHistoryHooks{}
	scriptHooks    ScriptHooks    = NoopScriptHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetTransformHooks registers custom transform hooks.
// This should be called once at application startup before any gesture runs.
func SetTransformHooks(h TransformHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transformHooks = h
	}
}

// SetHistoryHooks registers custom history hooks.
func SetHistoryHooks(h HistoryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		historyHooks = h
	}
}

// SetScriptHooks registers custom script hooks.
func SetScriptHooks(h ScriptHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scriptHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Transform returns the registered transform hooks.
func Transform() TransformHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transformHooks
}

// History returns the registered history hooks.
func History() HistoryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return historyHooks
}

// Script returns the registered script hooks.
func Script() ScriptHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scriptHooks
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
	transformHooks = NoopTransformHooks{}
	historyHooks = NoopHistoryHooks{}
	scriptHooks = NoopScriptHooks{}
	httpHooks = NoopHTTPHooks{}
}
