package instrumentation

import (
	"context"
	"log/slog"

	"go.uber.org/atomic"

	"github.com/gritlabs/grit/lazy"
)

// registry holds the installed hook set. nil means "never set": the default
// hooks apply. Writes are rare (startup, test setup), reads happen once per
// scheduled retry, so a plain atomic pointer swap is all we need.
var registry = atomic.NewPointer[hookSet](nil) //nolint:gochecknoglobals

// defaultHooks is the set used when the application never registered any:
// a Prometheus counter plus warn-level slog records.
var defaultHooks = newHookSet([]Hook{PrometheusOnRetryHook, LoggingOnRetryHook}) //nolint:gochecknoglobals

// hookSet resolves factories at most once, on first use.
type hookSet struct {
	resolved *lazy.Of[[]RetryHook]
}

func newHookSet(hooks []Hook) *hookSet {
	return &hookSet{
		resolved: lazy.New(func() []RetryHook {
			out := make([]RetryHook, 0, len(hooks))
			for _, h := range hooks {
				out = append(out, h.resolve())
			}

			return out
		}),
	}
}

// SetOnRetryHooks replaces the registered hooks. Factories among them are
// evaluated lazily on the first scheduled retry. Calling with no arguments
// disables instrumentation entirely; use ResetOnRetryHooks to go back to
// the defaults.
func SetOnRetryHooks(hooks ...Hook) {
	registry.Store(newHookSet(hooks))
}

// ResetOnRetryHooks restores the default hook set. Mostly useful in test
// teardown.
func ResetOnRetryHooks() {
	registry.Store(nil)
}

// OnRetryHooks returns the hooks in effect, resolving factories if this is
// their first use.
func OnRetryHooks() []RetryHook {
	if hs := registry.Load(); hs != nil {
		return hs.resolved.Get()
	}

	return defaultHooks.resolved.Get()
}

// Emit hands details to every registered hook. A hook that panics is
// isolated: instrumentation is best-effort and must never corrupt the retry
// session that triggered it.
func Emit(ctx context.Context, details RetryDetails) {
	for _, hook := range OnRetryHooks() {
		emitOne(ctx, hook, details)
	}
}

func emitOne(ctx context.Context, hook RetryHook, details RetryDetails) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "retry hook panicked", "panic", r, "callable", details.Name)
		}
	}()

	hook(ctx, details)
}
