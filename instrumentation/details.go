// Package instrumentation is the notification side-channel of the retry
// engine. Right before every inter-attempt wait the engine emits a
// RetryDetails record to the registered hooks; the built-in hooks forward
// it to Prometheus, slog, or OpenTelemetry.
package instrumentation

import (
	"context"
	"fmt"
	"time"
)

// RetryDetails describes one scheduled retry. It is handed to every
// registered hook strictly before the engine starts waiting.
type RetryDetails struct {
	// Name of the callable being retried.
	Name string

	// Args are the positional arguments the call site attached to its
	// policy, if any.
	Args []any

	// Kwargs are the named arguments the call site attached, if any.
	Kwargs map[string]any

	// RetryNum is the number of the attempt that just failed. Starts at 1
	// after the first failure.
	RetryNum int

	// WaitFor is the backoff the engine is about to sleep.
	WaitFor time.Duration

	// WaitedSoFar is the total time already slept in this session, not
	// including WaitFor.
	WaitedSoFar time.Duration

	// CausedBy is the failure that triggered the retry.
	CausedBy error
}

// RetryHook is called after an attempt has failed and a retry has been
// scheduled. The context is the retried call's context, so hooks can reach
// trace spans or loggers stored in it.
type RetryHook func(ctx context.Context, details RetryDetails)

// RetryHookFactory defers hook construction until the first scheduled
// retry. Use it for hooks whose setup is expensive or has side effects,
// like registering a metric.
type RetryHookFactory func() RetryHook

// Hook is either a RetryHook or a RetryHookFactory. Factories are resolved
// lazily, on the first scheduled retry after registration.
type Hook interface {
	resolve() RetryHook
}

func (h RetryHook) resolve() RetryHook { return h }

func (f RetryHookFactory) resolve() RetryHook { return f() }

// errorType names the dynamic type of err for use as a metric label.
func errorType(err error) string {
	if err == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%T", err)
}
