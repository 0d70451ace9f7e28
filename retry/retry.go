// Package retry is a policy-driven retry engine for code that talks to
// unreliable dependencies. Given an operation and a classification of which
// failures are retriable, it re-runs the operation until it succeeds,
// exhausts its attempt/time budget, or fails in a non-retriable way,
// backing off exponentially with jitter in between.
//
// The package offers three calling conventions over one decision engine:
// one-shot functions (Do, DoValue), wrappers that decorate a function once
// and reuse its policy on every call (Wrap, WrapValue), and a block form
// (NewContext) that retries arbitrary code via an iterator of Attempt
// handles.
//
// Basic usage:
//
//	err := retry.Do(ctx, retry.On(errUnavailable), func(ctx context.Context) error {
//	    return makeAPICall(ctx)
//	})
//
// With custom options:
//
//	err := retry.Do(ctx, retry.On(errUnavailable), operation,
//	    retry.WithAttempts(5),
//	    retry.WithTimeout(10*time.Second),
//	)
//
// For operations that return values:
//
//	result, err := retry.DoValue(ctx, retry.On(errUnavailable),
//	    func(ctx context.Context) (string, error) {
//	        return fetchData(ctx)
//	    })
//
// Process-wide switches exist for test suites: SetActive(false) turns every
// retry construct into a single plain invocation, and SetTesting forces
// zero backoff with a capped attempt count.
package retry

import (
	"context"
	"reflect"
	"runtime"

	"github.com/gritlabs/grit/zero"
)

// unknownName is reported to hooks when a callable's name cannot be derived.
const unknownName = "<unknown>"

// Do executes f with retry logic until it succeeds, a failure is classified
// as non-retriable, or the attempt/time budget runs out. Exactly one error
// is ever surfaced: the most recent attempt's, unchanged.
func Do(ctx context.Context, on Classifier, f func(ctx context.Context) error, opts ...Option) error {
	rc, err := NewContext(on, opts...)
	if err != nil {
		return err
	}

	return rc.do(ctx, callableName(f), f)
}

// DoValue is Do for operations that return a value. On terminal failure it
// returns the zero value of T and the last error encountered.
func DoValue[T any](
	ctx context.Context,
	on Classifier,
	f func(ctx context.Context) (T, error),
	opts ...Option,
) (T, error) {
	var out T

	err := Do(ctx, on, func(ctx context.Context) error {
		var err error

		out, err = f(ctx)

		return err
	}, append([]Option{WithName(callableName(f))}, opts...)...)
	if err != nil {
		return zero.Value[T](), err
	}

	return out, nil
}

// Wrap decorates f with a retry policy fixed at wrap time. The returned
// function has the same shape as f and runs one full session per call.
// Wrap panics on an invalid policy: decorating with a broken configuration
// is a programming error caught at definition time.
func Wrap(on Classifier, f func(ctx context.Context) error, opts ...Option) func(ctx context.Context) error {
	rc := MustContext(on, opts...)
	name := callableName(f)

	return func(ctx context.Context) error {
		return rc.do(ctx, name, f)
	}
}

// WrapValue is Wrap for functions that return a value.
func WrapValue[T any](
	on Classifier,
	f func(ctx context.Context) (T, error),
	opts ...Option,
) func(ctx context.Context) (T, error) {
	rc := MustContext(on, opts...)
	name := callableName(f)

	return func(ctx context.Context) (T, error) {
		var out T

		err := rc.do(ctx, name, func(ctx context.Context) error {
			var err error

			out, err = f(ctx)

			return err
		})
		if err != nil {
			return zero.Value[T](), err
		}

		return out, nil
	}
}

// do runs one full session around f, driving the same attempt iterator as
// the block form.
func (rc *RetryContext) do(ctx context.Context, name string, f func(ctx context.Context) error) error {
	bound := rc
	if rc.pol.name == contextBlockName && name != "" {
		bound = rc.named(name, rc.pol.args, rc.pol.kwargs)
	}

	attempts := bound.Begin(ctx)
	for attempt := range attempts.All() {
		attempt.Record(f(ctx))
	}

	return attempts.Err()
}

// callableName derives a stable hook-facing name for f from its runtime
// symbol, e.g. "github.com/acme/billing.(*Client).Charge".
func callableName(f any) string {
	v := reflect.ValueOf(f)
	if v.Kind() != reflect.Func {
		return unknownName
	}

	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return unknownName
	}

	return fn.Name()
}
