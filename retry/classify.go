package retry

import (
	"errors"
	"time"
)

// Verdict is the outcome of classifying a failure: not retriable, retriable
// with the policy's backoff, or retriable after a caller-supplied wait.
type Verdict struct {
	kind  verdictKind
	after time.Duration
}

type verdictKind int

const (
	verdictNoRetry verdictKind = iota
	verdictRetry
	verdictRetryAfter
)

// NoRetry marks a failure as non-retriable. It propagates immediately.
func NoRetry() Verdict { return Verdict{kind: verdictNoRetry} }

// Retry marks a failure as retriable with the policy's computed backoff.
func Retry() Verdict { return Verdict{kind: verdictRetry} }

// RetryAfter marks a failure as retriable and overrides the wait before the
// next attempt. The duration is used verbatim: no jitter is added and the
// policy's wait cap does not apply.
func RetryAfter(d time.Duration) Verdict { return Verdict{kind: verdictRetryAfter, after: d} }

// Retriable reports whether the verdict allows another attempt.
func (v Verdict) Retriable() bool { return v.kind != verdictNoRetry }

// WaitOverride returns the caller-supplied wait and whether one was given.
func (v Verdict) WaitOverride() (time.Duration, bool) {
	return v.after, v.kind == verdictRetryAfter
}

// Classifier decides whether a failure raised by the retried operation
// should trigger another attempt.
//
// A panic inside Classify is never recovered by the retry engine: a broken
// classifier aborts the whole session, it is not a "do not retry" verdict.
type Classifier interface {
	Classify(err error) Verdict
}

// onErrors matches a fixed set of failure kinds via errors.Is, so wrapped
// chains and sentinel values both match.
type onErrors struct {
	targets []error
}

func (o onErrors) Classify(err error) Verdict {
	for _, target := range o.targets {
		if errors.Is(err, target) {
			return Retry()
		}
	}

	return NoRetry()
}

// On retries on failures matching any of the given targets, in the
// errors.Is sense. Everything else propagates on first occurrence.
//
// Example:
//
//	err := retry.Do(ctx, retry.On(io.ErrUnexpectedEOF, syscall.ECONNRESET), op)
func On(targets ...error) Classifier {
	return onErrors{targets: targets}
}

// onType matches one failure type via errors.As, covering subtypes wrapped
// anywhere in the chain.
type onType[E error] struct{}

func (onType[E]) Classify(err error) Verdict {
	var target E
	if errors.As(err, &target) {
		return Retry()
	}

	return NoRetry()
}

// OnTypes retries on failures whose chain contains an error of type E.
//
// Example:
//
//	retry.OnTypes[*net.OpError]()
func OnTypes[E error]() Classifier {
	return onType[E]{}
}

// onFunc adapts a predicate returning a full Verdict.
type onFunc func(error) Verdict

func (f onFunc) Classify(err error) Verdict { return f(err) }

// OnFunc retries according to a predicate that returns a Verdict. Use this
// when the decision needs more context than the error kind, for example to
// honor a server-supplied Retry-After delay via RetryAfter.
func OnFunc(predicate func(error) Verdict) Classifier {
	return onFunc(predicate)
}

// OnPredicate retries when the given boolean predicate returns true.
func OnPredicate(predicate func(error) bool) Classifier {
	return onFunc(func(err error) Verdict {
		if predicate(err) {
			return Retry()
		}

		return NoRetry()
	})
}
