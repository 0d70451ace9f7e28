package retry

import (
	"context"
	"iter"
	"time"

	"github.com/gritlabs/grit/instrumentation"
	"github.com/gritlabs/grit/utils"
)

// contextBlockName is reported to hooks for block-form sessions that carry
// no explicit name.
const contextBlockName = "<context block>"

// RetryContext is an immutable, reusable handle on a classifier plus policy
// for retrying arbitrary blocks of code. Each call to Begin creates a fresh
// session, so one RetryContext may serve many concurrent callers.
type RetryContext struct {
	classifier Classifier
	pol        *policy
}

// NewContext builds a RetryContext for the block-retry calling convention.
//
//	rc := retry.MustContext(retry.On(errUnavailable), retry.WithAttempts(3))
//
//	attempts := rc.Begin(ctx)
//	for attempt := range attempts.All() {
//	    attempt.Record(doSomething(ctx))
//	}
//	if err := attempts.Err(); err != nil {
//	    return err
//	}
func NewContext(on Classifier, opts ...Option) (*RetryContext, error) {
	pol, err := newPolicy(opts...)
	if err != nil {
		return nil, err
	}

	if pol.name == "" {
		pol = pol.named(contextBlockName, pol.args, pol.kwargs)
	}

	return &RetryContext{classifier: on, pol: pol}, nil
}

// MustContext is NewContext but panics on an invalid policy. Use it for
// package-level call sites where misconfiguration is a programming error.
func MustContext(on Classifier, opts ...Option) *RetryContext {
	rc, err := NewContext(on, opts...)
	if err != nil {
		panic(err)
	}

	return rc
}

// named returns a copy of the context with a different hook identity.
func (rc *RetryContext) named(name string, args []any, kwargs map[string]any) *RetryContext {
	return &RetryContext{classifier: rc.classifier, pol: rc.pol.named(name, args, kwargs)}
}

// Begin starts one retry session. The returned Attempts is single-use:
// iterate it exactly once and consult Err afterwards.
func (rc *RetryContext) Begin(ctx context.Context) *Attempts {
	return &Attempts{ctx: ctx, rc: rc}
}

// Attempts is a lazy, finite sequence of Attempt handles driving one
// session of the retry state machine. It stops yielding once the session
// succeeds, fails terminally, or its context is canceled.
type Attempts struct {
	ctx  context.Context
	rc   *RetryContext
	used bool
	err  error
}

// Err returns the terminal failure of the session: nil after success (or
// after the caller broke out of the loop), otherwise the most recent
// attempt's error. Earlier failures of the same session are discarded.
func (as *Attempts) Err() error {
	return as.err
}

// All returns the attempt sequence. Each yielded Attempt spans one
// execution of the caller's block; the caller reports the block's outcome
// through Attempt.Record (not recording anything counts as success).
//
// The sequence is not re-iterable: a second range over the same Attempts
// yields nothing. Begin a new session instead.
func (as *Attempts) All() iter.Seq[*Attempt] {
	return func(yield func(*Attempt) bool) {
		if as.used {
			return
		}
		as.used = true

		// While retrying is off process-wide there is no retry logic at
		// all: one plain invocation whose outcome passes through unchanged.
		if !IsActive() {
			attempt := &Attempt{num: 1}
			if yield(attempt) {
				as.err = attempt.err
			}

			return
		}

		sess := newSession(as.rc.pol)

		for {
			if err := as.ctx.Err(); err != nil {
				as.err = err

				return
			}

			attempt := &Attempt{num: sess.attempt, pol: sess.pol}
			if !yield(attempt) {
				// The caller abandoned the session; nothing terminal to report.
				return
			}

			if attempt.err == nil {
				as.err = nil

				return
			}

			// A panicking classifier aborts the session; that is deliberate.
			verdict := as.rc.classifier.Classify(attempt.err)
			if !verdict.Retriable() || !sess.canRetry() {
				as.err = attempt.err

				return
			}

			wait := sess.nextWait(verdict)

			instrumentation.Emit(as.ctx, instrumentation.RetryDetails{
				Name:        sess.pol.name,
				Args:        sess.pol.args,
				Kwargs:      sess.pol.kwargs,
				RetryNum:    sess.attempt,
				WaitFor:     wait,
				WaitedSoFar: sess.cumulativeWait,
				CausedBy:    attempt.err,
			})

			sess.cumulativeWait += wait

			// The one suspension point. The timer select cooperates with the
			// caller's context, so cancellation tears the session down
			// mid-wait instead of being swallowed.
			if err := utils.SleepCtx(as.ctx, wait); err != nil {
				as.err = err

				return
			}

			sess.attempt++
		}
	}
}

// Attempt is the scoped handle for one execution of the caller's block
// within a session.
type Attempt struct {
	num int
	pol *policy
	err error
}

// Num is the 1-based number of this attempt within its session.
func (a *Attempt) Num() int {
	return a.num
}

// Record reports the outcome of the block guarded by this attempt. A nil
// error marks success and ends the session; a non-nil error is classified
// when control returns to the iterator. Calling Record again replaces the
// previous outcome.
func (a *Attempt) Record(err error) {
	a.err = err
}

// NextWait is the backoff before the next attempt if this one fails. It is
// a lower bound: possible random jitter is not included. Returns zero for
// sessions running with retrying deactivated.
func (a *Attempt) NextWait() time.Duration {
	if a.pol == nil {
		return 0
	}

	return backoffFloor(a.num+1, a.pol)
}
