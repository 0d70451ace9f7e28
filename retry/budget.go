package retry

import (
	"time"

	"github.com/gritlabs/grit/optional"
)

// session is the mutable state of one retry invocation: created when a
// wrapped call or block iteration begins, destroyed on first success or
// terminal failure. Sessions are never shared across goroutines.
type session struct {
	pol     *policy
	testing *testingState // snapshot taken at session creation

	attempt        int // 1-based number of the attempt currently running
	startedAt      time.Time
	deadline       optional.Value[time.Time]
	cumulativeWait time.Duration
}

// newSession captures the wall clock and the process-wide testing override
// once, so toggles flipped mid-session do not change its behavior.
func newSession(pol *policy) *session {
	startedAt := pol.clock.Now()

	// An absolute deadline is used verbatim; a timeout span is anchored at
	// the session start.
	deadline := pol.deadline.OrElseFunc(func() optional.Value[time.Time] {
		return optional.Map(pol.timeout, startedAt.Add)
	})

	return &session{
		pol:       pol,
		testing:   currentTesting(),
		attempt:   1,
		startedAt: startedAt,
		deadline:  deadline,
	}
}

// canRetry decides whether another attempt may start after a retriable
// failure. The three limits are independent gates, checked in order:
// testing cap, then the policy's attempt bound, then the deadline. A retry
// that would start at or after the deadline must not be attempted; the
// attempt already in flight was allowed to finish.
func (s *session) canRetry() bool {
	if s.testing != nil {
		if capAttempts, ok := s.testing.capAttempts.Get(); ok && s.attempt >= capAttempts {
			return false
		}
	}

	if maxAttempts, ok := s.pol.attempts.Get(); ok && s.attempt >= maxAttempts {
		return false
	}

	if deadline, ok := s.deadline.Get(); ok && !s.pol.clock.Now().Before(deadline) {
		return false
	}

	return true
}

// nextWait computes the backoff before the next attempt. A classifier
// override is used verbatim; the testing override forces zero.
func (s *session) nextWait(verdict Verdict) time.Duration {
	if s.testing != nil {
		return 0
	}

	if override, ok := verdict.WaitOverride(); ok {
		return override
	}

	return computeBackoff(s.attempt, s.pol)
}
