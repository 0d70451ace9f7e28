package retry

import (
	"errors"
	"fmt"
	"time"

	"github.com/gritlabs/grit/optional"
)

// Defaults for a freshly constructed policy. They are tuned for talking to
// flaky remote dependencies: ten attempts within 45 seconds, backing off
// exponentially from 100ms up to 5s with up to 1s of jitter.
const (
	defaultAttempts    = 10
	defaultTimeout     = 45 * time.Second
	defaultWaitInitial = 100 * time.Millisecond
	defaultWaitMax     = 5 * time.Second
	defaultWaitJitter  = 1 * time.Second
	defaultWaitExpBase = 2.0
)

var (
	// ErrInvalidPolicy is wrapped by every policy validation failure.
	ErrInvalidPolicy = errors.New("retry: invalid policy")

	// ErrUnboundedPolicy is returned when neither attempts nor total time
	// bound the policy. Such a policy could retry forever.
	ErrUnboundedPolicy = errors.New("retry: policy must bound attempts or total time")
)

// Option configures a retry policy.
type Option func(*policy)

// policy holds the immutable configuration of one retry call site.
type policy struct {
	attempts optional.Value[int]           // bounded attempt count, None = unbounded
	timeout  optional.Value[time.Duration] // total session budget, None = unbounded
	deadline optional.Value[time.Time]     // absolute deadline, wins over timeout

	waitInitial time.Duration
	waitMax     time.Duration
	waitJitter  time.Duration
	waitExpBase float64

	name   string
	args   []any
	kwargs map[string]any

	clock Clock
}

// newPolicy builds and validates a policy from options.
func newPolicy(opts ...Option) (*policy, error) {
	pol := &policy{
		attempts:    optional.Some(defaultAttempts),
		timeout:     optional.Some(defaultTimeout),
		deadline:    optional.None[time.Time](),
		waitInitial: defaultWaitInitial,
		waitMax:     defaultWaitMax,
		waitJitter:  defaultWaitJitter,
		waitExpBase: defaultWaitExpBase,
		clock:       systemClock{},
	}

	for _, option := range opts {
		option(pol)
	}

	if err := pol.validate(); err != nil {
		return nil, err
	}

	return pol, nil
}

func (p *policy) validate() error {
	if p.attempts.Empty() && p.timeout.Empty() && p.deadline.Empty() {
		return ErrUnboundedPolicy
	}

	for attempts := range p.attempts.All() {
		if attempts < 1 {
			return fmt.Errorf("%w: attempts must be positive, got %d", ErrInvalidPolicy, attempts)
		}
	}

	for timeout := range p.timeout.All() {
		if timeout < 0 {
			return fmt.Errorf("%w: timeout must be non-negative, got %v", ErrInvalidPolicy, timeout)
		}
	}

	if p.waitInitial < 0 || p.waitMax < 0 || p.waitJitter < 0 {
		return fmt.Errorf("%w: wait durations must be non-negative", ErrInvalidPolicy)
	}

	if p.waitExpBase <= 1 {
		return fmt.Errorf("%w: wait_exp_base must be > 1, got %v", ErrInvalidPolicy, p.waitExpBase)
	}

	return nil
}

// named returns a shallow copy of the policy carrying the callable identity
// that instrumentation hooks report.
func (p *policy) named(name string, args []any, kwargs map[string]any) *policy {
	cp := *p
	cp.name = name
	cp.args = args
	cp.kwargs = kwargs

	return &cp
}

// WithAttempts bounds the total number of attempts per session.
// The default is 10. Use UnboundedAttempts to lift the bound (only valid
// together with a bounded timeout or deadline).
func WithAttempts(n int) Option {
	return func(p *policy) {
		p.attempts = optional.Some(n)
	}
}

// UnboundedAttempts removes the attempt bound. The policy must then be
// bounded by a timeout or deadline.
func UnboundedAttempts() Option {
	return func(p *policy) {
		p.attempts = optional.None[int]()
	}
}

// WithTimeout bounds the total time of a session, measured from its start.
// Once the budget is spent no further attempt begins; the attempt in flight
// is allowed to finish. The default is 45s.
func WithTimeout(d time.Duration) Option {
	return func(p *policy) {
		p.timeout = optional.Some(d)
	}
}

// UnboundedTimeout removes the time bound. The policy must then be bounded
// by an attempt count.
func UnboundedTimeout() Option {
	return func(p *policy) {
		p.timeout = optional.None[time.Duration]()
		p.deadline = optional.None[time.Time]()
	}
}

// WithDeadline bounds the session by an absolute point in time instead of a
// span. The deadline is used verbatim, not offset by the session start.
func WithDeadline(t time.Time) Option {
	return func(p *policy) {
		p.deadline = optional.Some(t)
	}
}

// WithWaitInitial sets the backoff before the first retry. Default 100ms.
func WithWaitInitial(d time.Duration) Option {
	return func(p *policy) {
		p.waitInitial = d
	}
}

// WithWaitMax caps the backoff between any two attempts. Default 5s.
func WithWaitMax(d time.Duration) Option {
	return func(p *policy) {
		p.waitMax = d
	}
}

// WithWaitJitter sets the maximum random jitter added to backoff delays.
// The jitter actually added is uniform in [0, d). Default 1s.
func WithWaitJitter(d time.Duration) Option {
	return func(p *policy) {
		p.waitJitter = d
	}
}

// WithWaitExpBase sets the exponential base of the backoff. Default 2.0.
func WithWaitExpBase(base float64) Option {
	return func(p *policy) {
		p.waitExpBase = base
	}
}

// WithName sets the callable name and positional arguments reported to
// instrumentation hooks. Without it, Do and Wrap derive the name from the
// function itself and the block form reports "<context block>".
func WithName(name string, args ...any) Option {
	return func(p *policy) {
		p.name = name
		p.args = args
	}
}

// WithKwargs sets the named arguments reported to instrumentation hooks.
func WithKwargs(kwargs map[string]any) Option {
	return func(p *policy) {
		p.kwargs = kwargs
	}
}

// WithClock replaces the wall clock used for deadline decisions.
// Intended for tests.
func WithClock(c Clock) Option {
	return func(p *policy) {
		p.clock = c
	}
}
