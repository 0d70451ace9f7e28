package retry

import "context"

// Caller pre-binds a retry policy without a classifier, for call sites that
// share backoff/budget settings across many operations. Callers are
// immutable and may be reused concurrently; every Do runs a fresh session.
//
//	caller := retry.NewCaller(retry.WithAttempts(5))
//	err := caller.Do(ctx, retry.On(errUnavailable), op)
type Caller struct {
	opts []Option
}

// NewCaller builds a Caller from policy options. The classifier is supplied
// per call (or bound once via On).
func NewCaller(opts ...Option) *Caller {
	return &Caller{opts: opts}
}

// Do runs f with retries on failures matching the given classifier.
func (c *Caller) Do(ctx context.Context, on Classifier, f func(ctx context.Context) error) error {
	return Do(ctx, on, f, c.opts...)
}

// On binds the caller to a classifier, yielding a BoundCaller that only
// needs the operation per call.
func (c *Caller) On(on Classifier) *BoundCaller {
	return &BoundCaller{caller: c, on: on}
}

// BoundCaller is a Caller pre-bound to a classifier. Obtain one via
// Caller.On.
type BoundCaller struct {
	caller *Caller
	on     Classifier
}

// Do runs f with retries on the bound classifier.
func (b *BoundCaller) Do(ctx context.Context, f func(ctx context.Context) error) error {
	return b.caller.Do(ctx, b.on, f)
}

// CallValue runs f through the caller's policy and returns its value.
// Methods cannot carry their own type parameters, hence the free function.
func CallValue[T any](
	ctx context.Context,
	c *Caller,
	on Classifier,
	f func(ctx context.Context) (T, error),
) (T, error) {
	return DoValue(ctx, on, f, c.opts...)
}

// BoundCallValue is CallValue for a BoundCaller.
func BoundCallValue[T any](
	ctx context.Context,
	b *BoundCaller,
	f func(ctx context.Context) (T, error),
) (T, error) {
	return CallValue(ctx, b.caller, b.on, f)
}
