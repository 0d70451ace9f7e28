package retry

import (
	"go.uber.org/atomic"

	"github.com/gritlabs/grit/optional"
)

// Process-wide switches. Writes happen at application startup or in test
// setup/teardown; every session reads them once at creation. Plain atomic
// loads and stores are all the synchronization this needs.
var (
	active          = atomic.NewBool(true)                //nolint:gochecknoglobals
	testingOverride = atomic.NewPointer[testingState](nil) //nolint:gochecknoglobals
)

// testingState is the process-wide testing override. While set, every new
// session uses zero backoff and, if a cap is present, at most that many
// attempts regardless of the per-call policy.
type testingState struct {
	capAttempts optional.Value[int]
}

// SetActive activates or deactivates retrying process-wide. While inactive,
// every retry construct degrades to a single plain invocation of the
// operation. Idempotent: repeated identical calls change nothing.
func SetActive(v bool) {
	active.Store(v)
}

// IsActive reports whether retrying is active. The default is true.
func IsActive() bool {
	return active.Load()
}

// TestingOption configures the testing override installed by SetTesting.
type TestingOption func(*testingState)

// CapAttempts caps the attempts of every session created while the testing
// override is set, regardless of each policy's own attempt bound.
func CapAttempts(n int) TestingOption {
	return func(t *testingState) {
		t.capAttempts = optional.Some(n)
	}
}

// Uncapped removes the attempt cap: sessions keep their own attempt bounds
// and only the zero-backoff part of the override applies.
func Uncapped() TestingOption {
	return func(t *testingState) {
		t.capAttempts = optional.None[int]()
	}
}

// SetTesting enables or disables testing mode. While enabled, sessions use
// zero backoff and cap attempts at 1 unless changed via CapAttempts or
// Uncapped. Calling it again replaces the previous override outright; last
// write wins. Disabling clears the cap too.
//
// Tests that enable it must disable it again:
//
//	retry.SetTesting(true, retry.CapAttempts(2))
//	defer retry.SetTesting(false)
func SetTesting(enabled bool, opts ...TestingOption) {
	if !enabled {
		testingOverride.Store(nil)

		return
	}

	st := &testingState{capAttempts: optional.Some(1)}
	for _, opt := range opts {
		opt(st)
	}

	testingOverride.Store(st)
}

// currentTesting returns the testing override in effect, or nil.
func currentTesting() *testingState {
	return testingOverride.Load()
}
