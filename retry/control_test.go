package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The tests in this file flip process-wide switches and therefore do not
// run in parallel. Each restores the default state it started from.

func TestSetActive_DisablesRetrying(t *testing.T) {
	SetActive(false)
	defer SetActive(true)

	callCount := 0
	err := Do(t.Context(), On(errUnavailable), func(ctx context.Context) error {
		callCount++

		return errUnavailable
	}, WithAttempts(10), WithWaitInitial(10*time.Second))

	require.Error(t, err)
	assert.Equal(t, errUnavailable, err, "the failure propagates unmodified")
	assert.Equal(t, 1, callCount, "inactive retrying means exactly one plain invocation")
}

func TestSetActive_DisabledBlockForm(t *testing.T) {
	SetActive(false)
	defer SetActive(true)

	rc := MustContext(On(errUnavailable), WithAttempts(10))

	attemptCount := 0

	attempts := rc.Begin(t.Context())
	for attempt := range attempts.All() {
		attemptCount++

		attempt.Record(errUnavailable)
	}

	assert.Equal(t, 1, attemptCount)
	assert.Equal(t, errUnavailable, attempts.Err())
}

func TestSetActive_Idempotent(t *testing.T) {
	defer SetActive(true)

	assert.True(t, IsActive())

	SetActive(false)
	SetActive(false)
	assert.False(t, IsActive())

	SetActive(true)
	SetActive(true)
	assert.True(t, IsActive())
}

func TestSetActive_RestoresNormalBehavior(t *testing.T) {
	SetActive(false)
	SetActive(true)

	callCount := 0
	err := Do(t.Context(), On(errUnavailable), func(ctx context.Context) error {
		callCount++
		if callCount < 2 {
			return errUnavailable
		}

		return nil
	}, fastOpts(WithAttempts(3))...)

	require.NoError(t, err)
	assert.Equal(t, 2, callCount)
}

func TestSetTesting_CapsAttemptsAndZeroesWaits(t *testing.T) {
	SetTesting(true, CapAttempts(2))
	defer SetTesting(false)

	callCount := 0
	start := time.Now()
	err := Do(t.Context(), On(errUnavailable), func(ctx context.Context) error {
		callCount++

		return errUnavailable
	}, WithAttempts(10), WithWaitInitial(5*time.Second), WithWaitJitter(time.Second))

	require.Error(t, err)
	assert.Equal(t, 2, callCount, "the testing cap beats the policy's ten attempts")
	assert.Less(t, time.Since(start), time.Second, "testing mode must not sleep")
}

func TestSetTesting_DefaultCapIsOne(t *testing.T) {
	SetTesting(true)
	defer SetTesting(false)

	callCount := 0
	err := Do(t.Context(), On(errUnavailable), func(ctx context.Context) error {
		callCount++

		return errUnavailable
	}, WithAttempts(10))

	require.Error(t, err)
	assert.Equal(t, 1, callCount)
}

func TestSetTesting_UncappedKeepsPolicyBound(t *testing.T) {
	SetTesting(true, Uncapped())
	defer SetTesting(false)

	callCount := 0
	start := time.Now()
	err := Do(t.Context(), On(errUnavailable), func(ctx context.Context) error {
		callCount++

		return errUnavailable
	}, WithAttempts(3), WithWaitInitial(5*time.Second))

	require.Error(t, err)
	assert.Equal(t, 3, callCount)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSetTesting_LastWriteWins(t *testing.T) {
	SetTesting(true, CapAttempts(5))
	SetTesting(true, CapAttempts(2))
	defer SetTesting(false)

	callCount := 0
	err := Do(t.Context(), On(errUnavailable), func(ctx context.Context) error {
		callCount++

		return errUnavailable
	}, WithAttempts(10))

	require.Error(t, err)
	assert.Equal(t, 2, callCount)
}

func TestSetTesting_DisablingClearsCap(t *testing.T) {
	SetTesting(true, CapAttempts(1))
	SetTesting(false)

	assert.Nil(t, currentTesting())

	callCount := 0
	err := Do(t.Context(), On(errUnavailable), func(ctx context.Context) error {
		callCount++

		return errUnavailable
	}, fastOpts(WithAttempts(3))...)

	require.Error(t, err)
	assert.Equal(t, 3, callCount)
}
