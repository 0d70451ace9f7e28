package optional_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gritlabs/grit/optional"
)

func TestSomeAndNone(t *testing.T) {
	t.Parallel()

	some := optional.Some(42)
	value, ok := some.Get()
	require.True(t, ok)
	assert.Equal(t, 42, value)
	assert.True(t, some.NonEmpty())
	assert.False(t, some.Empty())

	none := optional.None[int]()
	_, ok = none.Get()
	assert.False(t, ok)
	assert.True(t, none.Empty())
	assert.False(t, none.NonEmpty())
}

func TestGetOrElse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, optional.Some(7).GetOrElse(99))
	assert.Equal(t, 99, optional.None[int]().GetOrElse(99))
}

func TestAll(t *testing.T) {
	t.Parallel()

	var seen []string
	for v := range optional.Some("hello").All() {
		seen = append(seen, v)
	}

	assert.Equal(t, []string{"hello"}, seen)

	for range optional.None[string]().All() {
		t.Fatal("an empty value must not yield")
	}
}

func TestOrElseFunc(t *testing.T) {
	t.Parallel()

	called := false
	alternative := func() optional.Value[int] {
		called = true

		return optional.Some(5)
	}

	assert.Equal(t, optional.Some(3), optional.Some(3).OrElseFunc(alternative))
	assert.False(t, called, "a present value must not compute the alternative")

	assert.Equal(t, optional.Some(5), optional.None[int]().OrElseFunc(alternative))
	assert.True(t, called)
}

func TestMap(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	deadline := optional.Map(optional.Some(time.Minute), start.Add)
	value, ok := deadline.Get()
	require.True(t, ok)
	assert.Equal(t, start.Add(time.Minute), value)

	assert.True(t, optional.Map(optional.None[time.Duration](), start.Add).Empty())
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Some(42)", optional.Some(42).String())
	assert.Equal(t, "None", optional.None[int]().String())
}
