package retry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfig_DecodeYAML(t *testing.T) {
	t.Parallel()

	raw := `
attempts: 5
timeout: 30s
wait_initial: 0.25
wait_max: 10s
wait_jitter: 500ms
wait_exp_base: 3.0
`

	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))

	pol, err := newPolicy(cfg.Options()...)
	require.NoError(t, err)

	attempts, ok := pol.attempts.Get()
	require.True(t, ok)
	assert.Equal(t, 5, attempts)

	timeout, ok := pol.timeout.Get()
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, timeout)

	assert.Equal(t, 250*time.Millisecond, pol.waitInitial, "bare numbers decode as seconds")
	assert.Equal(t, 10*time.Second, pol.waitMax)
	assert.Equal(t, 500*time.Millisecond, pol.waitJitter)
	assert.InEpsilon(t, 3.0, pol.waitExpBase, 1e-9)
}

func TestConfig_DecodeJSON(t *testing.T) {
	t.Parallel()

	raw := `{"attempts": 3, "timeout": "1m", "wait_initial": 2}`

	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))

	pol, err := newPolicy(cfg.Options()...)
	require.NoError(t, err)

	attempts, ok := pol.attempts.Get()
	require.True(t, ok)
	assert.Equal(t, 3, attempts)

	timeout, ok := pol.timeout.Get()
	require.True(t, ok)
	assert.Equal(t, time.Minute, timeout)

	assert.Equal(t, 2*time.Second, pol.waitInitial)
}

func TestConfig_ZeroMeansUnbounded(t *testing.T) {
	t.Parallel()

	raw := `
attempts: 0
timeout: 10s
`

	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))

	pol, err := newPolicy(cfg.Options()...)
	require.NoError(t, err)
	assert.True(t, pol.attempts.Empty())
	assert.True(t, pol.timeout.NonEmpty())
}

func TestConfig_UnboundedBothIsRejectedDownstream(t *testing.T) {
	t.Parallel()

	raw := `
attempts: 0
timeout: 0
`

	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))

	_, err := newPolicy(cfg.Options()...)
	require.ErrorIs(t, err, ErrUnboundedPolicy)
}

func TestConfig_EmptyKeepsDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config

	pol, err := newPolicy(cfg.Options()...)
	require.NoError(t, err)

	attempts, ok := pol.attempts.Get()
	require.True(t, ok)
	assert.Equal(t, 10, attempts)
	assert.Equal(t, 100*time.Millisecond, pol.waitInitial)
}

func TestSeconds_BadInput(t *testing.T) {
	t.Parallel()

	var cfg Config

	err := yaml.Unmarshal([]byte("timeout: not-a-duration"), &cfg)
	require.Error(t, err)
}

func TestSeconds_MarshalRoundTrip(t *testing.T) {
	t.Parallel()

	secs := Seconds(1500 * time.Millisecond)

	data, err := json.Marshal(secs)
	require.NoError(t, err)
	assert.JSONEq(t, `"1.5s"`, string(data))

	var decoded Seconds
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, secs, decoded)

	out, err := yaml.Marshal(secs)
	require.NoError(t, err)
	assert.Equal(t, "1.5s\n", string(out))

	var yamlDecoded Seconds
	require.NoError(t, yaml.Unmarshal(out, &yamlDecoded))
	assert.Equal(t, secs, yamlDecoded)
}
