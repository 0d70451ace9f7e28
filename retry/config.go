package retry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Seconds is a duration that decodes from either a bare number of seconds
// or a Go duration string, so config files may say `timeout: 45` as well as
// `timeout: 45s`. Both normalize to the same internal representation.
type Seconds time.Duration

// Duration returns the normalized duration.
func (s Seconds) Duration() time.Duration { return time.Duration(s) }

func (s Seconds) String() string { return time.Duration(s).String() }

func parseSeconds(raw string) (Seconds, error) {
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return Seconds(time.Duration(secs * float64(time.Second))), nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("retry: cannot parse duration %q: %w", raw, err)
	}

	return Seconds(d), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Seconds) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := parseSeconds(value.Value)
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Seconds) MarshalYAML() (any, error) {
	return time.Duration(s).String(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Seconds) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		*s = Seconds(time.Duration(v * float64(time.Second)))

		return nil
	case string:
		parsed, err := parseSeconds(v)
		if err != nil {
			return err
		}

		*s = parsed

		return nil
	default:
		return fmt.Errorf("retry: cannot parse duration from %T", raw) //nolint:err113
	}
}

// MarshalJSON implements json.Marshaler.
func (s Seconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(s).String())
}

// Config is a declarative retry policy for services that keep retry
// settings in configuration files rather than code. Zero-value fields fall
// back to the package defaults; an explicit 0 for attempts or timeout means
// unbounded.
//
//	retries:
//	  attempts: 5
//	  timeout: 30s
//	  wait_initial: 0.25
//	  wait_max: 10s
type Config struct {
	Attempts    *int     `json:"attempts"      yaml:"attempts"`
	Timeout     *Seconds `json:"timeout"       yaml:"timeout"`
	WaitInitial *Seconds `json:"wait_initial"  yaml:"wait_initial"`
	WaitMax     *Seconds `json:"wait_max"      yaml:"wait_max"`
	WaitJitter  *Seconds `json:"wait_jitter"   yaml:"wait_jitter"`
	WaitExpBase *float64 `json:"wait_exp_base" yaml:"wait_exp_base"`
}

// Options translates the config into policy options. Validation still
// happens where the options are applied, so a config bounding neither
// attempts nor time fails at Do/NewContext time.
func (c Config) Options() []Option {
	var opts []Option

	if c.Attempts != nil {
		if *c.Attempts == 0 {
			opts = append(opts, UnboundedAttempts())
		} else {
			opts = append(opts, WithAttempts(*c.Attempts))
		}
	}

	if c.Timeout != nil {
		if *c.Timeout == 0 {
			opts = append(opts, UnboundedTimeout())
		} else {
			opts = append(opts, WithTimeout(c.Timeout.Duration()))
		}
	}

	if c.WaitInitial != nil {
		opts = append(opts, WithWaitInitial(c.WaitInitial.Duration()))
	}

	if c.WaitMax != nil {
		opts = append(opts, WithWaitMax(c.WaitMax.Duration()))
	}

	if c.WaitJitter != nil {
		opts = append(opts, WithWaitJitter(c.WaitJitter.Duration()))
	}

	if c.WaitExpBase != nil {
		opts = append(opts, WithWaitExpBase(*c.WaitExpBase))
	}

	return opts
}
