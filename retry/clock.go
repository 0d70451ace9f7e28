package retry

import "time"

// Clock abstracts wall-clock reads so deadline behavior can be tested
// without real sleeps.
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock backed by time.Now.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
