// Package utils holds small helpers shared across the module.
package utils

import (
	"context"
	"time"
)

// SleepCtx sleeps for dur or until ctx is done, whichever comes first, and
// returns ctx.Err() in the latter case. It is the retry engine's only
// suspension point: the timer select lets other work proceed and makes
// cancellation take effect mid-wait.
func SleepCtx(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
