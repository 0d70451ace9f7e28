package retry

import (
	"math"
	"math/rand"
	"time"
)

// computeBackoff returns the wait before attempt num+1, where num is the
// 1-based number of the attempt that just failed:
//
//	min(waitMax, waitInitial * waitExpBase^(num-1) + uniform(0, waitJitter))
//
// Once the unjittered exponential term alone reaches waitMax, the result is
// exactly waitMax with no jitter added.
func computeBackoff(num int, p *policy) time.Duration {
	var jitter time.Duration
	if p.waitJitter > 0 {
		//nolint:gosec // G404: non-cryptographic jitter
		jitter = time.Duration(rand.Float64() * float64(p.waitJitter))
	}

	// A zero initial wait would make the exponential term collapse, so the
	// backoff is jitter alone, clamped to the cap.
	if p.waitInitial == 0 {
		return min(p.waitMax, jitter)
	}

	exp := float64(p.waitInitial) * math.Pow(p.waitExpBase, float64(num-1))
	if exp >= float64(p.waitMax) {
		return p.waitMax
	}

	return min(p.waitMax, time.Duration(exp)+jitter)
}

// backoffFloor is computeBackoff without jitter: a lower bound for the wait
// before attempt num. Exposed to callers through Attempt.NextWait.
func backoffFloor(num int, p *policy) time.Duration {
	if p.waitInitial == 0 {
		return 0
	}

	exp := float64(p.waitInitial) * math.Pow(p.waitExpBase, float64(num-1))

	return min(p.waitMax, time.Duration(exp))
}
