package realtime

import (
	"math/rand/v2"
	"time"
)

// backoffFloor prevents a strongly negative jitter draw from producing a
// zero delay and a tight retry loop.
const backoffFloor = 100 * time.Millisecond

// Delay computes the backoff delay for the given attempt number (1-based):
// the initial delay doubled per attempt, capped at max, scaled by a uniform
// jitter sample from [-jitter, jitter] and floored at 100ms. It is a pure
// function; callers own the actual wait.
func Delay(attempt int, initial, max time.Duration, jitter float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := initial
	for i := 1; i < attempt && base < max; i++ {
		base *= 2
	}
	if base > max {
		base = max
	}

	scale := 1.0
	if jitter > 0 {
		scale += (rand.Float64()*2 - 1) * jitter
	}
	delay := time.Duration(float64(base) * scale)
	if delay < backoffFloor {
		delay = backoffFloor
	}
	return delay
}
