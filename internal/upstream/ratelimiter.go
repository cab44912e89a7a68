package upstream

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket guarding calls to the collector API. It
// admits up to burst calls at once and refills evenly, one token every
// period/burst.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   int
	burst    int
	step     time.Duration
	lastTick time.Time
}

// NewRateLimiter allows burst calls per period. The bucket starts full.
func NewRateLimiter(burst int, period time.Duration) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	step := period / time.Duration(burst)
	if step < time.Nanosecond {
		step = time.Nanosecond
	}
	return &RateLimiter{
		tokens:   burst,
		burst:    burst,
		step:     step,
		lastTick: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens > 0 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.step):
		}
	}
}

func (r *RateLimiter) refill() {
	ticks := int(time.Since(r.lastTick) / r.step)
	if ticks <= 0 {
		return
	}
	r.tokens += ticks
	if r.tokens > r.burst {
		r.tokens = r.burst
	}
	r.lastTick = r.lastTick.Add(time.Duration(ticks) * r.step)
}
