package upstream

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Fatal("burst waits should not block")
	}
}

func TestRateLimiterRefillsOverPeriod(t *testing.T) {
	limiter := NewRateLimiter(4, 20*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}

	time.Sleep(30 * time.Millisecond)
	start := time.Now()
	for i := 0; i < 4; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("refilled wait %d: %v", i, err)
		}
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Fatal("a full period should refill the whole burst")
	}
}

func TestRateLimiterPacesAfterBurst(t *testing.T) {
	start := time.Now()
	limiter := NewRateLimiter(2, 100*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("paced wait: %v", err)
	}
	// Third token cannot exist before one step (period/burst) has passed.
	if time.Since(start) < 50*time.Millisecond {
		t.Fatalf("third call returned before a token could refill: %v", time.Since(start))
	}
}

func TestRateLimiterHonorsContext(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	ctx := context.Background()
	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()

	err := limiter.Wait(timeoutCtx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
