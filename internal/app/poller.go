package app

import (
	"context"
	"log"
	"time"

	"github.com/five82/shelf/internal/state"
)

const maxBackoff = 30 * time.Second

// Cache is the part of state.Store the poller drives.
type Cache interface {
	Invalidate()
	Get(ctx context.Context) (state.Snapshot, error)
}

// StartPoller launches a background goroutine that marks the cache stale and
// refetches it every interval, backing off while the store is unreachable.
// A non-positive interval disables polling. It returns immediately.
func StartPoller(ctx context.Context, cache Cache, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			failures = refresh(ctx, cache, failures)
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// refresh forces one refetch and returns the updated failure count.
func refresh(ctx context.Context, cache Cache, failures int) int {
	cache.Invalidate()
	snap, err := cache.Get(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return failures
		}
		log.Printf("collection refresh failed (%d in a row): %v", snap.ConsecutiveFailures, err)
		return failures + 1
	}
	if failures > 0 {
		log.Printf("collection refresh recovered after %d failures", failures)
	}
	return 0
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff. An interval already longer than the cap is left as is.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	limit := maxBackoff
	if base > limit {
		limit = base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= limit {
			return limit
		}
	}
	return d
}
