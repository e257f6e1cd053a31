package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/five82/shelf/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestCalculateBackoff_LongIntervalNotShortened(t *testing.T) {
	base := time.Minute
	if got := calculateBackoff(3, base); got != base {
		t.Fatalf("calculateBackoff(3, %v) = %v, want %v", base, got, base)
	}
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated int
	gets        int
	err         error
}

func (f *fakeCache) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated++
}

func (f *fakeCache) Get(context.Context) (state.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	return state.Snapshot{}, f.err
}

func (f *fakeCache) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invalidated, f.gets
}

func TestRefresh_TracksFailures(t *testing.T) {
	cache := &fakeCache{err: errors.New("connection refused")}
	ctx := context.Background()

	failures := refresh(ctx, cache, 0)
	failures = refresh(ctx, cache, failures)
	if failures != 2 {
		t.Fatalf("failures = %d, want 2", failures)
	}

	cache.err = nil
	if failures = refresh(ctx, cache, failures); failures != 0 {
		t.Fatalf("failures after success = %d, want 0", failures)
	}
	if inv, gets := cache.counts(); inv != 3 || gets != 3 {
		t.Fatalf("invalidated/gets = %d/%d, want 3/3", inv, gets)
	}
}

func TestRefresh_CanceledContextIsNotAFailure(t *testing.T) {
	cache := &fakeCache{err: context.Canceled}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := refresh(ctx, cache, 1); got != 1 {
		t.Fatalf("failures = %d, want unchanged 1", got)
	}
}

func TestStartPoller_RefreshesUntilCanceled(t *testing.T) {
	cache := &fakeCache{}
	ctx, cancel := context.WithCancel(context.Background())
	StartPoller(ctx, cache, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, gets := cache.counts(); gets >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("poller did not refresh")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
}

func TestStartPoller_DisabledForZeroInterval(t *testing.T) {
	cache := &fakeCache{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartPoller(ctx, cache, 0)

	time.Sleep(20 * time.Millisecond)
	if inv, gets := cache.counts(); inv != 0 || gets != 0 {
		t.Fatalf("invalidated/gets = %d/%d, want 0/0", inv, gets)
	}
}
