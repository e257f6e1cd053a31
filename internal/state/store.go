package state

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/five82/shelf/internal/catalog"
)

// Lister is the read half of catalog.Store; it is all the cache needs.
type Lister interface {
	List(ctx context.Context) ([]catalog.Record, error)
}

// Snapshot is a copy of the cached collection and its bookkeeping.
type Snapshot struct {
	Records             []catalog.Record
	Loaded              bool // at least one fetch has succeeded
	Stale               bool
	Fetching            bool
	Version             uint64 // bumped on every applied fetch
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive fetch failures
}

// IsOffline returns true when the store has been unreachable for multiple fetches.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Options tune a Store.
type Options struct {
	// StaleAfter ages out a loaded snapshot. Zero keeps it fresh until
	// Invalidate is called.
	StaleAfter time.Duration
	// FetchTimeout bounds a single List call. Zero means no extra bound
	// beyond the lister's own.
	FetchTimeout time.Duration
}

// Store owns the collection snapshot. Reads are served from memory while
// fresh; stale reads share a single outstanding fetch.
type Store struct {
	lister Lister
	opts   Options
	now    func() time.Time
	group  singleflight.Group

	mu       sync.RWMutex
	snapshot Snapshot
	// generation counts invalidations. A fetch remembers the generation it
	// started under and only clears Stale if no invalidation raced it.
	generation uint64
}

// fetchResult is what the shared fetch hands to every waiter.
type fetchResult struct {
	snapshot   Snapshot
	generation uint64
	err        error
}

const fetchKey = "collection"

// NewStore returns an empty, stale Store backed by lister.
func NewStore(lister Lister, opts Options) *Store {
	return &Store{
		lister:   lister,
		opts:     opts,
		now:      time.Now,
		snapshot: Snapshot{Stale: true},
	}
}

// Get returns the snapshot, fetching first when it is stale. Concurrent
// callers share one List call. A Get that starts after Invalidate never
// settles for a fetch that began before it.
//
// On fetch failure the previous records are kept and returned together
// with the error. If ctx ends first Get returns ctx.Err(); the fetch keeps
// running and its result is still applied.
func (s *Store) Get(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	want := s.generation
	fresh := s.isFreshLocked()
	s.mu.RUnlock()
	if fresh {
		return s.Snapshot(), nil
	}

	for {
		ch := s.group.DoChan(fetchKey, s.fetch)
		var res fetchResult
		select {
		case <-ctx.Done():
			return s.Snapshot(), ctx.Err()
		case r := <-ch:
			res = r.Val.(fetchResult)
		}
		if res.generation >= want {
			return res.snapshot, res.err
		}
		// Joined a fetch that predates our view of the collection; go again.
	}
}

// Invalidate marks the snapshot stale. It never blocks and never fetches;
// the next Get does.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.snapshot.Stale = true
}

// Snapshot returns a copy of the current snapshot without fetching.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *Store) isFreshLocked() bool {
	if !s.snapshot.Loaded || s.snapshot.Stale {
		return false
	}
	if s.opts.StaleAfter > 0 && s.now().Sub(s.snapshot.LastUpdated) >= s.opts.StaleAfter {
		return false
	}
	return true
}

func (s *Store) copyLocked() Snapshot {
	snap := s.snapshot
	snap.Records = catalog.CloneRecords(s.snapshot.Records)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// fetch runs under singleflight, so at most one is in flight.
func (s *Store) fetch() (any, error) {
	s.mu.Lock()
	if s.isFreshLocked() {
		// A fetch finished between the caller's freshness check and
		// joining the group; nothing was invalidated since.
		res := fetchResult{snapshot: s.copyLocked(), generation: s.generation}
		s.mu.Unlock()
		return res, nil
	}
	started := s.generation
	s.snapshot.Fetching = true
	s.mu.Unlock()

	// Detached from any caller: a caller giving up must not abort the
	// shared request.
	ctx := context.Background()
	if s.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()
	}
	records, err := s.lister.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Fetching = false
	s.snapshot.LastUpdated = s.now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		s.snapshot.Stale = true
		return fetchResult{snapshot: s.copyLocked(), generation: started, err: err}, nil
	}

	s.snapshot.Records = keepSaved(records)
	s.snapshot.Loaded = true
	s.snapshot.Version++
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	s.snapshot.Stale = s.generation != started
	return fetchResult{snapshot: s.copyLocked(), generation: started}, nil
}

func keepSaved(records []catalog.Record) []catalog.Record {
	out := make([]catalog.Record, 0, len(records))
	for _, rec := range records {
		if !rec.Saved() {
			log.Printf("dropping record without id from snapshot: %q", rec.Title)
			continue
		}
		out = append(out, rec)
	}
	return out
}
