// Package state provides the cache layer for the book collection.
//
// # Overview
//
// Store holds the canonical in-memory copy of the remote collection along
// with its staleness flag and fetch bookkeeping. Every reader (the UI, the
// background refresher, the mutation coordinator's callers) goes through it;
// nothing else talks to the remote store for reads.
//
// # Core Operations
//
//	Get(ctx)      fresh?  → copy of the snapshot, no I/O
//	              stale?  → join or start the one outstanding List call
//	Invalidate()  mark stale; never blocks, never fetches
//	Snapshot()    copy of whatever is cached right now
//
// # Request De-duplication
//
// Fetches run through a singleflight.Group under a single key, so overlapping
// Get calls share one List call and its result:
//
//	Get ─┐
//	Get ─┼─→ singleflight "collection" ─→ List() ─→ apply (write lock)
//	Get ─┘                                    │
//	      ←──────── same Snapshot ────────────┘
//
// # Invalidation Ordering
//
// Invalidate bumps a generation counter. A fetch records the generation it
// started under; if an invalidation lands while it is in flight, its result
// is applied but the snapshot stays stale. A Get remembers the generation it
// saw on entry and will not return the result of a fetch that started
// earlier, it waits for that fetch to finish and then runs another one.
// That gives the acting client read-your-writes after a mutation without
// ever having two fetches in flight.
//
// Several invalidations before the next Get coalesce into one refetch.
//
// # Failure Semantics
//
//	// Success: replace records, clear error
//	→ snapshot.Records = list result (records without id dropped)
//	→ snapshot.LastError = nil, ConsecutiveFailures = 0
//	→ snapshot.Version++
//
//	// Failure: keep old records, record error
//	→ snapshot.Records = <unchanged>
//	→ snapshot.LastError = err, ConsecutiveFailures++
//	→ snapshot.Stale = true
//
// Get returns the retained snapshot together with the error so callers can
// keep showing stale data. IsOffline reports two or more consecutive
// failures.
//
// # Cancellation
//
// The shared fetch runs on a detached context (optionally bounded by
// Options.FetchTimeout). A caller whose ctx ends returns early with
// ctx.Err(); the fetch finishes and is applied for everyone else.
//
// # Defensive Copying
//
// Snapshots are returned by value with cloned record slices and wrapped
// errors, so callers may modify what they receive. The snapshot is swapped
// under the write lock in one step; readers never see a partial update.
package state
