// Package mutation coordinates writes to the remote collection.
//
// Each Add, Update or Delete returns a *Call straight away and runs in its
// own goroutine. While it is outstanding Call.Pending reports true and the
// Coordinator counts it in Pending/PendingFor. When the store answers:
//
//   - success: the cache is invalidated, then the Notifier is told
//   - failure: the Notifier is told; the cache is not touched
//
// Done closes only after both steps, so a caller that waits on a call and
// then reads the cache observes the invalidation.
//
// The store request runs on a context detached from the caller's: giving up
// in Call.Wait does not abort it.
package mutation
