package mutation

import (
	"context"
	"log"
	"sync"

	"github.com/five82/shelf/internal/catalog"
)

// Op names a mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Invalidator is the slice of the cache layer the coordinator drives.
type Invalidator interface {
	Invalidate()
}

// Outcome is reported to the Notifier when a call settles.
type Outcome struct {
	Op     Op
	ID     catalog.ID     // target id; for adds, the id the store assigned
	Record catalog.Record // zero for deletes and failures
	Err    error
}

// Succeeded reports whether the call completed without error.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Reason is the failure tag ("transport", "not_found", "validation"), or ""
// on success.
func (o Outcome) Reason() string {
	return catalog.Reason(o.Err)
}

// Message is a short human summary of the outcome.
func (o Outcome) Message() string {
	switch o.Op {
	case OpAdd:
		if o.Succeeded() {
			return "Book added successfully!"
		}
		return "Failed to add book"
	case OpUpdate:
		if o.Succeeded() {
			return "Book updated successfully!"
		}
		return "Failed to update book"
	case OpDelete:
		if o.Succeeded() {
			return "Book deleted successfully!"
		}
		return "Failed to delete book"
	}
	return string(o.Op)
}

// Notifier receives the outcome of every call.
type Notifier interface {
	Notify(Outcome)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Outcome)

// Notify calls f(o).
func (f NotifierFunc) Notify(o Outcome) {
	f(o)
}

// LogNotifier writes outcomes to the standard logger.
type LogNotifier struct{}

// Notify logs o.
func (LogNotifier) Notify(o Outcome) {
	if o.Succeeded() {
		log.Printf("%s %s: ok", o.Op, o.ID)
		return
	}
	log.Printf("%s %s failed (%s): %v", o.Op, o.ID, o.Reason(), o.Err)
}

// Call is one submitted mutation.
type Call struct {
	op   Op
	id   catalog.ID
	done chan struct{}

	mu      sync.Mutex
	pending bool
	record  catalog.Record
	err     error
}

// Op returns the kind of mutation.
func (c *Call) Op() Op { return c.op }

// ID returns the targeted id (empty for adds until they succeed).
func (c *Call) ID() catalog.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Pending reports whether the call is still outstanding.
func (c *Call) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Done is closed once the call settles and the cache has been invalidated
// (on success) and the notifier informed.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call settles or ctx ends. The call itself is not
// aborted when ctx ends.
func (c *Call) Wait(ctx context.Context) (catalog.Record, error) {
	select {
	case <-c.done:
	case <-ctx.Done():
		return catalog.Record{}, ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record, c.err
}

// Outcome returns what the notifier was told. Before Done closes it carries
// only the op and target id.
func (c *Call) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Outcome{Op: c.op, ID: c.id, Record: c.record, Err: c.err}
}

// Coordinator runs create/update/delete against the store and invalidates
// the cache on success. Mutations are never applied to the cache directly,
// so a failure needs no rollback.
//
// Calls targeting the same id are not serialized against each other.
type Coordinator struct {
	store    catalog.Store
	cache    Invalidator
	notifier Notifier

	mu      sync.Mutex
	pending map[*Call]struct{}
	wg      sync.WaitGroup
}

// New returns a Coordinator. A nil notifier discards outcomes.
func New(store catalog.Store, cache Invalidator, notifier Notifier) *Coordinator {
	if notifier == nil {
		notifier = NotifierFunc(func(Outcome) {})
	}
	return &Coordinator{
		store:    store,
		cache:    cache,
		notifier: notifier,
		pending:  make(map[*Call]struct{}),
	}
}

// Add submits a new record.
func (c *Coordinator) Add(ctx context.Context, fields catalog.Fields) *Call {
	return c.start(ctx, OpAdd, "", func(ctx context.Context) (catalog.Record, error) {
		return c.store.Create(ctx, fields)
	})
}

// Update replaces the fields of the record with the given id.
func (c *Coordinator) Update(ctx context.Context, id catalog.ID, fields catalog.Fields) *Call {
	return c.start(ctx, OpUpdate, id, func(ctx context.Context) (catalog.Record, error) {
		return c.store.Update(ctx, id, fields)
	})
}

// Delete removes the record with the given id.
func (c *Coordinator) Delete(ctx context.Context, id catalog.ID) *Call {
	return c.start(ctx, OpDelete, id, func(ctx context.Context) (catalog.Record, error) {
		return catalog.Record{}, c.store.Delete(ctx, id)
	})
}

// Pending returns the number of outstanding calls.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// PendingFor reports whether any outstanding call targets id.
func (c *Coordinator) PendingFor(id catalog.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for call := range c.pending {
		if call.id == id {
			return true
		}
	}
	return false
}

// Wait blocks until every submitted call has settled.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) start(ctx context.Context, op Op, id catalog.ID, run func(context.Context) (catalog.Record, error)) *Call {
	call := &Call{op: op, id: id, pending: true, done: make(chan struct{})}

	c.mu.Lock()
	c.pending[call] = struct{}{}
	c.mu.Unlock()

	// The request outlives a caller that stops caring; Wait is where
	// callers give up.
	detached := context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		record, err := run(detached)
		c.finish(call, record, err)
	}()
	return call
}

func (c *Coordinator) finish(call *Call, record catalog.Record, err error) {
	if err == nil {
		c.cache.Invalidate()
	}

	c.mu.Lock()
	delete(c.pending, call)
	c.mu.Unlock()

	call.mu.Lock()
	call.pending = false
	call.record = record
	call.err = err
	if err == nil && call.op == OpAdd {
		call.id = record.ID
	}
	outcome := Outcome{Op: call.op, ID: call.id, Record: record, Err: err}
	call.mu.Unlock()

	c.notifier.Notify(outcome)
	close(call.done)
}
