package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Ensure MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store. It keeps insertion order, assigns UUID
// ids and validates payloads the way a real backend would. It is safe for
// concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	index   map[ID]int
	newID   func() ID
}

// NewMemoryStore returns a store seeded with the given records. Seed records
// without an id receive one; duplicate ids are rejected.
func NewMemoryStore(seed ...Record) (*MemoryStore, error) {
	s := &MemoryStore{
		index: make(map[ID]int),
		newID: func() ID { return ID(uuid.NewString()) },
	}
	for _, rec := range seed {
		if !rec.Saved() {
			rec.ID = s.newID()
		}
		if _, dup := s.index[rec.ID]; dup {
			return nil, fmt.Errorf("seed record %s: duplicate id", rec.ID)
		}
		s.index[rec.ID] = len(s.records)
		s.records = append(s.records, rec)
	}
	return s, nil
}

// List returns every record in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, transportError("list", "", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Create validates fields and appends a new record.
func (s *MemoryStore) Create(ctx context.Context, fields Fields) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, transportError("create", "", err)
	}
	fields = fields.Normalize()
	if err := checkFields("create", "", fields); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := fields.WithID(s.newID())
	s.index[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	return rec, nil
}

// Update replaces the fields of an existing record.
func (s *MemoryStore) Update(ctx context.Context, id ID, fields Fields) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, transportError("update", id, err)
	}
	fields = fields.Normalize()
	if err := checkFields("update", id, fields); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.index[id]
	if !ok {
		return Record{}, notFoundError("update", id)
	}
	rec := fields.WithID(id)
	s.records[pos] = rec
	return rec, nil
}

// Delete removes a record.
func (s *MemoryStore) Delete(ctx context.Context, id ID) error {
	if err := ctx.Err(); err != nil {
		return transportError("delete", id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.index[id]
	if !ok {
		return notFoundError("delete", id)
	}
	s.records = append(s.records[:pos], s.records[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.records); i++ {
		s.index[s.records[i].ID] = i
	}
	return nil
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
