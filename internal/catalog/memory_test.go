package catalog

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

func validFields() Fields {
	return Fields{
		Title:         "Dune",
		Author:        "Herbert",
		Genre:         "Science Fiction",
		PublishedYear: 1965,
		Status:        StatusAvailable,
	}
}

func TestMemoryStore_CRUD(t *testing.T) {
	s, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("NewMemoryStore returned error: %v", err)
	}
	ctx := context.Background()

	created, err := s.Create(ctx, validFields())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !created.Saved() {
		t.Fatalf("Create returned record without id")
	}

	second := validFields()
	second.Title = "Emma"
	second.Author = "Austen"
	emma, err := s.Create(ctx, second)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if emma.ID == created.ID {
		t.Fatalf("Create reused id %q", emma.ID)
	}

	changed := created.Fields
	changed.Status = StatusIssued
	updated, err := s.Update(ctx, created.ID, changed)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.ID != created.ID || updated.Status != StatusIssued {
		t.Fatalf("Update = %#v, want issued record with same id", updated)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 1 || list[0].ID != emma.ID {
		t.Fatalf("List = %#v, want only Emma", list)
	}

	// Index must stay consistent after removal shifted positions.
	if _, err := s.Update(ctx, emma.ID, second); err != nil {
		t.Fatalf("Update after delete returned error: %v", err)
	}
}

func TestMemoryStore_UnknownIDIsNotFound(t *testing.T) {
	s, _ := NewMemoryStore()
	ctx := context.Background()
	if _, err := s.Update(ctx, "nope", validFields()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Fields)
		field  string
	}{
		{"empty title", func(f *Fields) { f.Title = "   " }, "title"},
		{"missing author", func(f *Fields) { f.Author = "" }, "author"},
		{"missing genre", func(f *Fields) { f.Genre = "" }, "genre"},
		{"ancient year", func(f *Fields) { f.PublishedYear = 999 }, "publishedYear"},
		{"future year", func(f *Fields) { f.PublishedYear = time.Now().Year() + 1 }, "publishedYear"},
		{"bad status", func(f *Fields) { f.Status = "Lost" }, "status"},
		{"bad cover", func(f *Fields) { f.CoverImage = "not a url" }, "coverImage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := NewMemoryStore()
			f := validFields()
			tt.mutate(&f)
			_, err := s.Create(context.Background(), f)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Create error = %v, want ErrValidation", err)
			}
			var storeErr *Error
			if !errors.As(err, &storeErr) || len(storeErr.Fields) == 0 || storeErr.Fields[0] != tt.field {
				t.Fatalf("Create error fields = %#v, want %s", storeErr, tt.field)
			}
			if s.Len() != 0 {
				t.Fatalf("Len = %d, want 0 after rejected create", s.Len())
			}
		})
	}
}

func TestMemoryStore_OptionalFieldsAccepted(t *testing.T) {
	s, _ := NewMemoryStore()
	f := validFields()
	f.CoverImage = "https://covers.example/dune.jpg"
	f.Description = "Spice."
	if _, err := s.Create(context.Background(), f); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
}

func TestMemoryStore_Seed(t *testing.T) {
	seed := []Record{validFields().WithID("1"), {Fields: validFields()}}
	s, err := NewMemoryStore(seed...)
	if err != nil {
		t.Fatalf("NewMemoryStore returned error: %v", err)
	}
	list, _ := s.List(context.Background())
	if len(list) != 2 || list[0].ID != "1" || !list[1].Saved() {
		t.Fatalf("List = %#v, want seeded records with ids", list)
	}

	if _, err := NewMemoryStore(validFields().WithID("1"), validFields().WithID("1")); err == nil {
		t.Fatalf("NewMemoryStore with duplicate ids returned nil error")
	}
}

func TestMemoryStore_ListReturnsCopy(t *testing.T) {
	s, _ := NewMemoryStore(validFields().WithID("1"))
	list, _ := s.List(context.Background())
	list[0].Title = "changed"
	again, _ := s.List(context.Background())
	if again[0].Title != "Dune" {
		t.Fatalf("List should return a copy; got title %q", again[0].Title)
	}
}

func TestMemoryStore_CancelledContextIsTransport(t *testing.T) {
	s, _ := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.List(ctx); !errors.Is(err, ErrTransport) {
		t.Fatalf("List error = %v, want ErrTransport", err)
	}
}

func TestMemoryStore_ConcurrentCreates(t *testing.T) {
	s, _ := NewMemoryStore()
	ctx := context.Background()
	done := make(chan error)
	for i := 0; i < 20; i++ {
		go func(i int) {
			f := validFields()
			f.Title = "Book " + strconv.Itoa(i)
			_, err := s.Create(ctx, f)
			done <- err
		}(i)
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}
	if s.Len() != 20 {
		t.Fatalf("Len = %d, want 20", s.Len())
	}
}
