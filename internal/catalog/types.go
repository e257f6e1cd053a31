package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the circulation state of a record.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusIssued    Status = "Issued"
)

// Statuses lists every valid status in display order.
func Statuses() []Status {
	return []Status{StatusAvailable, StatusIssued}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusIssued
}

// Toggle flips between Available and Issued. Unknown values become Available.
func (s Status) Toggle() Status {
	if s == StatusAvailable {
		return StatusIssued
	}
	return StatusAvailable
}

// ID is the opaque, store-assigned record identifier.
//
// Backends in the wild emit either JSON strings or JSON numbers for ids, so
// both decode to the same textual form. IDs always encode as strings.
type ID string

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Fields is a record's payload without its identity. It is what create and
// update send to the store.
type Fields struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	Genre         string `json:"genre" validate:"required"`
	PublishedYear int    `json:"publishedYear" validate:"required,min=1000,notfuture"`
	Status        Status `json:"status" validate:"required,status"`
	CoverImage    string `json:"coverImage,omitempty" validate:"omitempty,url"`
	Description   string `json:"description,omitempty"`
}

// Record is one catalog entry as held by the remote store.
type Record struct {
	ID ID `json:"id,omitempty"`
	Fields
}

// Saved reports whether the record carries a store-assigned id.
func (r Record) Saved() bool {
	return !r.ID.IsZero()
}

// WithID returns a record combining f with the given id.
func (f Fields) WithID(id ID) Record {
	return Record{ID: id, Fields: f}
}

// Normalize trims surrounding whitespace from the text fields.
func (f Fields) Normalize() Fields {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.Genre = strings.TrimSpace(f.Genre)
	f.Status = Status(strings.TrimSpace(string(f.Status)))
	f.CoverImage = strings.TrimSpace(f.CoverImage)
	f.Description = strings.TrimSpace(f.Description)
	return f
}

// CloneRecords returns an independent copy of records, or nil when empty.
func CloneRecords(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}
	dup := make([]Record, len(records))
	copy(dup, records)
	return dup
}
