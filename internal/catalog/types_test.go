package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestID_DecodesStringsAndNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{"string", `{"id":"abc"}`, "abc"},
		{"integer", `{"id":7}`, "7"},
		{"large integer", `{"id":12345678901234}`, "12345678901234"},
		{"null", `{"id":null}`, ""},
		{"missing", `{}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec Record
			if err := json.Unmarshal([]byte(tt.in), &rec); err != nil {
				t.Fatalf("Unmarshal returned error: %v", err)
			}
			if rec.ID != tt.want {
				t.Fatalf("ID = %q, want %q", rec.ID, tt.want)
			}
		})
	}
}

func TestID_RejectsObjects(t *testing.T) {
	var rec Record
	if err := json.Unmarshal([]byte(`{"id":{"x":1}}`), &rec); err == nil {
		t.Fatalf("Unmarshal returned nil error, want error")
	}
}

func TestRecord_JSONShape(t *testing.T) {
	rec := Record{ID: "1", Fields: Fields{
		Title:         "Dune",
		Author:        "Herbert",
		Genre:         "Science Fiction",
		PublishedYear: 1965,
		Status:        StatusAvailable,
	}}
	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	want := `{"id":"1","title":"Dune","author":"Herbert","genre":"Science Fiction","publishedYear":1965,"status":"Available"}`
	if string(raw) != want {
		t.Fatalf("Marshal = %s, want %s", raw, want)
	}

	raw, err = json.Marshal(rec.Fields)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if _, ok := generic["id"]; ok {
		t.Fatalf("Fields JSON = %s, want no id", raw)
	}
}

func TestStatusHelpers(t *testing.T) {
	if !StatusAvailable.Valid() || !StatusIssued.Valid() {
		t.Fatalf("known statuses should be valid")
	}
	if Status("Lost").Valid() {
		t.Fatalf("Status(Lost).Valid() = true, want false")
	}
	if StatusAvailable.Toggle() != StatusIssued || StatusIssued.Toggle() != StatusAvailable {
		t.Fatalf("Toggle should flip Available and Issued")
	}
	if Status("").Toggle() != StatusAvailable {
		t.Fatalf("Toggle of unknown status should yield Available")
	}
}

func TestFieldsNormalize(t *testing.T) {
	f := Fields{Title: "  Emma ", Author: " Austen", Status: " Issued "}.Normalize()
	if f.Title != "Emma" || f.Author != "Austen" || f.Status != StatusIssued {
		t.Fatalf("Normalize = %#v, want trimmed fields", f)
	}
}

func TestErrorMatchingAndReason(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		reason   string
	}{
		{transportError("list", "", errors.New("refused")), ErrTransport, "transport"},
		{notFoundError("delete", "9"), ErrNotFound, "not_found"},
		{validationError("create", "", []string{"title"}, errors.New("title is required")), ErrValidation, "validation"},
	}
	for _, tt := range tests {
		wrapped := fmt.Errorf("outer: %w", tt.err)
		if !errors.Is(wrapped, tt.sentinel) {
			t.Fatalf("errors.Is(%v, %v) = false, want true", wrapped, tt.sentinel)
		}
		if got := Reason(wrapped); got != tt.reason {
			t.Fatalf("Reason(%v) = %q, want %q", wrapped, got, tt.reason)
		}
	}
	if Reason(nil) != "" {
		t.Fatalf("Reason(nil) should be empty")
	}
	if Reason(errors.New("plain")) != "transport" {
		t.Fatalf("Reason of foreign error should be transport")
	}
	if errors.Is(notFoundError("delete", "1"), ErrValidation) {
		t.Fatalf("not found error should not match ErrValidation")
	}
}

func TestErrorMessage(t *testing.T) {
	err := notFoundError("delete", "42")
	if got := err.Error(); got != "delete 42: record not found" {
		t.Fatalf("Error() = %q", got)
	}
}
