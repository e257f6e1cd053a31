package view

import (
	"strings"

	"github.com/five82/shelf/internal/catalog"
)

// Result is one computed page plus pagination metadata.
type Result struct {
	Items         []catalog.Record
	TotalFiltered int
	TotalPages    int
	Page          int // the page Items were cut from, echoed from State
}

// Compute filters records by the state's search term and filters and cuts
// out the requested page. It is pure: records and state are not modified and
// the same inputs always give the same Result.
func Compute(records []catalog.Record, s State) Result {
	rows := s.RowsPerPage
	if rows <= 0 {
		rows = DefaultRowsPerPage
	}

	filtered := Filter(records, s)
	total := len(filtered)
	res := Result{
		TotalFiltered: total,
		TotalPages:    (total + rows - 1) / rows,
		Page:          s.Page,
	}

	start := s.Page * rows
	if s.Page < 0 || start >= total {
		return res
	}
	end := start + rows
	if end > total {
		end = total
	}
	res.Items = filtered[start:end:end]
	return res
}

// Filter returns the records matching the search term and both attribute
// filters, in their original order. The result never aliases records.
func Filter(records []catalog.Record, s State) []catalog.Record {
	term := strings.ToLower(s.SearchTerm)
	out := make([]catalog.Record, 0, len(records))
	for _, rec := range records {
		if !matchesSearch(rec, term) {
			continue
		}
		if s.GenreFilter != "" && rec.Genre != s.GenreFilter {
			continue
		}
		if s.StatusFilter != "" && rec.Status != s.StatusFilter {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func matchesSearch(rec catalog.Record, lowerTerm string) bool {
	if lowerTerm == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.Title), lowerTerm) ||
		strings.Contains(strings.ToLower(rec.Author), lowerTerm)
}

// Genres lists the distinct non-empty genres in first-seen order.
func Genres(records []catalog.Record) []string {
	seen := make(map[string]struct{}, len(records))
	var out []string
	for _, rec := range records {
		if rec.Genre == "" {
			continue
		}
		if _, ok := seen[rec.Genre]; ok {
			continue
		}
		seen[rec.Genre] = struct{}{}
		out = append(out, rec.Genre)
	}
	return out
}

// Memo caches the last Compute result keyed on the snapshot version and the
// state. It is not safe for concurrent use; keep it with the state's owner.
type Memo struct {
	valid   bool
	version uint64
	state   State
	result  Result
}

// Compute returns the cached result when version and state match the last
// call and recomputes otherwise. Callers must bump version whenever records
// change.
func (m *Memo) Compute(version uint64, records []catalog.Record, s State) Result {
	if m.valid && m.version == version && m.state == s {
		return m.result
	}
	m.result = Compute(records, s)
	m.version = version
	m.state = s
	m.valid = true
	return m.result
}
