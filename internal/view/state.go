package view

import "github.com/five82/shelf/internal/catalog"

// Mode is the display layout of the record list.
type Mode string

const (
	ModeTable Mode = "table"
	ModeGrid  Mode = "grid"
)

// ParseMode maps a persisted value to a Mode, defaulting to table.
func ParseMode(s string) Mode {
	if Mode(s) == ModeGrid {
		return ModeGrid
	}
	return ModeTable
}

// DefaultRowsPerPage is the page size of a fresh session.
const DefaultRowsPerPage = 10

// State holds the user-driven view parameters. It is a value: every
// transition returns a new State and leaves the receiver untouched.
type State struct {
	SearchTerm   string
	GenreFilter  string         // empty means no genre filter
	StatusFilter catalog.Status // empty means no status filter
	Page         int
	RowsPerPage  int
	Mode         Mode
}

// NewState returns the session defaults. A non-positive rowsPerPage uses
// DefaultRowsPerPage.
func NewState(rowsPerPage int) State {
	if rowsPerPage <= 0 {
		rowsPerPage = DefaultRowsPerPage
	}
	return State{RowsPerPage: rowsPerPage, Mode: ModeTable}
}

// SetSearchTerm changes the search term and returns to the first page.
func (s State) SetSearchTerm(term string) State {
	s.SearchTerm = term
	s.Page = 0
	return s
}

// SetGenreFilter changes the genre filter and returns to the first page.
func (s State) SetGenreFilter(genre string) State {
	s.GenreFilter = genre
	s.Page = 0
	return s
}

// SetStatusFilter changes the status filter and returns to the first page.
func (s State) SetStatusFilter(status catalog.Status) State {
	s.StatusFilter = status
	s.Page = 0
	return s
}

// ResetFilters clears search and both filters and returns to the first page.
func (s State) ResetFilters() State {
	s.SearchTerm = ""
	s.GenreFilter = ""
	s.StatusFilter = ""
	s.Page = 0
	return s
}

// Filtered reports whether any search or filter is active.
func (s State) Filtered() bool {
	return s.SearchTerm != "" || s.GenreFilter != "" || s.StatusFilter != ""
}

// SetPage moves to page, clamping negatives to 0. The upper bound is not
// enforced here; Compute yields an empty page past the end.
func (s State) SetPage(page int) State {
	if page < 0 {
		page = 0
	}
	s.Page = page
	return s
}

// NextPage advances one page unless already on the last of totalPages.
func (s State) NextPage(totalPages int) State {
	if s.Page+1 >= totalPages {
		return s
	}
	return s.SetPage(s.Page + 1)
}

// PrevPage goes back one page, stopping at 0.
func (s State) PrevPage() State {
	return s.SetPage(s.Page - 1)
}

// SetRowsPerPage changes the page size and returns to the first page.
// Non-positive sizes are ignored.
func (s State) SetRowsPerPage(n int) State {
	if n <= 0 {
		return s
	}
	s.RowsPerPage = n
	s.Page = 0
	return s
}

// SetMode switches the display layout.
func (s State) SetMode(mode Mode) State {
	s.Mode = ParseMode(string(mode))
	return s
}

// ToggleMode flips between table and grid.
func (s State) ToggleMode() State {
	if s.Mode == ModeGrid {
		return s.SetMode(ModeTable)
	}
	return s.SetMode(ModeGrid)
}
