// Package view holds the user-driven view state of the book list and the
// pure function that turns a collection snapshot into the visible page.
//
// # State
//
// State is a value: search term, genre and status filters, page, rows per
// page and display mode. It changes only through named transitions, each
// returning a new State:
//
//   - SetSearchTerm, SetGenreFilter, SetStatusFilter: reset Page to 0
//   - ResetFilters: clears all three and resets Page
//   - SetPage (negative clamps to 0), NextPage(totalPages), PrevPage
//   - SetRowsPerPage: ignores non-positive sizes, resets Page
//   - SetMode, ToggleMode: table or grid
//
// An empty filter value means "unset" and matches every record.
//
// # Compute
//
// Compute(records, state) filters in three steps:
//
//  1. search: case-insensitive substring of Title or Author
//  2. filters: exact Genre and Status match, AND-composed with the search
//  3. pagination: TotalPages = ceil(TotalFiltered / RowsPerPage), zero when
//     nothing matches; Items is the clipped page slice
//
// Compute never changes the page. An out-of-range page yields no items; the
// caller decides whether to step back. Genres lists the distinct genres in
// first-seen order for the filter choices.
//
// Memo caches the last Result keyed on the snapshot version and the State.
// Its results are always identical to calling Compute directly.
package view
