// Package ui provides the Bubble Tea terminal interface for Shelf.
//
// # Architecture Overview
//
// Model follows the Elm architecture: Update is the single owner of the view
// state (search term, filters, page, layout) and every network operation runs
// in a tea.Cmd whose result comes back as a message. The UI never talks to
// the remote store directly:
//
//   - reads go through the cache (state.Store): Snapshot on every tick, Get
//     at start-up, after a successful mutation and on manual refresh
//   - writes go through the mutation coordinator; a command waits on the
//     returned Call and delivers its Outcome as a message
//
// The visible page is computed by view.Memo keyed on the snapshot version and
// the view state, so re-rendering an unchanged screen costs nothing.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key handling, messages and commands
//   - header.go: status bar, command bar and footer (search box, toasts)
//   - books.go: table and grid layouts plus loading/error/empty states
//   - form.go: add/edit dialog with field validation
//   - modal.go: Modal interface and the delete confirmation
//   - keys.go, help.go: key map and the help overlay built from it
//   - activity.go: overlay showing the tail of the log file (L)
//   - theme.go, style_helpers.go: color themes and background-safe rendering
//
// # Notifications
//
// Every settled mutation shows a toast ("Book added successfully!", "Failed
// to delete book: ...") for ToastDuration. A failed form submission keeps
// the dialog open and highlights the fields the store rejected.
//
// # Preferences
//
// Theme, layout and page size changes are written to prefs.toml as they
// happen and restored on the next start.
package ui
