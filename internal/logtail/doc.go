// Package logtail reads the tail of Shelf's own log file for the activity
// overlay.
//
// # Overview
//
// Shelf redirects the standard logger to a file (config log_file) while the
// TUI owns the terminal. Mutation outcomes, refresh failures and recoveries
// land there. This package reads the last N lines back and classifies them
// so the UI can color them.
//
// # Reading Log Files
//
// Tail keeps a ring buffer of maxLines entries, so memory stays at
// O(maxLines) regardless of file size and lines come back oldest first:
//
//	lines, err := logtail.Read(cfg.LogFile, 200)
//	if err != nil {
//		log.Printf("failed to read log: %v", err)
//	}
//
// Read returns nil, nil for a missing file. Other errors are wrapped.
//
// # Classification
//
// Parse expects the standard logger format:
//
//	2026/10/16 14:32:15 update 42: ok
//	2026/10/16 14:32:20 delete 7 failed (not found): ...
//
// Messages with "failed" or "error" are LevelError. Messages ending in
// ": ok" or mentioning a recovery are LevelSuccess. Anything else is
// LevelInfo. Lines without a timestamp are kept with an empty Stamp.
package logtail
