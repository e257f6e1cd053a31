// Package config handles loading and parsing Shelf configuration files.
//
// # Overview
//
// Shelf reads a small TOML file describing where the book API lives and how
// the client should talk to it. Every field is optional; a missing file is
// not an error and yields Default().
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/shelf/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. Apply SHELF_API_URL, SHELF_RETRIES and SHELF_ROWS_PER_PAGE overrides
//
// LoadEnvFile may be called before Load to populate the environment from a
// .env file (godotenv). Variables already present in the environment win.
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:3001"
//	request_timeout = "5s"
//	retries = 1
//	requests_per_second = 0
//	refresh_interval = "30s"
//	stale_after = "0s"
//	rows_per_page = 10
//	log_file = "~/.local/state/shelf/shelf.log"
//
// Durations use time.ParseDuration syntax. A stale_after of zero means the
// cache only refetches after an explicit invalidation. A refresh_interval of
// zero disables background refresh.
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML syntax errors, malformed or
// negative durations, retries outside 0..1, and malformed integer overrides.
// Missing files are NOT an error.
//
// # Usage Example
//
//	if err := config.LoadEnvFile(".env"); err != nil {
//		log.Fatalf("failed to load .env: %v", err)
//	}
//	cfg, err := config.Load("")
//	if err != nil {
//		log.Fatalf("failed to load config: %v", err)
//	}
//	client, err := catalog.NewClient(catalog.Options{BaseURL: cfg.APIURL})
package config
