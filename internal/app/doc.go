// Package app provides the orchestration layer for the Shelf application.
//
// # Overview
//
// This package wires together configuration, the remote store client, the
// collection cache, the mutation coordinator and the UI. It is the
// composition root where all dependencies are initialized and connected.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.LoadEnvFile()  Optional .env
//	       ├─────> config.Load()         ~/.config/shelf/config.toml + SHELF_* env
//	       ├─────> log.SetOutput()       Log file (the TUI owns the terminal)
//	       ├─────> catalog.NewClient()   HTTP client for the book API
//	       ├─────> state.NewStore()      Collection cache
//	       ├─────> mutation.New()        Write path with cache invalidation
//	       ├─────> StartPoller()         Background refresh with backoff
//	       └─────> ui.Run()              Start TUI (blocks)
//
//	Background Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> cache.Invalidate()                 │
//	│  ├─> cache.Get()  (one shared fetch)    │
//	│  └─> UI reads cache.Snapshot()          │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller refetches the collection every refresh_interval (default 30s)
// so changes made by other clients show up. Consecutive failures back the
// interval off exponentially up to 30 seconds, or the configured interval
// when that is longer; the first success resets it. A zero interval, or
// a negative -refresh flag, disables polling: the collection is then only
// fetched at start-up, after writes and on manual refresh.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - invalid configuration or .env file
//   - unusable API URL
//   - log file that cannot be created
//
// Everything else is recoverable. An unreachable API is shown in the UI and
// retried by the poller; failed writes are reported as toasts and logged.
// Run does not probe the API before starting so Shelf can be opened before
// the server.
//
// # Usage Example
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	if err := app.Run(ctx, app.Options{EnvFile: ".env"}); err != nil {
//		log.Fatalf("shelf failed: %v", err)
//	}
package app
