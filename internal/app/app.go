package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/mutation"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/ui"
)

// Options configure the Shelf application.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/shelf/prefs.toml
	EnvFile      string // optional .env loaded before the config
	RefreshEvery int    // seconds; zero uses the config, negative disables polling
}

// Run boots the Shelf TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load shelf config: %w", err)
	}

	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.Printf("shelf starting against %s", cfg.APIURL)

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := catalog.NewClient(catalog.Options{
		BaseURL:           cfg.APIURL,
		Timeout:           cfg.RequestTimeout,
		Retries:           cfg.Retries,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}

	cache := state.NewStore(client, state.Options{StaleAfter: cfg.StaleAfter})
	mutations := mutation.New(client, cache, mutation.LogNotifier{})

	// Start background poller
	StartPoller(ctx, cache, refreshInterval(opts.RefreshEvery, cfg.RefreshInterval))

	uiOpts := ui.Options{
		Context:     ctx,
		Cache:       cache,
		Mutations:   mutations,
		APIURL:      client.BaseURL(),
		LogPath:     cfg.LogFile,
		RowsPerPage: cfg.RowsPerPage,
		Prefs:       userPrefs,
		PrefsPath:   opts.PrefsPath,
	}
	err = ui.Run(uiOpts)

	// Let in-flight writes settle so their outcomes reach the log.
	mutations.Wait()
	log.Printf("shelf stopped")
	return err
}

// refreshInterval picks the poll interval: the flag wins over the config.
func refreshInterval(seconds int, configured time.Duration) time.Duration {
	switch {
	case seconds > 0:
		return time.Duration(seconds) * time.Second
	case seconds < 0:
		return 0
	default:
		return configured
	}
}

// openLog opens path for appending, creating its directory.
func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
