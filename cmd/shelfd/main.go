package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/devserver"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:3001", "listen address")
	seedPath := flag.String("seed", "", "JSON array of books to start with (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := serve(ctx, *addr, *seedPath); err != nil {
		fmt.Fprintf(os.Stderr, "shelfd: %v\n", err)
		return 1
	}
	return 0
}

func serve(ctx context.Context, addr, seedPath string) error {
	seed, err := devserver.LoadSeed(seedPath)
	if err != nil {
		return err
	}
	store, err := catalog.NewMemoryStore(seed...)
	if err != nil {
		return fmt.Errorf("seed store: %w", err)
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      devserver.AccessLog(devserver.New(store)),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("shelfd listening on %s with %d books", addr, store.Len())
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("shelfd stopped")
	return nil
}
