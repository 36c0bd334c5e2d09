package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/zaloga/internal/api"
	"github.com/erazemk/zaloga/internal/config"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	args := os.Args[1:]

	command := "serve"
	if len(args) > 0 && (args[0] == "serve" || args[0] == "audit") {
		command, args = args[0], args[1:]
	}

	cfg, err := config.Load(args, os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.LogPath, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	database, err := openDatabase(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	inv := store.NewInventory(database)

	switch command {
	case "audit":
		err = runAudit(inv)
	default:
		err = serve(cfg, inv)
	}
	if err != nil {
		slog.Error(command+" failed", "error", err)
		database.Close()
		os.Exit(1)
	}
}

func openDatabase(path string) (*sql.DB, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	slog.Info("database ready", "path", path)
	return database, nil
}

// serve runs the HTTP API until SIGINT/SIGTERM, then drains in-flight
// requests.
func serve(cfg *config.Config, inv *store.Inventory) error {
	handler := api.LoggingMiddleware(api.CORSMiddleware(cfg.CORSOrigins)(api.NewRouter(inv)))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server started", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// runAudit prints every item whose stored quantity disagrees with its
// ledger and fails if there are any.
func runAudit(inv *store.Inventory) error {
	found, err := inv.Audit(context.Background())
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Println("ledger consistent")
		return nil
	}

	for _, d := range found {
		fmt.Printf("item %d (%s): stored %d, ledger %d\n",
			d.ItemID, d.ItemName, d.StoredQuantity, d.LedgerQuantity)
	}
	return fmt.Errorf("%d discrepancies", len(found))
}
