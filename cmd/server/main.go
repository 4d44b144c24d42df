package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nfrund/denote/internal/app"
	"github.com/nfrund/denote/internal/config"
	"github.com/nfrund/denote/internal/logging"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		// slog is not configured yet.
		log.Fatalf("invalid configuration: %v", err)
	}
	logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())

	if err := run(cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, repo, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}()

	return srv.Start(ctx)
}
