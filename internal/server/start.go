package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Start runs the API and, when a metrics address is configured, the metrics
// listener. It blocks until ctx is cancelled or a listener fails, then shuts
// both down gracefully.
func (s *Server) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return serve(s.E, s.Cfg.GetAddr(), "api") })
	if addr := s.Cfg.GetMetricsAddr(); addr != "" {
		g.Go(func() error { return serve(s.Metrics, addr, "metrics") })
	}

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(s.E.Shutdown(shutdownCtx), s.Metrics.Shutdown(shutdownCtx))
	})
	return g.Wait()
}

func serve(e *echo.Echo, addr, name string) error {
	slog.Info("Starting listener", "listener", name, "addr", addr)
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s listener: %w", name, err)
	}
	return nil
}
