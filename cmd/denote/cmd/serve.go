package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nfrund/denote/internal/artifact"
	applog "github.com/nfrund/denote/internal/middleware"
	"github.com/nfrund/denote/internal/preview"
	"github.com/nfrund/denote/internal/render"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		port  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:     "serve <source>",
		Aliases: []string{"s"},
		Short:   "Preview a description on a local server",
		Long: `Runs a local server without creating any files.

Example:
  denote serve ./denote.yml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			if _, err := checkSource(source); err != nil {
				return err
			}
			if isURL(source) {
				return fmt.Errorf("invalid file is passed as an argument: %s (serve needs a local file)", source)
			}
			if port < 1 || port > 65535 {
				return fmt.Errorf("invalid port number is detected: %d", port)
			}

			b := &preview.Builder{Store: c.store, Renderer: render.New()}
			a, err := b.Build(cmd.Context(), source)
			if err != nil {
				return err
			}
			slot := preview.NewSlot(a)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "HTTP webserver running. Access it at: http://localhost:%d/\n", port)
			return runPreview(ctx, fmt.Sprintf(":%d", port), slot, func(ctx context.Context) error {
				if !watch {
					return nil
				}
				return preview.Rebuild(ctx, b, source, slot)
			})
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port of the local server")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild the page when the source file is updated")
	return cmd
}

// runPreview serves slot on addr alongside background until ctx is done.
func runPreview(ctx context.Context, addr string, slot *preview.Slot, background func(context.Context) error) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(applog.Logger)
	e.Any("/*", echo.WrapHandler(artifact.NewHandler(slot)))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return background(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down local server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
