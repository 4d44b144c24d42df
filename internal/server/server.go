package server

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nfrund/denote/internal/config"
	"github.com/nfrund/denote/internal/handlers"
	applog "github.com/nfrund/denote/internal/middleware"
)

// Server holds the registry API and the metrics listener.
type Server struct {
	E       *echo.Echo
	Metrics *echo.Echo
	Cfg     config.Provider
	handler *handlers.RegistryHandler
}

// New creates a Server. Request metrics are registered with reg and served by
// the metrics listener from the same registry.
func New(cfg config.Provider, handler *handlers.RegistryHandler, reg *prometheus.Registry) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Recover())
	e.Use(applog.Logger)
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "denote",
		Registerer: reg,
	}))

	m := echo.New()
	m.HideBanner = true
	m.HidePort = true
	m.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	m.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	slog.Debug("Server configured", "addr", cfg.GetAddr(), "metrics_addr", cfg.GetMetricsAddr())
	return &Server{E: e, Metrics: m, Cfg: cfg, handler: handler}
}
