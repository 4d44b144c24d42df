// Package app wires the registry server's dependencies.
package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/do/v2"

	"github.com/nfrund/denote/internal/config"
	"github.com/nfrund/denote/internal/database"
	"github.com/nfrund/denote/internal/domain"
	"github.com/nfrund/denote/internal/handlers"
	"github.com/nfrund/denote/internal/metrics"
	"github.com/nfrund/denote/internal/registry"
	"github.com/nfrund/denote/internal/render"
	"github.com/nfrund/denote/internal/server"
)

// NewInjector registers every service the registry server needs. Services are
// built lazily on first invoke.
func NewInjector(ctx context.Context, cfg config.Provider) do.Injector {
	i := do.New()

	do.ProvideValue(i, cfg)

	do.Provide(i, func(i do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return reg, nil
	})

	do.Provide(i, func(i do.Injector) (*metrics.Metrics, error) {
		return metrics.New(do.MustInvoke[*prometheus.Registry](i)), nil
	})

	do.Provide(i, func(i do.Injector) (domain.ProfileRepository, error) {
		return database.Open(ctx, do.MustInvoke[config.Provider](i))
	})

	do.Provide(i, func(i do.Injector) (*render.Renderer, error) {
		return render.New(render.WithSiteDomain(do.MustInvoke[config.Provider](i).GetSiteDomain())), nil
	})

	do.Provide(i, func(i do.Injector) (*registry.Service, error) {
		repo, err := do.Invoke[domain.ProfileRepository](i)
		if err != nil {
			return nil, err
		}
		return registry.NewService(repo,
			do.MustInvoke[*render.Renderer](i),
			registry.WithMetrics(do.MustInvoke[*metrics.Metrics](i)),
		), nil
	})

	do.Provide(i, func(i do.Injector) (*server.Server, error) {
		svc, err := do.Invoke[*registry.Service](i)
		if err != nil {
			return nil, err
		}
		s := server.New(
			do.MustInvoke[config.Provider](i),
			handlers.NewRegistryHandler(svc),
			do.MustInvoke[*prometheus.Registry](i),
		)
		s.RegisterRoutes()
		return s, nil
	})

	return i
}

// Build resolves the server and the repository it owns. The caller closes the
// repository once the server has stopped.
func Build(ctx context.Context, cfg config.Provider) (*server.Server, domain.ProfileRepository, error) {
	i := NewInjector(ctx, cfg)
	srv, err := do.Invoke[*server.Server](i)
	if err != nil {
		return nil, nil, err
	}
	return srv, do.MustInvoke[domain.ProfileRepository](i), nil
}
