// Package registry implements ownership of named profiles: a name is claimed with
// a token, and only that token can update or delete it afterwards.
//
// Every mutation is a Get followed by a conditional Put or Delete with no
// transaction around them. Two writers racing on one name can both pass the
// ownership check; the last write wins.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nfrund/denote/internal/codec"
	"github.com/nfrund/denote/internal/domain"
	"github.com/nfrund/denote/internal/metrics"
	"github.com/nfrund/denote/internal/profile"
	"github.com/nfrund/denote/internal/render"
)

// ClaimResult says whether a claim created a record or replaced its owner's record.
type ClaimResult int

const (
	Created ClaimResult = iota + 1
	Updated
)

// Service enforces the ownership rules on top of a ProfileRepository.
type Service struct {
	repo     domain.ProfileRepository
	renderer *render.Renderer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service.
func NewService(repo domain.ProfileRepository, renderer *render.Renderer, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		renderer: renderer,
		metrics:  metrics.New(nil),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Claim creates the record for name, or replaces it when token matches the
// current owner. A different token fails with domain.ErrConflict.
func (s *Service) Claim(ctx context.Context, name, token string, rawConfig []byte) (ClaimResult, error) {
	if err := checkCredentials(name, token); err != nil {
		s.metrics.IncClaim(metrics.ResultInvalid)
		return 0, err
	}
	if err := s.checkConfig(name, rawConfig); err != nil {
		s.metrics.IncClaim(metrics.ResultInvalid)
		return 0, err
	}

	encoded, err := codec.EncodeConfig(rawConfig)
	if err != nil {
		s.metrics.IncClaim(metrics.ResultInvalid)
		return 0, &ValidationError{Field: "config", Message: MsgInvalidConfig, Err: err}
	}
	hashed := HashToken(name, token)

	result := Created
	existing, err := s.repo.Get(ctx, name)
	switch {
	case err == nil:
		if !hashesEqual(existing.HashedToken, hashed) {
			s.metrics.IncClaim(metrics.ResultConflict)
			return 0, domain.ErrConflict
		}
		result = Updated
	case errors.Is(err, domain.ErrNotFound):
	default:
		s.metrics.IncClaim(metrics.ResultError)
		return 0, fmt.Errorf("look up %q: %w", name, err)
	}

	if err := s.repo.Put(ctx, &domain.ProfileRecord{Name: name, HashedToken: hashed, Config: encoded}); err != nil {
		s.metrics.IncClaim(metrics.ResultError)
		return 0, fmt.Errorf("save %q: %w", name, err)
	}

	if result == Created {
		s.metrics.IncClaim(metrics.ResultCreated)
	} else {
		s.metrics.IncClaim(metrics.ResultUpdated)
	}
	s.logger.InfoContext(ctx, "Profile saved", "name", name, "created", result == Created)
	return result, nil
}

// checkConfig accepts a JSON description with a non-empty list whose icons all
// render. The name defaults to the claimed one.
func (s *Service) checkConfig(name string, rawConfig []byte) error {
	if !json.Valid(rawConfig) {
		return &ValidationError{Field: "config", Message: MsgInvalidConfig}
	}
	cfg, err := loadStored(name, rawConfig)
	if err != nil {
		return &ValidationError{Field: "config", Message: MsgInvalidConfig, Err: err}
	}
	if _, err := s.renderer.Render(cfg); err != nil {
		var iconErr *render.IconError
		if errors.As(err, &iconErr) {
			return &ValidationError{Field: "config", Message: "invalid config. " + iconErr.Error(), Err: err}
		}
		return err
	}
	return nil
}

// Remove deletes the record for name when token matches its owner.
func (s *Service) Remove(ctx context.Context, name, token string) error {
	if err := checkCredentials(name, token); err != nil {
		s.metrics.IncRemoval(metrics.ResultInvalid)
		return err
	}

	existing, err := s.repo.Get(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		s.metrics.IncRemoval(metrics.ResultNotFound)
		return domain.ErrNotFound
	}
	if err != nil {
		s.metrics.IncRemoval(metrics.ResultError)
		return fmt.Errorf("look up %q: %w", name, err)
	}
	if !hashesEqual(existing.HashedToken, HashToken(name, token)) {
		s.metrics.IncRemoval(metrics.ResultUnauthorized)
		return domain.ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		s.metrics.IncRemoval(metrics.ResultError)
		return fmt.Errorf("delete %q: %w", name, err)
	}
	s.metrics.IncRemoval(metrics.ResultDeleted)
	s.logger.InfoContext(ctx, "Profile deleted", "name", name)
	return nil
}

// Page renders the stored profile for name. A missing record or one whose
// config cannot be decoded is domain.ErrNotFound.
func (s *Service) Page(ctx context.Context, name string) (string, error) {
	rec, err := s.repo.Get(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		s.metrics.IncPage(metrics.ResultNotFound)
		return "", domain.ErrNotFound
	}
	if err != nil {
		s.metrics.IncPage(metrics.ResultError)
		return "", fmt.Errorf("look up %q: %w", name, err)
	}
	if rec.Config == "" {
		s.metrics.IncPage(metrics.ResultNotFound)
		return "", domain.ErrNotFound
	}

	start := time.Now()
	raw, err := codec.DecodeConfig(rec.Config)
	if err != nil || !json.Valid(raw) {
		s.logger.WarnContext(ctx, "Stored config cannot be decoded", "name", name, "error", err)
		s.metrics.IncPage(metrics.ResultNotFound)
		return "", domain.ErrNotFound
	}

	cfg, err := loadStored(name, raw)
	if err != nil {
		s.metrics.IncPage(metrics.ResultError)
		return "", fmt.Errorf("load stored config of %q: %w", name, err)
	}
	html, err := s.renderer.Render(cfg)
	if err != nil {
		s.metrics.IncPage(metrics.ResultError)
		return "", fmt.Errorf("render %q: %w", name, err)
	}
	s.metrics.ObserveRender(start)
	s.metrics.IncPage(metrics.ResultRendered)
	return html, nil
}

// loadStored parses a stored JSON description, filling in the name it is kept under.
func loadStored(name string, raw []byte) (*profile.Config, error) {
	doc, err := profile.Parse(raw)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = name
	}
	return doc.Config()
}
