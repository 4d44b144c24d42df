package database

import (
	"context"
	"fmt"
	"time"

	"github.com/nfrund/denote/internal/config"
	"github.com/nfrund/denote/internal/domain"
	"github.com/nfrund/denote/internal/storage"
)

// Open connects the backend selected by cfg.
func Open(ctx context.Context, cfg config.Provider) (domain.ProfileRepository, error) {
	var (
		repo domain.ProfileRepository
		err  error
	)
	switch cfg.GetStoreBackend() {
	case config.BackendSQLite:
		repo, err = OpenSQLite(ctx, cfg.GetSQLitePath())
	case config.BackendSurreal:
		db, derr := NewDB(ctx, cfg.GetSurreal())
		if derr != nil {
			return nil, derr
		}
		repo = NewSurrealProfileStore(db)
	case config.BackendRedis:
		client, cerr := NewRedisClient(ctx, cfg.GetRedisURL())
		if cerr != nil {
			return nil, cerr
		}
		repo = NewRedisProfileStore(client)
	case config.BackendFile:
		repo = NewFileProfileStore(storage.NewDiskStore(), cfg.GetFileStorePath())
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.GetStoreBackend())
	}
	if err != nil {
		return nil, err
	}
	return WithTimeout(repo, cfg.GetStoreTimeout()), nil
}

// timeoutRepository bounds every call with a deadline.
type timeoutRepository struct {
	next    domain.ProfileRepository
	timeout time.Duration
}

// WithTimeout wraps repo so that each call runs with at most timeout.
// A non-positive timeout returns repo unchanged.
func WithTimeout(repo domain.ProfileRepository, timeout time.Duration) domain.ProfileRepository {
	if timeout <= 0 {
		return repo
	}
	return &timeoutRepository{next: repo, timeout: timeout}
}

func (r *timeoutRepository) Get(ctx context.Context, name string) (*domain.ProfileRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Get(ctx, name)
}

func (r *timeoutRepository) Put(ctx context.Context, rec *domain.ProfileRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Put(ctx, rec)
}

func (r *timeoutRepository) Delete(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Delete(ctx, name)
}

func (r *timeoutRepository) Close() error {
	return r.next.Close()
}
