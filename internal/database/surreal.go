package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/denote/internal/config"
	"github.com/nfrund/denote/internal/domain"
)

const (
	backendSurreal = "surreal"
	profileTable   = "profile"
)

const (
	surrealGet    = "SELECT name, hashed_token, config FROM type::thing($table, $name)"
	surrealUpsert = "UPSERT type::thing($table, $name) CONTENT $data"
	surrealDelete = "DELETE type::thing($table, $name)"
)

var _ domain.ProfileRepository = (*SurrealProfileStore)(nil)

type surrealProfile struct {
	Name        string `json:"name"`
	HashedToken string `json:"hashed_token"`
	Config      string `json:"config"`
}

// SurrealProfileStore keeps profiles in the `profile` table with the name as record id.
type SurrealProfileStore struct {
	db *surrealdb.DB
}

// NewDB creates and configures a new SurrealDB connection.
func NewDB(ctx context.Context, cfg config.SurrealConfig) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.URL)
	if err != nil {
		return nil, NewStoreError(fmt.Errorf("failed to connect to surrealdb: %w", err), backendSurreal, "open")
	}

	if cfg.User != "" {
		authData := &surrealdb.Auth{
			Username: cfg.User,
			Password: cfg.Pass,
		}
		if _, err = db.SignIn(ctx, authData); err != nil {
			db.Close(ctx)
			return nil, NewStoreError(fmt.Errorf("failed to sign in: %w", err), backendSurreal, "open")
		}
	}

	if err = db.Use(ctx, cfg.NS, cfg.DB); err != nil {
		db.Close(ctx)
		return nil, NewStoreError(fmt.Errorf("failed to use namespace/db: %w", err), backendSurreal, "open")
	}

	slog.Info("Successfully signed in to SurrealDB", "ns", cfg.NS, "db", cfg.DB)
	return db, nil
}

// NewSurrealProfileStore wraps an open connection.
func NewSurrealProfileStore(db *surrealdb.DB) *SurrealProfileStore {
	return &SurrealProfileStore{db: db}
}

// Get implements domain.ProfileRepository.
func (s *SurrealProfileStore) Get(ctx context.Context, name string) (*domain.ProfileRecord, error) {
	// A record id selects at most one row.
	rows, err := Query[surrealProfile](ctx, s.db, surrealGet, map[string]any{
		"table": profileTable,
		"name":  name,
	})
	if err != nil {
		return nil, wrapError(err, backendSurreal, "get")
	}
	if len(rows) == 0 || rows[0].Name == "" {
		return nil, domain.ErrNotFound
	}
	row := rows[0]
	return &domain.ProfileRecord{Name: row.Name, HashedToken: row.HashedToken, Config: row.Config}, nil
}

// Put implements domain.ProfileRepository.
func (s *SurrealProfileStore) Put(ctx context.Context, rec *domain.ProfileRecord) error {
	if rec == nil || rec.Name == "" {
		return NewStoreError(fmt.Errorf("record without a name"), backendSurreal, "put")
	}
	err := Execute(ctx, s.db, surrealUpsert, map[string]any{
		"table": profileTable,
		"name":  rec.Name,
		"data": map[string]any{
			"name":         rec.Name,
			"hashed_token": rec.HashedToken,
			"config":       rec.Config,
		},
	})
	return wrapError(err, backendSurreal, "put")
}

// Delete implements domain.ProfileRepository.
func (s *SurrealProfileStore) Delete(ctx context.Context, name string) error {
	err := Execute(ctx, s.db, surrealDelete, map[string]any{
		"table": profileTable,
		"name":  name,
	})
	return wrapError(err, backendSurreal, "delete")
}

// Close implements domain.ProfileRepository.
func (s *SurrealProfileStore) Close() error {
	return s.db.Close(context.Background())
}
