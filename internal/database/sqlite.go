package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nfrund/denote/internal/domain"
)

const backendSQLite = "sqlite"

const (
	sqliteSchema = `CREATE TABLE IF NOT EXISTS profiles (
	name TEXT PRIMARY KEY,
	hashed_token TEXT NOT NULL,
	config TEXT NOT NULL
)`
	sqliteGet    = `SELECT name, hashed_token, config FROM profiles WHERE name = ?`
	sqliteUpsert = `INSERT INTO profiles (name, hashed_token, config) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET hashed_token = excluded.hashed_token, config = excluded.config`
	sqliteDelete = `DELETE FROM profiles WHERE name = ?`
)

var _ domain.ProfileRepository = (*SQLiteProfileStore)(nil)

// SQLiteProfileStore keeps one row per profile in a `profiles` table.
type SQLiteProfileStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating when needed) the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteProfileStore, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, NewStoreError(err, backendSQLite, "open")
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY between them.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, NewStoreError(err, backendSQLite, "ping")
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, NewStoreError(err, backendSQLite, "migrate").WithQuery(sqliteSchema)
	}

	slog.Info("Opened SQLite profile store", "path", path)
	return &SQLiteProfileStore{db: db}, nil
}

// NewSQLiteProfileStore wraps an already opened database. The schema must exist.
func NewSQLiteProfileStore(db *sql.DB) *SQLiteProfileStore {
	return &SQLiteProfileStore{db: db}
}

// Get implements domain.ProfileRepository.
func (s *SQLiteProfileStore) Get(ctx context.Context, name string) (*domain.ProfileRecord, error) {
	var rec domain.ProfileRecord
	err := s.db.QueryRowContext(ctx, sqliteGet, name).Scan(&rec.Name, &rec.HashedToken, &rec.Config)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, NewStoreError(err, backendSQLite, "get").WithQuery(sqliteGet)
	}
	return &rec, nil
}

// Put implements domain.ProfileRepository.
func (s *SQLiteProfileStore) Put(ctx context.Context, rec *domain.ProfileRecord) error {
	if rec == nil || rec.Name == "" {
		return NewStoreError(fmt.Errorf("record without a name"), backendSQLite, "put")
	}
	if _, err := s.db.ExecContext(ctx, sqliteUpsert, rec.Name, rec.HashedToken, rec.Config); err != nil {
		return NewStoreError(err, backendSQLite, "put").WithQuery(sqliteUpsert)
	}
	return nil
}

// Delete implements domain.ProfileRepository.
func (s *SQLiteProfileStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, sqliteDelete, name); err != nil {
		return NewStoreError(err, backendSQLite, "delete").WithQuery(sqliteDelete)
	}
	return nil
}

// Close implements domain.ProfileRepository.
func (s *SQLiteProfileStore) Close() error {
	return s.db.Close()
}
