// Package testutils holds helpers shared by tests across packages.
package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"

	"github.com/nfrund/denote/internal/config"
	"github.com/nfrund/denote/internal/database"
	"github.com/nfrund/denote/internal/domain"
	"github.com/nfrund/denote/internal/logging"
)

// ProjectRoot walks up from the working directory to the directory holding go.mod.
func ProjectRoot(t *testing.T) string {
	t.Helper()
	path, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path
		}
		if path == filepath.Dir(path) {
			t.Fatalf("could not find project root with go.mod")
		}
		path = filepath.Dir(path)
	}
}

// ConfigForTests applies .env.test, when the project has one, and returns a
// config whose SQLite and file stores live in a per-test directory.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	env, err := godotenv.Read(filepath.Join(ProjectRoot(t), ".env.test"))
	if err == nil {
		for key, value := range env {
			t.Setenv(key, value)
		}
	}

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("config from env: %v", err)
	}
	dir := t.TempDir()
	cfg.SQLitePath = filepath.Join(dir, "denote.db")
	cfg.FileStorePath = filepath.Join(dir, "denote.json")

	logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())
	return cfg
}

// SQLiteRepo opens a fresh SQLite registry that is closed when the test ends.
func SQLiteRepo(t *testing.T) domain.ProfileRepository {
	t.Helper()
	repo, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "registry.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}
