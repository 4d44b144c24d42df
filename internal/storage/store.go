package storage

import (
	"context"
	"io"
	"os"
)

// Store defines the interface for a file storage backend. Paths are slash or OS
// separated paths relative to the backend root.
type Store interface {
	Save(ctx context.Context, path string, reader io.Reader) (int64, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Stat(ctx context.Context, path string) (os.FileInfo, error)
	Delete(ctx context.Context, path string) error
}

// ReadFile reads a whole file from s.
func ReadFile(ctx context.Context, s Store, path string) ([]byte, error) {
	f, err := s.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Exists reports whether path exists in s.
func Exists(ctx context.Context, s Store, path string) (bool, error) {
	_, err := s.Stat(ctx, path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
