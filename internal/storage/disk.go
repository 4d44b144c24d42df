package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/spf13/afero"
)

// DiskStore is a Store on the local filesystem. Saves are atomic replacements
// performed with natefinch/atomic, which also handles Windows rename semantics.
type DiskStore struct {
	*AferoStore
}

// NewDiskStore creates a Store rooted at the process working directory.
func NewDiskStore() *DiskStore {
	return &DiskStore{AferoStore: NewAferoStore(afero.NewOsFs())}
}

// Save atomically replaces path with the content of reader.
func (s *DiskStore) Save(ctx context.Context, path string, reader io.Reader) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}
	counter := &countingReader{r: reader}
	if err := atomic.WriteFile(path, counter); err != nil {
		return counter.n, err
	}
	return counter.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
