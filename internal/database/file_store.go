package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nfrund/denote/internal/domain"
	"github.com/nfrund/denote/internal/storage"
)

const backendFile = "file"

var _ domain.ProfileRepository = (*FileProfileStore)(nil)

type fileEntry struct {
	HashedToken string `json:"hashedToken"`
	Config      string `json:"config"`
}

// FileProfileStore is the legacy registry layout: every profile in one JSON
// object of the form {name: {hashedToken, config}}. Each write rewrites the whole
// document; a mutex serializes writers within the process.
type FileProfileStore struct {
	store storage.Store
	path  string
	mu    sync.Mutex
}

// NewFileProfileStore keeps the document at path inside store.
func NewFileProfileStore(store storage.Store, path string) *FileProfileStore {
	return &FileProfileStore{store: store, path: path}
}

func (s *FileProfileStore) load(ctx context.Context) (map[string]fileEntry, error) {
	entries := map[string]fileEntry{}
	ok, err := storage.Exists(ctx, s.store, s.path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return entries, nil
	}
	data, err := storage.ReadFile(ctx, s.store, s.path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *FileProfileStore) save(ctx context.Context, entries map[string]fileEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	_, err = s.store.Save(ctx, s.path, bytes.NewReader(data))
	return err
}

// Get implements domain.ProfileRepository.
func (s *FileProfileStore) Get(ctx context.Context, name string) (*domain.ProfileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, NewStoreError(err, backendFile, "get")
	}
	e, ok := entries[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.ProfileRecord{Name: name, HashedToken: e.HashedToken, Config: e.Config}, nil
}

// Put implements domain.ProfileRepository.
func (s *FileProfileStore) Put(ctx context.Context, rec *domain.ProfileRecord) error {
	if rec == nil || rec.Name == "" {
		return NewStoreError(fmt.Errorf("record without a name"), backendFile, "put")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return NewStoreError(err, backendFile, "put")
	}
	entries[rec.Name] = fileEntry{HashedToken: rec.HashedToken, Config: rec.Config}
	if err := s.save(ctx, entries); err != nil {
		return NewStoreError(err, backendFile, "put")
	}
	return nil
}

// Delete implements domain.ProfileRepository.
func (s *FileProfileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return NewStoreError(err, backendFile, "delete")
	}
	if _, ok := entries[name]; !ok {
		return nil
	}
	delete(entries, name)
	if err := s.save(ctx, entries); err != nil {
		return NewStoreError(err, backendFile, "delete")
	}
	return nil
}

// Close implements domain.ProfileRepository.
func (s *FileProfileStore) Close() error {
	return nil
}
