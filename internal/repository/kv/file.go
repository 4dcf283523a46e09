package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/chime/internal/config"
)

// FileStore persists the key-value map as a single JSON file on disk.
// Every mutation rewrites the whole document, so the mutex makes each
// operation an exclusive read-modify-write.
type FileStore struct {
	// path is the filesystem location of the JSON document.
	path string
	// mu protects concurrent access to the document.
	mu sync.Mutex
}

// NewFileStore creates a store that reads/writes JSON at the provided path.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: filepath.Clean(path),
	}
}

// Get reads a single value from the document.
func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", err
	}

	value, ok := doc[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

// Set writes a single value and persists the whole document.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	doc[key] = value

	return s.write(doc)
}

// Delete removes a key and persists the whole document.
// Deleting an absent key is not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	if _, ok := doc[key]; !ok {
		return nil
	}

	delete(doc, key)

	return s.write(doc)
}

// Close is a no-op for the file-backed store.
func (s *FileStore) Close() error {
	return nil
}

// read loads the document from disk; a missing file is an empty document.
func (s *FileStore) read() (map[string]string, error) {
	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}

		return nil, fmt.Errorf("read store file: %w", err)
	}

	doc := make(map[string]string)
	if err := json.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}

	return doc, nil
}

// write persists the document to disk.
func (s *FileStore) write(doc map[string]string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if err := os.WriteFile(s.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}

	return nil
}
