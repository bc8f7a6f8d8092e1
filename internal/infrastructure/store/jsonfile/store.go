// Package jsonfile persists the user table as a single JSON document on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sistemabancario/banking-system/internal/core/domain"
	"github.com/sistemabancario/banking-system/internal/infrastructure/store"
)

// Store reads and writes the whole table on every call. Writes go through a
// temp file and a rename so an interrupted write never corrupts the document.
// The mutex serializes callers within this process only; a second process
// writing the same file still wins or loses the whole document (last writer
// wins), which is the store contract.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads and normalizes the full user table. A missing file is an empty
// table.
func (s *Store) Load(_ context.Context) (map[string]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*domain.User{}, nil
		}
		return nil, fmt.Errorf("jsonfile: open: %w", err)
	}
	defer f.Close()

	var table store.Table
	if err := json.NewDecoder(f).Decode(&table); err != nil {
		return nil, fmt.Errorf("jsonfile: decode: %w", err)
	}
	return store.NormalizeTable(table), nil
}

// Save replaces the full user table atomically.
func (s *Store) Save(_ context.Context, users map[string]*domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("jsonfile: create temp: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(store.TableOf(users)); err != nil {
		f.Close()
		return fmt.Errorf("jsonfile: encode: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("jsonfile: close temp: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("jsonfile: rename: %w", err)
	}
	return nil
}
