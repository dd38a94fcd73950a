// Package localstore is the client-resident cart cache: a single JSON
// value under a fixed key, surviving independently of any session. The
// file store mirrors browser local storage on disk; the memory store backs
// tests.
package localstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"dcpstore/internal/domain"
)

// StorageKey is the fixed key the cart is persisted under.
const StorageKey = "dcpCart"

type Store interface {
	// Load returns the cached cart; a missing value is an empty cart.
	Load() ([]domain.LocalCartItem, error)
	// Save overwrites the cached cart wholesale.
	Save(items []domain.LocalCartItem) error
}

// FileStore keeps the cart as <dir>/<StorageKey>.json.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

func (s *FileStore) path() string { return filepath.Join(s.dir, StorageKey+".json") }

func (s *FileStore) Load() ([]domain.LocalCartItem, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.LocalCartItem{}, nil
		}
		return nil, err
	}
	var items []domain.LocalCartItem
	if err := json.Unmarshal(b, &items); err != nil {
		// A corrupt cache is treated as empty rather than fatal.
		return []domain.LocalCartItem{}, nil
	}
	return items, nil
}

func (s *FileStore) Save(items []domain.LocalCartItem) error {
	if items == nil {
		items = []domain.LocalCartItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path(), b, 0o644)
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	items []domain.LocalCartItem
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Load() ([]domain.LocalCartItem, error) {
	out := make([]domain.LocalCartItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemStore) Save(items []domain.LocalCartItem) error {
	s.items = make([]domain.LocalCartItem, len(items))
	copy(s.items, items)
	return nil
}
