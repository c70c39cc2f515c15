// Package memory provides an in-memory PathStore backend.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vrepo/vrepo/pkg/store"
)

// MemoryPathStore implements store.PathStore using an in-memory map.
//
// This backend is suitable for:
//   - Tests and development environments
//   - Ephemeral namespaces where persistence is not required
//   - Callers that persist through another mechanism entirely
//
// Thread Safety:
// All operations are protected by a single read-write mutex, making the
// store safe for concurrent use. The repository core itself is synchronous
// and single-caller, but nothing here depends on that.
//
// Ordering:
// Rows live in a plain map; Keys sorts a fresh copy of the key set on every
// call. This keeps writes O(1) and pays the ordering cost only on
// enumeration, which is how the repository consumes the store anyway.
type MemoryPathStore struct {
	mu   sync.RWMutex
	rows map[string]store.Value
}

// NewMemoryPathStore creates an empty in-memory path store.
func NewMemoryPathStore() *MemoryPathStore {
	return &MemoryPathStore{
		rows: make(map[string]store.Value),
	}
}

// Exists reports whether a row is present for the exact key.
func (s *MemoryPathStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.rows[key]
	return ok, nil
}

// Get returns the row value for the key.
func (s *MemoryPathStore) Get(ctx context.Context, key string) (store.Value, bool, error) {
	if err := ctx.Err(); err != nil {
		return store.Value{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.rows[key]
	return value, ok, nil
}

// Set writes the row for the key, overwriting any existing row.
func (s *MemoryPathStore) Set(ctx context.Context, key string, value store.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows[key] = value
	return nil
}

// Remove deletes the row for the key. Missing keys are ignored.
func (s *MemoryPathStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rows, key)
	return nil
}

// Clear deletes every row.
func (s *MemoryPathStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = make(map[string]store.Value)
	return nil
}

// Keys returns every key, lexicographically ascending.
func (s *MemoryPathStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	keys := make([]string, 0, len(s.rows))
	for key := range s.rows {
		keys = append(keys, key)
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys, nil
}

// GetMultiple returns the rows for the given keys. Missing keys are omitted.
func (s *MemoryPathStore) GetMultiple(ctx context.Context, keys []string) (map[string]store.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]store.Value, len(keys))
	for _, key := range keys {
		if value, ok := s.rows[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

// Count returns the number of rows.
func (s *MemoryPathStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rows), nil
}
