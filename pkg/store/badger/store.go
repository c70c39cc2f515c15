// Package badger provides a BadgerDB-backed PathStore backend.
package badger

import (
	"context"
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/vrepo/vrepo/pkg/store"
)

// Database Key Namespace
// ======================
//
// BadgerDB is shared-nothing key-value storage, so rows live under a single
// namespace prefix. This leaves room for future singleton keys (schema
// version, store metadata) without colliding with path rows.
//
// Data Type   Prefix   Key Format        Value
// =====================================================
// Path Row    "r:"     r:<canonicalPath> store.Value (JSON)
//
// Canonical paths are unique and "/"-separated, so the prefixed keys iterate
// in the same lexicographic order as the paths themselves. Keys() leans on
// Badger's sorted iteration instead of re-sorting.
const prefixRow = "r:"

func keyRow(path string) []byte {
	return []byte(prefixRow + path)
}

// BadgerPathStore implements store.PathStore using BadgerDB for persistence.
//
// This backend is suitable for:
//   - Namespaces that must survive process restarts
//   - Large key sets where a full in-memory map is undesirable
//   - Deployments wanting crash recovery from Badger's WAL
//
// Thread Safety:
// BadgerDB transactions provide isolation; all operations here run inside a
// single View or Update transaction and are safe for concurrent use.
type BadgerPathStore struct {
	db *badger.DB
}

// BadgerPathStoreConfig contains configuration for the BadgerDB backend.
type BadgerPathStoreConfig struct {
	// DBPath is the directory where BadgerDB stores its files.
	// Ignored when InMemory is true.
	DBPath string `mapstructure:"db_path"`

	// InMemory runs Badger without any on-disk state. Useful for tests
	// and ephemeral namespaces that still want transactional semantics.
	InMemory bool `mapstructure:"in_memory"`
}

// NewBadgerPathStore opens (or creates) a BadgerDB database at the configured
// path and returns a store backed by it. The returned store must be closed
// with Close when no longer needed.
func NewBadgerPathStore(ctx context.Context, cfg BadgerPathStoreConfig) (*BadgerPathStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.DBPath == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badger path store: db_path is required")
	}

	opts := badger.DefaultOptions(cfg.DBPath)
	opts = opts.WithLoggingLevel(badger.WARNING)
	// Rows are tiny JSON documents; compression costs more than it saves.
	opts = opts.WithCompression(options.None)
	if cfg.InMemory {
		opts = opts.WithInMemory(true).WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", cfg.DBPath, err)
	}

	return &BadgerPathStore{db: db}, nil
}

// Close closes the underlying BadgerDB database. The store must not be used
// after Close returns.
func (s *BadgerPathStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close BadgerDB: %w", err)
	}
	return nil
}

// Exists reports whether a row is present for the exact key.
func (s *BadgerPathStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	exists := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(keyRow(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to check row %q: %w", key, err)
	}
	return exists, nil
}

// Get returns the row value for the key.
func (s *BadgerPathStore) Get(ctx context.Context, key string) (store.Value, bool, error) {
	if err := ctx.Err(); err != nil {
		return store.Value{}, false, err
	}

	var value store.Value
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyRow(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(raw []byte) error {
			if err := json.Unmarshal(raw, &value); err != nil {
				return fmt.Errorf("corrupt row value: %w", err)
			}
			found = true
			return nil
		})
	})
	if err != nil {
		return store.Value{}, false, fmt.Errorf("failed to read row %q: %w", key, err)
	}
	return value, found, nil
}

// Set writes the row for the key, overwriting any existing row.
func (s *BadgerPathStore) Set(ctx context.Context, key string, value store.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode row value: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyRow(key), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to write row %q: %w", key, err)
	}
	return nil
}

// Remove deletes the row for the key. Missing keys are ignored.
func (s *BadgerPathStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(keyRow(key))
	})
	if err != nil {
		return fmt.Errorf("failed to remove row %q: %w", key, err)
	}
	return nil
}

// Clear deletes every row.
func (s *BadgerPathStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.db.DropPrefix([]byte(prefixRow)); err != nil {
		return fmt.Errorf("failed to clear rows: %w", err)
	}
	return nil
}

// Keys returns every key, lexicographically ascending.
//
// Badger iterates keys in byte order and every row key carries the same
// prefix, so the trimmed paths come out already sorted.
func (s *BadgerPathStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixRow)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			keys = append(keys, key[len(prefixRow):])
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate rows: %w", err)
	}
	return keys, nil
}

// GetMultiple returns the rows for the given keys in a single read
// transaction. Missing keys are omitted.
func (s *BadgerPathStore) GetMultiple(ctx context.Context, keys []string) (map[string]store.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make(map[string]store.Value, len(keys))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, key := range keys {
			item, err := txn.Get(keyRow(key))
			if err == badger.ErrKeyNotFound {
				continue
			}
			if err != nil {
				return err
			}

			var value store.Value
			if err := item.Value(func(raw []byte) error {
				return json.Unmarshal(raw, &value)
			}); err != nil {
				return fmt.Errorf("corrupt row value for %q: %w", key, err)
			}
			result[key] = value
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bulk-read rows: %w", err)
	}
	return result, nil
}

// Count returns the number of rows.
func (s *BadgerPathStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixRow)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}
