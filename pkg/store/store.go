// Package store defines the key-value boundary the repository persists
// through.
//
// A PathStore is a flat mapping from canonical absolute paths to row values.
// It knows nothing about trees, globs, or resources: ancestor materialization,
// cascading removal, and query evaluation all live above this boundary in
// pkg/repository. Backends only guarantee the row contract below.
package store

import "context"

// Value is the row value stored for a canonical path.
//
// A row either carries the serialized filesystem locator of a real resource,
// or it marks a virtual directory: a path that exists purely to keep every
// ancestor of a materialized row present in the store. The explicit Virtual
// flag keeps "no locator" distinguishable from a legitimately empty locator
// string.
type Value struct {
	// Locator is the real filesystem location backing the row.
	// Empty when Virtual is true.
	Locator string `json:"locator,omitempty"`

	// Virtual marks a row with no filesystem backing (an implicitly
	// created ancestor directory).
	Virtual bool `json:"virtual,omitempty"`
}

// LocatorValue returns a row value carrying a real filesystem locator.
func LocatorValue(locator string) Value {
	return Value{Locator: locator}
}

// VirtualValue returns the row value for a virtual directory.
func VirtualValue() Value {
	return Value{Virtual: true}
}

// PathStore is the key-value capability set the repository requires.
//
// Keys are canonical absolute paths ("/"-separated, no trailing slash except
// the root "/"). The store treats them as opaque strings; canonicalization is
// the caller's responsibility.
//
// Ordering contract: Keys returns the complete key set in lexicographically
// ascending order. Backends with natively ordered iteration (BadgerDB, S3
// listings) satisfy this for free; others must sort before returning. The
// repository relies on this ordering for deterministic child listings.
//
// No transactional isolation is promised across calls. A crash between two
// Set calls can leave a partially written subtree; callers needing atomic
// multi-row commits must layer that on a backend that provides it.
type PathStore interface {
	// Exists reports whether a row is present for the exact key.
	Exists(ctx context.Context, key string) (bool, error)

	// Get returns the row value for the key. The boolean is false when no
	// row exists; that case is not an error.
	Get(ctx context.Context, key string) (Value, bool, error)

	// Set writes the row for the key, overwriting any existing row.
	Set(ctx context.Context, key string, value Value) error

	// Remove deletes the row for the key. Removing a missing key is a no-op.
	Remove(ctx context.Context, key string) error

	// Clear deletes every row.
	Clear(ctx context.Context) error

	// Keys returns every key, lexicographically ascending.
	Keys(ctx context.Context) ([]string, error)

	// GetMultiple returns the rows for the given keys in one bulk read.
	// Missing keys are omitted from the result, never an error.
	GetMultiple(ctx context.Context, keys []string) (map[string]Value, error)

	// Count returns the number of rows.
	Count(ctx context.Context) (int, error)
}
