package repository

import (
	"context"
	"fmt"

	"github.com/vrepo/vrepo/pkg/store"
)

// rows is the repository's semantic wrapper over the PathStore collaborator.
// It translates store-level calls into the vocabulary the repository thinks
// in and wraps infrastructure errors with the failing row's path.
type rows struct {
	store store.PathStore
}

func (r rows) exists(ctx context.Context, path string) (bool, error) {
	ok, err := r.store.Exists(ctx, path)
	if err != nil {
		return false, fmt.Errorf("store existence check failed for %s: %w", path, err)
	}
	return ok, nil
}

func (r rows) read(ctx context.Context, path string) (store.Value, bool, error) {
	value, ok, err := r.store.Get(ctx, path)
	if err != nil {
		return store.Value{}, false, fmt.Errorf("store read failed for %s: %w", path, err)
	}
	return value, ok, nil
}

func (r rows) write(ctx context.Context, path string, value store.Value) error {
	if err := r.store.Set(ctx, path, value); err != nil {
		return fmt.Errorf("store write failed for %s: %w", path, err)
	}
	return nil
}

func (r rows) remove(ctx context.Context, path string) error {
	if err := r.store.Remove(ctx, path); err != nil {
		return fmt.Errorf("store remove failed for %s: %w", path, err)
	}
	return nil
}

func (r rows) clear(ctx context.Context) error {
	if err := r.store.Clear(ctx); err != nil {
		return fmt.Errorf("store clear failed: %w", err)
	}
	return nil
}

// keys returns a snapshot of the full key set, lexicographically ascending.
// Iteration over the snapshot is unaffected by later mutations.
func (r rows) keys(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("store key enumeration failed: %w", err)
	}
	return keys, nil
}

func (r rows) readAll(ctx context.Context, paths []string) (map[string]store.Value, error) {
	values, err := r.store.GetMultiple(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("store bulk read failed: %w", err)
	}
	return values, nil
}

func (r rows) count(ctx context.Context) (int, error) {
	count, err := r.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("store count failed: %w", err)
	}
	return count, nil
}
