package repository

import (
	"context"

	"github.com/vrepo/vrepo/pkg/match"
	"github.com/vrepo/vrepo/pkg/resource"
)

// Query evaluation.
//
// Both iterators work over a snapshot of the store's key set taken when the
// query is evaluated: mutations after that point are not reflected. Remove
// relies on this by resolving its full match set via Find before any row is
// deleted.

// childPaths returns the paths of the immediate children of parent: keys
// starting with parent's prefix and containing exactly one more segment.
// Order follows the store's lexicographic key order.
func (r *Repository) childPaths(ctx context.Context, parent string) ([]string, error) {
	keys, err := r.rows.keys(ctx)
	if err != nil {
		return nil, err
	}
	return match.NewChildFilter(parent).Filter(keys), nil
}

// hasChildPath reports whether parent has at least one immediate child,
// short-circuiting on the first match.
func (r *Repository) hasChildPath(ctx context.Context, parent string) (bool, error) {
	keys, err := r.rows.keys(ctx)
	if err != nil {
		return false, err
	}
	_, ok := match.NewChildFilter(parent).First(keys)
	return ok, nil
}

// globPaths returns all keys matching the glob pattern, in store key order.
func (r *Repository) globPaths(ctx context.Context, pattern string) ([]string, error) {
	glob, err := match.CompileGlob(pattern)
	if err != nil {
		return nil, validationError("invalid glob query", pattern)
	}

	keys, err := r.rows.keys(ctx)
	if err != nil {
		return nil, err
	}
	return glob.Filter(keys), nil
}

// hasGlobPath reports whether any key matches the glob pattern,
// short-circuiting on the first match.
func (r *Repository) hasGlobPath(ctx context.Context, pattern string) (bool, error) {
	glob, err := match.CompileGlob(pattern)
	if err != nil {
		return false, validationError("invalid glob query", pattern)
	}

	keys, err := r.rows.keys(ctx)
	if err != nil {
		return false, err
	}
	_, ok := glob.First(keys)
	return ok, nil
}

// resolve converts a sequence of matched paths into attached resources with
// one bulk read against the store. Paths whose rows vanished between the
// match and the read are skipped. Results keep the input path order.
func (r *Repository) resolve(ctx context.Context, paths []string) ([]*resource.Resource, error) {
	if len(paths) == 0 {
		return []*resource.Resource{}, nil
	}

	values, err := r.rows.readAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	resources := make([]*resource.Resource, 0, len(values))
	for _, path := range paths {
		value, ok := values[path]
		if !ok {
			continue
		}
		res := rehydrate(value)
		res.Attach(r, path)
		resources = append(resources, res)
	}
	return resources, nil
}
