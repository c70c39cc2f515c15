// Package repository implements a virtual resource repository: a single
// absolute-path namespace over heterogeneous filesystem resources, backed
// by a flat key-value store keyed by canonical path.
//
// Callers register real filesystem locations under virtual paths with Add,
// which flattens the resource's subtree into one row per descendant path
// and materializes any missing ancestor directories. Reads (Get, Find,
// ListChildren) evaluate against the flat key set and rehydrate resources
// on demand, so the underlying filesystem is never re-walked for lookups.
//
// Invariants maintained across all operations:
//  1. A row for the root "/" always exists.
//  2. Every row's ancestors are present as rows (no orphaned descendants).
//  3. Keys are unique; re-adding a path overwrites its row.
//  4. Key enumeration is lexicographically ascending, so listings observe
//     deterministic, ancestor-before-descendant, alphabetical order.
//  5. A resource object is attached to at most one repository; adding an
//     attached resource operates on a clone.
//
// The repository is synchronous and single-caller: operations run to
// completion, and mutations are not atomic across store calls (see the
// store package). It performs no internal locking; wrap access externally
// if the backing store is shared.
package repository

import (
	"context"
	"strings"

	"github.com/vrepo/vrepo/internal/logger"
	"github.com/vrepo/vrepo/pkg/match"
	"github.com/vrepo/vrepo/pkg/resource"
	"github.com/vrepo/vrepo/pkg/store"
)

// LanguageGlob is the only query language Find, Contains and Remove accept.
const LanguageGlob = "glob"

var log = logger.Component("repository")

// Repository is the public facade over the path store.
type Repository struct {
	rows rows
}

// New creates a repository over the given store and materializes the root
// row if it is missing.
func New(ctx context.Context, st store.PathStore) (*Repository, error) {
	r := &Repository{rows: rows{store: st}}
	if err := r.ensureDirectoryExists(ctx, "/"); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns the resource stored at the exact canonical path, attached to
// this repository. Fails with ErrNotFound when no row exists for the path.
func (r *Repository) Get(ctx context.Context, rawPath string) (*resource.Resource, error) {
	path, err := canonicalPath(rawPath)
	if err != nil {
		return nil, err
	}

	value, ok, err := r.rows.read(ctx, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFoundError(path)
	}

	res := rehydrate(value)
	res.Attach(r, path)
	return res, nil
}

// Find evaluates a query against the namespace and returns all matching
// resources, attached to this repository.
//
// A query containing glob metacharacters is matched against the full key
// set (`*` within one segment, `**` across segments, character classes). A
// literal query behaves as a point lookup: one result if the exact key
// exists, otherwise an empty collection. No match is never an error.
//
// The match set is captured against a snapshot of the key set before any
// resolution happens; concurrent mutations are not reflected.
func (r *Repository) Find(ctx context.Context, query, language string) ([]*resource.Resource, error) {
	queryPath, err := r.validateQuery(query, language)
	if err != nil {
		return nil, err
	}

	if match.IsDynamic(queryPath) {
		paths, err := r.globPaths(ctx, queryPath)
		if err != nil {
			return nil, err
		}
		return r.resolve(ctx, paths)
	}

	exists, err := r.rows.exists(ctx, queryPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []*resource.Resource{}, nil
	}
	return r.resolve(ctx, []string{queryPath})
}

// Contains reports whether the query matches at least one path, without
// materializing resource objects. Glob queries short-circuit on the first
// matching key.
func (r *Repository) Contains(ctx context.Context, query, language string) (bool, error) {
	queryPath, err := r.validateQuery(query, language)
	if err != nil {
		return false, err
	}

	if match.IsDynamic(queryPath) {
		return r.hasGlobPath(ctx, queryPath)
	}
	return r.rows.exists(ctx, queryPath)
}

// Add registers a resource (or a collection of resources) under the given
// virtual path.
//
// For a single resource, the parent directory of path is materialized and
// the resource's subtree is flattened starting at path. For a collection,
// path itself is materialized as a directory and each element is added
// under path/name. Any other value fails with ErrUnsupportedResource.
//
// Re-adding an existing path overwrites its row. Resources already attached
// to a repository are added as clones; the original is left untouched.
func (r *Repository) Add(ctx context.Context, rawPath string, value any) error {
	path, err := canonicalPath(rawPath)
	if err != nil {
		return err
	}

	switch v := value.(type) {
	case *resource.Resource:
		if v == nil {
			return unsupportedResourceError("cannot add a nil resource")
		}
		log.Debug().Str("path", path).Stringer("kind", v.Kind()).Msg("adding resource")
		if err := r.ensureDirectoryExists(ctx, parentPath(path)); err != nil {
			return err
		}
		return r.addResource(ctx, path, v)

	case []*resource.Resource:
		if err := r.ensureDirectoryExists(ctx, path); err != nil {
			return err
		}
		for _, child := range v {
			if child == nil {
				return unsupportedResourceError("cannot add a nil resource")
			}
			name := child.Name()
			if name == "" {
				return validationError("collection member has no name", path)
			}
			if err := r.addResource(ctx, childPath(path, name), child); err != nil {
				return err
			}
		}
		return nil

	default:
		return unsupportedResourceError("value is neither a resource nor a resource collection")
	}
}

// Remove deletes every resource matching the query, cascading through each
// match's subtree, and returns the number of rows removed.
//
// Matches are resolved via Find before any deletion, so an invalid language
// or query shape surfaces before the store is touched. Removing the root is
// rejected regardless of query form ("/", "//", ...).
func (r *Repository) Remove(ctx context.Context, query, language string) (int, error) {
	matches, err := r.Find(ctx, query, language)
	if err != nil {
		return 0, err
	}

	if strings.Trim(query, "/") == "" {
		return 0, validationError("cannot remove the root resource", query)
	}

	before, err := r.rows.count(ctx)
	if err != nil {
		return 0, err
	}

	for _, res := range matches {
		if res.Path() == "/" {
			// A glob can match the root; the root row itself stays.
			continue
		}
		if err := r.removeResource(ctx, res); err != nil {
			return 0, err
		}
	}

	after, err := r.rows.count(ctx)
	if err != nil {
		return 0, err
	}
	removed := before - after
	log.Debug().Str("query", query).Int("removed", removed).Msg("removed resources")
	return removed, nil
}

// Clear removes every row except the recreated root and returns the number
// of rows removed.
func (r *Repository) Clear(ctx context.Context) (int, error) {
	before, err := r.rows.count(ctx)
	if err != nil {
		return 0, err
	}

	if err := r.rows.clear(ctx); err != nil {
		return 0, err
	}
	if err := r.rows.write(ctx, "/", store.VirtualValue()); err != nil {
		return 0, err
	}

	removed := before - 1
	if removed < 0 {
		removed = 0
	}
	log.Debug().Int("removed", removed).Msg("cleared repository")
	return removed, nil
}

// ListChildren returns the immediate children of the resource at path, in
// lexicographic key order. Fails with ErrNotFound when path itself does
// not exist, exactly like Get.
func (r *Repository) ListChildren(ctx context.Context, rawPath string) ([]*resource.Resource, error) {
	res, err := r.Get(ctx, rawPath)
	if err != nil {
		return nil, err
	}

	paths, err := r.childPaths(ctx, res.Path())
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, paths)
}

// HasChildren reports whether the resource at path has at least one child,
// short-circuiting on the first match. Resolution of path fails the same
// way as Get.
func (r *Repository) HasChildren(ctx context.Context, rawPath string) (bool, error) {
	res, err := r.Get(ctx, rawPath)
	if err != nil {
		return false, err
	}
	return r.hasChildPath(ctx, res.Path())
}

// validateQuery applies the shared Find/Contains/Remove validation: the
// language must be glob and the query a non-empty absolute path or pattern.
func (r *Repository) validateQuery(query, language string) (string, error) {
	if language != LanguageGlob {
		return "", unsupportedLanguageError(language)
	}
	return canonicalPath(query)
}
