package repository

import (
	"context"

	"github.com/vrepo/vrepo/pkg/resource"
	"github.com/vrepo/vrepo/pkg/store"
)

// Tree mutation: flattening added subtrees into rows, materializing missing
// ancestors, and cascading removals.
//
// Write order matters even without transactions: a parent row is always
// written before any of its descendants, so the ancestor-existence invariant
// holds at every intermediate state. A crash mid-add can leave children
// missing but never an orphaned descendant.

// ensureDirectoryExists walks from path up to the root, creating any missing
// row with the virtual-directory marker. It stops at the first existing
// ancestor and never overwrites an existing row, so ancestor auto-creation
// cannot clobber a real resource.
func (r *Repository) ensureDirectoryExists(ctx context.Context, path string) error {
	exists, err := r.rows.exists(ctx, path)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if path != "/" {
		if err := r.ensureDirectoryExists(ctx, parentPath(path)); err != nil {
			return err
		}
	}
	return r.rows.write(ctx, path, store.VirtualValue())
}

// addResource flattens a resource and its native subtree into rows rooted
// at path.
//
// A resource that is already attached (to this repository or another) is
// replaced by a detached clone, so the caller's original keeps its identity
// and no resource is ever shared across repositories. Children are read
// before attaching: enumeration must reflect the resource's original
// filesystem subtree, not this repository's namespace.
func (r *Repository) addResource(ctx context.Context, path string, res *resource.Resource) error {
	if res.IsAttached() {
		res = res.Clone()
	}

	children, err := res.Children()
	if err != nil {
		return err
	}

	if err := r.rows.write(ctx, path, rowValue(res)); err != nil {
		return err
	}
	res.Attach(r, path)

	for _, child := range children {
		if err := r.addResource(ctx, childPath(path, child.Name), child.Resource); err != nil {
			return err
		}
	}
	return nil
}

// removeResource cascades removal through the resource's subtree. A missing
// row is silently ignored (the subtree may already have been removed by an
// earlier match in the same call). Children go first and the node's own row
// last, so a partial failure leaves the parent visible until its children
// are gone. Finally the in-memory resource reverts to the unattached state.
func (r *Repository) removeResource(ctx context.Context, res *resource.Resource) error {
	path := res.Path()

	exists, err := r.rows.exists(ctx, path)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	childKeys, err := r.childPaths(ctx, path)
	if err != nil {
		return err
	}
	for _, childKey := range childKeys {
		value, ok, err := r.rows.read(ctx, childKey)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		child := rehydrate(value)
		child.Attach(r, childKey)
		if err := r.removeResource(ctx, child); err != nil {
			return err
		}
	}

	if err := r.rows.remove(ctx, path); err != nil {
		return err
	}
	res.Detach(r)
	return nil
}

// rowValue maps a resource variant to its store row value: generics become
// virtual-directory markers, everything else serializes its locator.
func rowValue(res *resource.Resource) store.Value {
	switch res.Kind() {
	case resource.KindGeneric:
		return store.VirtualValue()
	default:
		return store.LocatorValue(res.FilesystemPath())
	}
}

// rehydrate reconstructs a resource from a stored row value. Virtual rows
// yield generic resources; locator rows are resolved against the live
// filesystem (see resource.FromLocator).
func rehydrate(value store.Value) *resource.Resource {
	if value.Virtual {
		return resource.NewGeneric()
	}
	return resource.FromLocator(value.Locator)
}
