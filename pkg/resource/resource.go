// Package resource models the filesystem-backed values stored in a
// repository.
//
// A Resource is a closed tagged variant: directory, file, or generic. The
// Kind discriminator keeps the variant set closed and lets every consumer
// dispatch with an exhaustive switch instead of open-ended type inspection.
//
// Identity is split in two:
//   - the filesystem locator (variant-dependent, immutable): the real
//     location the resource is backed by, if any
//   - the attachment record (mutable): which repository owns the resource
//     and at which virtual path
//
// A resource is attached to at most one repository at a time. Repositories
// that receive an already-attached resource operate on a Clone, so the
// caller's original object never changes identity behind their back.
package resource

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// Kind discriminates the resource variants.
type Kind int

const (
	// KindDirectory is a resource backed by a real directory. It can
	// enumerate its own children from the filesystem.
	KindDirectory Kind = iota

	// KindFile is a resource backed by a real file. It has no children.
	KindFile

	// KindGeneric is a virtual resource with no real backing location.
	// Rows holding the virtual-directory marker rehydrate to this kind.
	KindGeneric
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	case KindGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// attachment records which repository owns the resource and at which
// virtual path. Held alongside the value rather than merged into it, so
// copy-on-attach is a plain value copy of everything but this record.
type attachment struct {
	owner any
	path  string
}

// Resource is a filesystem-backed node value.
//
// Resources are not safe for concurrent mutation: attaching changes the
// resource's identity, so the same instance must not be added to two
// repositories concurrently (clone first).
type Resource struct {
	kind   Kind
	fsPath string
	att    *attachment
}

// NewDirectory creates an unattached directory resource backed by the given
// real directory path.
func NewDirectory(fsPath string) *Resource {
	return &Resource{kind: KindDirectory, fsPath: fsPath}
}

// NewFile creates an unattached file resource backed by the given real file
// path.
func NewFile(fsPath string) *Resource {
	return &Resource{kind: KindFile, fsPath: fsPath}
}

// NewGeneric creates an unattached virtual resource with no real backing.
func NewGeneric() *Resource {
	return &Resource{kind: KindGeneric}
}

// FromLocator rehydrates a stored filesystem locator into a resource by
// inspecting the live filesystem: a directory yields KindDirectory, a file
// yields KindFile, and anything else (vanished, special) degrades to
// KindGeneric. This is the boundary where the repository trusts the real
// filesystem over stored metadata.
func FromLocator(locator string) *Resource {
	info, err := os.Stat(locator)
	switch {
	case err == nil && info.IsDir():
		return NewDirectory(locator)
	case err == nil && info.Mode().IsRegular():
		return NewFile(locator)
	default:
		return NewGeneric()
	}
}

// Kind returns the variant discriminator.
func (r *Resource) Kind() Kind {
	return r.kind
}

// FilesystemPath returns the real backing location. Empty for generic
// resources.
func (r *Resource) FilesystemPath() string {
	return r.fsPath
}

// Name returns the resource's last path segment: the base of the virtual
// path once attached, otherwise the base of the filesystem locator. The
// root resource's name is "/". Unattached generic resources have no name.
func (r *Resource) Name() string {
	if r.att != nil {
		if r.att.path == "/" {
			return "/"
		}
		return path.Base(r.att.path)
	}
	if r.fsPath != "" {
		return filepath.Base(r.fsPath)
	}
	return ""
}

// Path returns the virtual path the resource is attached at, or "" when
// unattached. The path is assigned only through attachment.
func (r *Resource) Path() string {
	if r.att == nil {
		return ""
	}
	return r.att.path
}

// IsAttached reports whether the resource is owned by a repository.
func (r *Resource) IsAttached() bool {
	return r.att != nil
}

// AttachedTo reports whether the resource is owned by the given repository.
func (r *Resource) AttachedTo(owner any) bool {
	return r.att != nil && r.att.owner == owner
}

// Attach records the owning repository and virtual path. Attaching an
// already-attached resource re-binds it; repositories avoid that by cloning
// first (see Clone).
func (r *Resource) Attach(owner any, virtualPath string) {
	r.att = &attachment{owner: owner, path: virtualPath}
}

// Detach clears the attachment if the resource is owned by the given
// repository, reverting it to the unattached state so it can be re-added
// elsewhere. Detach by a non-owner is ignored.
func (r *Resource) Detach(owner any) {
	if r.att != nil && r.att.owner == owner {
		r.att = nil
	}
}

// Clone returns an unattached value copy of the resource: same kind and
// filesystem locator, no attachment record.
func (r *Resource) Clone() *Resource {
	return &Resource{kind: r.kind, fsPath: r.fsPath}
}

// Child pairs a child's name with its resource.
type Child struct {
	Name     string
	Resource *Resource
}

// Children enumerates the resource's native children from the backing
// filesystem, sorted by name. Only directories have children; files and
// generics return an empty slice.
//
// Enumeration reflects the resource's original subtree on disk, not any
// repository's namespace, so it must be read before the resource is
// attached when flattening a subtree into a repository.
func (r *Resource) Children() ([]Child, error) {
	if r.kind != KindDirectory {
		return nil, nil
	}

	entries, err := os.ReadDir(r.fsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", r.fsPath, err)
	}

	children := make([]Child, 0, len(entries))
	for _, entry := range entries {
		childPath := filepath.Join(r.fsPath, entry.Name())

		var child *Resource
		if entry.IsDir() {
			child = NewDirectory(childPath)
		} else {
			child = NewFile(childPath)
		}
		children = append(children, Child{Name: entry.Name(), Resource: child})
	}
	return children, nil
}
