package repository

import (
	"path"
	"strings"
)

// canonicalPath validates and normalizes a raw path or query string.
//
// A canonical path is absolute, "/"-separated, free of "." and ".."
// segments, and carries no trailing slash except the root "/" itself.
// Glob metacharacters pass through untouched; only the path structure is
// normalized.
func canonicalPath(raw string) (string, error) {
	if raw == "" {
		return "", validationError("path must not be empty", raw)
	}
	if !strings.HasPrefix(raw, "/") {
		return "", validationError("path must be absolute", raw)
	}
	return path.Clean(raw), nil
}

// parentPath returns the canonical parent of a canonical path.
// The root is its own parent.
func parentPath(p string) string {
	if p == "/" {
		return "/"
	}
	return path.Dir(p)
}

// childPath joins a canonical parent path with a child name without
// doubling the separator at the root.
func childPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}
