// Package match evaluates glob patterns and child-prefix filters over
// canonical path sequences.
//
// Glob semantics are separator-aware: `*` matches within a single path
// segment, `**` matches across segments, and character classes follow the
// usual bracket syntax. Compilation and matching are delegated to
// github.com/gobwas/glob with '/' as the separator.
package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// metaChars are the characters that make a query dynamic (a glob pattern
// rather than a literal path).
const metaChars = `*?[]{}\`

// IsDynamic reports whether the pattern contains glob metacharacters.
// Literal paths take the point-lookup fast path instead of a full key scan.
func IsDynamic(pattern string) bool {
	return strings.ContainsAny(pattern, metaChars)
}

// Glob is a compiled, separator-aware glob pattern.
type Glob struct {
	matcher glob.Glob
}

// CompileGlob compiles a glob pattern with '/' as the segment separator.
func CompileGlob(pattern string) (*Glob, error) {
	matcher, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return &Glob{matcher: matcher}, nil
}

// Match reports whether the path matches the pattern.
func (g *Glob) Match(path string) bool {
	return g.matcher.Match(path)
}

// Filter returns the subsequence of paths matching the pattern, preserving
// input order.
func (g *Glob) Filter(paths []string) []string {
	var matched []string
	for _, path := range paths {
		if g.matcher.Match(path) {
			matched = append(matched, path)
		}
	}
	return matched
}

// First returns the first path matching the pattern, if any.
func (g *Glob) First(paths []string) (string, bool) {
	for _, path := range paths {
		if g.matcher.Match(path) {
			return path, true
		}
	}
	return "", false
}

// ChildFilter selects the immediate children of a parent path: keys that
// start with the parent's prefix and contain exactly one more segment.
type ChildFilter struct {
	prefix  string
	pattern *regexp.Regexp
}

// NewChildFilter builds a child filter for the given parent path. The parent
// must already be canonical; the root "/" is handled without doubling the
// separator.
func NewChildFilter(parent string) *ChildFilter {
	prefix := parent + "/"
	if parent == "/" {
		prefix = "/"
	}
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + "[^/]+$")
	return &ChildFilter{prefix: prefix, pattern: pattern}
}

// Match reports whether the key is an immediate child of the parent.
func (f *ChildFilter) Match(key string) bool {
	// Cheap literal prefix check before the regex.
	return strings.HasPrefix(key, f.prefix) && f.pattern.MatchString(key)
}

// Filter returns the immediate children among the keys, preserving input
// order.
func (f *ChildFilter) Filter(keys []string) []string {
	var children []string
	for _, key := range keys {
		if f.Match(key) {
			children = append(children, key)
		}
	}
	return children
}

// First returns the first immediate child among the keys, if any.
func (f *ChildFilter) First(keys []string) (string, bool) {
	for _, key := range keys {
		if f.Match(key) {
			return key, true
		}
	}
	return "", false
}
