// Package resolver maps request targets onto a filesystem subtree and
// refuses anything that would land outside of it.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind classifies a resolved target.
type Kind int

const (
	NotFound Kind = iota
	File
	Directory
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Directory:
		return "directory"
	default:
		return "not found"
	}
}

// Resolved is the result of resolving a target against the root.
// Path is empty when Kind is NotFound.
type Resolved struct {
	Kind Kind
	Path string
}

// Resolver confines lookups to a single root directory.
type Resolver struct {
	root string
}

// New returns a Resolver for root. The root is made absolute and its
// symlinks are evaluated once, here; it never changes afterwards.
func New(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", abs, err)
	}
	fi, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("stat root %s: %w", canonical, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", canonical)
	}
	return &Resolver{root: canonical}, nil
}

// Root returns the canonical root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve classifies target, a root-relative path.
//
// Containment is checked twice: on the lexically joined path, and again
// after symlinks are evaluated, so a link pointing outside the root is
// reported as NotFound just like "../" traversal.
func (r *Resolver) Resolve(target string) Resolved {
	joined := filepath.Join(r.root, filepath.FromSlash(target))
	if !r.contains(joined) {
		return Resolved{Kind: NotFound}
	}

	canonical, err := filepath.EvalSymlinks(joined)
	if err != nil || !r.contains(canonical) {
		return Resolved{Kind: NotFound}
	}

	fi, err := os.Stat(canonical)
	if err != nil {
		return Resolved{Kind: NotFound}
	}
	switch {
	case fi.Mode().IsRegular():
		return Resolved{Kind: File, Path: joined}
	case fi.IsDir():
		return Resolved{Kind: Directory, Path: joined}
	default:
		return Resolved{Kind: NotFound}
	}
}

// List returns the immediate children of dir as root-relative,
// slash-separated paths sorted by name.
func (r *Resolver) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		rel, err := filepath.Rel(r.root, filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("relative path for %s: %w", entry.Name(), err)
		}
		paths = append(paths, filepath.ToSlash(rel))
	}
	// os.ReadDir already sorts by file name; keep the order explicit.
	sort.Strings(paths)
	return paths, nil
}

// contains reports whether path is root or lies beneath it, comparing
// whole path segments.
func (r *Resolver) contains(path string) bool {
	if path == r.root {
		return true
	}
	prefix := r.root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
