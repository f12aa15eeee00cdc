// Package container is the storage seam for put files: a hierarchical store
// of named groups and datasets with read, create-and-write and subtree copy.
package container

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrNotFound is returned when a group or dataset is absent.
	ErrNotFound = errors.New("not found")
	// ErrIO wraps failures reported by a storage backend.
	ErrIO = errors.New("container i/o failure")
	// ErrUnsupportedType is returned when a numeric view is requested of an
	// array whose element type cannot provide it.
	ErrUnsupportedType = errors.New("unsupported element type")
	// ErrNotGroup is returned by Children when the path names a dataset.
	ErrNotGroup = errors.New("not a group")
)

// Entry is one child of a group.
type Entry struct {
	Name  string
	Group bool
}

// Store is an open container.
type Store interface {
	// Exists reports whether a group or dataset exists at p.
	Exists(p string) bool

	// Children lists the direct children of the group at p.
	Children(p string) ([]Entry, error)

	// ReadArray reads the dataset at p.
	ReadArray(p string) (*Array, error)

	// WriteArray creates the dataset at p, creating parent groups as needed.
	WriteArray(p string, a *Array) error

	// CreateGroup creates the group at p and any missing parents.
	CreateGroup(p string) error

	// Close releases the container.
	Close() error
}

// Backend opens and creates containers by file path.
type Backend interface {
	// Open opens an existing container read-only.
	Open(name string) (Store, error)

	// Create creates a new container, truncating any existing file.
	Create(name string) (Store, error)

	// Remove deletes a container, typically a partially written one.
	Remove(name string) error
}

// Join builds a slash separated object path.
func Join(elem ...string) string {
	return path.Join(elem...)
}

// Clean normalises p to a relative path without a leading slash. The root
// group is "".
func Clean(p string) string {
	p = strings.Trim(path.Clean("/"+p), "/")
	return p
}

// Split returns the parent group and base name of p.
func Split(p string) (string, string) {
	p = Clean(p)
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}

// Parents returns every ancestor group of p, outermost first, excluding the
// root.
func Parents(p string) []string {
	p = Clean(p)
	var out []string
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			out = append(out, p[:i])
		}
	}
	return out
}

// CopySubtree copies the group or dataset at p from src into dst at the same
// path. Groups are copied recursively and empty groups are preserved.
func CopySubtree(src, dst Store, p string) error {
	p = Clean(p)
	if !src.Exists(p) {
		return fmt.Errorf("copy %q: %w", p, ErrNotFound)
	}

	children, err := src.Children(p)
	if errors.Is(err, ErrNotGroup) {
		a, rerr := src.ReadArray(p)
		if rerr != nil {
			return fmt.Errorf("copy %q: %w", p, rerr)
		}
		if werr := dst.WriteArray(p, a); werr != nil {
			return fmt.Errorf("copy %q: %w", p, werr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("copy %q: %w", p, err)
	}

	if err := dst.CreateGroup(p); err != nil {
		return fmt.Errorf("copy %q: %w", p, err)
	}
	for _, c := range children {
		if err := CopySubtree(src, dst, Join(p, c.Name)); err != nil {
			return err
		}
	}
	return nil
}
