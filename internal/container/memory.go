package container

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend keeps containers in memory, keyed by file name. Use it in
// tests in place of the HDF5 backend.
type MemoryBackend struct {
	mu    sync.Mutex
	files map[string]*MemoryStore

	// CreateErr, when set, is returned by Create.
	CreateErr error
}

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{files: make(map[string]*MemoryStore)}
}

// Open returns the container previously stored under name.
func (b *MemoryBackend) Open(name string) (Store, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.files[name]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", name, ErrNotFound)
	}
	s.mu.Lock()
	s.closed = false
	s.mu.Unlock()
	return s, nil
}

// Create replaces any container stored under name with an empty one.
func (b *MemoryBackend) Create(name string) (Store, error) {
	if b.CreateErr != nil {
		return nil, fmt.Errorf("create %s: %w: %v", name, ErrIO, b.CreateErr)
	}
	s := NewMemoryStore()
	b.Put(name, s)
	return s, nil
}

// Put registers s under name.
func (b *MemoryBackend) Put(name string, s *MemoryStore) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files[name] = s
}

// Get returns the container stored under name, or nil.
func (b *MemoryBackend) Get(name string) *MemoryStore {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.files[name]
}

// Remove drops the container stored under name.
func (b *MemoryBackend) Remove(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.files[name]; !ok {
		return fmt.Errorf("remove %s: %w", name, ErrNotFound)
	}
	delete(b.files, name)
	return nil
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu       sync.RWMutex
	groups   map[string]bool
	datasets map[string]*Array
	closed   bool

	// WriteErr, when set, is returned by WriteArray.
	WriteErr error
}

// NewMemoryStore creates an empty store holding only the root group.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		groups:   map[string]bool{"": true},
		datasets: make(map[string]*Array),
	}
}

// Closed reports whether Close has been called since the store was opened.
func (m *MemoryStore) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

// Exists reports whether a group or dataset exists at p.
func (m *MemoryStore) Exists(p string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p = Clean(p)
	_, ok := m.datasets[p]
	return ok || m.groups[p]
}

// Children lists the direct children of the group at p in name order.
func (m *MemoryStore) Children(p string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p = Clean(p)
	if _, ok := m.datasets[p]; ok {
		return nil, fmt.Errorf("%q: %w", p, ErrNotGroup)
	}
	if !m.groups[p] {
		return nil, fmt.Errorf("%q: %w", p, ErrNotFound)
	}

	prefix := ""
	if p != "" {
		prefix = p + "/"
	}
	var out []Entry
	for g := range m.groups {
		if name, ok := directChild(g, prefix); ok {
			out = append(out, Entry{Name: name, Group: true})
		}
	}
	for d := range m.datasets {
		if name, ok := directChild(d, prefix); ok {
			out = append(out, Entry{Name: name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func directChild(full, prefix string) (string, bool) {
	if full == "" || !strings.HasPrefix(full, prefix) {
		return "", false
	}
	rest := full[len(prefix):]
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

// ReadArray returns a copy of the dataset at p.
func (m *MemoryStore) ReadArray(p string) (*Array, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p = Clean(p)
	a, ok := m.datasets[p]
	if !ok {
		return nil, fmt.Errorf("read %q: %w", p, ErrNotFound)
	}
	return a.Clone(), nil
}

// WriteArray stores a copy of a at p.
func (m *MemoryStore) WriteArray(p string, a *Array) error {
	if m.WriteErr != nil {
		return fmt.Errorf("write %q: %w: %v", p, ErrIO, m.WriteErr)
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("write %q: %w", p, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p = Clean(p)
	if m.groups[p] {
		return fmt.Errorf("write %q: %w: a group exists at this path", p, ErrIO)
	}
	if _, ok := m.datasets[p]; ok {
		return fmt.Errorf("write %q: %w: dataset already exists", p, ErrIO)
	}
	for _, g := range Parents(p) {
		if _, ok := m.datasets[g]; ok {
			return fmt.Errorf("write %q: %w: %q is a dataset", p, ErrIO, g)
		}
		m.groups[g] = true
	}
	m.datasets[p] = a.Clone()
	return nil
}

// CreateGroup creates the group at p and any missing parents.
func (m *MemoryStore) CreateGroup(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = Clean(p)
	for _, g := range append(Parents(p), p) {
		if _, ok := m.datasets[g]; ok {
			return fmt.Errorf("create group %q: %w: %q is a dataset", p, ErrIO, g)
		}
		m.groups[g] = true
	}
	return nil
}

// Close marks the store closed. The contents stay available to the backend.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
