// Package h5store implements container.Store on HDF5 files using the
// gonum HDF5 bindings. It requires cgo and libhdf5.
//
// Datasets are read and written as raw bytes in their own file datatype, so
// values are copied without conversion. Numeric views assume little-endian
// file types, which is what the upstream tooling writes.
package h5store

import (
	"fmt"

	"gonum.org/v1/hdf5"

	"github.com/banshee-data/putxform/internal/container"
	"github.com/banshee-data/putxform/internal/fsutil"
)

// Backend opens and creates HDF5 containers.
type Backend struct {
	// FS is used for existence checks and removal. Nil means the OS.
	FS fsutil.FileSystem
}

func (b Backend) fs() fsutil.FileSystem {
	if b.FS == nil {
		return fsutil.OSFileSystem{}
	}
	return b.FS
}

// Open opens name read-only.
func (b Backend) Open(name string) (container.Store, error) {
	if !b.fs().Exists(name) {
		return nil, fmt.Errorf("open %s: %w", name, container.ErrNotFound)
	}
	f, err := hdf5.OpenFile(name, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", name, container.ErrIO, err)
	}
	return &Store{name: name, file: f}, nil
}

// Create creates name, truncating any existing file.
func (b Backend) Create(name string) (container.Store, error) {
	f, err := hdf5.CreateFile(name, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w: %v", name, container.ErrIO, err)
	}
	return &Store{name: name, file: f}, nil
}

// Remove deletes the file name.
func (b Backend) Remove(name string) error {
	if err := b.fs().Remove(name); err != nil {
		return fmt.Errorf("remove %s: %w: %v", name, container.ErrIO, err)
	}
	return nil
}

// Store is an open HDF5 file.
type Store struct {
	name string
	file *hdf5.File

	// datatypes read from this file, closed with it
	types []*hdf5.Datatype
}

// Exists reports whether every link along p exists.
func (s *Store) Exists(p string) bool {
	p = container.Clean(p)
	if p == "" {
		return true
	}
	for _, g := range append(container.Parents(p), p) {
		if !s.file.LinkExists(g) {
			return false
		}
	}
	return true
}

// Children lists the direct members of the group at p.
func (s *Store) Children(p string) ([]container.Entry, error) {
	p = container.Clean(p)
	if !s.Exists(p) {
		return nil, fmt.Errorf("%q: %w", p, container.ErrNotFound)
	}
	g, err := s.file.OpenGroup(groupPath(p))
	if err != nil {
		// The link exists but is not a group.
		return nil, fmt.Errorf("%q: %w", p, container.ErrNotGroup)
	}
	defer g.Close()

	n, err := g.NumObjects()
	if err != nil {
		return nil, s.ioErr("list", p, err)
	}
	out := make([]container.Entry, 0, n)
	for i := uint(0); i < n; i++ {
		name, err := g.ObjectNameByIndex(i)
		if err != nil {
			return nil, s.ioErr("list", p, err)
		}
		typ, err := g.ObjectTypeByIndex(i)
		if err != nil {
			return nil, s.ioErr("list", p, err)
		}
		out = append(out, container.Entry{Name: name, Group: typ == hdf5.H5G_GROUP})
	}
	return out, nil
}

// ReadArray reads the dataset at p as raw bytes in its file datatype.
func (s *Store) ReadArray(p string) (*container.Array, error) {
	p = container.Clean(p)
	if !s.Exists(p) {
		return nil, fmt.Errorf("read %q: %w", p, container.ErrNotFound)
	}
	ds, err := s.file.OpenDataset(p)
	if err != nil {
		return nil, s.ioErr("read", p, err)
	}
	defer ds.Close()

	space := ds.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, s.ioErr("read", p, err)
	}

	dtype, err := ds.Datatype()
	if err != nil {
		return nil, s.ioErr("read", p, err)
	}
	native, err := dtype.Copy()
	dtype.Close()
	if err != nil {
		return nil, s.ioErr("read", p, err)
	}
	s.types = append(s.types, native)

	a := &container.Array{
		Type:   elemType(native),
		Dims:   make([]int, len(dims)),
		Native: native,
	}
	for i, d := range dims {
		a.Dims[i] = int(d)
	}
	buf := make([]byte, a.Len()*a.Type.Size)
	if len(buf) > 0 {
		if err := ds.Read(&buf); err != nil {
			return nil, s.ioErr("read", p, err)
		}
	}
	a.Data = buf
	return a, nil
}

// WriteArray creates the dataset at p and writes a into it. Parent groups
// are created as needed.
func (s *Store) WriteArray(p string, a *container.Array) error {
	p = container.Clean(p)
	if err := a.Validate(); err != nil {
		return fmt.Errorf("write %q: %w", p, err)
	}
	parent, _ := container.Split(p)
	if parent != "" {
		if err := s.CreateGroup(parent); err != nil {
			return err
		}
	}

	dtype, err := fileType(a)
	if err != nil {
		return fmt.Errorf("write %q: %w", p, err)
	}

	space, err := dataspace(a.Dims)
	if err != nil {
		return s.ioErr("write", p, err)
	}
	defer space.Close()

	ds, err := s.file.CreateDataset(p, dtype, space)
	if err != nil {
		return s.ioErr("write", p, err)
	}
	defer ds.Close()

	if len(a.Data) == 0 {
		return nil
	}
	buf := a.Data
	if err := ds.Write(&buf); err != nil {
		return s.ioErr("write", p, err)
	}
	return nil
}

// CreateGroup creates p and any missing parents.
func (s *Store) CreateGroup(p string) error {
	p = container.Clean(p)
	if p == "" {
		return nil
	}
	for _, g := range append(container.Parents(p), p) {
		if s.file.LinkExists(g) {
			continue
		}
		grp, err := s.file.CreateGroup(g)
		if err != nil {
			return s.ioErr("create group", g, err)
		}
		grp.Close()
	}
	return nil
}

// Close closes the file and every datatype handle read from it.
func (s *Store) Close() error {
	for _, t := range s.types {
		t.Close()
	}
	s.types = nil
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close %s: %w: %v", s.name, container.ErrIO, err)
	}
	return nil
}

func (s *Store) ioErr(op, p string, err error) error {
	return fmt.Errorf("%s %s:%q: %w: %v", op, s.name, p, container.ErrIO, err)
}

func groupPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func elemType(t *hdf5.Datatype) container.ElemType {
	size := int(t.Size())
	switch t.Class() {
	case hdf5.T_FLOAT:
		return container.ElemType{Class: container.Float, Size: size}
	case hdf5.T_INTEGER:
		return container.ElemType{Class: container.Int, Size: size}
	default:
		return container.ElemType{Class: container.Opaque, Size: size}
	}
}

// fileType picks the datatype for a on write. A handle carried in Native is
// reused; otherwise a little-endian numeric type is chosen from the element
// type.
func fileType(a *container.Array) (*hdf5.Datatype, error) {
	if t, ok := a.Native.(*hdf5.Datatype); ok && t != nil {
		return t, nil
	}
	switch {
	case a.Type.Class == container.Float && a.Type.Size == 8:
		return hdf5.T_IEEE_F64LE, nil
	case a.Type.Class == container.Float && a.Type.Size == 4:
		return hdf5.T_IEEE_F32LE, nil
	case a.Type.Class == container.Int && a.Type.Size == 8:
		return hdf5.T_STD_I64LE, nil
	case a.Type.Class == container.Int && a.Type.Size == 4:
		return hdf5.T_STD_I32LE, nil
	case a.Type.Class == container.Int && a.Type.Size == 2:
		return hdf5.T_STD_I16LE, nil
	case a.Type.Class == container.Int && a.Type.Size == 1:
		return hdf5.T_STD_I8LE, nil
	}
	return nil, fmt.Errorf("%w: %s%d without a file datatype", container.ErrUnsupportedType, a.Type.Class, a.Type.Size*8)
}

func dataspace(dims []int) (*hdf5.Dataspace, error) {
	if len(dims) == 0 {
		return hdf5.CreateDataspace(hdf5.S_SCALAR)
	}
	ud := make([]uint, len(dims))
	for i, d := range dims {
		ud[i] = uint(d)
	}
	return hdf5.CreateSimpleDataspace(ud, nil)
}
