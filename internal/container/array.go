package container

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Class is the broad category of an array element type.
type Class int

const (
	// Opaque elements (strings, compounds) are carried as raw bytes only.
	Opaque Class = iota
	Float
	Int
)

func (c Class) String() string {
	switch c {
	case Float:
		return "float"
	case Int:
		return "int"
	default:
		return "opaque"
	}
}

// ElemType describes a single array element.
type ElemType struct {
	Class Class
	Size  int // bytes per element
}

var (
	Float64 = ElemType{Class: Float, Size: 8}
	Float32 = ElemType{Class: Float, Size: 4}
	Int64   = ElemType{Class: Int, Size: 8}
	Int32   = ElemType{Class: Int, Size: 4}
)

// Array is the in-memory form of a dataset. Data holds the elements in
// row-major order, little-endian.
type Array struct {
	Type ElemType
	Dims []int
	Data []byte

	// Native is a backend-specific type handle. Backends that recognise it
	// reuse it on write so that opaque element types are written back with
	// the exact type they were read with.
	Native any
}

// NewFloat64Array builds a float64 array with the given dims.
func NewFloat64Array(values []float64, dims ...int) *Array {
	if len(dims) == 0 {
		dims = []int{len(values)}
	}
	a := &Array{Type: Float64, Dims: append([]int(nil), dims...)}
	a.SetFloat64s(values)
	return a
}

// NewInt64Array builds an int64 array with the given dims.
func NewInt64Array(values []int64, dims ...int) *Array {
	if len(dims) == 0 {
		dims = []int{len(values)}
	}
	a := &Array{Type: Int64, Dims: append([]int(nil), dims...)}
	a.SetInt64s(values)
	return a
}

// Len returns the total number of elements.
func (a *Array) Len() int {
	n := 1
	for _, d := range a.Dims {
		n *= d
	}
	return n
}

// Rows returns the extent of the leading dimension. A rank-0 array has one row.
func (a *Array) Rows() int {
	if len(a.Dims) == 0 {
		return 1
	}
	return a.Dims[0]
}

// RowLen returns the number of elements in one row.
func (a *Array) RowLen() int {
	if len(a.Dims) <= 1 {
		return 1
	}
	n := 1
	for _, d := range a.Dims[1:] {
		n *= d
	}
	return n
}

// RowBytes returns the byte length of one row.
func (a *Array) RowBytes() int {
	return a.RowLen() * a.Type.Size
}

// Clone returns a deep copy of a. Native is shared.
func (a *Array) Clone() *Array {
	return &Array{
		Type:   a.Type,
		Dims:   append([]int(nil), a.Dims...),
		Data:   append([]byte(nil), a.Data...),
		Native: a.Native,
	}
}

// WithRows returns an empty array shaped like a but with rows leading rows.
func (a *Array) WithRows(rows int) *Array {
	dims := append([]int(nil), a.Dims...)
	if len(dims) == 0 {
		dims = []int{rows}
	} else {
		dims[0] = rows
	}
	return &Array{
		Type:   a.Type,
		Dims:   dims,
		Data:   make([]byte, rows*a.RowBytes()),
		Native: a.Native,
	}
}

// Validate checks that the data length agrees with dims and element size.
func (a *Array) Validate() error {
	if a.Type.Size <= 0 {
		return fmt.Errorf("invalid element size %d", a.Type.Size)
	}
	if want := a.Len() * a.Type.Size; len(a.Data) != want {
		return fmt.Errorf("data length %d does not match dims %v (want %d bytes)", len(a.Data), a.Dims, want)
	}
	return nil
}

// Float64s decodes the elements as float64.
func (a *Array) Float64s() ([]float64, error) {
	if a.Type.Class != Float {
		return nil, fmt.Errorf("%w: %s%d is not a float type", ErrUnsupportedType, a.Type.Class, a.Type.Size*8)
	}
	n := a.Len()
	out := make([]float64, n)
	switch a.Type.Size {
	case 8:
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(a.Data[i*8:]))
		}
	case 4:
		for i := range out {
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(a.Data[i*4:])))
		}
	default:
		return nil, fmt.Errorf("%w: float%d", ErrUnsupportedType, a.Type.Size*8)
	}
	return out, nil
}

// SetFloat64s encodes values into a, keeping the element type. Float32
// arrays are narrowed.
func (a *Array) SetFloat64s(values []float64) {
	a.Data = make([]byte, len(values)*a.Type.Size)
	switch a.Type.Size {
	case 4:
		for i, v := range values {
			binary.LittleEndian.PutUint32(a.Data[i*4:], math.Float32bits(float32(v)))
		}
	default:
		for i, v := range values {
			binary.LittleEndian.PutUint64(a.Data[i*8:], math.Float64bits(v))
		}
	}
}

// Int64s decodes the elements as signed integers.
func (a *Array) Int64s() ([]int64, error) {
	if a.Type.Class != Int {
		return nil, fmt.Errorf("%w: %s%d is not an integer type", ErrUnsupportedType, a.Type.Class, a.Type.Size*8)
	}
	n := a.Len()
	out := make([]int64, n)
	for i := range out {
		b := a.Data[i*a.Type.Size:]
		switch a.Type.Size {
		case 1:
			out[i] = int64(int8(b[0]))
		case 2:
			out[i] = int64(int16(binary.LittleEndian.Uint16(b)))
		case 4:
			out[i] = int64(int32(binary.LittleEndian.Uint32(b)))
		case 8:
			out[i] = int64(binary.LittleEndian.Uint64(b))
		default:
			return nil, fmt.Errorf("%w: int%d", ErrUnsupportedType, a.Type.Size*8)
		}
	}
	return out, nil
}

// SetInt64s encodes values into a, keeping the element width.
func (a *Array) SetInt64s(values []int64) {
	size := a.Type.Size
	a.Data = make([]byte, len(values)*size)
	for i, v := range values {
		b := a.Data[i*size:]
		switch size {
		case 1:
			b[0] = byte(int8(v))
		case 2:
			binary.LittleEndian.PutUint16(b, uint16(int16(v)))
		case 4:
			binary.LittleEndian.PutUint32(b, uint32(int32(v)))
		default:
			binary.LittleEndian.PutUint64(b, uint64(v))
		}
	}
}
