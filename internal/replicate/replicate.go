// Package replicate expands a field into the copies produced by a mirror or
// revolve transform and extends its Interval Set to match.
//
// Scalars are copied verbatim into every block. Vectors are reflected or
// rotated block by block. The transform for a field is looked up by
// (mode, kind) in a single table.
package replicate

import (
	"errors"
	"fmt"

	"github.com/banshee-data/putxform/internal/container"
	"github.com/banshee-data/putxform/internal/geometry"
)

// ErrBadShape is returned when a field's data cannot be handled as its kind.
var ErrBadShape = errors.New("bad field shape")

// Kind distinguishes scalar fields from 3-vector fields.
type Kind int

const (
	Scalar Kind = iota
	Vector
)

func (k Kind) String() string {
	if k == Vector {
		return "vector"
	}
	return "scalar"
}

// ParseKind parses "scalar" or "vector".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "scalar":
		return Scalar, nil
	case "vector":
		return Vector, nil
	}
	return 0, fmt.Errorf("unknown field kind %q", s)
}

// Mode is the transform applied to a whole container.
type Mode int

const (
	Mirror Mode = iota
	Revolve
)

func (m Mode) String() string {
	if m == Revolve {
		return "revolve"
	}
	return "mirror"
}

// Transform is a fully resolved transform request.
type Transform struct {
	Mode   Mode
	Plane  geometry.Axis // Mirror
	Axis   geometry.Axis // Revolve
	Angles []float64     // Revolve stations, degrees, in block order
}

// MirrorTransform returns a mirror about plane.
func MirrorTransform(plane geometry.Axis) Transform {
	return Transform{Mode: Mirror, Plane: plane}
}

// RevolveTransform returns a sweep about axis through angles.
func RevolveTransform(axis geometry.Axis, angles []float64) Transform {
	return Transform{Mode: Revolve, Axis: axis, Angles: append([]float64(nil), angles...)}
}

// Copies returns how many blocks the transform produces.
func (t Transform) Copies() int {
	if t.Mode == Revolve {
		return len(t.Angles)
	}
	return 2
}

// Validate checks the transform can be applied.
func (t Transform) Validate() error {
	switch t.Mode {
	case Mirror:
		if t.Plane < geometry.X || t.Plane > geometry.Z {
			return fmt.Errorf("%w: %v", geometry.ErrInvalidPlane, t.Plane)
		}
	case Revolve:
		if t.Axis < geometry.X || t.Axis > geometry.Z {
			return fmt.Errorf("%w: %v", geometry.ErrInvalidAxis, t.Axis)
		}
		if len(t.Angles) == 0 {
			return errors.New("revolve needs at least one station")
		}
	default:
		return fmt.Errorf("unknown mode %d", int(t.Mode))
	}
	return nil
}

// Field is one field's data and Interval Set.
type Field struct {
	Name     string
	Data     *container.Array
	Interval IntervalSet
}

// Func transforms one field.
type Func func(f Field, t Transform) (Field, error)

type key struct {
	mode Mode
	kind Kind
}

var table = map[key]Func{
	{Mirror, Scalar}:  scalarMirror,
	{Revolve, Scalar}: scalarRevolve,
	{Mirror, Vector}:  vectorMirror,
	{Revolve, Vector}: vectorRevolve,
}

// Apply transforms f, a field of the given kind, under t.
func Apply(kind Kind, f Field, t Transform) (Field, error) {
	if err := t.Validate(); err != nil {
		return Field{}, err
	}
	fn, ok := table[key{t.Mode, kind}]
	if !ok {
		return Field{}, fmt.Errorf("no transform for %v %v field", t.Mode, kind)
	}
	if f.Data == nil {
		return Field{}, fmt.Errorf("%s: %w: no data", f.Name, ErrBadShape)
	}
	if err := f.Data.Validate(); err != nil {
		return Field{}, fmt.Errorf("%s: %w: %v", f.Name, ErrBadShape, err)
	}
	return fn(f, t)
}

// tile repeats every row block of a n times.
func tile(a *container.Array, n int) *container.Array {
	out := a.WithRows(a.Rows() * n)
	block := len(a.Data)
	for i := 0; i < n; i++ {
		copy(out.Data[i*block:], a.Data)
	}
	return out
}

func scalarMirror(f Field, _ Transform) (Field, error) {
	return Field{
		Name:     f.Name,
		Data:     tile(f.Data, 2),
		Interval: f.Interval.ExtendByLength(1),
	}, nil
}

func scalarRevolve(f Field, t Transform) (Field, error) {
	n := len(t.Angles)
	return Field{
		Name:     f.Name,
		Data:     tile(f.Data, n),
		Interval: f.Interval.ExtendByLength(n - 1),
	}, nil
}

// vectors decodes f's rows as 3-vectors.
func vectors(f Field) ([]geometry.Vec3, error) {
	a := f.Data
	if len(a.Dims) != 2 || a.Dims[1] != 3 {
		return nil, fmt.Errorf("%s: %w: vector data must be (n, 3), got %v", f.Name, ErrBadShape, a.Dims)
	}
	vals, err := a.Float64s()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", f.Name, ErrBadShape, err)
	}
	out := make([]geometry.Vec3, a.Rows())
	for i := range out {
		copy(out[i][:], vals[i*3:i*3+3])
	}
	return out, nil
}

func encodeBlocks(template *container.Array, blocks [][]geometry.Vec3) *container.Array {
	rows := 0
	for _, b := range blocks {
		rows += len(b)
	}
	vals := make([]float64, 0, rows*3)
	for _, b := range blocks {
		for _, v := range b {
			vals = append(vals, v[0], v[1], v[2])
		}
	}
	out := template.WithRows(rows)
	out.SetFloat64s(vals)
	return out
}

func vectorMirror(f Field, t Transform) (Field, error) {
	src, err := vectors(f)
	if err != nil {
		return Field{}, err
	}
	reflected := make([]geometry.Vec3, len(src))
	for i, v := range src {
		if reflected[i], err = geometry.Reflect(v, t.Plane); err != nil {
			return Field{}, err
		}
	}
	// The first block is the source bytes unchanged.
	out := encodeBlocks(f.Data, [][]geometry.Vec3{reflected})
	data := f.Data.WithRows(2 * len(src))
	copy(data.Data, f.Data.Data)
	copy(data.Data[len(f.Data.Data):], out.Data)
	return Field{
		Name:     f.Name,
		Data:     data,
		Interval: f.Interval.ExtendByRows(len(src), 1),
	}, nil
}

func vectorRevolve(f Field, t Transform) (Field, error) {
	src, err := vectors(f)
	if err != nil {
		return Field{}, err
	}
	blocks := make([][]geometry.Vec3, len(t.Angles))
	for i, angle := range t.Angles {
		m, err := geometry.RotationMatrix(t.Axis, angle)
		if err != nil {
			return Field{}, err
		}
		block := make([]geometry.Vec3, len(src))
		for j, v := range src {
			block[j] = geometry.RotateVector(m, v)
		}
		blocks[i] = block
	}
	return Field{
		Name:     f.Name,
		Data:     encodeBlocks(f.Data, blocks),
		Interval: f.Interval.ExtendByRows(len(src), len(t.Angles)-1),
	}, nil
}
