// Package geometry provides the plane reflections and axis rotations applied
// to vector fields. All functions are pure and work in double precision.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidPlane is returned for a mirror plane other than x, y or z.
	ErrInvalidPlane = errors.New("invalid mirror plane")
	// ErrInvalidAxis is returned for a rotation axis other than x, y or z.
	ErrInvalidAxis = errors.New("invalid rotation axis")
)

// Vec3 is a 3-component vector.
type Vec3 [3]float64

// Axis names a coordinate axis. It doubles as the plane normal for mirrors:
// the x plane is the one whose x component is negated.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

func (a Axis) valid() bool { return a >= X && a <= Z }

func parse(s string) (Axis, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return X, true
	case "y":
		return Y, true
	case "z":
		return Z, true
	}
	return 0, false
}

// ParsePlane parses a mirror plane name, case-insensitively.
func ParsePlane(s string) (Axis, error) {
	a, ok := parse(s)
	if !ok {
		return 0, fmt.Errorf("%w %q: must be x, y or z", ErrInvalidPlane, s)
	}
	return a, nil
}

// ParseAxis parses a rotation axis name, case-insensitively.
func ParseAxis(s string) (Axis, error) {
	a, ok := parse(s)
	if !ok {
		return 0, fmt.Errorf("%w %q: must be x, y or z", ErrInvalidAxis, s)
	}
	return a, nil
}

// Reflect mirrors v about plane by negating the matching component.
func Reflect(v Vec3, plane Axis) (Vec3, error) {
	if !plane.valid() {
		return v, fmt.Errorf("%w: %v", ErrInvalidPlane, plane)
	}
	v[plane] = -v[plane]
	return v, nil
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RotationMatrix returns the right-handed rotation by angleDeg degrees about
// axis.
func RotationMatrix(axis Axis, angleDeg float64) (*mat.Dense, error) {
	s, c := math.Sincos(Radians(angleDeg))
	switch axis {
	case X:
		return mat.NewDense(3, 3, []float64{
			1, 0, 0,
			0, c, -s,
			0, s, c,
		}), nil
	case Y:
		return mat.NewDense(3, 3, []float64{
			c, 0, s,
			0, 1, 0,
			-s, 0, c,
		}), nil
	case Z:
		return mat.NewDense(3, 3, []float64{
			c, -s, 0,
			s, c, 0,
			0, 0, 1,
		}), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidAxis, axis)
}

// RotateVector returns m·v. m must be 3x3.
func RotateVector(m mat.Matrix, v Vec3) Vec3 {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, v[:]))
	return Vec3{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}
