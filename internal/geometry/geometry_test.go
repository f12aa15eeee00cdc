package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-12

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Axis
		ok   bool
	}{
		{"x", X, true},
		{"Y", Y, true},
		{" z ", Z, true},
		{"w", 0, false},
		{"", 0, false},
		{"xy", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePlane(tt.in)
			a, aerr := ParseAxis(tt.in)
			if tt.ok {
				require.NoError(t, err)
				require.NoError(t, aerr)
				assert.Equal(t, tt.want, p)
				assert.Equal(t, tt.want, a)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidPlane)
			assert.ErrorIs(t, aerr, ErrInvalidAxis)
		})
	}
}

func TestReflect(t *testing.T) {
	v := Vec3{1, 2, 3}
	for plane, want := range map[Axis]Vec3{
		X: {-1, 2, 3},
		Y: {1, -2, 3},
		Z: {1, 2, -3},
	} {
		got, err := Reflect(v, plane)
		require.NoError(t, err)
		assert.Equal(t, want, got, "plane %v", plane)
	}
	assert.Equal(t, Vec3{1, 2, 3}, v, "Reflect must not modify its argument")

	_, err := Reflect(v, Axis(7))
	assert.ErrorIs(t, err, ErrInvalidPlane)
}

func TestRotationMatrix_RightHanded(t *testing.T) {
	tests := []struct {
		axis Axis
		in   Vec3
		want Vec3
	}{
		// A quarter turn about each axis carries the next axis onto the one after.
		{X, Vec3{0, 1, 0}, Vec3{0, 0, 1}},
		{Y, Vec3{0, 0, 1}, Vec3{1, 0, 0}},
		{Z, Vec3{1, 0, 0}, Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			m, err := RotationMatrix(tt.axis, 90)
			require.NoError(t, err)
			got := RotateVector(m, tt.in)
			assert.True(t, floats.EqualApprox(got[:], tt.want[:], tol), "got %v want %v", got, tt.want)
		})
	}
}

func TestRotationMatrix_Identity(t *testing.T) {
	for _, axis := range []Axis{X, Y, Z} {
		m, err := RotationMatrix(axis, 0)
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(m, eye3(), tol), "axis %v", axis)

		v := Vec3{0.3, -1.7, 2.5}
		got := RotateVector(m, v)
		assert.Equal(t, v, got)
	}
}

func TestRotationMatrix_Orthonormal(t *testing.T) {
	for _, axis := range []Axis{X, Y, Z} {
		m, err := RotationMatrix(axis, 37.5)
		require.NoError(t, err)

		var mtm mat.Dense
		mtm.Mul(m.T(), m)
		assert.True(t, mat.EqualApprox(&mtm, eye3(), tol))
		assert.InDelta(t, 1.0, mat.Det(m), tol)
	}
}

func TestRotationMatrix_FullTurn(t *testing.T) {
	m, err := RotationMatrix(Z, 360)
	require.NoError(t, err)
	v := Vec3{1, 2, 3}
	got := RotateVector(m, v)
	assert.True(t, floats.EqualApprox(got[:], v[:], 1e-9))
}

func TestRotationMatrix_InvalidAxis(t *testing.T) {
	_, err := RotationMatrix(Axis(-1), 45)
	assert.ErrorIs(t, err, ErrInvalidAxis)
}

func TestRotateVector_PreservesAxisComponent(t *testing.T) {
	v := Vec3{4, 5, 6}
	for _, axis := range []Axis{X, Y, Z} {
		m, err := RotationMatrix(axis, 123)
		require.NoError(t, err)
		got := RotateVector(m, v)
		assert.InDelta(t, v[axis], got[axis], tol)
		assert.InDelta(t, floats.Norm(v[:], 2), floats.Norm(got[:], 2), 1e-9)
	}
}

func eye3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}
