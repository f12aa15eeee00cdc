package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayShape(t *testing.T) {
	a := NewFloat64Array(make([]float64, 6), 2, 3)
	assert.Equal(t, 6, a.Len())
	assert.Equal(t, 2, a.Rows())
	assert.Equal(t, 3, a.RowLen())
	assert.Equal(t, 24, a.RowBytes())
	require.NoError(t, a.Validate())

	scalar := &Array{Type: Float64, Data: make([]byte, 8)}
	assert.Equal(t, 1, scalar.Len())
	assert.Equal(t, 1, scalar.Rows())
	assert.Equal(t, 1, scalar.RowLen())

	w := a.WithRows(5)
	assert.Equal(t, []int{5, 3}, w.Dims)
	assert.Len(t, w.Data, 5*24)
	assert.Equal(t, []int{2, 3}, a.Dims, "WithRows must not alias dims")
}

func TestFloatRoundTrip(t *testing.T) {
	vals := []float64{0, -1.5, 3.25, 1e-300}
	a := NewFloat64Array(vals)
	got, err := a.Float64s()
	require.NoError(t, err)
	assert.Equal(t, vals, got)

	f32 := &Array{Type: Float32, Dims: []int{2}}
	f32.SetFloat64s([]float64{1.5, -2})
	assert.Len(t, f32.Data, 8)
	got, err = f32.Float64s()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2}, got)
}

func TestIntRoundTrip(t *testing.T) {
	for _, size := range []int{1, 2, 4, 8} {
		a := &Array{Type: ElemType{Class: Int, Size: size}, Dims: []int{3}}
		a.SetInt64s([]int64{0, -7, 42})
		require.NoError(t, a.Validate(), "size %d", size)
		got, err := a.Int64s()
		require.NoError(t, err)
		assert.Equal(t, []int64{0, -7, 42}, got, "size %d", size)
	}
}

func TestNumericViewsRejectWrongClass(t *testing.T) {
	opaque := &Array{Type: ElemType{Class: Opaque, Size: 2}, Dims: []int{1}, Data: []byte("ok")}
	_, err := opaque.Float64s()
	assert.ErrorIs(t, err, ErrUnsupportedType)
	_, err = opaque.Int64s()
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = NewInt64Array([]int64{1}).Float64s()
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
