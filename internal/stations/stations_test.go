package stations

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestPlan_DefaultDensity(t *testing.T) {
	got, err := Plan(90, 0)
	require.NoError(t, err)
	require.Len(t, got, 91)
	for i, a := range got {
		assert.InDelta(t, float64(i), a, 1e-9, "station %d", i)
	}
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 90.0, got[90])
}

func TestPlan_FullTurnDefault(t *testing.T) {
	got, err := Plan(360, 0)
	require.NoError(t, err)
	require.Len(t, got, 360)
	assert.Equal(t, 0.0, got[0])
	assert.InDelta(t, 359.0, got[359], 1e-9)
	for i, a := range got {
		assert.InDelta(t, float64(i), a, 1e-9)
	}
}

func TestPlan_FullTurnExplicitCount(t *testing.T) {
	got, err := Plan(360, 4)
	require.NoError(t, err)
	assert.True(t, floats.EqualApprox([]float64{0, 90, 180, 270}, got, 1e-9), "got %v", got)
}

func TestPlan_FullTurnTolerance(t *testing.T) {
	got, err := Plan(360+1e-8, 0)
	require.NoError(t, err)
	assert.Len(t, got, 360)

	// Outside the tolerance the sweep is treated as an ordinary one; it is
	// still within the accepted range.
	got, err = Plan(359.5, 0)
	require.NoError(t, err)
	assert.Len(t, got, 360)
	assert.InDelta(t, 359.5, got[len(got)-1], 1e-9)
}

func TestPlan_ExplicitCount(t *testing.T) {
	got, err := Plan(180, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 45, 90, 135, 180}, got)

	got, err = Plan(90, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 90}, got)
}

func TestPlan_SingleStation(t *testing.T) {
	got, err := Plan(0, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, got)

	got, err = Plan(45, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, got)
}

func TestPlan_NegativeSweep(t *testing.T) {
	got, err := Plan(-30, 4)
	require.NoError(t, err)
	assert.True(t, floats.EqualApprox([]float64{0, -10, -20, -30}, got, 1e-12))

	got, err = Plan(-2.5, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, -1.25, -2.5}, got)
}

func TestPlan_Invalid(t *testing.T) {
	_, err := Plan(400, 0)
	assert.ErrorIs(t, err, ErrInvalidAngle)
	_, err = Plan(math.NaN(), 0)
	assert.ErrorIs(t, err, ErrInvalidAngle)
	_, err = Plan(90, -1)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestPlan_Deterministic(t *testing.T) {
	a, err := Plan(137.25, 0)
	require.NoError(t, err)
	b, err := Plan(137.25, 0)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDefaultCount(t *testing.T) {
	assert.Equal(t, 91, DefaultCount(90))
	assert.Equal(t, 91, DefaultCount(90.9))
	assert.Equal(t, 1, DefaultCount(0.5))
	assert.Equal(t, 31, DefaultCount(-30))
}
