// Package stations plans the angular stations of a revolution sweep.
package stations

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// FullTurnTolerance is how close to 360° a sweep must be to count as a
// full turn.
const FullTurnTolerance = 1e-6

// FullTurnStations is the default station count for a full turn.
const FullTurnStations = 360

var (
	// ErrInvalidAngle is returned for sweeps larger than one full turn.
	ErrInvalidAngle = errors.New("invalid sweep angle")
	// ErrInvalidCount is returned for a negative station count.
	ErrInvalidCount = errors.New("invalid station count")
)

// IsFullTurn reports whether angle is 360° within FullTurnTolerance.
func IsFullTurn(angle float64) bool {
	return math.Abs(angle-360) < FullTurnTolerance
}

// DefaultCount returns the station count used when none is given: one
// station per whole degree plus the starting station.
func DefaultCount(angle float64) int {
	return int(math.Floor(math.Abs(angle))) + 1
}

// Plan returns the ordered station angles in degrees for a sweep of angle
// degrees. A count of 0 selects the default density.
//
// A full turn never repeats its starting station: count+1 angles are spaced
// over [0, 360] and the final 360° is dropped. Any other sweep spaces count
// angles over [0, angle] with both ends included.
func Plan(angle float64, count int) ([]float64, error) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) || math.Abs(angle) > 360+FullTurnTolerance {
		return nil, fmt.Errorf("%w: %g (must be within ±360)", ErrInvalidAngle, angle)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	if IsFullTurn(angle) {
		if count == 0 {
			count = FullTurnStations
		}
		all := floats.Span(make([]float64, count+1), 0, 360)
		return all[:count], nil
	}

	if count == 0 {
		count = DefaultCount(angle)
	}
	if count == 1 {
		return []float64{0}, nil
	}
	return floats.Span(make([]float64, count), 0, angle), nil
}
