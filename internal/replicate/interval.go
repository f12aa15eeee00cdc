package replicate

import (
	"fmt"

	"github.com/banshee-data/putxform/internal/container"
)

// IntervalSet is the [Lo, Hi] range a field's rows occupy in the solver's
// global numbering. Both ends are inclusive.
type IntervalSet struct {
	Lo, Hi int64

	// source is the array the set was decoded from; Encode keeps its
	// element type.
	source *container.Array
}

// Len returns Hi - Lo + 1.
func (iv IntervalSet) Len() int64 {
	return iv.Hi - iv.Lo + 1
}

// ExtendByLength appends extra copies of the range's own length.
func (iv IntervalSet) ExtendByLength(extra int) IntervalSet {
	iv.Hi += iv.Len() * int64(extra)
	return iv
}

// ExtendByRows appends extra copies of rows entries.
func (iv IntervalSet) ExtendByRows(rows, extra int) IntervalSet {
	iv.Hi += int64(rows) * int64(extra)
	return iv
}

// DecodeIntervalSet reads a two-element integer array.
func DecodeIntervalSet(a *container.Array) (IntervalSet, error) {
	vals, err := a.Int64s()
	if err != nil {
		return IntervalSet{}, fmt.Errorf("interval set: %w", err)
	}
	if len(vals) != 2 {
		return IntervalSet{}, fmt.Errorf("interval set: %w: want 2 values, got %d", ErrBadShape, len(vals))
	}
	return IntervalSet{Lo: vals[0], Hi: vals[1], source: a}, nil
}

// Encode returns iv as an array with the same element type and shape it was
// decoded from, or int64 [2] if it was built directly.
func (iv IntervalSet) Encode() *container.Array {
	if iv.source == nil {
		return container.NewInt64Array([]int64{iv.Lo, iv.Hi})
	}
	out := iv.source.Clone()
	out.SetInt64s([]int64{iv.Lo, iv.Hi})
	return out
}
