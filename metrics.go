package gridsheet

import (
	"errors"
	"fmt"
	"math"
)

// ErrIndexOutOfRange is returned when a column or row index does not exist.
var ErrIndexOutOfRange = errors.New("index out of range")

// Sizes holds column widths or row heights, index-aligned with the grid.
type Sizes []float64

// UniformSizes returns n entries of the same size.
func UniformSizes(n int, size float64) Sizes {
	s := make(Sizes, n)
	for i := range s {
		s[i] = size
	}
	return s
}

// Resize returns a copy with delta added at index, clamped to floor.
func (s Sizes) Resize(index int, delta, floor float64) (Sizes, error) {
	if index < 0 || index >= len(s) {
		return s, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(s))
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return s, fmt.Errorf("%w: resize delta %v", ErrInvalidUpdate, delta)
	}
	next := s.Clone()
	next[index] = max(next[index]+delta, floor)
	return next, nil
}

// Clone returns an independent copy.
func (s Sizes) Clone() Sizes {
	if s == nil {
		return nil
	}
	return append(Sizes(nil), s...)
}

// Fit returns a copy of exactly n entries: missing entries take def, extra
// entries are dropped and every entry is clamped to floor.
func (s Sizes) Fit(n int, def, floor float64) Sizes {
	out := make(Sizes, n)
	for i := range out {
		v := def
		if i < len(s) {
			v = s[i]
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = def
		}
		out[i] = max(v, floor)
	}
	return out
}

// Total returns the sum of all sizes.
func (s Sizes) Total() float64 {
	t := 0.0
	for _, v := range s {
		t += v
	}
	return t
}
