package math

import (
	m "math"

	"golang.org/x/exp/constraints"
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Fract returns the fractional part of f, always in [0, 1).
func Fract(f float64) float64 {
	return f - m.Floor(f)
}
