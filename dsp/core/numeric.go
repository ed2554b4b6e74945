package core

import "math"

// denormalFloor is the magnitude below which recursive state is zeroed.
const denormalFloor = 1e-30

// Clamp limits x to [lo, hi]. NaN passes through unchanged.
func Clamp(x, lo, hi float64) float64 {
	switch {
	case x < lo:
		return lo
	case x > hi:
		return hi
	default:
		return x
	}
}

// FlushDenormals returns 0 for |x| below 1e-30 and x otherwise. Feedback
// paths call it on every stored sample so a decaying tail reaches exact zero
// instead of lingering in the subnormal range.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < denormalFloor {
		return 0
	}
	return x
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return x-x == 0
}

// LinearToDB converts an amplitude to decibels: -Inf for 0, NaN for
// negative or NaN input.
func LinearToDB(linear float64) float64 {
	if !(linear >= 0) {
		return math.NaN()
	}
	return 20 * math.Log10(linear)
}
