package interp

import "math"

// Linear2 interpolates linearly from x0 to x1 at fraction t in [0, 1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// LookupClamped returns table evaluated at the fractional index pos using
// linear interpolation between the two nearest entries. Positions at or below
// zero return table[0]; positions at or beyond len(table)-1 return the last
// entry, so there is never any extrapolation. NaN positions are treated as 0.
// The table must not be empty.
func LookupClamped(table []float64, pos float64) float64 {
	last := len(table) - 1
	if pos <= 0 || math.IsNaN(pos) || last == 0 {
		return table[0]
	}

	if pos >= float64(last) {
		return table[last]
	}

	k := int(pos)
	return Linear2(pos-float64(k), table[k], table[k+1])
}
