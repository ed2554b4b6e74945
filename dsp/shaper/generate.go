package shaper

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/core"
)

// Shape names a saturation function for [Generate].
type Shape int

const (
	ShapeSoftClip Shape = iota
	ShapeHardClip
	ShapeTanh
	ShapeAtan
	ShapeRational
	ShapeExponential
	ShapeChebyshev
)

var shapeNames = map[string]Shape{
	"softclip":    ShapeSoftClip,
	"hardclip":    ShapeHardClip,
	"tanh":        ShapeTanh,
	"atan":        ShapeAtan,
	"rational":    ShapeRational,
	"exponential": ShapeExponential,
	"chebyshev":   ShapeChebyshev,
}

// ParseShape looks up a shape by its lower-case name.
func ParseShape(name string) (Shape, error) {
	s, ok := shapeNames[name]
	if !ok {
		return 0, fmt.Errorf("shaper: unknown shape %q", name)
	}
	return s, nil
}

func (s Shape) String() string {
	for name, v := range shapeNames {
		if v == s {
			return name
		}
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Generate samples shape over [-1, 1] into an n-point table. drive scales the
// input before shaping (clip level for ShapeHardClip, polynomial order for
// ShapeChebyshev). n must be at least 2.
func Generate(shape Shape, n int, drive float64) ([]float64, error) {
	if n < 2 {
		return nil, ErrCurveTooShort
	}

	if drive <= 0 || math.IsNaN(drive) || math.IsInf(drive, 0) {
		return nil, fmt.Errorf("shaper: drive must be positive and finite: %g", drive)
	}

	f, err := shapeFunc(shape, drive)
	if err != nil {
		return nil, err
	}

	out := make([]float64, n)
	for i := range out {
		x := 2*float64(i)/float64(n-1) - 1
		out[i] = core.Clamp(f(x), -1, 1)
	}

	return out, nil
}

//nolint:cyclop
func shapeFunc(shape Shape, drive float64) (func(float64) float64, error) {
	switch shape {
	case ShapeSoftClip:
		return func(x float64) float64 {
			x *= drive
			if math.Abs(x) < 1 {
				return 1.5 * (x - x*x*x/3)
			}
			return math.Copysign(1, x)
		}, nil
	case ShapeHardClip:
		level := min(drive, 1)
		return func(x float64) float64 {
			return math.Max(-level, math.Min(level, x)) / level
		}, nil
	case ShapeTanh:
		return func(x float64) float64 { return math.Tanh(drive * x) }, nil
	case ShapeAtan:
		norm := math.Atan(drive)
		return func(x float64) float64 { return math.Atan(drive*x) / norm }, nil
	case ShapeRational:
		return func(x float64) float64 {
			return (1 + drive) * x / (1 + drive*math.Abs(x))
		}, nil
	case ShapeExponential:
		return func(x float64) float64 {
			return math.Copysign(1-math.Exp(-math.Abs(x)*drive), x)
		}, nil
	case ShapeChebyshev:
		order := int(drive)
		if order < 1 || order > 16 {
			return nil, fmt.Errorf("shaper: chebyshev order must be in [1, 16]: %g", drive)
		}
		return func(x float64) float64 { return chebyshev(order, x) }, nil
	default:
		return nil, fmt.Errorf("shaper: unknown shape %d", int(shape))
	}
}

// chebyshev evaluates T_n(x) with T_n = 2x*T_{n-1} - T_{n-2}.
func chebyshev(order int, x float64) float64 {
	t0, t1 := 1.0, x
	for range order - 1 {
		t0, t1 = t1, 2*x*t1-t0
	}
	return t1
}
