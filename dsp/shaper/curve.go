package shaper

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-webaudio/dsp/interp"
)

// Errors returned when building curves.
var (
	ErrCurveTooShort     = errors.New("shaper: curve must have at least 2 samples")
	ErrInvalidOversample = errors.New("shaper: invalid oversample")
	ErrBlockMismatch     = errors.New("shaper: block size mismatch")
)

// Oversample selects the rate at which a curve is applied.
type Oversample int

const (
	OversampleNone Oversample = iota
	Oversample2x
	Oversample4x
)

// ParseOversample parses "none", "2x" or "4x".
func ParseOversample(s string) (Oversample, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return OversampleNone, nil
	case "2x":
		return Oversample2x, nil
	case "4x":
		return Oversample4x, nil
	default:
		return OversampleNone, fmt.Errorf("%w: %q", ErrInvalidOversample, s)
	}
}

func (o Oversample) String() string {
	switch o {
	case OversampleNone:
		return "none"
	case Oversample2x:
		return "2x"
	case Oversample4x:
		return "4x"
	default:
		return fmt.Sprintf("Oversample(%d)", int(o))
	}
}

// Factor returns 1, 2 or 4.
func (o Oversample) Factor() int {
	switch o {
	case Oversample2x:
		return 2
	case Oversample4x:
		return 4
	default:
		return 1
	}
}

func (o Oversample) valid() bool {
	return o >= OversampleNone && o <= Oversample4x
}

// Curve is an immutable waveshaping table and its oversampling factor.
type Curve struct {
	samples    []float64
	oversample Oversample
}

// NewCurve copies samples into a new curve. An empty or nil table is the
// identity; a single-sample table is rejected.
func NewCurve(samples []float64, oversample Oversample) (*Curve, error) {
	if len(samples) == 1 {
		return nil, ErrCurveTooShort
	}

	if !oversample.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOversample, int(oversample))
	}

	c := &Curve{oversample: oversample}
	if len(samples) > 0 {
		c.samples = append([]float64(nil), samples...)
	}

	return c, nil
}

// WithOversample returns a curve sharing the table of c with a different
// factor.
func (c *Curve) WithOversample(o Oversample) (*Curve, error) {
	if !o.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOversample, int(o))
	}
	return &Curve{samples: c.samples, oversample: o}, nil
}

// Len returns the table length; 0 means identity.
func (c *Curve) Len() int {
	return len(c.samples)
}

// IsIdentity reports whether the curve passes audio through unchanged.
func (c *Curve) IsIdentity() bool {
	return c == nil || len(c.samples) == 0
}

// Samples returns a copy of the table, or nil for the identity curve.
func (c *Curve) Samples() []float64 {
	if len(c.samples) == 0 {
		return nil
	}
	return append([]float64(nil), c.samples...)
}

// Oversample returns the oversampling factor.
func (c *Curve) Oversample() Oversample {
	return c.oversample
}

// Shape maps one input sample through the table. The fractional index is
// (x+1)/2 * (N-1), clamped to the table ends; NaN inputs are treated as 0.
func (c *Curve) Shape(x float64) float64 {
	if len(c.samples) == 0 {
		return x
	}

	if math.IsNaN(x) {
		x = 0
	}

	pos := (x + 1) * 0.5 * float64(len(c.samples)-1)
	return interp.LookupClamped(c.samples, pos)
}

// Apply shapes src into dst; dst and src may alias.
func (c *Curve) Apply(dst, src []float64) {
	if len(c.samples) == 0 {
		copy(dst, src)
		return
	}

	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = c.Shape(src[i])
	}
}
