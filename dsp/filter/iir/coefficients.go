package iir

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-webaudio/internal/polyroot"
)

// MaxCoefficients bounds the length of both polynomials.
const MaxCoefficients = 20

// Errors returned when building coefficients or evaluating responses.
var (
	ErrFeedforwardLength   = errors.New("iir: feedforward length out of range")
	ErrFeedbackLength      = errors.New("iir: feedback length out of range")
	ErrZeroLeadingFeedback = errors.New("iir: feedback[0] is zero")
	ErrLengthMismatch      = errors.New("iir: buffer length mismatch")
)

// Coefficients is an immutable pair of transfer-function polynomials in
// ascending powers of z^-1. The processing copies are pre-divided by a[0].
type Coefficients struct {
	ff, fb []float64 // as given

	b, a []float64 // normalized by a[0]; a[0] == 1
}

// NewCoefficients validates and copies feedforward (b) and feedback (a).
// Both must hold between 1 and MaxCoefficients values and a[0] must be
// non-zero.
func NewCoefficients(feedforward, feedback []float64) (*Coefficients, error) {
	if len(feedforward) < 1 || len(feedforward) > MaxCoefficients {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrFeedforwardLength, len(feedforward), MaxCoefficients)
	}

	if len(feedback) < 1 || len(feedback) > MaxCoefficients {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrFeedbackLength, len(feedback), MaxCoefficients)
	}

	a0 := feedback[0]
	if a0 == 0 {
		return nil, ErrZeroLeadingFeedback
	}

	c := &Coefficients{
		ff: append([]float64(nil), feedforward...),
		fb: append([]float64(nil), feedback...),
		b:  make([]float64, len(feedforward)),
		a:  make([]float64, len(feedback)),
	}

	for i, v := range feedforward {
		c.b[i] = v / a0
	}
	for i, v := range feedback {
		c.a[i] = v / a0
	}

	return c, nil
}

// Feedforward returns a copy of b.
func (c *Coefficients) Feedforward() []float64 {
	return append([]float64(nil), c.ff...)
}

// Feedback returns a copy of a.
func (c *Coefficients) Feedback() []float64 {
	return append([]float64(nil), c.fb...)
}

// Order returns max(len(b), len(a)) - 1, the length of the delay line.
func (c *Coefficients) Order() int {
	return max(len(c.b), len(c.a)) - 1
}

// Response computes the complex frequency response H(e^jw) at the given
// frequency (Hz) and sample rate (Hz), evaluating both polynomials in
// z^-1 = e^-jw with Horner's method.
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	zinv := cmplx.Exp(complex(0, -w))

	return horner(c.ff, zinv) / horner(c.fb, zinv)
}

func horner(p []float64, x complex128) complex128 {
	acc := complex(p[len(p)-1], 0)
	for k := len(p) - 2; k >= 0; k-- {
		acc = acc*x + complex(p[k], 0)
	}
	return acc
}

// MagnitudeDB returns 20*log10(|H(f)|).
func (c *Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}

// Phase returns the phase response in radians in [-pi, pi].
func (c *Coefficients) Phase(freqHz, sampleRate float64) float64 {
	return cmplx.Phase(c.Response(freqHz, sampleRate))
}

// Poles returns the roots of the feedback polynomial in z.
func (c *Coefficients) Poles() ([]complex128, error) {
	return polyroot.Roots(c.a)
}

// IsStable reports whether every pole lies strictly inside the unit circle.
// It returns false when the poles cannot be located.
func (c *Coefficients) IsStable() bool {
	poles, err := c.Poles()
	if err != nil {
		return false
	}
	return polyroot.MaxModulus(poles) < 1
}

// ImpulseResponse computes n samples of the impulse response by feeding an
// impulse through a fresh State.
func (c *Coefficients) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	s := NewState(c)
	ir := make([]float64, n)
	ir[0] = s.ProcessSample(1)
	for i := 1; i < n; i++ {
		ir[i] = s.ProcessSample(0)
	}
	return ir
}
