package resample

import (
	"fmt"
	"math"
)

// Converter performs offline rational sample-rate conversion of whole
// signals. It keeps no streaming state, so one Converter may convert any
// number of signals, including concurrently.
type Converter struct {
	up, down int
	quality  Quality
	proto    []float64 // odd length, gain up
}

// NewRational creates a converter for the ratio up/down, reduced to lowest
// terms.
func NewRational(up, down int, opts ...Option) (*Converter, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}

	g := gcd(up, down)
	up, down = up/g, down/g

	cfg := applyOptions(opts)

	// The prototype runs at up times the input rate and has to reject images
	// and aliases above the lower of the two Nyquist frequencies. An odd
	// length puts its centre on a sample.
	m := max(up, down)
	n := cfg.tapsPerPhase*m + 1
	proto, err := designLowpass(n, 0.5/float64(m)*cfg.cutoffScale, cfg.kaiserBeta, float64(up))
	if err != nil {
		return nil, err
	}

	return &Converter{up: up, down: down, quality: cfg.quality, proto: proto}, nil
}

// NewConverter creates a converter from inRate to outRate, approximating
// the ratio by a fraction with a bounded denominator.
func NewConverter(inRate, outRate float64, opts ...Option) (*Converter, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, fmt.Errorf("%w: %g -> %g", ErrInvalidRate, inRate, outRate)
	}

	cfg := applyOptions(opts)
	up, down := rationalApprox(outRate/inRate, cfg.maxDen)

	return NewRational(up, down, opts...)
}

func validRate(r float64) bool {
	return r > 0 && !math.IsInf(r, 0)
}

// Ratio returns the reduced conversion factors.
func (c *Converter) Ratio() (up, down int) {
	return c.up, c.down
}

// Quality returns the preset the converter was built with.
func (c *Converter) Quality() Quality {
	return c.quality
}

// OutputLen returns the number of samples Convert produces for n input
// samples.
func (c *Converter) OutputLen(n int) int {
	return int(math.Round(float64(n) * float64(c.up) / float64(c.down)))
}

// Prototype returns a copy of the interpolation filter.
func (c *Converter) Prototype() []float64 {
	return append([]float64(nil), c.proto...)
}

// Convert returns x at the new rate. The filter delay is compensated, so
// output sample m lines up with input time m*down/up.
func (c *Converter) Convert(x []float64) []float64 {
	out := make([]float64, c.OutputLen(len(x)))

	n := len(c.proto)
	centre := (n - 1) / 2
	for m := range out {
		// Position on the zero-stuffed high-rate grid, shifted by the centre
		// tap so the kernel is evaluated symmetrically around it.
		t := m*c.down + centre

		first := max(0, ceilDiv(t-n+1, c.up))
		last := min(len(x)-1, t/c.up)

		var y float64
		for i := first; i <= last; i++ {
			y += c.proto[t-i*c.up] * x[i]
		}
		out[m] = y
	}

	return out
}

// ceilDiv returns ceil(a/b) for b > 0.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return -((-a) / b)
	}
	return (a + b - 1) / b
}
