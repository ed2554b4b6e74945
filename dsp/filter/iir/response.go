package iir

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// FrequencyResponse evaluates c at every frequency in freqs (Hz) and writes
// the magnitude |H| and the phase arg(H) in radians. All three slices must
// have the same length; otherwise ErrLengthMismatch is returned and nothing
// is written. Frequencies outside [0, sampleRate/2], and NaN frequencies,
// yield NaN magnitude and phase.
func FrequencyResponse(c *Coefficients, freqs, mag, phase []float64, sampleRate float64) error {
	if len(freqs) != len(mag) || len(freqs) != len(phase) {
		return fmt.Errorf("%w: frequencies=%d magnitudes=%d phases=%d",
			ErrLengthMismatch, len(freqs), len(mag), len(phase))
	}

	nyquist := sampleRate / 2
	re := make([]float64, len(freqs))
	im := make([]float64, len(freqs))

	for i, f := range freqs {
		if !(f >= 0 && f <= nyquist) {
			re[i], im[i] = math.NaN(), math.NaN()
			continue
		}

		h := c.Response(f, sampleRate)
		re[i], im[i] = real(h), imag(h)
	}

	vecmath.Magnitude(mag, re, im)
	for i := range phase {
		phase[i] = math.Atan2(im[i], re[i])
	}

	return nil
}
