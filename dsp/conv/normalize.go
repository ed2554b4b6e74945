package conv

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-webaudio/dsp/core"
)

// Loudness normalization constants for impulse responses.
const (
	GainCalibration           = 0.00125
	GainCalibrationSampleRate = 44100.0
	MinPower                  = 0.000125
)

// NormalizationScale returns the gain applied to every channel of ir when
// normalization is enabled:
//
//	power = sqrt(sum(r^2) / (channels * length))   floored at MinPower
//	scale = GainCalibration / power * GainCalibrationSampleRate / sampleRate
//
// True-stereo (4-channel) responses get an extra factor of 0.5 since each
// output channel sums two convolutions.
func NormalizationScale(ir *ImpulseResponse) float64 {
	n := ir.Len()
	sq := make([]float64, n)

	var energy float64
	for _, ch := range ir.channels {
		vecmath.MulBlock(sq, ch, ch)
		for _, v := range sq {
			energy += v
		}
	}

	power := math.Sqrt(energy / float64(len(ir.channels)*n))
	if !core.IsFinite(power) || power < MinPower {
		power = MinPower
	}

	scale := GainCalibration / power * GainCalibrationSampleRate / ir.sampleRate
	if len(ir.channels) == 4 {
		scale *= 0.5
	}

	return scale
}
