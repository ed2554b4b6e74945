package conv

import (
	"fmt"
	"math"
)

// ImpulseResponse is an immutable multichannel convolution kernel.
// It always holds 1, 2 or 4 channels of equal, non-zero length.
type ImpulseResponse struct {
	channels   [][]float64
	sampleRate float64
}

// NewImpulseResponse validates and copies channels into a new response.
// sampleRate must equal contextRate, the rate of the graph the response is
// assigned to.
func NewImpulseResponse(channels [][]float64, sampleRate, contextRate float64) (*ImpulseResponse, error) {
	switch len(channels) {
	case 1, 2, 4:
	default:
		return nil, fmt.Errorf("%w: %d (want 1, 2 or 4)", ErrUnsupportedChannelCount, len(channels))
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) || sampleRate != contextRate {
		return nil, fmt.Errorf("%w: response %g Hz, context %g Hz", ErrSampleRateMismatch, sampleRate, contextRate)
	}

	n := len(channels[0])
	if n == 0 {
		return nil, ErrEmptyImpulseResponse
	}

	backing := make([]float64, n*len(channels))
	out := make([][]float64, len(channels))
	for c, ch := range channels {
		if len(ch) != n {
			return nil, fmt.Errorf("%w: channel %d has %d samples, want %d", ErrLengthMismatch, c, len(ch), n)
		}
		out[c] = backing[c*n : (c+1)*n : (c+1)*n]
		copy(out[c], ch)
	}

	return &ImpulseResponse{channels: out, sampleRate: sampleRate}, nil
}

// NumChannels returns 1, 2 or 4.
func (r *ImpulseResponse) NumChannels() int {
	return len(r.channels)
}

// Len returns the number of samples per channel.
func (r *ImpulseResponse) Len() int {
	return len(r.channels[0])
}

// SampleRate returns the response sample rate in Hz.
func (r *ImpulseResponse) SampleRate() float64 {
	return r.sampleRate
}

// Channel returns a copy of channel i.
func (r *ImpulseResponse) Channel(i int) []float64 {
	return append([]float64(nil), r.channels[i]...)
}

// Duration returns the response length in seconds.
func (r *ImpulseResponse) Duration() float64 {
	return float64(r.Len()) / r.sampleRate
}
