package conv

import "errors"

// Errors returned by convolution functions.
var (
	ErrEmptyInput              = errors.New("conv: empty input")
	ErrEmptyKernel             = errors.New("conv: empty kernel")
	ErrLengthMismatch          = errors.New("conv: buffer length mismatch")
	ErrInvalidBlockSize        = errors.New("conv: invalid block size")
	ErrEmptyImpulseResponse    = errors.New("conv: empty impulse response")
	ErrUnsupportedChannelCount = errors.New("conv: unsupported channel count")
	ErrSampleRateMismatch      = errors.New("conv: sample rate mismatch")
)

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
//
// This is an O(N*M) algorithm, used as a reference for the partitioned
// engine and by offline tools.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b)
	return result, nil
}

// DirectTo performs direct convolution, writing to a pre-allocated destination.
// dst must have length len(a) + len(b) - 1.
func DirectTo(dst, a, b []float64) {
	clear(dst)

	for i, x := range a {
		if x == 0 {
			continue
		}
		row := dst[i : i+len(b)]
		for j, h := range b {
			row[j] += x * h
		}
	}
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
