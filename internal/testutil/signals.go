// Package testutil holds deterministic test signals and tolerance checks.
package testutil

import (
	"math"
	"math/rand/v2"
)

// Sine returns n samples of amp*sin(2*pi*freqHz*i/sampleRate).
func Sine(freqHz, sampleRate, amp float64, n int) []float64 {
	out := make([]float64, n)
	w := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amp * math.Sin(w*float64(i))
	}
	return out
}

// Noise returns n uniform samples in [-amp, amp). Equal seeds give equal
// sequences.
func Noise(seed uint64, amp float64, n int) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * (2*rng.Float64() - 1)
	}
	return out
}

// Impulse returns n samples that are zero except for a 1 at pos. An
// out-of-range pos gives all zeros.
func Impulse(n, pos int) []float64 {
	out := make([]float64, n)
	if pos >= 0 && pos < n {
		out[pos] = 1
	}
	return out
}

// Constant returns n copies of v.
func Constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Quanta splits x into blocks of q samples, zero-padding the last one.
func Quanta(x []float64, q int) [][]float64 {
	var out [][]float64
	for start := 0; start < len(x); start += q {
		block := make([]float64, q)
		copy(block, x[start:])
		out = append(out, block)
	}
	return out
}
