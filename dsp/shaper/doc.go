// Package shaper implements curve-based waveshaping with optional 2x or 4x
// oversampling.
//
// A [Curve] is an immutable transfer table spanning inputs -1 to +1 plus the
// oversampling factor to run it at. Inputs are mapped to a fractional table
// index and linearly interpolated; inputs beyond [-1, 1] take the boundary
// values. An empty curve passes audio through untouched.
//
// [Engine] owns the per-channel anti-aliasing stages. With oversampling the
// block is interpolated by the factor with a Kaiser-windowed sinc
// (32 taps per phase, cutoff 0.92 of the original Nyquist, beta 7.5, about
// 75 dB stopband), shaped at the high rate, then low-pass filtered with the
// same design and decimated back.
//
// [Generate] builds tables from common saturation functions.
package shaper
