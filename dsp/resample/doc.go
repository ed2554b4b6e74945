// Package resample converts between sample rates with Kaiser-windowed sinc
// filters.
//
// [Converter] handles offline rational conversion of whole signals with the
// filter delay removed; [ConformChannels] applies it to every channel of an
// impulse response recorded at a different rate than the graph.
// [Upsampler] and [Downsampler] are streaming integer-factor stages with
// pre-allocated history for running a nonlinearity at 2x or 4x.
//
// Presets:
//
//	mode            taps/phase   cutoff
//	QualityFast     16           0.88 Nyquist
//	QualityBalanced 32           0.92 Nyquist
//	QualityBest     64           0.96 Nyquist
//
// Cutoffs are relative to the Nyquist frequency of the lower of the two rates.
package resample
