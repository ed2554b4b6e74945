// Package conv implements block convolution against multichannel impulse
// responses for a real-time render graph.
//
// The core is [Partitioned], a uniformly partitioned overlap-add convolver
// with a frequency-domain delay line. The impulse response is split into
// partitions the size of one render quantum; each quantum costs one forward
// FFT, one complex multiply-accumulate per partition and one inverse FFT, so
// per-quantum work is bounded regardless of response length and there is no
// added latency.
//
// # Usage
//
// Responses are validated once by [NewImpulseResponse] and turned into their
// processing form by [Prepare] on the control side. Normalization and channel
// mixing happen there, never per block:
//
//	ir, err := conv.NewImpulseResponse(channels, fileRate, contextRate)
//	p, err := conv.Prepare(ir, true, 128, 2)
//	e, err := conv.NewEngine(128, 2)
//	err = e.Process(in, out, p) // in: any layout, out: 2 x 128
//
// A nil *Prepared renders silence. When the input goes silent the engine keeps
// draining its delay line for [Prepared.TailLength] samples.
//
// # Normalization
//
// [NormalizationScale] implements the equal-power loudness normalization used
// for convolution reverbs: responses are scaled by GainCalibration over their
// RMS power, corrected for sample rate, and halved for true-stereo
// (4-channel) responses.
//
// [Direct] is an O(N*M) reference used by tests and offline tools.
package conv
