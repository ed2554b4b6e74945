// Package iir provides general recursive (IIR) filters of up to 19th order
// defined directly by their transfer-function polynomials.
//
// [Coefficients] holds a validated feedforward polynomial b and feedback
// polynomial a. [State] runs the direct-form recursion for one channel;
// [Filter] keeps one State per channel and processes whole render quanta.
//
// The transfer function is evaluated directly from the polynomials:
//
//	        b[0] + b[1] z^-1 + ... + b[M] z^-M
//	H(z) = ------------------------------------
//	        a[0] + a[1] z^-1 + ... + a[N] z^-N
//
// [FrequencyResponse] samples it on the unit circle for a list of
// frequencies in Hz.
package iir
