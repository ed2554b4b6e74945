// Package interp provides the interpolation primitives used by table-driven
// DSP blocks such as the waveshaper transfer curve.
//
//   - [Linear2]:        2-point linear interpolation
//   - [LookupClamped]:  linear lookup into a table at a fractional index,
//     clamped to the table's first and last entries
package interp
