package iir

import "github.com/cwbudde/algo-webaudio/dsp/core"

// State runs the recursion
//
//	y[n] = (1/a[0]) * (sum_k b[k]*x[n-k] - sum_{k>=1} a[k]*y[n-k])
//
// for one channel. Past inputs and outputs live in circular buffers of
// Order() samples, stored twice so every tap window is contiguous.
type State struct {
	c *Coefficients

	order int
	xh    []float64
	yh    []float64
	pos   int
}

// NewState returns a State for c with zero history.
func NewState(c *Coefficients) *State {
	order := c.Order()

	return &State{
		c:     c,
		order: order,
		xh:    make([]float64, 2*order),
		yh:    make([]float64, 2*order),
	}
}

// ProcessSample filters one input sample and returns the output.
func (s *State) ProcessSample(x float64) float64 {
	b, a := s.c.b, s.c.a
	y := b[0] * x

	if s.order == 0 {
		return core.FlushDenormals(y)
	}

	// xw[order-k] holds x[n-k] for k = 1..order.
	xw := s.xh[s.pos : s.pos+s.order]
	yw := s.yh[s.pos : s.pos+s.order]
	last := s.order

	for k := 1; k < len(b); k++ {
		y += b[k] * xw[last-k]
	}
	for k := 1; k < len(a); k++ {
		y -= a[k] * yw[last-k]
	}

	y = core.FlushDenormals(y)

	s.xh[s.pos] = x
	s.xh[s.pos+s.order] = x
	s.yh[s.pos] = y
	s.yh[s.pos+s.order] = y
	s.pos++
	if s.pos == s.order {
		s.pos = 0
	}

	return y
}

// ProcessBlock filters src into dst. dst and src may alias; only
// min(len(dst), len(src)) samples are processed.
func (s *State) ProcessBlock(dst, src []float64) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = s.ProcessSample(src[i])
	}
}

// Reset clears the history.
func (s *State) Reset() {
	clear(s.xh)
	clear(s.yh)
	s.pos = 0
}

// Coefficients returns the polynomials the state runs.
func (s *State) Coefficients() *Coefficients {
	return s.c
}
