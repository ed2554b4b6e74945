package iir

import (
	"fmt"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// Filter applies one set of coefficients to several channels, each with its
// own delay line.
type Filter struct {
	c      *Coefficients
	states []*State
}

// NewFilter creates a filter for the given number of channels (at least 1).
func NewFilter(c *Coefficients, channels int) (*Filter, error) {
	if channels < 1 {
		return nil, fmt.Errorf("iir: invalid channel count %d", channels)
	}

	states := make([]*State, channels)
	for i := range states {
		states[i] = NewState(c)
	}

	return &Filter{c: c, states: states}, nil
}

// Channels returns the number of delay lines.
func (f *Filter) Channels() int {
	return len(f.states)
}

// Coefficients returns the filter polynomials.
func (f *Filter) Coefficients() *Coefficients {
	return f.c
}

// ProcessSample filters one sample of channel ch.
func (f *Filter) ProcessSample(ch int, x float64) float64 {
	return f.states[ch].ProcessSample(x)
}

// ProcessBlock filters every channel of in into the matching channel of out.
// Channels of out beyond those of in, or beyond Channels(), are zeroed.
// in and out may be the same block. It does not allocate.
func (f *Filter) ProcessBlock(in, out *buffer.Block) {
	n := min(in.Channels(), out.Channels(), len(f.states))

	for c := range n {
		f.states[c].ProcessBlock(out.Channel(c), in.Channel(c))
	}

	for c := n; c < out.Channels(); c++ {
		clear(out.Channel(c))
	}
}

// Reset clears the history of every channel.
func (f *Filter) Reset() {
	for _, s := range f.states {
		s.Reset()
	}
}
