package shaper

import (
	"fmt"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/resample"
)

// stage holds the interpolator and decimator of one channel at one factor.
type stage struct {
	up   *resample.Upsampler
	down *resample.Downsampler
}

// Engine applies curves to render quanta. Oversampling stages for both 2x
// and 4x are built up front so switching factors never allocates; a switch
// clears the history of the newly selected stages.
type Engine struct {
	channels    int
	quantumSize int

	x2, x4 []stage
	hi     []float64 // 4 * quantumSize
	active Oversample
}

// NewEngine creates an engine for up to channels channels and quanta of
// quantumSize samples. opts tune the anti-aliasing filters; the default is
// resample.QualityBalanced.
func NewEngine(channels, quantumSize int, opts ...resample.Option) (*Engine, error) {
	if channels < 1 {
		return nil, fmt.Errorf("shaper: invalid channel count %d", channels)
	}

	if quantumSize < 1 {
		return nil, fmt.Errorf("shaper: invalid quantum size %d", quantumSize)
	}

	e := &Engine{
		channels:    channels,
		quantumSize: quantumSize,
		x2:          make([]stage, channels),
		x4:          make([]stage, channels),
		hi:          make([]float64, 4*quantumSize),
	}

	for c := range channels {
		var err error
		if e.x2[c], err = newStage(2, opts); err != nil {
			return nil, err
		}
		if e.x4[c], err = newStage(4, opts); err != nil {
			return nil, err
		}
	}

	return e, nil
}

func newStage(factor int, opts []resample.Option) (stage, error) {
	up, err := resample.NewUpsampler(factor, opts...)
	if err != nil {
		return stage{}, err
	}

	down, err := resample.NewDownsampler(factor, opts...)
	if err != nil {
		return stage{}, err
	}

	return stage{up: up, down: down}, nil
}

// Process shapes in into out with curve c. A nil or empty curve copies the
// input exactly. Channels beyond the engine's channel count, or beyond those
// of in, are zeroed in out. Both blocks must be quantum sized.
func (e *Engine) Process(in, out *buffer.Block, c *Curve) error {
	if in.Len() != e.quantumSize || out.Len() != e.quantumSize {
		return fmt.Errorf("%w: in=%d out=%d, want %d", ErrBlockMismatch, in.Len(), out.Len(), e.quantumSize)
	}

	n := min(in.Channels(), out.Channels(), e.channels)
	for ch := n; ch < out.Channels(); ch++ {
		clear(out.Channel(ch))
	}

	if c.IsIdentity() {
		e.active = OversampleNone
		for ch := range n {
			copy(out.Channel(ch), in.Channel(ch))
		}
		return nil
	}

	o := c.Oversample()
	if o != e.active {
		e.switchTo(o)
	}

	var stages []stage
	switch o {
	case Oversample2x:
		stages = e.x2
	case Oversample4x:
		stages = e.x4
	default:
		for ch := range n {
			c.Apply(out.Channel(ch), in.Channel(ch))
		}
		return nil
	}

	hi := e.hi[:o.Factor()*e.quantumSize]
	for ch := range n {
		s := stages[ch]
		s.up.Process(hi, in.Channel(ch))
		c.Apply(hi, hi)
		s.down.Process(out.Channel(ch), hi)
	}

	return nil
}

// switchTo discards the history of the stages for o.
func (e *Engine) switchTo(o Oversample) {
	var stages []stage
	switch o {
	case Oversample2x:
		stages = e.x2
	case Oversample4x:
		stages = e.x4
	}

	for _, s := range stages {
		s.up.Reset()
		s.down.Reset()
	}

	e.active = o
}

// Reset clears all oversampling history.
func (e *Engine) Reset() {
	for _, stages := range [][]stage{e.x2, e.x4} {
		for _, s := range stages {
			s.up.Reset()
			s.down.Reset()
		}
	}
}

// Channels returns the number of channels the engine holds state for.
func (e *Engine) Channels() int {
	return e.channels
}

// QuantumSize returns the block size the engine processes.
func (e *Engine) QuantumSize() int {
	return e.quantumSize
}

// Latency returns the delay in base-rate samples the anti-aliasing filters
// add at factor o, or 0 without oversampling.
func (e *Engine) Latency(o Oversample) float64 {
	var s stage
	switch o {
	case Oversample2x:
		s = e.x2[0]
	case Oversample4x:
		s = e.x4[0]
	default:
		return 0
	}

	return (s.up.Delay() + s.down.Delay()) / float64(o.Factor())
}
