package node

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/resample"
	"github.com/cwbudde/algo-webaudio/dsp/shaper"
)

// WaveShaperNode maps every sample through a transfer curve, optionally at
// 2x or 4x the context rate. Without a curve it passes audio through
// unchanged.
type WaveShaperNode struct {
	ctx      Context
	channels int

	mu      sync.Mutex // serializes control-side setters
	current *Param[shaper.Curve]

	engine *shaper.Engine
	mixer  mixer
}

type waveShaperConfig struct {
	curve        []float64
	oversample   shaper.Oversample
	channelCount int
	resampleOpts []resample.Option
}

// WaveShaperOption configures a WaveShaperNode at construction.
type WaveShaperOption func(*waveShaperConfig) error

// WithCurve sets the initial transfer curve.
func WithCurve(curve []float64) WaveShaperOption {
	return func(cfg *waveShaperConfig) error {
		cfg.curve = curve
		return nil
	}
}

// WithOversample sets the initial oversampling factor.
func WithOversample(o shaper.Oversample) WaveShaperOption {
	return func(cfg *waveShaperConfig) error {
		cfg.oversample = o
		return nil
	}
}

// WithShaperChannelCount sets the number of shaped channels (default 2).
func WithShaperChannelCount(n int) WaveShaperOption {
	return func(cfg *waveShaperConfig) error {
		if n < 1 {
			return fmt.Errorf("%w: channel count %d", ErrNotSupported, n)
		}
		cfg.channelCount = n
		return nil
	}
}

// WithResampleOptions tunes the anti-aliasing filters used when
// oversampling.
func WithResampleOptions(opts ...resample.Option) WaveShaperOption {
	return func(cfg *waveShaperConfig) error {
		cfg.resampleOpts = append(cfg.resampleOpts, opts...)
		return nil
	}
}

// NewWaveShaperNode creates a waveshaper for ctx.
func NewWaveShaperNode(ctx Context, opts ...WaveShaperOption) (*WaveShaperNode, error) {
	cfg := waveShaperConfig{channelCount: 2}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	curve, err := newShaperCurve(cfg.curve, cfg.oversample)
	if err != nil {
		return nil, err
	}

	engine, err := shaper.NewEngine(cfg.channelCount, ctx.QuantumSize, cfg.resampleOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotSupported, err)
	}

	n := &WaveShaperNode{
		ctx:      ctx,
		channels: cfg.channelCount,
		current:  NewParam(curve),
		engine:   engine,
		mixer:    newMixer(cfg.channelCount, ctx.QuantumSize),
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewWaveShaperNode",
		"channels":   n.channels,
		"curve":      curve.Len(),
		"oversample": curve.Oversample().String(),
	}).Debug("WaveShaper node created")

	return n, nil
}

// newShaperCurve maps the shaper errors onto the node error classes.
func newShaperCurve(samples []float64, o shaper.Oversample) (*shaper.Curve, error) {
	curve, err := shaper.NewCurve(samples, o)
	switch {
	case err == nil:
		return curve, nil
	case errors.Is(err, shaper.ErrCurveTooShort):
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrNotSupported, err)
	}
}

// SetCurve replaces the transfer curve. nil or empty clears it; a single
// sample is rejected with ErrInvalidState. The samples are copied.
func (n *WaveShaperNode) SetCurve(samples []float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	curve, err := newShaperCurve(samples, n.current.Load().Oversample())
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "SetCurve",
			"length":   len(samples),
			"error":    err.Error(),
		}).Warn("Rejected curve")
		return err
	}

	n.current.Store(curve)

	logrus.WithFields(logrus.Fields{
		"function": "SetCurve",
		"length":   curve.Len(),
	}).Debug("Curve published")

	return nil
}

// Curve returns a copy of the current table, or nil.
func (n *WaveShaperNode) Curve() []float64 {
	return n.current.Load().Samples()
}

// SetOversample changes the oversampling factor. The curve is kept.
func (n *WaveShaperNode) SetOversample(o shaper.Oversample) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	curve, err := n.current.Load().WithOversample(o)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotSupported, err)
	}

	n.current.Store(curve)

	logrus.WithFields(logrus.Fields{
		"function":   "SetOversample",
		"oversample": o.String(),
	}).Debug("Oversample published")

	return nil
}

// Oversample returns the current oversampling factor.
func (n *WaveShaperNode) Oversample() shaper.Oversample {
	return n.current.Load().Oversample()
}

// Kind implements Processor.
func (n *WaveShaperNode) Kind() Kind { return KindWaveShaper }

// ChannelCount implements Processor.
func (n *WaveShaperNode) ChannelCount() int { return n.channels }

// TailLength returns the oversampling latency rounded up to whole samples.
func (n *WaveShaperNode) TailLength() int {
	c := n.current.Load()
	if c.IsIdentity() {
		return 0
	}
	return int(math.Ceil(n.engine.Latency(c.Oversample())))
}

// Process implements Processor. The input is speaker-mixed to the node
// channel count first.
func (n *WaveShaperNode) Process(in, out *buffer.Block) error {
	if out.Channels() != n.channels {
		return fmt.Errorf("%w: out has %d channels, want %d",
			shaper.ErrBlockMismatch, out.Channels(), n.channels)
	}
	if in.Len() != n.ctx.QuantumSize {
		return fmt.Errorf("%w: in=%d, want %d", shaper.ErrBlockMismatch, in.Len(), n.ctx.QuantumSize)
	}

	return n.engine.Process(n.mixer.mix(in), out, n.current.Load())
}
