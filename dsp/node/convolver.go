package node

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/conv"
)

// convolverSnapshot is what the render side sees of the current response.
type convolverSnapshot struct {
	ir       *conv.ImpulseResponse
	prepared *conv.Prepared
}

// ConvolverNode convolves its input with an impulse response. Without a
// response it outputs silence.
type ConvolverNode struct {
	ctx      Context
	channels int

	mu        sync.Mutex // serializes control-side setters
	normalize bool
	current   *Param[convolverSnapshot]

	engine *conv.Engine
}

type convolverConfig struct {
	ir           *conv.ImpulseResponse
	disableNorm  bool
	channelCount int
}

// ConvolverOption configures a ConvolverNode at construction.
type ConvolverOption func(*convolverConfig) error

// WithImpulseResponse sets the initial response.
func WithImpulseResponse(ir *conv.ImpulseResponse) ConvolverOption {
	return func(cfg *convolverConfig) error {
		cfg.ir = ir
		return nil
	}
}

// WithDisableNormalization turns off loudness normalization of responses.
func WithDisableNormalization(disable bool) ConvolverOption {
	return func(cfg *convolverConfig) error {
		cfg.disableNorm = disable
		return nil
	}
}

// WithChannelCount sets the output channel count, 1 or 2.
func WithChannelCount(n int) ConvolverOption {
	return func(cfg *convolverConfig) error {
		if n != 1 && n != 2 {
			return fmt.Errorf("%w: convolver channel count %d (want 1 or 2): %w",
				ErrNotSupported, n, conv.ErrUnsupportedChannelCount)
		}
		cfg.channelCount = n
		return nil
	}
}

// NewConvolverNode creates a convolver for ctx. Normalization is on and the
// output is stereo unless options say otherwise.
func NewConvolverNode(ctx Context, opts ...ConvolverOption) (*ConvolverNode, error) {
	cfg := convolverConfig{channelCount: 2}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	engine, err := conv.NewEngine(ctx.QuantumSize, cfg.channelCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotSupported, err)
	}

	n := &ConvolverNode{
		ctx:       ctx,
		channels:  cfg.channelCount,
		normalize: !cfg.disableNorm,
		current:   NewParam[convolverSnapshot](nil),
		engine:    engine,
	}

	if cfg.ir != nil {
		if err := n.SetBuffer(cfg.ir); err != nil {
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":  "NewConvolverNode",
		"channels":  n.channels,
		"normalize": n.normalize,
	}).Debug("Convolver node created")

	return n, nil
}

// SetBuffer replaces the impulse response. The response must have 1, 2 or 4
// channels at the context sample rate. nil removes the response. The new
// response is normalized and partitioned here; the render side picks it up at
// the next quantum and the tail of the previous response is dropped.
func (n *ConvolverNode) SetBuffer(ir *conv.ImpulseResponse) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if ir == nil {
		n.current.Store(nil)
		logrus.WithFields(logrus.Fields{
			"function": "SetBuffer",
		}).Debug("Impulse response cleared")
		return nil
	}

	if ir.SampleRate() != n.ctx.SampleRate {
		err := fmt.Errorf("%w: response rate %g Hz, context %g Hz: %w",
			ErrNotSupported, ir.SampleRate(), n.ctx.SampleRate, conv.ErrSampleRateMismatch)
		logrus.WithFields(logrus.Fields{
			"function": "SetBuffer",
			"error":    err.Error(),
		}).Warn("Rejected impulse response")
		return err
	}

	prepared, err := conv.Prepare(ir, n.normalize, n.ctx.QuantumSize, n.channels)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotSupported, err)
	}

	n.current.Store(&convolverSnapshot{ir: ir, prepared: prepared})

	logrus.WithFields(logrus.Fields{
		"function":   "SetBuffer",
		"channels":   ir.NumChannels(),
		"length":     ir.Len(),
		"partitions": (ir.Len() + n.ctx.QuantumSize - 1) / n.ctx.QuantumSize,
		"scale":      prepared.Scale(),
	}).Info("Impulse response published")

	return nil
}

// LoadBuffer validates planar samples recorded at sampleRate and installs
// them as the impulse response.
func (n *ConvolverNode) LoadBuffer(channels [][]float64, sampleRate float64) error {
	ir, err := conv.NewImpulseResponse(channels, sampleRate, n.ctx.SampleRate)
	if err != nil {
		if errors.Is(err, conv.ErrEmptyImpulseResponse) || errors.Is(err, conv.ErrLengthMismatch) {
			return fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
		return fmt.Errorf("%w: %w", ErrNotSupported, err)
	}
	return n.SetBuffer(ir)
}

// Buffer returns the current response, or nil.
func (n *ConvolverNode) Buffer() *conv.ImpulseResponse {
	if s := n.current.Load(); s != nil {
		return s.ir
	}
	return nil
}

// SetNormalize sets whether responses installed from now on are normalized.
// The current response keeps its scaling.
func (n *ConvolverNode) SetNormalize(normalize bool) {
	n.mu.Lock()
	n.normalize = normalize
	n.mu.Unlock()
}

// Normalize reports whether responses will be normalized.
func (n *ConvolverNode) Normalize() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.normalize
}

// Kind implements Processor.
func (n *ConvolverNode) Kind() Kind { return KindConvolver }

// ChannelCount implements Processor.
func (n *ConvolverNode) ChannelCount() int { return n.channels }

// TailLength returns the current response length in samples.
func (n *ConvolverNode) TailLength() int {
	if s := n.current.Load(); s != nil {
		return s.prepared.TailLength()
	}
	return 0
}

// Process implements Processor.
func (n *ConvolverNode) Process(in, out *buffer.Block) error {
	var prepared *conv.Prepared
	if s := n.current.Load(); s != nil {
		prepared = s.prepared
	}
	return n.engine.Process(in, out, prepared)
}
