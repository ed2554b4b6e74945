package node

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/filter/iir"
)

// tailThreshold is the level below which an IIR impulse response counts as
// decayed when estimating the tail length.
const tailThreshold = 1e-6

// maxTailSeconds caps the tail estimate for slowly decaying or unstable
// filters.
const maxTailSeconds = 10

// IIRFilterNode runs a general recursive filter whose coefficients are fixed
// at construction.
type IIRFilterNode struct {
	ctx      Context
	channels int
	coeffs   *iir.Coefficients
	filter   *iir.Filter
	mixer    mixer
	tail     int
}

type iirConfig struct {
	channelCount int
}

// IIROption configures an IIRFilterNode at construction.
type IIROption func(*iirConfig) error

// WithIIRChannelCount sets the number of filtered channels (default 2).
func WithIIRChannelCount(n int) IIROption {
	return func(cfg *iirConfig) error {
		if n < 1 {
			return fmt.Errorf("%w: channel count %d", ErrNotSupported, n)
		}
		cfg.channelCount = n
		return nil
	}
}

// NewIIRFilterNode validates feedforward and feedback and creates the node.
// Length violations report ErrNotSupported and a zero feedback[0] reports
// ErrInvalidState.
func NewIIRFilterNode(ctx Context, feedforward, feedback []float64, opts ...IIROption) (*IIRFilterNode, error) {
	cfg := iirConfig{channelCount: 2}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	coeffs, err := iir.NewCoefficients(feedforward, feedback)
	if err != nil {
		class := ErrNotSupported
		if errors.Is(err, iir.ErrZeroLeadingFeedback) {
			class = ErrInvalidState
		}

		logrus.WithFields(logrus.Fields{
			"function": "NewIIRFilterNode",
			"error":    err.Error(),
		}).Warn("Rejected filter coefficients")

		return nil, fmt.Errorf("%w: %w", class, err)
	}

	filter, err := iir.NewFilter(coeffs, cfg.channelCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotSupported, err)
	}

	n := &IIRFilterNode{
		ctx:      ctx,
		channels: cfg.channelCount,
		coeffs:   coeffs,
		filter:   filter,
		mixer:    newMixer(cfg.channelCount, ctx.QuantumSize),
		tail:     estimateTail(coeffs, ctx.SampleRate),
	}

	fields := logrus.Fields{
		"function": "NewIIRFilterNode",
		"order":    coeffs.Order(),
		"channels": n.channels,
		"tail":     n.tail,
	}
	if !coeffs.IsStable() {
		logrus.WithFields(fields).Warn("IIR filter is unstable")
	} else {
		logrus.WithFields(fields).Debug("IIR filter node created")
	}

	return n, nil
}

// estimateTail returns the number of samples until the impulse response
// stays below tailThreshold, capped at maxTailSeconds.
func estimateTail(c *iir.Coefficients, sampleRate float64) int {
	limit := int(maxTailSeconds * sampleRate)
	s := iir.NewState(c)

	last := 0
	quiet := 0
	x := 1.0
	for i := range limit {
		y := s.ProcessSample(x)
		x = 0

		if !(math.Abs(y) <= tailThreshold) {
			last = i + 1
			quiet = 0
			continue
		}

		// A full order's worth of quiet samples means the recursion has died.
		quiet++
		if quiet > c.Order()+1 && i >= c.Order() {
			return last
		}
	}

	return limit
}

// GetFrequencyResponse writes magnitude and phase at each frequency in Hz.
// The three slices must share one length; otherwise ErrInvalidAccess is
// returned and nothing is written.
func (n *IIRFilterNode) GetFrequencyResponse(freqs, mag, phase []float64) error {
	if err := iir.FrequencyResponse(n.coeffs, freqs, mag, phase, n.ctx.SampleRate); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAccess, err)
	}
	return nil
}

// Coefficients returns the filter polynomials.
func (n *IIRFilterNode) Coefficients() *iir.Coefficients {
	return n.coeffs
}

// Kind implements Processor.
func (n *IIRFilterNode) Kind() Kind { return KindIIRFilter }

// ChannelCount implements Processor.
func (n *IIRFilterNode) ChannelCount() int { return n.channels }

// TailLength returns the estimated decay time of the impulse response in
// samples.
func (n *IIRFilterNode) TailLength() int { return n.tail }

// Process implements Processor. The input is speaker-mixed to the node
// channel count first.
func (n *IIRFilterNode) Process(in, out *buffer.Block) error {
	if out.Channels() != n.channels || out.Len() != n.ctx.QuantumSize || in.Len() != n.ctx.QuantumSize {
		return fmt.Errorf("%w: in %dx%d out %dx%d, want %d channels of %d",
			iir.ErrLengthMismatch, in.Channels(), in.Len(), out.Channels(), out.Len(),
			n.channels, n.ctx.QuantumSize)
	}

	n.filter.ProcessBlock(n.mixer.mix(in), out)
	return nil
}
