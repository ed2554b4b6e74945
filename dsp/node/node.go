package node

import (
	"errors"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
	"github.com/cwbudde/algo-webaudio/dsp/core"
)

// Errors reported to graph builders. Each wraps the lower-level sentinel of
// the engine that rejected the value, so errors.Is matches both.
var (
	ErrNotSupported  = errors.New("node: not supported")
	ErrInvalidState  = errors.New("node: invalid state")
	ErrInvalidAccess = errors.New("node: invalid access")
)

// Kind tags the processing engine behind a node.
type Kind int

const (
	KindConvolver Kind = iota
	KindIIRFilter
	KindWaveShaper
)

func (k Kind) String() string {
	switch k {
	case KindConvolver:
		return "convolver"
	case KindIIRFilter:
		return "iirfilter"
	case KindWaveShaper:
		return "waveshaper"
	default:
		return "unknown"
	}
}

// Processor is the render-side contract shared by every node kind.
type Processor interface {
	// Kind reports which engine the node runs.
	Kind() Kind
	// ChannelCount is the number of output channels Process writes.
	ChannelCount() int
	// TailLength is the number of samples the node keeps producing output
	// after its input goes silent.
	TailLength() int
	// Process renders one quantum. in may have any channel count; out must
	// have ChannelCount() channels of the context quantum size.
	Process(in, out *buffer.Block) error
}

// Context carries the settings shared by all nodes of one graph.
type Context struct {
	SampleRate  float64
	QuantumSize int
}

// NewContext builds a Context from processor options, defaulting to
// 48 kHz and 128-frame quanta.
func NewContext(opts ...core.ProcessorOption) Context {
	cfg := core.ApplyProcessorOptions(opts...)
	return Context{SampleRate: cfg.SampleRate, QuantumSize: cfg.QuantumSize}
}

// mixer holds the scratch block a node mixes its input into.
type mixer struct {
	block *buffer.Block
}

func newMixer(channels, quantumSize int) mixer {
	return mixer{block: buffer.NewBlock(channels, quantumSize)}
}

// mix returns in unchanged when it already has the mixer layout, otherwise
// the speaker mix of in into the scratch block.
func (m mixer) mix(in *buffer.Block) *buffer.Block {
	if in.Channels() == m.block.Channels() {
		return in
	}
	buffer.Mix(m.block, in)
	return m.block
}
