package conv

import (
	"fmt"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// route feeds one input channel through one convolver into one output channel.
type route struct {
	in, out int
	conv    *Partitioned
}

// Prepared is an impulse response made ready for block processing: scaled,
// mixed to the output layout and transformed into partition spectra. It also
// carries the streaming state of every convolution path, so a Prepared must
// only be driven by one [Engine] at a time.
type Prepared struct {
	quantumSize    int
	outputChannels int
	irChannels     int
	tailLength     int
	scale          float64
	routes         []route
}

// Prepare builds the processing form of ir for blocks of quantumSize samples
// and outputChannels (1 or 2) output channels. When normalize is true the
// response is scaled by [NormalizationScale] before partitioning.
//
// Routing by response layout:
//
//	1 channel   out[c] = in[c] * h0
//	2 channels  stereo: L = inL * h0, R = inR * h1
//	            mono:   M = in * (h0 + h1) / 2
//	4 channels  stereo: L = inL * h0 + inR * h2, R = inL * h1 + inR * h3
//	            mono:   M = in * (h0 + h1 + h2 + h3) / 2
//
// Prepare allocates and belongs on the control side.
func Prepare(ir *ImpulseResponse, normalize bool, quantumSize, outputChannels int) (*Prepared, error) {
	if ir == nil {
		return nil, ErrEmptyImpulseResponse
	}

	if quantumSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, quantumSize)
	}

	if outputChannels != 1 && outputChannels != 2 {
		return nil, fmt.Errorf("%w: %d output channels (want 1 or 2)", ErrUnsupportedChannelCount, outputChannels)
	}

	scale := 1.0
	if normalize {
		scale = NormalizationScale(ir)
	}

	p := &Prepared{
		quantumSize:    quantumSize,
		outputChannels: outputChannels,
		irChannels:     ir.NumChannels(),
		tailLength:     ir.Len(),
		scale:          scale,
	}

	kernels, plan := routing(ir.NumChannels(), outputChannels)

	convs := make([]*Partitioned, len(kernels))
	for k, mix := range kernels {
		h := make([]float64, ir.Len())
		for c, w := range mix {
			if w == 0 {
				continue
			}
			g := w * scale
			for i, v := range ir.channels[c] {
				h[i] += g * v
			}
		}

		pc, err := NewPartitioned(h, quantumSize)
		if err != nil {
			return nil, err
		}
		convs[k] = pc
	}

	p.routes = make([]route, len(plan))
	for i, r := range plan {
		pc := convs[r.kernel]
		if r.fork {
			pc = pc.Fork()
		}
		p.routes[i] = route{in: r.in, out: r.out, conv: pc}
	}

	return p, nil
}

type routeEntry struct {
	in, out int
	kernel  int
	fork    bool // share the kernel spectra of an earlier route
}

// routing returns the kernels to build as weights over the response channels
// and the paths that connect input channels to output channels through them.
func routing(irChannels, outputChannels int) ([][]float64, []routeEntry) {
	switch {
	case irChannels == 1 && outputChannels == 1:
		return [][]float64{{1}}, []routeEntry{{0, 0, 0, false}}
	case irChannels == 1:
		return [][]float64{{1}}, []routeEntry{{0, 0, 0, false}, {1, 1, 0, true}}
	case irChannels == 2 && outputChannels == 1:
		return [][]float64{{0.5, 0.5}}, []routeEntry{{0, 0, 0, false}}
	case irChannels == 2:
		return [][]float64{{1, 0}, {0, 1}}, []routeEntry{{0, 0, 0, false}, {1, 1, 1, false}}
	case outputChannels == 1:
		return [][]float64{{0.5, 0.5, 0.5, 0.5}}, []routeEntry{{0, 0, 0, false}}
	default:
		return [][]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
			[]routeEntry{{0, 0, 0, false}, {0, 1, 1, false}, {1, 0, 2, false}, {1, 1, 3, false}}
	}
}

// TailLength returns the number of samples the output keeps ringing after
// the input goes silent.
func (p *Prepared) TailLength() int {
	return p.tailLength
}

// Channels returns the channel count of the source response.
func (p *Prepared) Channels() int {
	return p.irChannels
}

// OutputChannels returns the output layout the response was mixed to.
func (p *Prepared) OutputChannels() int {
	return p.outputChannels
}

// Scale returns the normalization gain folded into the kernels, or 1.
func (p *Prepared) Scale() float64 {
	return p.scale
}

// Reset clears the streaming state of every path.
func (p *Prepared) Reset() {
	for _, r := range p.routes {
		r.conv.Reset()
	}
}

// Engine runs prepared responses against render quanta. It owns the scratch
// needed to mix the input to the output layout and never allocates while
// processing.
type Engine struct {
	quantumSize    int
	outputChannels int
	mixed          *buffer.Block
	scratch        []float64
}

// NewEngine creates an engine for quanta of quantumSize samples and
// outputChannels (1 or 2) output channels.
func NewEngine(quantumSize, outputChannels int) (*Engine, error) {
	if quantumSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, quantumSize)
	}

	if outputChannels != 1 && outputChannels != 2 {
		return nil, fmt.Errorf("%w: %d output channels (want 1 or 2)", ErrUnsupportedChannelCount, outputChannels)
	}

	return &Engine{
		quantumSize:    quantumSize,
		outputChannels: outputChannels,
		mixed:          buffer.NewBlock(outputChannels, quantumSize),
		scratch:        make([]float64, quantumSize),
	}, nil
}

// Process convolves one quantum. in may have any channel layout and is
// speaker-mixed to the output layout first. A nil p writes silence. out must
// have OutputChannels() channels of the engine quantum size.
func (e *Engine) Process(in, out *buffer.Block, p *Prepared) error {
	if out.Channels() != e.outputChannels || out.Len() != e.quantumSize {
		return fmt.Errorf("%w: output %dx%d, want %dx%d",
			ErrLengthMismatch, out.Channels(), out.Len(), e.outputChannels, e.quantumSize)
	}

	if p == nil {
		out.Zero()
		return nil
	}

	if p.quantumSize != e.quantumSize || p.outputChannels != e.outputChannels {
		return fmt.Errorf("%w: prepared for %dx%d, engine is %dx%d",
			ErrLengthMismatch, p.outputChannels, p.quantumSize, e.outputChannels, e.quantumSize)
	}

	if in.Len() != e.quantumSize {
		return fmt.Errorf("%w: input length %d, want %d", ErrLengthMismatch, in.Len(), e.quantumSize)
	}

	buffer.Mix(e.mixed, in)
	out.Zero()

	for _, r := range p.routes {
		if err := r.conv.ProcessBlockTo(e.scratch, e.mixed.Channel(r.in)); err != nil {
			return err
		}

		dst := out.Channel(r.out)
		for i, v := range e.scratch {
			dst[i] += v
		}
	}

	return nil
}

// QuantumSize returns the block size the engine processes.
func (e *Engine) QuantumSize() int {
	return e.quantumSize
}

// OutputChannels returns the number of output channels.
func (e *Engine) OutputChannels() int {
	return e.outputChannels
}
