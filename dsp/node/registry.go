package node

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-webaudio/dsp/resample"
	"github.com/cwbudde/algo-webaudio/dsp/shaper"
)

// Factory builds one node from its description.
type Factory func(ctx Context, p Params) (Processor, error)

// Registry maps node type names to their factories.
type Registry struct {
	factories map[string]Factory
}

var (
	errDuplicateType = errors.New("node: duplicate node type")
	errUnknownType   = errors.New("node: unknown node type")
	errMissingIR     = errors.New("node: impulse response not available")
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given node type.
func (r *Registry) Register(nodeType string, factory Factory) error {
	if nodeType == "" {
		return errors.New("node: empty node type")
	}

	if factory == nil {
		return errors.New("node: nil factory")
	}

	if _, exists := r.factories[nodeType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateType, nodeType)
	}

	r.factories[nodeType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(nodeType string, factory Factory) {
	err := r.Register(nodeType, factory)
	if err != nil {
		panic("node registry: " + err.Error())
	}
}

// Lookup returns the factory for the given node type, or nil.
func (r *Registry) Lookup(nodeType string) Factory {
	return r.factories[nodeType]
}

// Build looks up p.Type and runs its factory.
func (r *Registry) Build(ctx Context, p Params) (Processor, error) {
	f := r.Lookup(p.Type)
	if f == nil {
		return nil, fmt.Errorf("%w: %q", errUnknownType, p.Type)
	}

	proc, err := f(ctx, p)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Build",
			"id":       p.ID,
			"type":     p.Type,
			"error":    err.Error(),
		}).Warn("Failed to build node")
		return nil, err
	}

	return proc, nil
}

// IRProvider allows the convolver factory to load impulse responses without
// depending on application types.
type IRProvider interface {
	GetIR(index int) (samples [][]float64, sampleRate float64, ok bool)
}

type registryConfig struct {
	irProvider   IRProvider
	resampleOpts []resample.Option
}

// RegistryOption configures the default registry.
type RegistryOption func(*registryConfig)

// WithIRProvider sets the impulse response provider for convolver nodes.
func WithIRProvider(p IRProvider) RegistryOption {
	return func(c *registryConfig) { c.irProvider = p }
}

// WithRegistryResampleOptions sets the filters used to bring provider
// responses to the context rate and to oversample waveshapers.
func WithRegistryResampleOptions(opts ...resample.Option) RegistryOption {
	return func(c *registryConfig) { c.resampleOpts = opts }
}

// DefaultRegistry returns a Registry with the convolver, iirfilter and
// waveshaper node types.
//
// Recognised parameters:
//
//	convolver:  Num irIndex, channelCount, disableNormalization (non-zero)
//	iirfilter:  Vec feedforward, feedback; Num channelCount
//	waveshaper: Vec curve, or Str shape with Num curveLength and drive;
//	            Str oversample; Num channelCount
func DefaultRegistry(opts ...RegistryOption) *Registry {
	cfg := &registryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	r := NewRegistry()

	r.MustRegister(KindConvolver.String(), func(ctx Context, p Params) (Processor, error) {
		n, err := NewConvolverNode(ctx,
			WithChannelCount(int(p.GetNum("channelCount", 2))),
			WithDisableNormalization(p.GetNum("disableNormalization", 0) != 0),
		)
		if err != nil {
			return nil, err
		}

		if _, ok := p.Num["irIndex"]; !ok || cfg.irProvider == nil {
			return n, nil
		}

		index := int(p.GetNum("irIndex", 0))
		samples, rate, ok := cfg.irProvider.GetIR(index)
		if !ok {
			return nil, fmt.Errorf("%w: index %d", errMissingIR, index)
		}

		samples, err = resample.ConformChannels(samples, rate, ctx.SampleRate, cfg.resampleOpts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotSupported, err)
		}

		if err := n.LoadBuffer(samples, ctx.SampleRate); err != nil {
			return nil, err
		}

		return n, nil
	})

	r.MustRegister(KindIIRFilter.String(), func(ctx Context, p Params) (Processor, error) {
		n, err := NewIIRFilterNode(ctx, p.GetVec("feedforward"), p.GetVec("feedback"),
			WithIIRChannelCount(int(p.GetNum("channelCount", 2))))
		if err != nil {
			return nil, err
		}

		return n, nil
	})

	r.MustRegister(KindWaveShaper.String(), func(ctx Context, p Params) (Processor, error) {
		o, err := shaper.ParseOversample(p.GetStr("oversample", "none"))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotSupported, err)
		}

		curve := p.GetVec("curve")
		if name, ok := p.Str["shape"]; ok && curve == nil {
			shape, err := shaper.ParseShape(name)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrNotSupported, err)
			}

			curve, err = shaper.Generate(shape, int(p.GetNum("curveLength", 1024)), p.GetNum("drive", 1))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
			}
		}

		n, err := NewWaveShaperNode(ctx,
			WithCurve(curve),
			WithOversample(o),
			WithShaperChannelCount(int(p.GetNum("channelCount", 2))),
			WithResampleOptions(cfg.resampleOpts...),
		)
		if err != nil {
			return nil, err
		}

		return n, nil
	})

	return r
}
