package core

// RenderQuantumSize is the default number of sample-frames per render quantum.
const RenderQuantumSize = 128

// ProcessorConfig defines the processing settings shared by every node of a
// rendering graph. Both values are constant for the lifetime of a graph.
type ProcessorConfig struct {
	SampleRate  float64
	QuantumSize int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the defaults of a real-time rendering graph.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:  48000,
		QuantumSize: RenderQuantumSize,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithQuantumSize sets the number of sample-frames per render quantum.
func WithQuantumSize(quantumSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if quantumSize > 0 {
			cfg.QuantumSize = quantumSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Nyquist returns half the configured sample rate.
func (c ProcessorConfig) Nyquist() float64 {
	return c.SampleRate / 2
}
