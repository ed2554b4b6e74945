package resample

import "errors"

var (
	// ErrInvalidRatio indicates an invalid up/down ratio.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates an invalid input/output sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
	// ErrInvalidFactor indicates an unsupported integer oversampling factor.
	ErrInvalidFactor = errors.New("resample: invalid factor")
)

// Quality selects a preset for the anti-aliasing filters.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityBest
)

// Profile holds the filter parameters of a quality preset.
type Profile struct {
	TapsPerPhase int
	CutoffScale  float64 // fraction of the lower Nyquist frequency
	KaiserBeta   float64
}

// QualityProfile returns the preset for q. Unknown values map to
// QualityBalanced.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5}
	}
}

type config struct {
	quality      Quality
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
	maxDen       int
}

// Option configures a converter or an oversampling stage.
type Option func(*config)

// WithQuality selects a preset. Explicit overrides win over the preset
// regardless of option order.
func WithQuality(q Quality) Option {
	return func(cfg *config) { cfg.quality = q }
}

// WithTapsPerPhase overrides the taps per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithCutoffScale overrides the cutoff as a fraction in (0, 1] of the lower
// Nyquist frequency.
func WithCutoffScale(v float64) Option {
	return func(cfg *config) {
		if v > 0 && v <= 1 {
			cfg.cutoffScale = v
		}
	}
}

// WithKaiserBeta overrides the Kaiser window shape.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) {
		if beta > 0 {
			cfg.kaiserBeta = beta
		}
	}
}

// WithMaxDenominator bounds the denominator when a rate ratio is
// approximated by a fraction.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{quality: QualityBalanced, maxDen: 4096}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	p := QualityProfile(cfg.quality)
	if cfg.tapsPerPhase == 0 {
		cfg.tapsPerPhase = p.TapsPerPhase
	}
	if cfg.cutoffScale == 0 {
		cfg.cutoffScale = p.CutoffScale
	}
	if cfg.kaiserBeta == 0 {
		cfg.kaiserBeta = p.KaiserBeta
	}

	return cfg
}
