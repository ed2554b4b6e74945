package resample

import "fmt"

// Upsampler raises the sample rate of a stream by an integer factor using a
// polyphase interpolation filter. Its history is allocated once at
// construction; Process never allocates.
type Upsampler struct {
	factor int
	taps   int // taps per phase

	// phases[p] holds the prototype taps p, p+factor, ... in reverse order so
	// each output is a dot product with the chronological history window.
	phases [][]float64

	hist []float64 // 2*taps, every sample written twice
	pos  int
}

// NewUpsampler creates an interpolator for factor >= 2. The prototype is a
// Kaiser-windowed sinc with factor*TapsPerPhase taps and a cutoff of
// CutoffScale times the input Nyquist, scaled for unity passband gain.
func NewUpsampler(factor int, opts ...Option) (*Upsampler, error) {
	if factor < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, factor)
	}

	cfg := applyOptions(opts)

	proto, err := designLowpass(cfg.tapsPerPhase*factor, 0.5/float64(factor)*cfg.cutoffScale, cfg.kaiserBeta, float64(factor))
	if err != nil {
		return nil, err
	}

	phases := make([][]float64, factor)
	for p := range factor {
		ph := make([]float64, cfg.tapsPerPhase)
		for k := range cfg.tapsPerPhase {
			ph[cfg.tapsPerPhase-1-k] = proto[p+k*factor]
		}
		phases[p] = ph
	}

	return &Upsampler{
		factor: factor,
		taps:   cfg.tapsPerPhase,
		phases: phases,
		hist:   make([]float64, 2*cfg.tapsPerPhase),
	}, nil
}

// Factor returns the interpolation factor.
func (u *Upsampler) Factor() int {
	return u.factor
}

// Process writes len(src)*Factor() interpolated samples to dst. If dst is
// shorter, only as many whole input samples as fit are consumed.
func (u *Upsampler) Process(dst, src []float64) {
	n := min(len(src), len(dst)/u.factor)
	t := u.taps

	for i := range n {
		u.hist[u.pos] = src[i]
		u.hist[u.pos+t] = src[i]
		u.pos++
		if u.pos == t {
			u.pos = 0
		}

		window := u.hist[u.pos : u.pos+t]
		out := dst[i*u.factor : (i+1)*u.factor]
		for p, ph := range u.phases {
			var y float64
			for k, c := range ph {
				y += c * window[k]
			}
			out[p] = y
		}
	}
}

// Reset clears the interpolation history.
func (u *Upsampler) Reset() {
	clear(u.hist)
	u.pos = 0
}

// Delay returns the group delay in output (high-rate) samples.
func (u *Upsampler) Delay() float64 {
	return float64(u.taps*u.factor-1) / 2
}

// Downsampler lowers the sample rate of a stream by an integer factor. It
// low-pass filters below the output Nyquist and evaluates the filter only at
// the retained samples. Process never allocates.
type Downsampler struct {
	factor int
	taps   []float64 // reversed prototype

	hist  []float64 // 2*len(taps), every sample written twice
	pos   int
	phase int
}

// NewDownsampler creates a decimator for factor >= 2 using the same prototype
// design as [NewUpsampler], scaled for unity DC gain.
func NewDownsampler(factor int, opts ...Option) (*Downsampler, error) {
	if factor < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFactor, factor)
	}

	cfg := applyOptions(opts)

	proto, err := designLowpass(cfg.tapsPerPhase*factor, 0.5/float64(factor)*cfg.cutoffScale, cfg.kaiserBeta, 1)
	if err != nil {
		return nil, err
	}

	n := len(proto)
	rev := make([]float64, n)
	for k, c := range proto {
		rev[n-1-k] = c
	}

	return &Downsampler{
		factor: factor,
		taps:   rev,
		hist:   make([]float64, 2*n),
	}, nil
}

// Factor returns the decimation factor.
func (d *Downsampler) Factor() int {
	return d.factor
}

// Process consumes len(dst)*Factor() samples of src and writes one output per
// Factor() inputs. If src is shorter, only the whole output samples it covers
// are produced.
func (d *Downsampler) Process(dst, src []float64) {
	n := min(len(src), len(dst)*d.factor)
	t := len(d.taps)
	out := 0

	for i := range n {
		d.hist[d.pos] = src[i]
		d.hist[d.pos+t] = src[i]
		d.pos++
		if d.pos == t {
			d.pos = 0
		}

		if d.phase == 0 {
			var y float64
			window := d.hist[d.pos : d.pos+t]
			for k, c := range d.taps {
				y += c * window[k]
			}
			dst[out] = y
			out++
		}

		d.phase++
		if d.phase == d.factor {
			d.phase = 0
		}
	}
}

// Reset clears the decimation history.
func (d *Downsampler) Reset() {
	clear(d.hist)
	d.pos = 0
	d.phase = 0
}

// Delay returns the group delay in input (high-rate) samples.
func (d *Downsampler) Delay() float64 {
	return float64(len(d.taps)-1) / 2
}
