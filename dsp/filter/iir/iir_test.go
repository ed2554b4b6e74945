package iir

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func mustCoefficients(t *testing.T, ff, fb []float64) *Coefficients {
	t.Helper()

	c, err := NewCoefficients(ff, fb)
	if err != nil {
		t.Fatalf("NewCoefficients() error = %v", err)
	}
	return c
}

// directRecurrence evaluates the difference equation with explicit
// zero-initialized histories.
func directRecurrence(ff, fb, x []float64) []float64 {
	y := make([]float64, len(x))
	for n := range x {
		var acc float64
		for k, b := range ff {
			if n-k >= 0 {
				acc += b * x[n-k]
			}
		}
		for k := 1; k < len(fb); k++ {
			if n-k >= 0 {
				acc -= fb[k] * y[n-k]
			}
		}
		y[n] = acc / fb[0]
	}
	return y
}

func TestNewCoefficientsValidation(t *testing.T) {
	long := make([]float64, MaxCoefficients+1)
	long[0] = 1
	full := make([]float64, MaxCoefficients)
	full[0] = 1

	tests := []struct {
		name   string
		ff, fb []float64
		want   error
	}{
		{"empty feedforward", nil, []float64{1}, ErrFeedforwardLength},
		{"long feedforward", long, []float64{1}, ErrFeedforwardLength},
		{"empty feedback", []float64{1}, nil, ErrFeedbackLength},
		{"long feedback", []float64{1}, long, ErrFeedbackLength},
		{"zero leading feedback", []float64{1}, []float64{0, 1}, ErrZeroLeadingFeedback},
		{"maximum lengths", full, full, nil},
		{"single taps", []float64{1}, []float64{1}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCoefficients(tc.ff, tc.fb)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCoefficientsAreCopied(t *testing.T) {
	ff := []float64{0.5, 0.5}
	fb := []float64{2, -0.5}
	c := mustCoefficients(t, ff, fb)

	ff[0], fb[0] = 9, 9
	if got := c.Feedforward()[0]; got != 0.5 {
		t.Fatalf("Feedforward()[0] = %g, want 0.5", got)
	}
	if got := c.Feedback()[0]; got != 2 {
		t.Fatalf("Feedback()[0] = %g, want 2", got)
	}
	if c.Order() != 1 {
		t.Fatalf("Order() = %d, want 1", c.Order())
	}
}

func TestImpulseMatchesDirectRecurrence(t *testing.T) {
	tests := []struct {
		name   string
		ff, fb []float64
	}{
		{"identity", []float64{1}, []float64{1}},
		{"gain via a0", []float64{1}, []float64{4}},
		{"fir only", []float64{0.25, 0.5, 0.25}, []float64{1}},
		{"one pole", []float64{0.1}, []float64{1, -0.9}},
		{"unnormalized biquad", []float64{0.2, 0.4, 0.2}, []float64{2, -1.1, 0.4}},
		{"longer feedback", []float64{1, -1}, []float64{1, -0.5, 0.25, -0.125, 0.0625}},
		{"longer feedforward", []float64{1, 0, 0, 0, 0, 0, 0.5}, []float64{1, 0.3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := mustCoefficients(t, tc.ff, tc.fb)

			n := max(len(tc.ff), len(tc.fb)) + 5
			x := make([]float64, n)
			x[0] = 1
			want := directRecurrence(tc.ff, tc.fb, x)

			s := NewState(c)
			for i := range n {
				got := s.ProcessSample(x[i])
				if !almostEqual(got, want[i], 1e-12) {
					t.Fatalf("sample %d: got %g, want %g", i, got, want[i])
				}
			}

			ir := c.ImpulseResponse(n)
			for i := range ir {
				if !almostEqual(ir[i], want[i], 1e-12) {
					t.Fatalf("ImpulseResponse[%d] = %g, want %g", i, ir[i], want[i])
				}
			}
		})
	}
}

func TestStateMatchesRecurrenceOnNoise(t *testing.T) {
	ff := []float64{0.3, -0.2, 0.1, 0.05}
	fb := []float64{1.5, -0.6, 0.2}
	c := mustCoefficients(t, ff, fb)

	x := make([]float64, 500)
	seed := uint32(1)
	for i := range x {
		seed = seed*1664525 + 1013904223
		x[i] = float64(seed)/float64(math.MaxUint32)*2 - 1
	}
	want := directRecurrence(ff, fb, x)

	s := NewState(c)
	got := make([]float64, len(x))
	// Split across calls to exercise history carry-over.
	s.ProcessBlock(got[:128], x[:128])
	s.ProcessBlock(got[128:], x[128:])

	for i := range x {
		if !almostEqual(got[i], want[i], 1e-9) {
			t.Fatalf("sample %d: got %g, want %g", i, got[i], want[i])
		}
	}
}

func TestStateReset(t *testing.T) {
	c := mustCoefficients(t, []float64{1}, []float64{1, -0.5})
	s := NewState(c)

	s.ProcessSample(1)
	s.ProcessSample(0)
	s.Reset()

	if got := s.ProcessSample(0); got != 0 {
		t.Fatalf("after Reset output = %g, want 0", got)
	}
}

func TestFilterProcessBlock(t *testing.T) {
	c := mustCoefficients(t, []float64{0.5}, []float64{1, -0.5})
	f, err := NewFilter(c, 2)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}

	in := buffer.NewBlock(2, 4)
	in.Channel(0)[0] = 1
	in.Channel(1)[1] = 2
	out := buffer.NewBlock(3, 4)
	out.Channel(2)[0] = 7

	f.ProcessBlock(in, out)

	wantL := []float64{0.5, 0.25, 0.125, 0.0625}
	wantR := []float64{0, 1, 0.5, 0.25}
	for i := range 4 {
		if !almostEqual(out.Channel(0)[i], wantL[i], 1e-15) {
			t.Fatalf("L[%d] = %g, want %g", i, out.Channel(0)[i], wantL[i])
		}
		if !almostEqual(out.Channel(1)[i], wantR[i], 1e-15) {
			t.Fatalf("R[%d] = %g, want %g", i, out.Channel(1)[i], wantR[i])
		}
	}
	if out.Channel(2)[0] != 0 {
		t.Fatal("extra output channel not cleared")
	}

	// The next quantum continues the decay.
	in.Zero()
	f.ProcessBlock(in, in)
	if !almostEqual(in.Channel(0)[0], 0.03125, 1e-15) {
		t.Fatalf("carry-over L[0] = %g, want 0.03125", in.Channel(0)[0])
	}

	if f.Channels() != 2 || f.Coefficients() != c {
		t.Fatal("accessors disagree with construction")
	}

	if _, err := NewFilter(c, 0); err == nil {
		t.Fatal("NewFilter(c, 0): expected error")
	}
}

func TestResponseIdentityAtDC(t *testing.T) {
	c := mustCoefficients(t, []float64{1}, []float64{1})

	freqs := []float64{0}
	mag := []float64{-1}
	phase := []float64{-1}
	if err := FrequencyResponse(c, freqs, mag, phase, 48000); err != nil {
		t.Fatalf("FrequencyResponse() error = %v", err)
	}

	if mag[0] != 1 || phase[0] != 0 {
		t.Fatalf("identity at DC: mag=%g phase=%g, want 1 and 0", mag[0], phase[0])
	}
}

func TestResponseMatchesClosedForm(t *testing.T) {
	// One-pole low-pass: H(z) = (1-p) / (1 - p z^-1).
	const p = 0.8
	const sr = 48000.0
	c := mustCoefficients(t, []float64{1 - p}, []float64{1, -p})

	freqs := []float64{0, 100, 1000, 6000, 12000, 24000}
	mag := make([]float64, len(freqs))
	phase := make([]float64, len(freqs))
	if err := FrequencyResponse(c, freqs, mag, phase, sr); err != nil {
		t.Fatal(err)
	}

	for i, f := range freqs {
		w := 2 * math.Pi * f / sr
		want := complex(1-p, 0) / (1 - complex(p, 0)*cmplx.Exp(complex(0, -w)))
		if !almostEqual(mag[i], cmplx.Abs(want), 1e-12) {
			t.Errorf("f=%g: mag = %g, want %g", f, mag[i], cmplx.Abs(want))
		}
		if !almostEqual(phase[i], cmplx.Phase(want), 1e-12) {
			t.Errorf("f=%g: phase = %g, want %g", f, phase[i], cmplx.Phase(want))
		}
		if !almostEqual(c.Phase(f, sr), phase[i], 1e-12) {
			t.Errorf("f=%g: Phase() disagrees", f)
		}
		if !almostEqual(c.MagnitudeDB(f, sr), 20*math.Log10(mag[i]), 1e-9) {
			t.Errorf("f=%g: MagnitudeDB() disagrees", f)
		}
	}
}

func TestResponseOutOfRangeIsNaN(t *testing.T) {
	c := mustCoefficients(t, []float64{1, 1}, []float64{1})

	freqs := []float64{-1, 24000.5, math.NaN(), math.Inf(1), 1000}
	mag := make([]float64, len(freqs))
	phase := make([]float64, len(freqs))
	if err := FrequencyResponse(c, freqs, mag, phase, 48000); err != nil {
		t.Fatal(err)
	}

	for i := range 4 {
		if !math.IsNaN(mag[i]) || !math.IsNaN(phase[i]) {
			t.Errorf("freq %g: mag=%g phase=%g, want NaN", freqs[i], mag[i], phase[i])
		}
	}
	if math.IsNaN(mag[4]) || math.IsNaN(phase[4]) {
		t.Errorf("in-range frequency produced NaN")
	}
}

func TestResponseLengthMismatchWritesNothing(t *testing.T) {
	c := mustCoefficients(t, []float64{1}, []float64{1})

	tests := []struct {
		name              string
		nFreq, nMag, nPha int
	}{
		{"short magnitudes", 3, 2, 3},
		{"short phases", 3, 3, 2},
		{"long magnitudes", 2, 3, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			freqs := make([]float64, tc.nFreq)
			mag := filled(tc.nMag, 42)
			phase := filled(tc.nPha, 42)

			err := FrequencyResponse(c, freqs, mag, phase, 48000)
			if !errors.Is(err, ErrLengthMismatch) {
				t.Fatalf("err = %v, want ErrLengthMismatch", err)
			}
			for i := range mag {
				if mag[i] != 42 {
					t.Fatalf("mag[%d] written", i)
				}
			}
			for i := range phase {
				if phase[i] != 42 {
					t.Fatalf("phase[%d] written", i)
				}
			}
		})
	}
}

func filled(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestStability(t *testing.T) {
	tests := []struct {
		name   string
		fb     []float64
		stable bool
	}{
		{"fir", []float64{1}, true},
		{"one pole inside", []float64{1, -0.9}, true},
		{"one pole outside", []float64{1, -1.1}, false},
		{"scaled resonator", []float64{2, -1.6, 0.98}, true},
		{"unstable pair", []float64{1, 0, 1.2}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := mustCoefficients(t, []float64{1}, tc.fb)
			if got := c.IsStable(); got != tc.stable {
				t.Fatalf("IsStable() = %v, want %v", got, tc.stable)
			}
		})
	}
}
