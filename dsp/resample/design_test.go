package resample

import (
	"math"
	"testing"
)

func TestDesignLowpass(t *testing.T) {
	taps, err := designLowpass(65, 0.2, 7.5, 3)
	if err != nil {
		t.Fatalf("designLowpass() error = %v", err)
	}

	var sum float64
	for i, v := range taps {
		sum += v
		if math.Abs(v-taps[len(taps)-1-i]) > 1e-15 {
			t.Fatalf("tap %d not symmetric", i)
		}
	}
	if math.Abs(sum-3) > 1e-12 {
		t.Fatalf("sum = %g, want 3", sum)
	}

	for _, fc := range []float64{0, 0.5, -0.1, math.NaN()} {
		if _, err := designLowpass(33, fc, 5, 1); err == nil {
			t.Fatalf("cutoff %g: expected error", fc)
		}
	}
	if _, err := designLowpass(0, 0.2, 5, 1); err == nil {
		t.Fatal("zero length: expected error")
	}
}

func TestBesselI0(t *testing.T) {
	tests := []struct{ x, want float64 }{
		{0, 1},
		{1, 1.2660658777520082},
		{5, 27.239871823604442},
	}
	for _, tt := range tests {
		if got := besselI0(tt.x); math.Abs(got-tt.want) > 1e-12*tt.want {
			t.Fatalf("I0(%g) = %.16g, want %.16g", tt.x, got, tt.want)
		}
	}
}

func TestRationalApprox(t *testing.T) {
	tests := []struct {
		v        float64
		maxDen   int
		num, den int
	}{
		{48000.0 / 44100, 4096, 160, 147},
		{2, 4096, 2, 1},
		{0.5, 4096, 1, 2},
		{math.Pi, 10, 22, 7},
		{math.Pi, 200, 355, 113},
		{0, 100, 1, 1},
		{math.NaN(), 100, 1, 1},
	}
	for _, tt := range tests {
		num, den := rationalApprox(tt.v, tt.maxDen)
		if num != tt.num || den != tt.den {
			t.Fatalf("rationalApprox(%g, %d) = %d/%d, want %d/%d", tt.v, tt.maxDen, num, den, tt.num, tt.den)
		}
	}
}
