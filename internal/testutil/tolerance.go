package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// MaxAbsDiff returns the largest |a[i]-b[i]|, or +Inf when the lengths
// differ.
func MaxAbsDiff(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}

	var worst float64
	for i := range a {
		worst = math.Max(worst, math.Abs(a[i]-b[i]))
	}
	return worst
}

// RequireClose fails t at the first sample where got and want differ by more
// than eps, or if their lengths differ.
func RequireClose(t testing.TB, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range got {
		if d := math.Abs(got[i] - want[i]); !(d <= eps) {
			t.Fatalf("sample %d: got %v, want %v (|diff| %g > %g)", i, got[i], want[i], d, eps)
		}
	}
}

// RequireBlockClose checks every channel of b against want.
func RequireBlockClose(t testing.TB, b *buffer.Block, want [][]float64, eps float64) {
	t.Helper()

	if b.Channels() != len(want) {
		t.Fatalf("block has %d channels, want %d", b.Channels(), len(want))
	}
	for c := range want {
		if d := MaxAbsDiff(b.Channel(c), want[c]); !(d <= eps) {
			t.Fatalf("channel %d: max |diff| %g > %g", c, d, eps)
		}
	}
}

// RequireFinite fails t if any sample is NaN or infinite.
func RequireFinite(t testing.TB, x []float64) {
	t.Helper()

	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("sample %d is %v", i, v)
		}
	}
}
