package resample

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// designLowpass returns an nTaps Kaiser-windowed sinc low-pass with cutoff fc
// in cycles per sample (0 < fc < 0.5), scaled so the taps sum to gain.
func designLowpass(nTaps int, fc, beta, gain float64) ([]float64, error) {
	if nTaps <= 0 {
		return nil, fmt.Errorf("resample: filter length %d", nTaps)
	}

	if !(fc > 0 && fc < 0.5) {
		return nil, fmt.Errorf("resample: cutoff %.6f outside (0, 0.5)", fc)
	}

	taps := make([]float64, nTaps)
	win := make([]float64, nTaps)

	mid := 0.5 * float64(nTaps-1)
	norm := besselI0(beta)
	for n := range taps {
		t := float64(n) - mid
		taps[n] = 2 * fc * sinc(2*fc*t)

		if nTaps == 1 {
			win[n] = 1
			continue
		}
		r := t / mid
		win[n] = besselI0(beta*math.Sqrt(math.Max(0, 1-r*r))) / norm
	}

	vecmath.MulBlockInPlace(taps, win)

	var sum float64
	for _, v := range taps {
		sum += v
	}

	if sum == 0 {
		return nil, fmt.Errorf("resample: filter with cutoff %.6f has zero DC gain", fc)
	}

	scale := gain / sum
	for i := range taps {
		taps[i] *= scale
	}

	return taps, nil
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// besselI0 evaluates the modified Bessel function of the first kind, order 0,
// by its power series sum((x/2)^2k / (k!)^2).
func besselI0(x float64) float64 {
	q := x * x / 4
	sum, term := 1.0, 1.0
	for k := 1.0; k < 100; k++ {
		term *= q / (k * k)
		sum += term
		if term <= sum*1e-17 {
			break
		}
	}
	return sum
}

// rationalApprox returns the best fraction num/den for v with den <= maxDen,
// walking the continued-fraction convergents of v.
func rationalApprox(v float64, maxDen int) (num, den int) {
	if !(v > 0) || math.IsInf(v, 0) {
		return 1, 1
	}

	// h/k are the current convergent, hPrev/kPrev the one before.
	h, k := math.Floor(v), 1.0
	hPrev, kPrev := 1.0, 0.0

	rest := v - h
	for rest > 1e-12 {
		x := 1 / rest
		a := math.Floor(x)
		rest = x - a

		hNext, kNext := a*h+hPrev, a*k+kPrev
		if kNext > float64(maxDen) {
			break
		}
		h, hPrev = hNext, h
		k, kPrev = kNext, k
	}

	num, den = int(math.Round(h)), int(math.Round(k))
	if num <= 0 || den <= 0 {
		return 1, 1
	}

	g := gcd(num, den)
	return num / g, den / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
