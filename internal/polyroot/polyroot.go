// Package polyroot locates the roots of real polynomials, such as the poles
// of a recursive filter's feedback polynomial.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrDegeneratePolynomial is returned for an empty polynomial, a zero leading
// coefficient, or when the iteration fails to converge.
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

const (
	maxIterations = 500
	stepTolerance = 1e-12
	maxResidual   = 1e-6
	newtonSteps   = 3
)

// Roots returns the n complex roots of c[0]*z^n + c[1]*z^(n-1) + ... + c[n].
// Trailing zero coefficients yield exact roots at 0. A constant has no roots.
func Roots(c []float64) ([]complex128, error) {
	if len(c) == 0 || c[0] == 0 {
		return nil, ErrDegeneratePolynomial
	}

	zeros := 0
	for zeros < len(c)-1 && c[len(c)-1-zeros] == 0 {
		zeros++
	}

	p := make([]complex128, len(c)-zeros)
	for i := range p {
		p[i] = complex(c[i]/c[0], 0)
	}

	roots := make([]complex128, 0, len(c)-1)
	if len(p) > 1 {
		found, err := DurandKerner(p)
		if err != nil {
			return nil, err
		}
		roots = append(roots, found...)
	}

	for range zeros {
		roots = append(roots, 0)
	}

	return roots, nil
}

// MaxModulus returns the largest |r| over roots, or 0 for no roots.
func MaxModulus(roots []complex128) float64 {
	var m float64
	for _, r := range roots {
		m = math.Max(m, cmplx.Abs(r))
	}
	return m
}

// DurandKerner finds all roots of the polynomial with descending
// coefficients p by Weierstrass simultaneous iteration, then refines each
// root with a few Newton steps.
func DurandKerner(p []complex128) ([]complex128, error) {
	if len(p) < 2 || p[0] == 0 {
		return nil, ErrDegeneratePolynomial
	}

	monic := make([]complex128, len(p))
	for i, v := range p {
		monic[i] = v / p[0]
	}
	n := len(monic) - 1

	// Start on a circle enclosing every root (Cauchy bound), off the real
	// axis so conjugate pairs can separate.
	bound := 0.0
	for _, v := range monic[1:] {
		bound = math.Max(bound, cmplx.Abs(v))
	}
	bound++

	roots := make([]complex128, n)
	for i := range roots {
		roots[i] = cmplx.Rect(bound, 2*math.Pi*float64(i)/float64(n)+0.4)
	}

	converged := false
	for range maxIterations {
		step := 0.0
		for i, z := range roots {
			den := complex(1, 0)
			for j, w := range roots {
				if j != i {
					den *= z - w
				}
			}
			if den == 0 {
				roots[i] += complex(1e-9, 1e-9)
				step = math.Inf(1)
				continue
			}

			delta := PolyEval(monic, z) / den
			roots[i] = z - delta
			step = math.Max(step, cmplx.Abs(delta))
		}

		if step < stepTolerance {
			converged = true
			break
		}
	}

	deriv := derivative(monic)
	for i, z := range roots {
		for range newtonSteps {
			d := PolyEval(deriv, z)
			if d == 0 {
				break
			}
			z -= PolyEval(monic, z) / d
		}
		roots[i] = z
	}

	if !converged {
		for _, z := range roots {
			if cmplx.Abs(PolyEval(monic, z)) > maxResidual {
				return nil, ErrDegeneratePolynomial
			}
		}
	}

	return roots, nil
}

func derivative(p []complex128) []complex128 {
	n := len(p) - 1
	d := make([]complex128, n)
	for i := range d {
		d[i] = p[i] * complex(float64(n-i), 0)
	}
	return d
}

// PolyEval evaluates the polynomial with descending coefficients p at x.
func PolyEval(p []complex128, x complex128) complex128 {
	var v complex128
	for _, c := range p {
		v = v*x + c
	}
	return v
}
