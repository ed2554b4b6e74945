package shaper

import (
	"math"
	"testing"
)

func TestGenerateShapes(t *testing.T) {
	for name, shape := range shapeNames {
		t.Run(name, func(t *testing.T) {
			drive := 2.0
			if shape == ShapeChebyshev {
				drive = 3
			}

			table, err := Generate(shape, 257, drive)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if len(table) != 257 {
				t.Fatalf("len = %d", len(table))
			}

			for i, v := range table {
				if v < -1 || v > 1 || math.IsNaN(v) {
					t.Fatalf("table[%d] = %g out of [-1, 1]", i, v)
				}
			}

			// All shapes are odd functions.
			for i := range table {
				j := len(table) - 1 - i
				if math.Abs(table[i]+table[j]) > 1e-12 {
					t.Fatalf("not odd at %d: %g vs %g", i, table[i], table[j])
				}
			}

			if got, err := ParseShape(shape.String()); err != nil || got != shape {
				t.Fatalf("ParseShape(%q) = %v, %v", shape.String(), got, err)
			}
		})
	}
}

func TestGenerateChebyshevIsPolynomial(t *testing.T) {
	table, err := Generate(ShapeChebyshev, 5, 3)
	if err != nil {
		t.Fatal(err)
	}

	// T3(x) = 4x^3 - 3x at x = -1, -0.5, 0, 0.5, 1.
	want := []float64{-1, 1, 0, -1, 1}
	for i := range want {
		if math.Abs(table[i]-want[i]) > 1e-12 {
			t.Fatalf("table[%d] = %g, want %g", i, table[i], want[i])
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	if _, err := Generate(ShapeTanh, 1, 1); err == nil {
		t.Fatal("n=1: expected error")
	}
	if _, err := Generate(ShapeTanh, 16, 0); err == nil {
		t.Fatal("drive=0: expected error")
	}
	if _, err := Generate(ShapeChebyshev, 16, 40); err == nil {
		t.Fatal("order 40: expected error")
	}
	if _, err := Generate(Shape(99), 16, 1); err == nil {
		t.Fatal("unknown shape: expected error")
	}
	if _, err := ParseShape("fuzz"); err == nil {
		t.Fatal("ParseShape(fuzz): expected error")
	}
}
