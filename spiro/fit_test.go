package spiro

import (
	"math"
	"testing"

	"honnef.co/go/curve"
)

func TestHypotrochoidSampleMatchesShape(t *testing.T) {
	h := Hypotrochoid{Shape: Shape{Fixed: 5, Rolling: 3, Offset: 5}}
	for _, tt := range []float64{0, 0.25, 0.5, 1} {
		p, d := h.SamplePtDeriv(tt)
		want := h.Shape.At(tt)
		if p.X != want.X || p.Y != want.Y {
			t.Errorf("SamplePtDeriv(%v) point = %v, want %v", tt, p, want)
		}
		wd := h.Shape.Derivative(tt)
		if d.X != wd.X || d.Y != wd.Y {
			t.Errorf("SamplePtDeriv(%v) deriv = %v, want %v", tt, d, wd)
		}
	}
}

func TestHypotrochoidBreakCusp(t *testing.T) {
	// R=3, r=1, d=1 is a deltoid with cusps every dr = 1/6. The range
	// holds only the one at dr = 1/6.
	h := Hypotrochoid{Shape: Shape{Fixed: 3, Rolling: 1, Offset: 1}}
	c, ok := h.BreakCusp(0.01, 0.25)
	if !ok {
		t.Fatal("BreakCusp() found no cusp, want one")
	}
	if math.Abs(c-1.0/6) > 1e-4 {
		t.Errorf("BreakCusp() = %v, want %v", c, 1.0/6)
	}

	smooth := Hypotrochoid{Shape: Shape{Fixed: 5, Rolling: 3, Offset: 0.5}}
	if _, ok := smooth.BreakCusp(0, 1); ok {
		t.Error("BreakCusp() reported a cusp on a smooth curve")
	}
}

func TestHypotrochoidFits(t *testing.T) {
	h := Hypotrochoid{Shape: Shape{Fixed: 5, Rolling: 3, Offset: 2}}
	path := curve.FitToBezPathOpt(h, 1e-3)
	n := 0
	var last curve.Point
	for el := range path.Flatten(1e-3) {
		n++
		last = el.P0
	}
	if n < 2 {
		t.Fatalf("flattened path has %d elements, want at least 2", n)
	}
	end := h.Shape.At(1)
	if math.Hypot(last.X-end.X, last.Y-end.Y) > 1e-2 {
		t.Errorf("path ends at %v, want near %v", last, end)
	}
}
