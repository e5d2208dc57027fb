package spiro

import (
	"math"

	"honnef.co/go/curve"
)

// cuspScan is the number of probes BreakCusp takes across a range.
const cuspScan = 32

// Hypotrochoid adapts a Shape to curve.FittableCurve so the curve fitter can
// approximate it with an adaptive Bézier path. Only the x/y plane is used;
// the hypotrochoid has z = 0 everywhere.
type Hypotrochoid struct {
	Shape Shape
}

var _ curve.FittableCurve = Hypotrochoid{}

// SamplePtTangent evaluates the point and tangent at t. At a cusp the
// derivative vanishes; the tangent is then taken from a short chord on the
// side selected by sign.
func (h Hypotrochoid) SamplePtTangent(t float64, sign float64) curve.CurveFitSample {
	p, d := h.SamplePtDeriv(t)
	if d.Hypot2() < 1e-18 {
		const step = 1e-7
		q := h.Shape.At(t + math.Copysign(step, sign))
		d = curve.Vec(q.X-p.X, q.Y-p.Y)
		if sign < 0 {
			d = d.Mul(-1)
		}
	}
	return curve.CurveFitSample{Point: p, Tangent: d}
}

// SamplePtDeriv evaluates the point and the analytic derivative at t.
func (h Hypotrochoid) SamplePtDeriv(t float64) (curve.Point, curve.Vec2) {
	p := h.Shape.At(t)
	d := h.Shape.Derivative(t)
	return curve.Pt(p.X, p.Y), curve.Vec(d.X, d.Y)
}

// BreakCusp reports an interior parameter where the speed of the pen drops
// to (nearly) zero. Endpoints are never reported.
func (h Hypotrochoid) BreakCusp(start, end float64) (float64, bool) {
	if end-start < 1e-9 {
		return 0, false
	}
	scale := math.Abs(h.Shape.Fixed-h.Shape.EffectiveRolling()) + math.Abs(h.Shape.Offset*h.Shape.Ratio())
	if scale == 0 {
		return 0, false
	}
	threshold := 1e-3 * scale * Sweep
	speed := func(t float64) float64 { return h.Shape.Derivative(t).Len() }

	best, bestSpeed := 0.0, math.Inf(1)
	step := (end - start) / cuspScan
	for i := 1; i < cuspScan; i++ {
		t := start + float64(i)*step
		if s := speed(t); s < bestSpeed {
			best, bestSpeed = t, s
		}
	}

	// Golden-section refinement around the coarse minimum.
	lo, hi := math.Max(start, best-step), math.Min(end, best+step)
	const phi = 0.6180339887498949
	for i := 0; i < 60; i++ {
		a := hi - phi*(hi-lo)
		b := lo + phi*(hi-lo)
		if speed(a) < speed(b) {
			hi = b
		} else {
			lo = a
		}
	}
	best = 0.5 * (lo + hi)
	if best-start < 1e-9 || end-best < 1e-9 {
		return 0, false
	}
	if speed(best) > threshold {
		return 0, false
	}
	return best, true
}
