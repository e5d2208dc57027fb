// Package spiro evaluates the hypotrochoid traced by a point at distance D
// from the center of a circle of radius r rolling inside a fixed circle of
// radius R.
//
// The curve is parameterized by a normalized dr in [0, 1]; the angle sweeps
// θ = 4π·dr, two full turns of the rolling circle's center:
//
//	x = (R−r)·cos θ + D·cos(((R−r)/r)·θ)
//	y = (R−r)·sin θ − D·sin(((R−r)/r)·θ)
//	z = 0
//
// A rolling radius of zero would divide by zero; it is replaced by [Epsilon]
// before evaluation, so every finite input yields a finite point.
package spiro

import (
	"math"

	"github.com/mhdeeb/geo-art/geom"
)

// Epsilon replaces a zero rolling radius.
const Epsilon = 1e-4

// Sweep is the total angle covered as dr goes from 0 to 1.
const Sweep = 4 * math.Pi

// Shape holds the hypotrochoid parameters (R, r, d).
type Shape struct {
	Fixed   float64 // R
	Rolling float64 // r
	Offset  float64 // d
}

// EffectiveRolling returns the rolling radius actually used by evaluation.
func (s Shape) EffectiveRolling() float64 {
	if s.Rolling == 0 {
		return Epsilon
	}
	return s.Rolling
}

// Ratio returns the angular frequency ratio (R−r)/r of the pen term.
func (s Shape) Ratio() float64 {
	r := s.EffectiveRolling()
	return (s.Fixed - r) / r
}

// At evaluates the curve at dr.
func (s Shape) At(dr float64) geom.Vec3 {
	return Evaluate(dr, s.Fixed, s.Rolling, s.Offset)
}

// Derivative returns d(x, y)/d(dr) at dr.
func (s Shape) Derivative(dr float64) geom.Vec3 {
	r := s.EffectiveRolling()
	k := (s.Fixed - r) / r
	theta := Sweep * dr
	dx := -(s.Fixed-r)*math.Sin(theta) - s.Offset*k*math.Sin(k*theta)
	dy := (s.Fixed-r)*math.Cos(theta) - s.Offset*k*math.Cos(k*theta)
	return geom.V3(dx*Sweep, dy*Sweep, 0)
}

// Evaluate returns the hypotrochoid point at dr for the given radii and pen
// offset. It is pure and never returns NaN or infinities for finite input.
func Evaluate(dr, R, r, d float64) geom.Vec3 {
	if r == 0 {
		r = Epsilon
	}
	theta := Sweep * dr
	k := (R - r) / r
	x := (R-r)*math.Cos(theta) + d*math.Cos(k*theta)
	y := (R-r)*math.Sin(theta) - d*math.Sin(k*theta)
	return geom.V3(x, y, 0)
}
