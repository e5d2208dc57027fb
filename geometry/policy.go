package geometry

import (
	"math"

	"honnef.co/go/curve"

	"github.com/mhdeeb/geo-art/geom"
	"github.com/mhdeeb/geo-art/spiro"
)

// MaxFitRatio bounds the frequency ratio |(R−r)/r| for which the line path
// is built from an adaptive Bézier fit. Above it (notably when the rolling
// radius falls back to spiro.Epsilon) the pen term oscillates too fast to
// fit and the curve is sampled densely instead.
const MaxFitRatio = 64

// denseFactor is the oversampling used when fitting is skipped.
const denseFactor = 8

// Policy controls how the line path is sampled relative to the point count.
type Policy struct {
	// Interpolate resamples the line path by arc length instead of reusing
	// the point samples.
	Interpolate bool

	// Multiplier scales the point count to get the line sample count.
	Multiplier float64
}

// DefaultPolicy returns interpolation enabled with a 1.5x multiplier.
func DefaultPolicy() Policy {
	return Policy{Interpolate: true, Multiplier: 1.5}
}

// LineCount returns the number of line samples for count points.
func (p Policy) LineCount(count int) int {
	if !p.Interpolate || p.Multiplier <= 1 {
		return count
	}
	return int(math.Ceil(float64(count) * p.Multiplier))
}

// LineSamples builds the samples for the line path. Without interpolation
// it returns points unchanged.
func LineSamples(shape spiro.Shape, points Samples, p Policy) Samples {
	if !p.Interpolate || len(points) < 2 {
		return points
	}
	m := p.LineCount(len(points))
	return ResampleArc(densePath(shape, len(points)), m)
}

// densePath approximates the whole curve with a polyline fine enough to
// resample from.
func densePath(shape spiro.Shape, count int) Samples {
	if math.Abs(shape.Ratio()) > MaxFitRatio {
		return sampleUniform(shape, count*denseFactor)
	}
	scale := math.Abs(shape.Fixed-shape.EffectiveRolling()) + math.Abs(shape.Offset)
	tol := 1e-4 * math.Max(scale, 1)
	path := curve.FitToBezPathOpt(spiro.Hypotrochoid{Shape: shape}, tol)
	var out Samples
	for el := range path.Flatten(tol) {
		switch el.Kind {
		case curve.MoveToKind, curve.LineToKind:
			out = append(out, geom.V3(el.P0.X, el.P0.Y, 0))
		}
	}
	if len(out) < 2 {
		return sampleUniform(shape, count*denseFactor)
	}
	return out
}

// ResampleArc returns m points spaced evenly by arc length along the
// polyline poly, including both ends.
func ResampleArc(poly Samples, m int) Samples {
	if m <= 0 || len(poly) == 0 {
		return nil
	}
	out := make(Samples, m)
	dist := LineDistances(poly)
	total := dist[len(dist)-1]
	if total == 0 || m == 1 || len(poly) == 1 {
		for i := range out {
			out[i] = poly[0]
		}
		if m > 1 {
			out[m-1] = poly[len(poly)-1]
		}
		return out
	}
	seg := 1
	for j := range out {
		target := total * float64(j) / float64(m-1)
		for seg < len(poly)-1 && dist[seg] < target {
			seg++
		}
		a, b := dist[seg-1], dist[seg]
		t := 0.0
		if b > a {
			t = (target - a) / (b - a)
		}
		out[j] = poly[seg-1].Lerp(poly[seg], math.Min(math.Max(t, 0), 1))
	}
	return out
}
