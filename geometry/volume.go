package geometry

import (
	"math"

	"github.com/mhdeeb/geo-art/geom"
)

// Volume is the box in (x, y, z, t) used to rescale raw coordinates into
// [0, 1]^4 before color evaluation.
type Volume struct {
	Min    geom.Vec4
	Extent geom.Vec4
}

// DefaultVolume is the initial normalization box for a time limit tLimit:
// x and y in [-1, 1], z flat, t in [0, tLimit].
func DefaultVolume(tLimit float64) Volume {
	return Volume{
		Min:    geom.V4(-1, -1, 0, 0),
		Extent: geom.V4(2, 2, 0, tLimit),
	}
}

// Bounds returns the tight box around s over the time window [tMin, tMax].
func Bounds(s Samples, tMin, tMax float64) Volume {
	if len(s) == 0 {
		return Volume{Min: geom.V4(0, 0, 0, tMin), Extent: geom.V4(0, 0, 0, tMax-tMin)}
	}
	lo := geom.V3(math.Inf(1), math.Inf(1), math.Inf(1))
	hi := geom.V3(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for _, p := range s {
		lo = geom.V3(math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z))
		hi = geom.V3(math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z))
	}
	return Volume{
		Min:    lo.Extend(tMin),
		Extent: hi.Sub(lo).Extend(tMax - tMin),
	}
}

// WithTime returns v with its time axis replaced by [tMin, tMax].
func (v Volume) WithTime(tMin, tMax float64) Volume {
	v.Min.W = tMin
	v.Extent.W = tMax - tMin
	return v
}

// Normalize maps p into the unit box. Axes with zero extent map to 0,
// matching the shaders' safe division.
func (v Volume) Normalize(p geom.Vec4) geom.Vec4 {
	return geom.V4(
		safeDiv(p.X-v.Min.X, v.Extent.X),
		safeDiv(p.Y-v.Min.Y, v.Extent.Y),
		safeDiv(p.Z-v.Min.Z, v.Extent.Z),
		safeDiv(p.W-v.Min.W, v.Extent.W),
	)
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
