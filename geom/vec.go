// Package geom holds the small vector types shared by the curve evaluator,
// the geometry builder and the materials.
package geom

import "math"

// Vec3 is a point or direction in model space.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for Vec3{x, y, z}.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3       { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3       { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3  { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64    { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Len() float64          { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Dist(o Vec3) float64   { return v.Sub(o).Len() }
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t, v.Z + (o.Z-v.Z)*t}
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// Vec4 is a space-time coordinate (x, y, z, t).
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 is shorthand for Vec4{x, y, z, w}.
func V4(x, y, z, w float64) Vec4 { return Vec4{X: x, Y: y, Z: z, W: w} }

// Extend returns v with w appended.
func (v Vec3) Extend(w float64) Vec4 { return Vec4{v.X, v.Y, v.Z, w} }

// Array returns the components in x, y, z, w order.
func (v Vec4) Array() [4]float64 { return [4]float64{v.X, v.Y, v.Z, v.W} }

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
