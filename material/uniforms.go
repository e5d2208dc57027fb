package material

import (
	"encoding/binary"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mhdeeb/geo-art/geom"
	"github.com/mhdeeb/geo-art/shader"
)

// UniformSize is the size in bytes of the packed Material uniform block.
const UniformSize = 96

// Default uniform values.
const (
	DefaultLineWidth  = 0.002
	DefaultPointSize  = 0.05
	DefaultOpacity    = 1.0
	DefaultScale      = 0.4
	DefaultResolution = 1024
)

// Uniforms is the CPU copy of one material's uniform block.
type Uniforms struct {
	MinPoint   geom.Vec4
	Volume     geom.Vec4
	SolidColor colorful.Color
	Resolution [2]float64
	Time       float64
	MinTime    float64
	MaxTime    float64
	LineWidth  float64
	Opacity    float64
	ColorType  shader.ColorType
	Normalize  bool
	Scale      float64
	PointSize  float64
}

// DefaultUniforms returns the uniforms of a fresh material for a time limit
// tLimit.
func DefaultUniforms(tLimit float64) Uniforms {
	return Uniforms{
		MinPoint:   geom.V4(-1, -1, 0, 0),
		Volume:     geom.V4(2, 2, 0, tLimit),
		SolidColor: colorful.Color{R: 1, G: 1, B: 1},
		Resolution: [2]float64{DefaultResolution, DefaultResolution},
		Time:       tLimit,
		MinTime:    0,
		MaxTime:    tLimit,
		LineWidth:  DefaultLineWidth,
		Opacity:    DefaultOpacity,
		ColorType:  shader.RGB,
		Normalize:  true,
		Scale:      DefaultScale,
		PointSize:  DefaultPointSize,
	}
}

// SpaceTime returns the color-domain coordinates of pos at time t, the
// same mapping the shaders apply.
func (u Uniforms) SpaceTime(pos geom.Vec3, t float64) geom.Vec4 {
	raw := pos.Extend(t)
	if !u.Normalize {
		return raw
	}
	return geom.V4(
		safeDiv(raw.X-u.MinPoint.X, u.Volume.X),
		safeDiv(raw.Y-u.MinPoint.Y, u.Volume.Y),
		safeDiv(raw.Z-u.MinPoint.Z, u.Volume.Z),
		safeDiv(raw.W-u.MinPoint.W, u.Volume.W),
	)
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Pack encodes u in the WGSL uniform layout of the material shaders.
func (u Uniforms) Pack() []byte {
	buf := make([]byte, UniformSize)
	put := func(off int, v float64) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v)))
	}
	put4 := func(off int, v geom.Vec4) {
		for i, c := range v.Array() {
			put(off+4*i, c)
		}
	}

	put4(0, u.MinPoint)
	put4(16, u.Volume)
	put4(32, geom.V4(u.SolidColor.R, u.SolidColor.G, u.SolidColor.B, 1))
	put(48, u.Resolution[0])
	put(52, u.Resolution[1])
	put(56, u.Time)
	put(60, u.MinTime)
	put(64, u.MaxTime)
	put(68, u.LineWidth)
	put(72, u.Opacity)
	binary.LittleEndian.PutUint32(buf[76:], uint32(int32(u.ColorType)))
	if u.Normalize {
		binary.LittleEndian.PutUint32(buf[80:], 1)
	}
	put(84, u.Scale)
	put(88, u.PointSize)
	return buf
}
