//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
)

// cameraUniformSize is two column-major mat4x4<f32>.
const cameraUniformSize = 128

// Camera defaults: a 45° perspective looking down −z from (0, 0, 20).
const (
	DefaultFOV      = 45
	DefaultDistance = 20
	cameraNear      = 0.1
	cameraFar       = 1000
)

// mat4 is a column-major 4x4 matrix, the WGSL mat4x4<f32> layout.
type mat4 [16]float32

func identity() mat4 {
	return mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// perspective maps view space to WebGPU clip space (depth in [0, 1]).
func perspective(fovDeg, aspect, near, far float32) mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	f := 1 / math32.Tan(fovDeg*math32.Pi/360)
	nf := 1 / (near - far)
	return mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far * nf, -1,
		0, 0, near * far * nf, 0,
	}
}

// translation returns a matrix moving points by (x, y, z).
func translation(x, y, z float32) mat4 {
	m := identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// apply transforms the point (x, y, z, 1).
func (m mat4) apply(x, y, z float32) [4]float32 {
	var out [4]float32
	for r := range 4 {
		out[r] = m[r]*x + m[4+r]*y + m[8+r]*z + m[12+r]
	}
	return out
}

// camera holds the view and projection matrices for an aspect ratio.
type camera struct {
	fov      float32
	distance float32
	aspect   float32
}

func (c camera) view() mat4 { return translation(0, 0, -c.distance) }

func (c camera) projection() mat4 {
	return perspective(c.fov, c.aspect, cameraNear, cameraFar)
}

// pack writes view then projection as the Camera uniform block.
func (c camera) pack() []byte {
	buf := make([]byte, cameraUniformSize)
	v, p := c.view(), c.projection()
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(p[i]))
	}
	return buf
}
