//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/mhdeeb/geo-art/geom"
	"github.com/mhdeeb/geo-art/geometry"
)

// Vertex strides in bytes.
const (
	cornerStride  = 8  // vec2 corner
	centerStride  = 12 // vec3 center
	segmentStride = 16 // vec2 position + vec2 uv
	edgeStride    = 24 // vec3 start + vec3 end
)

// quadCorners are two triangles covering [-1, 1]^2; the point fragment
// stage cuts them to the unit disc.
var quadCorners = [...][2]float32{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

// segmentTemplate is one wide-line instance: a body quad between y = 0
// and y = 1 plus a cap quad at each end, as non-indexed triangles.
// Each entry is position then uv.
var segmentTemplate = func() [][4]float32 {
	pos := [8][2]float32{
		{-1, 2}, {1, 2}, {-1, 1}, {1, 1},
		{-1, 0}, {1, 0}, {-1, -1}, {1, -1},
	}
	uv := [8][2]float32{
		{-1, 2}, {1, 2}, {-1, 1}, {1, 1},
		{-1, -1}, {1, -1}, {-1, -2}, {1, -2},
	}
	index := [...]int{0, 2, 1, 2, 3, 1, 2, 4, 3, 4, 5, 3, 4, 6, 5, 6, 7, 5}
	out := make([][4]float32, len(index))
	for i, j := range index {
		out[i] = [4]float32{pos[j][0], pos[j][1], uv[j][0], uv[j][1]}
	}
	return out
}()

var (
	pointBufferLayouts = []gputypes.VertexBufferLayout{
		{
			ArrayStride: cornerStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: centerStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
			},
		},
	}
	lineBufferLayouts = []gputypes.VertexBufferLayout{
		{
			ArrayStride: segmentStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			},
		},
		{
			ArrayStride: edgeStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 2},
				{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 3},
			},
		},
	}
)

func putFloats(buf []byte, vs ...float32) []byte {
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

func putVec3(buf []byte, v geom.Vec3) []byte {
	return putFloats(buf, float32(v.X), float32(v.Y), float32(v.Z))
}

func packCorners() []byte {
	buf := make([]byte, 0, len(quadCorners)*cornerStride)
	for _, c := range quadCorners {
		buf = putFloats(buf, c[0], c[1])
	}
	return buf
}

func packSegmentTemplate() []byte {
	buf := make([]byte, 0, len(segmentTemplate)*segmentStride)
	for _, v := range segmentTemplate {
		buf = putFloats(buf, v[0], v[1], v[2], v[3])
	}
	return buf
}

func packCenters(s geometry.Samples) []byte {
	buf := make([]byte, 0, len(s)*centerStride)
	for _, p := range s {
		buf = putVec3(buf, p)
	}
	return buf
}

func packEdges(edges []geometry.Edge) []byte {
	buf := make([]byte, 0, len(edges)*edgeStride)
	for _, e := range edges {
		buf = putVec3(buf, e.Start)
		buf = putVec3(buf, e.End)
	}
	return buf
}
