//go:build !nogpu

// Package gpu draws the point and line materials with gogpu/wgpu HAL.
//
// The Renderer owns one render pipeline per material, rebuilt whenever
// the material manager binds a new program, plus the uniform, camera and
// vertex buffers. Points are instanced quads cut to discs in the fragment
// stage; lines are instanced 18-vertex segments with round caps whose
// coverage is computed by the line template.
//
// Encode records a frame into a command buffer; the host that owns the
// queue submits it. Render adapts this to the render loop through a
// SubmitFunc.
//
// Build with the nogpu tag to leave the package out.
package gpu
