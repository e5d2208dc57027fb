//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/mhdeeb/geo-art/shader"
)

// materialPipeline is the render pipeline built from one compiled program.
// It is rebuilt whenever the material manager binds a new program.
type materialPipeline struct {
	program  *shader.Program
	module   hal.ShaderModule
	layout   hal.PipelineLayout
	pipeline hal.RenderPipeline
}

// createBindLayout creates the group(0) layout shared by both materials:
// binding 0 is the Material block, binding 1 the Camera block.
func createBindLayout(device hal.Device) (hal.BindGroupLayout, error) {
	layout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "geoart_material_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}
	return layout, nil
}

// createPipeline compiles p's WGSL on the device and builds its render
// pipeline with premultiplied alpha blending.
func createPipeline(device hal.Device, bindLayout hal.BindGroupLayout, p *shader.Program, samples uint32) (*materialPipeline, error) {
	kind := p.Kind.String()
	mp := &materialPipeline{program: p}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "geoart_" + kind + "_shader",
		Source: hal.ShaderSource{WGSL: p.Source},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s shader module: %w", kind, err)
	}
	mp.module = module

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "geoart_" + kind + "_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		mp.destroy(device)
		return nil, fmt.Errorf("create %s pipeline layout: %w", kind, err)
	}
	mp.layout = layout

	buffers := pointBufferLayouts
	if p.Kind == shader.Line {
		buffers = lineBufferLayouts
	}
	if samples == 0 {
		samples = 1
	}
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "geoart_" + kind + "_pipeline",
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    gputypes.TextureFormatBGRA8Unorm,
				Blend:     &premulBlend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: samples,
			Mask:  0xFFFFFFFF,
			// Alpha to coverage needs a multisampled target.
			AlphaToCoverageEnabled: p.Kind == shader.Line && p.Options.AlphaToCoverage && samples > 1,
		},
	})
	if err != nil {
		mp.destroy(device)
		return nil, fmt.Errorf("create %s render pipeline: %w", kind, err)
	}
	mp.pipeline = pipeline
	return mp, nil
}

// destroy releases the pipeline resources in reverse creation order.
func (mp *materialPipeline) destroy(device hal.Device) {
	if mp == nil {
		return
	}
	if mp.pipeline != nil {
		device.DestroyRenderPipeline(mp.pipeline)
		mp.pipeline = nil
	}
	if mp.layout != nil {
		device.DestroyPipelineLayout(mp.layout)
		mp.layout = nil
	}
	if mp.module != nil {
		device.DestroyShaderModule(mp.module)
		mp.module = nil
	}
}
