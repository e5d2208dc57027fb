//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/mhdeeb/geo-art/geometry"
	"github.com/mhdeeb/geo-art/internal/logging"
	"github.com/mhdeeb/geo-art/material"
	"github.com/mhdeeb/geo-art/shader"
)

var (
	// ErrNoTarget is returned by Encode before SetTarget was called.
	ErrNoTarget = errors.New("gpu: no render target")
	// ErrNoSubmit is returned by Render when no SubmitFunc is configured.
	ErrNoSubmit = errors.New("gpu: no submit function")
	// ErrDestroyed is returned after Destroy.
	ErrDestroyed = errors.New("gpu: renderer destroyed")
)

// SubmitFunc hands a finished command buffer to the queue owner. The
// callee owns the buffer afterwards.
type SubmitFunc func(hal.CommandBuffer) error

// Option configures a Renderer.
type Option func(*options)

type options struct {
	samples  uint32
	fov      float32
	distance float32
	submit   SubmitFunc
}

func defaultOptions() options {
	return options{samples: 1, fov: DefaultFOV, distance: DefaultDistance}
}

// WithSamples sets the MSAA sample count of the target. Alpha to coverage
// is only enabled for counts above one.
func WithSamples(n uint32) Option {
	return func(o *options) {
		if n > 0 {
			o.samples = n
		}
	}
}

// WithCamera sets the vertical field of view in degrees and the eye
// distance from the origin.
func WithCamera(fovDeg, distance float32) Option {
	return func(o *options) {
		o.fov = fovDeg
		o.distance = distance
	}
}

// WithSubmit sets the function Render uses to submit command buffers.
func WithSubmit(fn SubmitFunc) Option {
	return func(o *options) {
		o.submit = fn
	}
}

// Renderer draws the point and line materials over the live geometry into
// a host-provided texture view. It implements loop.Renderer through Render.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	opts   options

	mu         sync.Mutex
	bindLayout hal.BindGroupLayout
	uniforms   [2]hal.Buffer
	cameraBuf  hal.Buffer
	bindGroups [2]hal.BindGroup
	pipelines  [2]*materialPipeline

	// Per-vertex templates, written once.
	corners hal.Buffer
	segment hal.Buffer

	// Per-instance buffers of the current geometry generation.
	instances  [2]hal.Buffer
	counts     [2]uint32
	generation uint64

	cam       camera
	camDirty  bool
	target    hal.TextureView
	width     uint32
	height    uint32
	clear     gputypes.Color
	visible   [2]bool
	lastSeq   uint64
	destroyed bool
}

// NewRenderer creates the buffers and bind groups shared by both materials.
// Pipelines are built on the first Encode from the frame's programs.
func NewRenderer(device hal.Device, queue hal.Queue, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Renderer{
		device:   device,
		queue:    queue,
		opts:     o,
		cam:      camera{fov: o.fov, distance: o.distance, aspect: 1},
		camDirty: true,
		clear:    gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		visible:  [2]bool{true, true},
	}
	if err := r.init(); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) init() error {
	layout, err := createBindLayout(r.device)
	if err != nil {
		return err
	}
	r.bindLayout = layout

	r.cameraBuf, err = r.createBuffer("geoart_camera", cameraUniformSize,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	for i, label := range [2]string{"point", "line"} {
		buf, err := r.createBuffer("geoart_"+label+"_uniforms", material.UniformSize,
			gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		r.uniforms[i] = buf

		bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "geoart_" + label + "_bind",
			Layout: r.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{
					Buffer: buf.NativeHandle(), Offset: 0, Size: material.UniformSize,
				}},
				{Binding: 1, Resource: gputypes.BufferBinding{
					Buffer: r.cameraBuf.NativeHandle(), Offset: 0, Size: cameraUniformSize,
				}},
			},
		})
		if err != nil {
			return fmt.Errorf("create %s bind group: %w", label, err)
		}
		r.bindGroups[i] = bg
	}

	r.corners, err = r.uploadBuffer("geoart_point_corners", packCorners(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	r.segment, err = r.uploadBuffer("geoart_line_segment", packSegmentTemplate(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	return err
}

// SetTarget sets the color attachment for subsequent frames. The view must
// be BGRA8Unorm with the sample count given by WithSamples.
func (r *Renderer) SetTarget(view hal.TextureView, width, height uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = view
	if width != r.width || height != r.height {
		r.width, r.height = width, height
		if height > 0 {
			r.cam.aspect = float32(width) / float32(height)
		}
		r.camDirty = true
	}
}

// SetBackground sets the clear color. Alpha is the background opacity.
func (r *Renderer) SetBackground(c gputypes.Color) {
	r.mu.Lock()
	r.clear = c
	r.mu.Unlock()
}

// SetVisible toggles drawing of the point and line materials.
func (r *Renderer) SetVisible(points, lines bool) {
	r.mu.Lock()
	r.visible = [2]bool{points, lines}
	r.mu.Unlock()
}

// SetGeometry uploads the instance buffers of b and releases those of the
// previous generation. Older generations than the current one are ignored.
func (r *Renderer) SetGeometry(b *geometry.Buffers) error {
	if b == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return ErrDestroyed
	}
	if b.Generation != 0 && b.Generation < r.generation {
		return nil
	}

	data := [2][]byte{packCenters(b.Points), packEdges(b.Edges)}
	counts := [2]uint32{uint32(len(b.Points)), uint32(len(b.Edges))}
	var next [2]hal.Buffer
	for i, label := range [2]string{"geoart_point_instances", "geoart_line_instances"} {
		if len(data[i]) == 0 {
			continue
		}
		buf, err := r.uploadBuffer(label, data[i], gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			for _, nb := range next {
				if nb != nil {
					r.device.DestroyBuffer(nb)
				}
			}
			return err
		}
		next[i] = buf
	}
	for i, old := range r.instances {
		if old != nil {
			r.device.DestroyBuffer(old)
		}
		r.instances[i] = next[i]
	}
	r.counts = counts
	r.generation = b.Generation
	logging.Logger().Debug("gpu: geometry uploaded",
		"generation", b.Generation, "points", counts[0], "edges", counts[1])
	return nil
}

// OnSwap adapts SetGeometry to geometry.Builder.OnSwap.
func (r *Renderer) OnSwap(_, cur *geometry.Buffers) {
	if err := r.SetGeometry(cur); err != nil {
		logging.Logger().Error("gpu: geometry upload failed", "err", err)
	}
}

// Encode records one frame into a new command buffer. Pipelines are
// rebuilt when the frame carries a program the renderer has not seen.
// The caller submits and frees the buffer.
func (r *Renderer) Encode(frame material.Frame) (hal.CommandBuffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed {
		return nil, ErrDestroyed
	}
	if r.target == nil {
		return nil, ErrNoTarget
	}
	if err := r.syncPipelines(frame); err != nil {
		return nil, err
	}
	r.syncUniforms(frame)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "geoart_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("geoart_frame"); err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "geoart_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       r.target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.clear,
		}},
	})
	// Lines first so points sit on top.
	r.recordLines(rp)
	r.recordPoints(rp)
	rp.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	return cmd, nil
}

// Render encodes frame and hands the result to the SubmitFunc.
func (r *Renderer) Render(frame material.Frame) error {
	if r.opts.submit == nil {
		return ErrNoSubmit
	}
	cmd, err := r.Encode(frame)
	if err != nil {
		return err
	}
	if err := r.opts.submit(cmd); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	return nil
}

func (r *Renderer) recordPoints(rp hal.RenderPassEncoder) {
	mp := r.pipelines[0]
	if !r.visible[0] || mp == nil || r.counts[0] == 0 || r.instances[0] == nil {
		return
	}
	rp.SetPipeline(mp.pipeline)
	rp.SetBindGroup(0, r.bindGroups[0], nil)
	rp.SetVertexBuffer(0, r.corners, 0)
	rp.SetVertexBuffer(1, r.instances[0], 0)
	rp.Draw(uint32(len(quadCorners)), r.counts[0], 0, 0)
}

func (r *Renderer) recordLines(rp hal.RenderPassEncoder) {
	mp := r.pipelines[1]
	if !r.visible[1] || mp == nil || r.counts[1] == 0 || r.instances[1] == nil {
		return
	}
	rp.SetPipeline(mp.pipeline)
	rp.SetBindGroup(0, r.bindGroups[1], nil)
	rp.SetVertexBuffer(0, r.segment, 0)
	rp.SetVertexBuffer(1, r.instances[1], 0)
	rp.Draw(uint32(len(segmentTemplate)), r.counts[1], 0, 0)
}

// syncPipelines rebuilds the pipeline of each kind whose program changed.
// A failed rebuild keeps the previous pipeline.
func (r *Renderer) syncPipelines(frame material.Frame) error {
	for i, kind := range [2]shader.Kind{shader.Point, shader.Line} {
		p := frame.Material(kind).Program
		if p == nil {
			continue
		}
		if cur := r.pipelines[i]; cur != nil && cur.program == p {
			continue
		}
		mp, err := createPipeline(r.device, r.bindLayout, p, r.opts.samples)
		if err != nil {
			return err
		}
		r.pipelines[i].destroy(r.device)
		r.pipelines[i] = mp
		logging.Logger().Debug("gpu: pipeline built", "kind", kind.String())
	}
	return nil
}

func (r *Renderer) syncUniforms(frame material.Frame) {
	if r.camDirty {
		r.queue.WriteBuffer(r.cameraBuf, 0, r.cam.pack())
		r.camDirty = false
	}
	if frame.Seq == r.lastSeq && r.lastSeq != 0 {
		return
	}
	r.queue.WriteBuffer(r.uniforms[0], 0, frame.Point.Uniforms.Pack())
	r.queue.WriteBuffer(r.uniforms[1], 0, frame.Line.Uniforms.Pack())
	r.lastSeq = frame.Seq
}

// Destroy releases all GPU resources in reverse creation order. It is safe
// to call more than once.
func (r *Renderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.destroyed = true

	for i := range r.pipelines {
		r.pipelines[i].destroy(r.device)
		r.pipelines[i] = nil
	}
	for i, buf := range r.instances {
		if buf != nil {
			r.device.DestroyBuffer(buf)
			r.instances[i] = nil
		}
	}
	for _, buf := range []*hal.Buffer{&r.segment, &r.corners} {
		if *buf != nil {
			r.device.DestroyBuffer(*buf)
			*buf = nil
		}
	}
	for i := range r.bindGroups {
		if r.bindGroups[i] != nil {
			r.device.DestroyBindGroup(r.bindGroups[i])
			r.bindGroups[i] = nil
		}
		if r.uniforms[i] != nil {
			r.device.DestroyBuffer(r.uniforms[i])
			r.uniforms[i] = nil
		}
	}
	if r.cameraBuf != nil {
		r.device.DestroyBuffer(r.cameraBuf)
		r.cameraBuf = nil
	}
	if r.bindLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
}

func (r *Renderer) createBuffer(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return buf, nil
}

// uploadBuffer creates a GPU buffer and uploads data.
func (r *Renderer) uploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.createBuffer(label, uint64(len(data)), usage)
	if err != nil {
		return nil, err
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
