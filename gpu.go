//go:build !nogpu

package geoart

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/mhdeeb/geo-art/internal/gpu"
)

// WithDevice renders through wgpu on the host's device instead of in
// software. The provider must expose its HAL device and queue through
// HalDevice() any and HalQueue() any, as the gogpu window does. Finished
// command buffers are passed to submit; the host owns the queue.
//
// The host sets the surface texture for each frame with SetTarget.
func WithDevice(provider gpucontext.DeviceProvider, submit func(hal.CommandBuffer) error) Option {
	return func(o *options) {
		o.setup = append(o.setup, func(a *App) error {
			r, err := gpu.NewFromProvider(provider,
				gpu.WithSamples(a.opts.samples),
				gpu.WithCamera(float32(a.opts.fov), float32(a.opts.distance)),
				gpu.WithSubmit(submit),
			)
			if err != nil {
				return fmt.Errorf("geoart: %w", err)
			}
			a.useRenderer(r)
			return nil
		})
	}
}

// WithSamples sets the MSAA sample count of the surface passed to
// SetTarget. Alpha to coverage needs more than one sample.
func WithSamples(n uint32) Option {
	return func(o *options) {
		o.samples = n
	}
}

// SetTarget sets the texture view the GPU renderer draws the next frames
// into and resizes the viewport to match. It reports false when the App
// does not render on a GPU.
func (a *App) SetTarget(view hal.TextureView, width, height uint32) bool {
	r, ok := a.currentRenderer().(*gpu.Renderer)
	if !ok {
		return false
	}
	r.SetTarget(view, width, height)
	if err := a.Resize(int(width), int(height)); err != nil {
		a.opts.onError(err)
	}
	return true
}
