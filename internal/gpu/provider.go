//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// halProvider is implemented by hosts that expose their HAL device, such
// as the gogpu application window.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewFromProvider creates a Renderer on a shared device. The provider
// must implement HalDevice() any and HalQueue() any returning hal.Device
// and hal.Queue. The renderer never destroys the shared device.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Renderer, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}
	return NewRenderer(device, queue, opts...)
}
