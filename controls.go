package geoart

import (
	"github.com/gogpu/gpucontext"

	"github.com/mhdeeb/geo-art/internal/logging"
)

// Attach connects the App to a window's input events:
//
//   - Space pauses or resumes the animation
//   - R stops the animation and rewinds it to t_max at unit speed
//   - T starts or stops recording frames
//
// Resizes update the viewport.
func (a *App) Attach(events gpucontext.EventSource) {
	events.OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		a.HandleKey(key)
	})
	events.OnResize(func(width, height int) {
		if err := a.Resize(width, height); err != nil {
			a.opts.onError(err)
		}
	})
}

// HandleKey runs the action bound to key and reports whether there was
// one.
func (a *App) HandleKey(key gpucontext.Key) bool {
	switch key {
	case gpucontext.KeySpace:
		on := a.store.ToggleAnimate()
		logging.Logger().Debug("geoart: animate", "on", on)
	case gpucontext.KeyR:
		a.store.Reset()
	case gpucontext.KeyT:
		a.ToggleRecording()
	default:
		return false
	}
	return true
}
