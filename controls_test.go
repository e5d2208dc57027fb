package geoart

import (
	"testing"

	"github.com/gogpu/gpucontext"

	"github.com/mhdeeb/geo-art/settings"
)

// fakeEvents records the handlers registered through Attach.
type fakeEvents struct {
	gpucontext.NullEventSource
	key    func(gpucontext.Key, gpucontext.Modifiers)
	resize func(width, height int)
}

func (e *fakeEvents) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) { e.key = fn }
func (e *fakeEvents) OnResize(fn func(width, height int))                      { e.resize = fn }

func TestAttach(t *testing.T) {
	a := newTestApp(t)
	ev := &fakeEvents{}
	a.Attach(ev)
	if ev.key == nil || ev.resize == nil {
		t.Fatal("Attach did not register key and resize handlers")
	}

	animate := a.Settings().Snapshot().Animate
	ev.key(gpucontext.KeySpace, 0)
	if got := a.Settings().Snapshot().Animate; got == animate {
		t.Errorf("animate = %v after Space, want %v", got, !animate)
	}

	err := a.Settings().Update(map[string]any{
		settings.KeyAnimate:         true,
		settings.KeyTime:            5.0,
		settings.KeySpeedMultiplier: 2.0,
		settings.KeyOffset:          3.0,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	ev.key(gpucontext.KeyR, 0)
	s := a.Settings().Snapshot()
	if s.Animate || s.Time != s.TMax || s.SpeedMultiplier != 1 {
		t.Errorf("after R animate = %v, time = %v, speed = %v, want false, %v, 1",
			s.Animate, s.Time, s.SpeedMultiplier, s.TMax)
	}
	if s.Offset != 3 {
		t.Errorf("d after R = %v, want 3 (shape untouched)", s.Offset)
	}
	if got := a.Materials().Snapshot().Line.Uniforms.Time; got != s.TMax {
		t.Errorf("material time after R = %v, want %v", got, s.TMax)
	}

	ev.key(gpucontext.KeyT, 0)
	if !a.Recording() {
		t.Error("T did not start recording")
	}

	ev.resize(320, 200)
	if w, h := a.Size(); w != 320 || h != 200 {
		t.Errorf("Size() = %d, %d, want 320, 200", w, h)
	}
}

func TestHandleKeyUnbound(t *testing.T) {
	a := newTestApp(t)
	before := a.Settings().Snapshot()
	if a.HandleKey(gpucontext.KeyA) {
		t.Error("HandleKey(KeyA) = true, want false")
	}
	if a.Settings().Snapshot() != before {
		t.Error("unbound key changed the settings")
	}
}

func TestAttachResizeError(t *testing.T) {
	var got error
	a := newTestApp(t, WithErrorHandler(func(err error) { got = err }))
	ev := &fakeEvents{}
	a.Attach(ev)
	ev.resize(0, 0)
	if got == nil {
		t.Error("zero resize not reported")
	}
}
