// Package loop drives animation: each tick advances time, wraps it into
// the playback window, pushes it to the materials and renders one frame.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mhdeeb/geo-art/internal/logging"
	"github.com/mhdeeb/geo-art/material"
)

// ErrRunning is returned by Start when the loop is already running.
var ErrRunning = errors.New("loop: already running")

// DefaultInterval is the tick period used when none is configured.
const DefaultInterval = time.Second / 60

// Playback is the per-tick view of the animation settings.
type Playback struct {
	Animate bool
	Time    float64
	Speed   float64
	TMin    float64
	TMax    float64
}

// Source supplies playback parameters and stores the advanced time.
type Source interface {
	Playback() Playback
	Advance(t float64)
}

// Materials receives the time and provides the frame to draw.
type Materials interface {
	SetTime(t float64)
	Snapshot() material.Frame
}

// Renderer draws one frame.
type Renderer interface {
	Render(f material.Frame) error
}

// Recorder captures rendered frames while recording is on.
type Recorder interface {
	Capture(f material.Frame) error
}

// State is the lifecycle state of a Loop.
type State int32

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Stats counts ticks.
type Stats struct {
	Frames  uint64
	Skipped uint64
	Errors  uint64
}

// Loop is the render loop.
type Loop struct {
	src       Source
	materials Materials
	renderer  Renderer
	recorder  Recorder
	interval  time.Duration

	state     atomic.Int32
	busy      atomic.Bool
	recording atomic.Bool

	frames  atomic.Uint64
	skipped atomic.Uint64
	errs    atomic.Uint64

	mu   sync.Mutex
	last time.Time
}

// Option configures a Loop.
type Option func(*Loop)

// WithRecorder sets the frame recorder.
func WithRecorder(r Recorder) Option {
	return func(l *Loop) {
		l.recorder = r
	}
}

// WithInterval sets the tick period used by Start.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// New returns an idle loop.
func New(src Source, materials Materials, renderer Renderer, opts ...Option) *Loop {
	l := &Loop{
		src:       src,
		materials: materials,
		renderer:  renderer,
		interval:  DefaultInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current state.
func (l *Loop) State() State { return State(l.state.Load()) }

// Stats returns the tick counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Frames:  l.frames.Load(),
		Skipped: l.skipped.Load(),
		Errors:  l.errs.Load(),
	}
}

// SetRecording turns frame capture on or off.
func (l *Loop) SetRecording(on bool) {
	l.recording.Store(on)
	logging.Logger().Info("loop: recording", "on", on)
}

// ToggleRecording flips recording and returns the new state.
func (l *Loop) ToggleRecording() bool {
	for {
		old := l.recording.Load()
		if l.recording.CompareAndSwap(old, !old) {
			logging.Logger().Info("loop: recording", "on", !old)
			return !old
		}
	}
}

// Recording reports whether frames are being captured.
func (l *Loop) Recording() bool { return l.recording.Load() }

// Start ticks every interval until ctx is done, then returns ctx.Err().
func (l *Loop) Start(ctx context.Context) error {
	if !l.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return ErrRunning
	}
	defer l.state.Store(int32(Idle))

	l.mu.Lock()
	l.last = time.Time{}
	l.mu.Unlock()

	logging.Logger().Info("loop: started", "interval", l.interval)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logging.Logger().Info("loop: stopped", "frames", l.frames.Load(), "skipped", l.skipped.Load())
			return ctx.Err()
		case now := <-ticker.C:
			l.Tick(now)
		}
	}
}

// Tick runs one frame at wall time now. A tick that arrives while another
// is still running is dropped and counted; Tick then returns false.
func (l *Loop) Tick(now time.Time) bool {
	if !l.busy.CompareAndSwap(false, true) {
		l.skipped.Add(1)
		logging.Logger().Debug("loop: tick skipped")
		return false
	}
	defer l.busy.Store(false)

	l.mu.Lock()
	var delta float64
	if !l.last.IsZero() {
		delta = now.Sub(l.last).Seconds()
	}
	l.last = now
	l.mu.Unlock()

	pb := l.src.Playback()
	t := pb.Time
	if pb.Animate {
		t += delta * pb.Speed
	}
	t = Wrap(t, pb.TMin, pb.TMax)
	if t != pb.Time {
		l.src.Advance(t)
	}
	l.materials.SetTime(t)

	frame := l.materials.Snapshot()
	if err := l.renderer.Render(frame); err != nil {
		l.errs.Add(1)
		logging.Logger().Error("loop: render failed", "err", err)
	}
	if l.recorder != nil && l.recording.Load() {
		if err := l.recorder.Capture(frame); err != nil {
			l.errs.Add(1)
			logging.Logger().Error("loop: capture failed", "err", err)
		}
	}
	l.frames.Add(1)
	return true
}
