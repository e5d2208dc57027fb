package preview

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"sync"
	"time"

	"github.com/mhdeeb/geo-art/geometry"
	"github.com/mhdeeb/geo-art/internal/logging"
	"github.com/mhdeeb/geo-art/material"
)

var (
	// ErrNoFrames is returned by WriteGIF before any frame was captured.
	ErrNoFrames = errors.New("preview: no frames recorded")
	// ErrRecorderFull is returned by Capture once the frame limit is hit.
	ErrRecorderFull = errors.New("preview: recorder frame limit reached")
)

// Recorder defaults.
const (
	DefaultMaxFrames = 600
	DefaultGIFWidth  = 480
)

// Scene is what a Recorder draws on each capture.
type Scene struct {
	Geometry *geometry.Buffers
	View     View
}

// SceneFunc returns the current scene.
type SceneFunc func() Scene

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithMaxFrames caps the number of captured frames.
func WithMaxFrames(n int) RecorderOption {
	return func(r *Recorder) {
		if n > 0 {
			r.max = n
		}
	}
}

// WithGIFWidth sets the width frames are scaled to; height keeps the
// aspect ratio.
func WithGIFWidth(w int) RecorderOption {
	return func(r *Recorder) {
		if w > 0 {
			r.width = w
		}
	}
}

// WithFrameDelay sets the delay between GIF frames.
func WithFrameDelay(d time.Duration) RecorderOption {
	return func(r *Recorder) {
		r.delay = max(int(d/(10*time.Millisecond)), 1)
	}
}

// Recorder captures rendered frames for an animated GIF. It implements
// loop.Recorder.
type Recorder struct {
	renderer *Renderer
	scene    SceneFunc
	max      int
	width    int
	delay    int // 1/100 s

	mu     sync.Mutex
	frames []*image.Paletted
}

// NewRecorder returns a Recorder that draws scene() with r on every
// Capture.
func NewRecorder(r *Renderer, scene SceneFunc, opts ...RecorderOption) *Recorder {
	rec := &Recorder{
		renderer: r,
		scene:    scene,
		max:      DefaultMaxFrames,
		width:    DefaultGIFWidth,
		delay:    2,
	}
	for _, opt := range opts {
		opt(rec)
	}
	return rec
}

// Capture renders one frame and appends it.
func (rec *Recorder) Capture(f material.Frame) error {
	rec.mu.Lock()
	full := len(rec.frames) >= rec.max
	rec.mu.Unlock()
	if full {
		return ErrRecorderFull
	}

	s := rec.scene()
	dc, err := rec.renderer.Render(s.Geometry, f, s.View)
	if err != nil {
		return err
	}
	defer dc.Close()

	w := min(rec.width, s.View.Width)
	h := max(s.View.Height*w/s.View.Width, 1)
	frame := paletted(dc.Image(), image.Rect(0, 0, w, h))

	rec.mu.Lock()
	rec.frames = append(rec.frames, frame)
	rec.mu.Unlock()
	return nil
}

// Len returns the number of captured frames.
func (rec *Recorder) Len() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.frames)
}

// Reset drops all captured frames.
func (rec *Recorder) Reset() {
	rec.mu.Lock()
	rec.frames = nil
	rec.mu.Unlock()
}

// WriteGIF encodes the captured frames as a looping animation.
func (rec *Recorder) WriteGIF(w io.Writer) error {
	rec.mu.Lock()
	frames := rec.frames
	rec.mu.Unlock()
	if len(frames) == 0 {
		return ErrNoFrames
	}
	anim := &gif.GIF{
		Image: frames,
		Delay: make([]int, len(frames)),
	}
	for i := range anim.Delay {
		anim.Delay[i] = rec.delay
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("preview: encode gif: %w", err)
	}
	logging.Logger().Info("preview: gif written", "frames", len(frames))
	return nil
}
