package geoart

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gputypes"

	"github.com/mhdeeb/geo-art/geometry"
	"github.com/mhdeeb/geo-art/internal/logging"
	"github.com/mhdeeb/geo-art/loop"
	"github.com/mhdeeb/geo-art/material"
	"github.com/mhdeeb/geo-art/preview"
	"github.com/mhdeeb/geo-art/settings"
	"github.com/mhdeeb/geo-art/shader"
)

// Optional renderer capabilities. A renderer passed to WithRenderer or
// created by WithDevice is fed through whichever of these it implements.
type (
	swapper interface {
		OnSwap(old, cur *geometry.Buffers)
	}
	visibilitySetter interface {
		SetVisible(points, lines bool)
	}
	backgroundSetter interface {
		SetBackground(c gputypes.Color)
	}
	destroyer interface {
		Destroy()
	}
)

// App is a running sketch: settings, geometry, materials and the loop
// that renders them.
//
// App is safe for concurrent use.
type App struct {
	opts      options
	store     *settings.Store
	builder   *geometry.Builder
	programs  *shader.Cache
	materials *material.Manager
	preview   *preview.Renderer
	recorder  *preview.Recorder
	loop      *loop.Loop
	subs      []settings.Subscription

	mu       sync.Mutex
	renderer loop.Renderer
	width    int
	height   int
	last     image.Image
	closed   bool
}

// New creates an App from the given options. The initial settings are
// validated and both materials must compile.
func New(opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.width <= 0 || o.height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, o.width, o.height)
	}
	if err := o.settings.Validate(); err != nil {
		return nil, fmt.Errorf("geoart: %w", err)
	}
	if o.onError == nil {
		o.onError = func(err error) {
			logging.Logger().Warn("geoart: change not applied", "err", err)
		}
	}

	s := o.settings
	a := &App{
		opts:     o,
		store:    settings.NewStore(s),
		builder:  geometry.NewBuilder(),
		programs: shader.NewCache(o.cacheSize),
		width:    o.width,
		height:   o.height,
	}

	var err error
	a.materials, err = material.NewManager(s.Expressions(shader.Point), s.Expressions(shader.Line),
		material.WithCoverage(o.coverage),
		material.WithTimeLimit(s.TMax),
		material.WithCompiler(a.programs.Compile),
		material.WithFallback(func(kind shader.Kind, err error) {
			o.onError(fmt.Errorf("geoart: %s material: %w", kind, err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("geoart: %w", err)
	}
	a.preview, err = preview.NewRenderer(preview.WithCamera(o.fov, o.distance))
	if err != nil {
		return nil, fmt.Errorf("geoart: %w", err)
	}

	recOpts := []preview.RecorderOption{preview.WithFrameDelay(o.interval)}
	if o.maxFrames > 0 {
		recOpts = append(recOpts, preview.WithMaxFrames(o.maxFrames))
	}
	a.recorder = preview.NewRecorder(a.preview, a.scene, recOpts...)

	if err := a.apply(s); err != nil {
		return nil, fmt.Errorf("geoart: %w", err)
	}
	a.subscribe()

	r := o.renderer
	if r == nil {
		r = softwareRenderer{a}
	}
	a.useRenderer(r)
	for _, fn := range o.setup {
		if err := fn(a); err != nil {
			a.Close()
			return nil, err
		}
	}

	a.loop = loop.New(a.store, a.materials, a.currentRenderer(),
		loop.WithRecorder(a.recorder),
		loop.WithInterval(o.interval),
	)
	logging.Logger().Info("geoart: app created",
		"width", o.width, "height", o.height, "points", s.Points)
	return a, nil
}

// Settings returns the settings store. Changes made through it are
// applied to the geometry and materials before Set returns.
func (a *App) Settings() *settings.Store { return a.store }

// Materials returns the material manager.
func (a *App) Materials() *material.Manager { return a.materials }

// Geometry returns the live geometry generation.
func (a *App) Geometry() *geometry.Buffers { return a.builder.Current() }

// Programs returns the cache of compiled programs.
func (a *App) Programs() *shader.Cache { return a.programs }

// Size returns the viewport size in pixels.
func (a *App) Size() (width, height int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.width, a.height
}

// Resize sets the viewport size and the resolution uniform of both
// materials.
func (a *App) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	a.mu.Lock()
	a.width, a.height = width, height
	a.mu.Unlock()
	a.materials.SetResolution(float64(width), float64(height))
	return nil
}

// Run ticks the render loop until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a.isClosed() {
		return ErrClosed
	}
	return a.loop.Start(ctx)
}

// Tick renders a single frame at wall time now. See loop.Loop.Tick.
func (a *App) Tick(now time.Time) bool {
	return a.loop.Tick(now)
}

// Stats returns the loop counters.
func (a *App) Stats() loop.Stats { return a.loop.Stats() }

// Frame returns the last image drawn by the software renderer, or nil
// when nothing was drawn yet or another renderer is in use.
func (a *App) Frame() image.Image {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// ToggleRecording starts or stops capturing frames for a GIF and reports
// whether recording is now on. Starting drops any earlier recording.
func (a *App) ToggleRecording() bool {
	on := a.loop.ToggleRecording()
	if on {
		a.recorder.Reset()
	}
	return on
}

// Recording reports whether frames are being captured.
func (a *App) Recording() bool { return a.loop.Recording() }

// RecordedFrames returns the number of captured frames.
func (a *App) RecordedFrames() int { return a.recorder.Len() }

// WriteGIF writes the recorded frames as an animated GIF.
func (a *App) WriteGIF(w io.Writer) error {
	return a.recorder.WriteGIF(w)
}

// Render draws the current frame in software. The caller closes the
// returned context.
func (a *App) Render() (*gg.Context, error) {
	sc := a.scene()
	return a.preview.Render(sc.Geometry, a.materials.Snapshot(), sc.View)
}

// Export writes the sketch to w in format ext. "json" writes the settings;
// "gif" writes the recording when one exists and a still frame otherwise;
// other formats render the current frame. An empty ext uses the export_ext
// setting.
func (a *App) Export(w io.Writer, ext string) error {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		ext = a.store.Snapshot().ExportExt
	}
	switch {
	case ext == "json":
		return settings.Save(w, a.store.Snapshot())
	case ext == "gif" && a.recorder.Len() > 0:
		return a.recorder.WriteGIF(w)
	case !preview.Supported(ext):
		return fmt.Errorf("geoart: %w: %q", preview.ErrUnsupportedFormat, ext)
	}
	dc, err := a.Render()
	if err != nil {
		return fmt.Errorf("geoart: export: %w", err)
	}
	defer dc.Close()
	return preview.Encode(w, ext, dc)
}

// ExportFile exports to path and returns the path written. A path without
// an extension gets the export_ext setting appended. Nothing is created
// for an unsupported format.
func (a *App) ExportFile(path string) (string, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		ext = a.store.Snapshot().ExportExt
		path += "." + ext
	}
	if !strings.EqualFold(ext, "json") && !preview.Supported(ext) {
		return "", fmt.Errorf("geoart: %w: %q", preview.ErrUnsupportedFormat, ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("geoart: %w", err)
	}
	if err := a.Export(f, ext); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("geoart: %w", err)
	}
	logging.Logger().Info("geoart: exported", "path", path)
	return path, nil
}

// Close stops following the settings and releases the renderer. It is
// safe to call more than once.
func (a *App) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	r := a.renderer
	subs := a.subs
	a.subs = nil
	a.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
	if d, ok := r.(destroyer); ok {
		d.Destroy()
	}
	return nil
}

func (a *App) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

// useRenderer makes r the loop's renderer and brings it up to date.
func (a *App) useRenderer(r loop.Renderer) {
	if sw, ok := r.(swapper); ok {
		a.builder.OnSwap(sw.OnSwap)
		if cur := a.builder.Current(); cur != nil {
			sw.OnSwap(nil, cur)
		}
	}
	a.mu.Lock()
	a.renderer = r
	a.mu.Unlock()
	a.syncView(a.store.Snapshot())
}

func (a *App) currentRenderer() loop.Renderer {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.renderer
}

// apply pushes every setting to the geometry and materials.
func (a *App) apply(s settings.Settings) error {
	var errs []error
	errs = append(errs, a.materials.SetTimeWindow(s.TMin, s.TMax))
	for _, k := range []shader.Kind{shader.Point, shader.Line} {
		errs = append(errs, a.materials.SetColorType(k, s.ColorTypeOf(k)))
		a.materials.SetSolidColor(k, s.SolidColorOf(k))
	}
	a.materials.SetLineWidth(s.LineWidth)
	a.materials.SetNormalization(s.NormalizeParameters)
	a.materials.SetScale(s.GeometryScale)
	a.materials.SetPointSize(a.opts.pointSize)
	a.materials.SetOpacity(a.opts.opacity)
	a.materials.SetTime(s.Time)
	a.materials.SetResolution(float64(a.opts.width), float64(a.opts.height))
	errs = append(errs, a.rebuild(s))
	return errors.Join(errs...)
}

func (a *App) rebuild(s settings.Settings) error {
	b, err := a.builder.Rebuild(geometry.Request{
		Shape:  s.Shape(),
		Count:  s.Points,
		Policy: s.Policy(),
		TMin:   s.TMin,
		TMax:   s.TMax,
	})
	if errors.Is(err, geometry.ErrStale) {
		return nil
	}
	if err != nil {
		return err
	}
	a.materials.SetVolume(b.Volume)
	return nil
}

// syncView passes visibility and background to renderers that draw them
// themselves.
func (a *App) syncView(s settings.Settings) {
	r := a.currentRenderer()
	if v, ok := r.(visibilitySetter); ok {
		v.SetVisible(s.ShowPoints, s.ShowLines)
	}
	if bs, ok := r.(backgroundSetter); ok {
		c, op := s.BackgroundColor(), s.BackgroundOpacity
		bs.SetBackground(gputypes.Color{R: c.R * op, G: c.G * op, B: c.B * op, A: op})
	}
}

// scene is the software view of the current state.
func (a *App) scene() preview.Scene {
	s := a.store.Snapshot()
	w, h := a.Size()
	v := preview.View{
		Width:             w,
		Height:            h,
		ShowPoints:        s.ShowPoints,
		ShowLines:         s.ShowLines,
		Background:        s.BackgroundColor(),
		BackgroundOpacity: s.BackgroundOpacity,
	}
	b := a.builder.Current()
	if a.opts.caption {
		v.Caption = fmt.Sprintf("R=%g r=%g d=%g", s.Fixed, s.Rolling, s.Offset)
		if b != nil {
			v.Caption += fmt.Sprintf(" length=%.2f", b.Length())
		}
	}
	return preview.Scene{Geometry: b, View: v}
}

// softwareRenderer draws frames with the preview renderer and keeps the
// last image.
type softwareRenderer struct {
	app *App
}

func (r softwareRenderer) Render(f material.Frame) error {
	sc := r.app.scene()
	dc, err := r.app.preview.Render(sc.Geometry, f, sc.View)
	if err != nil {
		return err
	}
	img := dc.Image()
	dc.Close()

	r.app.mu.Lock()
	r.app.last = img
	r.app.mu.Unlock()
	return nil
}
