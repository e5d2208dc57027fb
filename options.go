package geoart

import (
	"time"

	"github.com/mhdeeb/geo-art/loop"
	"github.com/mhdeeb/geo-art/material"
	"github.com/mhdeeb/geo-art/settings"
	"github.com/mhdeeb/geo-art/shader"
)

// Default viewport size.
const (
	DefaultWidth  = 800
	DefaultHeight = 800
)

// Option configures an App during creation.
//
// Example:
//
//	app, err := geoart.New(
//	    geoart.WithSettings(s),
//	    geoart.WithSize(1920, 1080),
//	)
type Option func(*options)

// options holds optional configuration for App creation.
type options struct {
	settings  settings.Settings
	renderer  loop.Renderer
	coverage  shader.CoverageOptions
	width     int
	height    int
	interval  time.Duration
	fov       float64
	distance  float64
	cacheSize int
	maxFrames int
	caption   bool
	samples   uint32
	pointSize float64
	opacity   float64
	onError   func(error)

	// setup runs at the end of New, after the subscriptions are in place.
	setup []func(*App) error
}

// defaultOptions returns the default App options.
func defaultOptions() options {
	return options{
		settings:  settings.Defaults(),
		width:     DefaultWidth,
		height:    DefaultHeight,
		interval:  loop.DefaultInterval,
		fov:       45,
		distance:  20,
		pointSize: material.DefaultPointSize,
		opacity:   material.DefaultOpacity,
	}
}

// WithSettings sets the initial settings. They are validated by New.
func WithSettings(s settings.Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithRenderer replaces the software renderer the loop draws with.
// A renderer that also implements SetGeometry, OnSwap, SetVisible or
// SetBackground is kept in sync with the settings.
func WithRenderer(r loop.Renderer) Option {
	return func(o *options) {
		o.renderer = r
	}
}

// WithCoverage sets the line coverage mode.
func WithCoverage(c shader.CoverageOptions) Option {
	return func(o *options) {
		o.coverage = c
	}
}

// WithSize sets the initial viewport size in pixels.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithInterval sets the frame interval of the render loop.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithCamera sets the vertical field of view in degrees and the camera
// distance from the origin.
func WithCamera(fovDeg, distance float64) Option {
	return func(o *options) {
		o.fov = fovDeg
		o.distance = distance
	}
}

// WithProgramCache sets how many compiled programs are kept for reuse.
func WithProgramCache(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithMaxFrames caps the number of frames a recording keeps.
func WithMaxFrames(n int) Option {
	return func(o *options) {
		o.maxFrames = n
	}
}

// WithCaption draws the curve parameters in the corner of software
// rendered frames.
func WithCaption() Option {
	return func(o *options) {
		o.caption = true
	}
}

// WithPointSize sets the point radius in model units.
func WithPointSize(size float64) Option {
	return func(o *options) {
		if size > 0 {
			o.pointSize = size
		}
	}
}

// WithLineOpacity scales the alpha of every line fragment. Values are
// clamped to [0, 1].
func WithLineOpacity(a float64) Option {
	return func(o *options) {
		o.opacity = min(max(a, 0), 1)
	}
}

// WithErrorHandler sets the function called when a settings change cannot
// be applied, such as an expression that fails to compile. The previous
// material stays bound. By default the error is logged.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}
