// Package preview draws the curve on the CPU with gg and exports the
// result.
//
// The preview mirrors the GPU renderer: same camera, same materials,
// colors from the CPU expression evaluator. It backs still-image export,
// GIF recording and headless runs where no GPU is present.
package preview

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/mhdeeb/geo-art/geom"
	"github.com/mhdeeb/geo-art/geometry"
	"github.com/mhdeeb/geo-art/internal/cache"
	"github.com/mhdeeb/geo-art/internal/logging"
	"github.com/mhdeeb/geo-art/material"
	"github.com/mhdeeb/geo-art/shader"
)

// ErrNoProgram is returned when a frame has no program for a visible
// material.
var ErrNoProgram = errors.New("preview: material has no program")

// Camera defaults, shared with the GPU renderer.
const (
	DefaultFOV      = 45.0
	DefaultDistance = 20.0
	DefaultFontSize = 14.0
	cameraNear      = 0.1

	evaluatorCacheSize = 16
)

// View holds the drawing state that does not live in the materials.
type View struct {
	Width, Height     int
	ShowPoints        bool
	ShowLines         bool
	Background        colorful.Color
	BackgroundOpacity float64
	// Caption is drawn in the bottom-left corner when not empty.
	Caption string
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	fov      float64
	distance float64
	fontSize float64
}

// WithCamera sets the vertical field of view in degrees and the eye
// distance.
func WithCamera(fovDeg, distance float64) Option {
	return func(o *options) {
		o.fov = fovDeg
		o.distance = distance
	}
}

// WithFontSize sets the caption size in points.
func WithFontSize(size float64) Option {
	return func(o *options) {
		if size > 0 {
			o.fontSize = size
		}
	}
}

// Renderer draws frames in software. Evaluators are cached per expression
// set, so a renderer is cheap to reuse across frames.
type Renderer struct {
	opts options
	face text.Face

	evals *cache.Cache[shader.Expressions, *shader.Evaluator]
}

// NewRenderer loads the caption font and returns a Renderer.
func NewRenderer(opts ...Option) (*Renderer, error) {
	o := options{fov: DefaultFOV, distance: DefaultDistance, fontSize: DefaultFontSize}
	for _, opt := range opts {
		opt(&o)
	}
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("preview: load font: %w", err)
	}
	return &Renderer{
		opts:  o,
		face:  src.Face(o.fontSize),
		evals: cache.New[shader.Expressions, *shader.Evaluator](evaluatorCacheSize),
	}, nil
}

// Render draws b with the materials of f. The caller closes the returned
// context.
func (r *Renderer) Render(b *geometry.Buffers, f material.Frame, v View) (*gg.Context, error) {
	if v.Width <= 0 || v.Height <= 0 {
		return nil, fmt.Errorf("preview: invalid size %dx%d", v.Width, v.Height)
	}
	dc := gg.NewContext(v.Width, v.Height)
	bg := v.Background
	dc.ClearWithColor(gg.RGBA2(bg.R, bg.G, bg.B, v.BackgroundOpacity))

	if b != nil {
		if v.ShowLines {
			if err := r.drawLines(dc, b.Edges, f.Line, v); err != nil {
				dc.Close()
				return nil, err
			}
		}
		if v.ShowPoints {
			if err := r.drawPoints(dc, b.Points, f.Point, v); err != nil {
				dc.Close()
				return nil, err
			}
		}
	}
	if v.Caption != "" {
		dc.SetFont(r.face)
		fg := captionColor(bg)
		dc.SetRGBA(fg.R, fg.G, fg.B, 0.8)
		dc.DrawString(v.Caption, 8, float64(v.Height)-8)
	}
	return dc, nil
}

func (r *Renderer) drawLines(dc *gg.Context, edges []geometry.Edge, m material.Material, v View) error {
	ev, err := r.evaluator(m)
	if err != nil {
		return err
	}
	u := m.Uniforms
	p := r.projector(v, u.Scale)
	width := u.LineWidth
	if m.Program.Options.WorldUnits {
		width *= p.pixelsPerUnit(0)
	}
	dc.SetLineWidth(math.Max(width, 0.5))
	dc.SetLineCap(gg.LineCapRound)

	for _, e := range edges {
		x0, y0, ok0 := p.project(e.Start)
		x1, y1, ok1 := p.project(e.End)
		if !ok0 || !ok1 {
			continue
		}
		mid := e.Start.Lerp(e.End, 0.5)
		c, a, err := ev.Color(u.ColorType, u.SolidColor, u.SpaceTime(mid, u.Time))
		if err != nil {
			return fmt.Errorf("preview: line color: %w", err)
		}
		a *= u.Opacity
		if a <= 0 {
			continue
		}
		dc.SetRGBA(c.R, c.G, c.B, a)
		dc.MoveTo(x0, y0)
		dc.LineTo(x1, y1)
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("preview: stroke: %w", err)
		}
	}
	return nil
}

func (r *Renderer) drawPoints(dc *gg.Context, pts geometry.Samples, m material.Material, v View) error {
	ev, err := r.evaluator(m)
	if err != nil {
		return err
	}
	u := m.Uniforms
	p := r.projector(v, u.Scale)
	for _, pt := range pts {
		x, y, ok := p.project(pt)
		if !ok {
			continue
		}
		c, a, err := ev.Color(u.ColorType, u.SolidColor, u.SpaceTime(pt, u.Time))
		if err != nil {
			return fmt.Errorf("preview: point color: %w", err)
		}
		if a <= 0 {
			continue
		}
		radius := math.Max(u.PointSize*u.Scale*p.pixelsPerUnit(pt.Z*u.Scale), 0.5)
		dc.SetRGBA(c.R, c.G, c.B, a)
		dc.DrawCircle(x, y, radius)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("preview: fill: %w", err)
		}
	}
	return nil
}

func (r *Renderer) evaluator(m material.Material) (*shader.Evaluator, error) {
	if m.Program == nil {
		return nil, ErrNoProgram
	}
	return r.evals.GetOrCreate(m.Program.Expressions, func() (*shader.Evaluator, error) {
		ev, err := shader.NewEvaluator(m.Program.Expressions)
		if err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		logging.Logger().Debug("preview: evaluator built", "kind", m.Program.Kind.String())
		return ev, nil
	})
}

// projector maps model space to pixels through the perspective camera.
type projector struct {
	cx, cy   float64
	focal    float64 // f·h/2
	scale    float64
	distance float64
}

func (r *Renderer) projector(v View, scale float64) projector {
	f := 1 / math.Tan(r.opts.fov*math.Pi/360)
	return projector{
		cx:       float64(v.Width) / 2,
		cy:       float64(v.Height) / 2,
		focal:    f * float64(v.Height) / 2,
		scale:    scale,
		distance: r.opts.distance,
	}
}

// pixelsPerUnit is the size in pixels of one view-space unit at depth z.
func (p projector) pixelsPerUnit(z float64) float64 {
	d := p.distance - z
	if d <= cameraNear {
		return 0
	}
	return p.focal / d
}

func (p projector) project(v geom.Vec3) (x, y float64, ok bool) {
	k := p.pixelsPerUnit(v.Z * p.scale)
	if k == 0 {
		return 0, 0, false
	}
	return p.cx + v.X*p.scale*k, p.cy - v.Y*p.scale*k, true
}

// captionColor picks black or white for contrast with bg.
func captionColor(bg colorful.Color) colorful.Color {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return colorful.Color{R: 0, G: 0, B: 0}
	}
	return colorful.Color{R: 1, G: 1, B: 1}
}
