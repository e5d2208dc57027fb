// Package material owns the compiled point and line shaders and their
// uniforms.
//
// A Manager keeps the two materials consistent: a failed recompile leaves
// the previous program bound, and every change is published as a new
// Frame so renderers never see half of an update.
package material

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mhdeeb/geo-art/geometry"
	"github.com/mhdeeb/geo-art/internal/logging"
	"github.com/mhdeeb/geo-art/shader"
)

// ErrInvalidWindow is returned when a time window has min > max.
var ErrInvalidWindow = errors.New("material: time window min exceeds max")

// Material is one compiled program and its uniforms.
type Material struct {
	Program  *shader.Program
	Uniforms Uniforms
}

// Frame is a consistent view of both materials.
type Frame struct {
	// Seq increases by one with every published change.
	Seq   uint64
	Point Material
	Line  Material
}

// Material returns the material of kind k.
func (f Frame) Material(k shader.Kind) Material {
	if k == shader.Line {
		return f.Line
	}
	return f.Point
}

// CompileFunc compiles an expression set. It is shader.Compile unless
// replaced with WithCompiler.
type CompileFunc func(shader.Kind, shader.Expressions, shader.CoverageOptions) (*shader.Program, error)

// Option configures a Manager.
type Option func(*options)

type options struct {
	coverage shader.CoverageOptions
	tLimit   float64
	compile  CompileFunc
	fallback func(shader.Kind, error)
}

func defaultOptions() options {
	return options{
		tLimit:  60,
		compile: shader.Compile,
	}
}

// WithCoverage sets the line coverage mode.
func WithCoverage(c shader.CoverageOptions) Option {
	return func(o *options) {
		o.coverage = c
	}
}

// WithTimeLimit sets the initial time window to [0, limit].
func WithTimeLimit(limit float64) Option {
	return func(o *options) {
		o.tLimit = limit
	}
}

// WithCompiler replaces the shader compiler.
func WithCompiler(fn CompileFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.compile = fn
		}
	}
}

// WithFallback makes NewManager bind the default expressions of a kind
// whose initial expressions do not compile. fn receives the compile error.
func WithFallback(fn func(shader.Kind, error)) Option {
	return func(o *options) {
		o.fallback = fn
	}
}

// Manager owns the point and line materials.
type Manager struct {
	mu       sync.RWMutex
	frame    Frame
	exprs    [2]shader.Expressions
	coverage shader.CoverageOptions
	compile  CompileFunc

	// compileMu serializes compiles so a slow one cannot overwrite a
	// newer program.
	compileMu sync.Mutex
}

// NewManager compiles both materials. It fails if either initial
// expression set does not compile, unless WithFallback is given.
func NewManager(point, line shader.Expressions, opts ...Option) (*Manager, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m := &Manager{coverage: o.coverage, compile: o.compile}

	pp, point, err := m.initial(shader.Point, point, o)
	if err != nil {
		return nil, fmt.Errorf("material: point: %w", err)
	}
	lp, line, err := m.initial(shader.Line, line, o)
	if err != nil {
		return nil, fmt.Errorf("material: line: %w", err)
	}
	m.exprs = [2]shader.Expressions{point, line}
	m.frame = Frame{
		Seq:   1,
		Point: Material{Program: pp, Uniforms: DefaultUniforms(o.tLimit)},
		Line:  Material{Program: lp, Uniforms: DefaultUniforms(o.tLimit)},
	}
	return m, nil
}

func (m *Manager) initial(kind shader.Kind, exprs shader.Expressions, o options) (*shader.Program, shader.Expressions, error) {
	p, err := m.compile(kind, exprs, o.coverage)
	if err == nil || o.fallback == nil {
		return p, exprs, err
	}
	defaults := shader.DefaultPoint()
	if kind == shader.Line {
		defaults = shader.DefaultLine()
	}
	p, derr := m.compile(kind, defaults, o.coverage)
	if derr != nil {
		return nil, exprs, err
	}
	logging.Logger().Warn("material: using default expressions", "kind", kind.String(), "err", err)
	o.fallback(kind, err)
	return p, defaults, nil
}

// Snapshot returns the current frame.
func (m *Manager) Snapshot() Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frame
}

// Expressions returns the expressions currently bound to kind.
func (m *Manager) Expressions(kind shader.Kind) shader.Expressions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exprs[kindIndex(kind)]
}

// Recompile compiles exprs for kind and binds the result. On failure the
// previous program stays bound and the error, a *shader.ExprError, is
// returned. Uniforms are never touched.
func (m *Manager) Recompile(kind shader.Kind, exprs shader.Expressions) error {
	m.compileMu.Lock()
	defer m.compileMu.Unlock()

	m.mu.RLock()
	coverage := m.coverage
	m.mu.RUnlock()

	p, err := m.compile(kind, exprs, coverage)
	if err != nil {
		var ee *shader.ExprError
		if errors.As(err, &ee) {
			logging.Logger().Warn("material: expression rejected",
				"kind", kind.String(),
				"channel", ee.Channel.String(),
				"expr", ee.Expr,
				"err", ee.Err,
			)
		} else {
			logging.Logger().Warn("material: compile failed", "kind", kind.String(), "err", err)
		}
		return err
	}

	m.update(func(f *Frame) {
		mat := materialOf(f, kind)
		mat.Program = p
		m.exprs[kindIndex(kind)] = exprs
	})
	logging.Logger().Debug("material: recompiled", "kind", kind.String())
	return nil
}

// SetChannel recompiles kind with a single channel replaced.
func (m *Manager) SetChannel(kind shader.Kind, c shader.Channel, expr string) error {
	return m.Recompile(kind, m.Expressions(kind).With(c, expr))
}

// SetCoverage changes the line coverage mode and recompiles the line
// material with its current expressions.
func (m *Manager) SetCoverage(c shader.CoverageOptions) error {
	m.compileMu.Lock()
	defer m.compileMu.Unlock()

	exprs := m.Expressions(shader.Line)
	p, err := m.compile(shader.Line, exprs, c)
	if err != nil {
		return err
	}
	m.update(func(f *Frame) {
		m.coverage = c
		f.Line.Program = p
	})
	return nil
}

// SetTimeWindow sets [min, max] on both materials in one update.
func (m *Manager) SetTimeWindow(lo, hi float64) error {
	if lo > hi {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidWindow, lo, hi)
	}
	m.update(func(f *Frame) {
		for _, u := range f.uniforms() {
			u.MinTime = lo
			u.MaxTime = hi
			u.MinPoint.W = lo
			u.Volume.W = hi - lo
		}
	})
	return nil
}

// SetColorType sets the color type of kind.
func (m *Manager) SetColorType(kind shader.Kind, t shader.ColorType) error {
	if !t.Valid() {
		return fmt.Errorf("material: %w: %d", shader.ErrInvalidColorType, t)
	}
	m.update(func(f *Frame) {
		materialOf(f, kind).Uniforms.ColorType = t
	})
	return nil
}

// SetNormalization toggles space-time normalization on both materials.
func (m *Manager) SetNormalization(on bool) {
	m.update(func(f *Frame) {
		for _, u := range f.uniforms() {
			u.Normalize = on
		}
	})
}

// SetSolidColor sets the solid color of kind.
func (m *Manager) SetSolidColor(kind shader.Kind, c colorful.Color) {
	m.update(func(f *Frame) {
		materialOf(f, kind).Uniforms.SolidColor = c
	})
}

// SetLineWidth sets the line material width. Screen-space widths are in
// units of the viewport height, world-unit widths in model units.
func (m *Manager) SetLineWidth(w float64) {
	m.update(func(f *Frame) {
		f.Line.Uniforms.LineWidth = w
	})
}

// SetResolution sets the viewport size on both materials.
func (m *Manager) SetResolution(w, h float64) {
	m.update(func(f *Frame) {
		for _, u := range f.uniforms() {
			u.Resolution = [2]float64{w, h}
		}
	})
}

// SetTime sets the current time on both materials.
func (m *Manager) SetTime(t float64) {
	m.update(func(f *Frame) {
		for _, u := range f.uniforms() {
			u.Time = t
		}
	})
}

// SetVolume sets the spatial normalization box on both materials. The
// time axis stays as set by SetTimeWindow.
func (m *Manager) SetVolume(v geometry.Volume) {
	m.update(func(f *Frame) {
		for _, u := range f.uniforms() {
			u.MinPoint.X, u.MinPoint.Y, u.MinPoint.Z = v.Min.X, v.Min.Y, v.Min.Z
			u.Volume.X, u.Volume.Y, u.Volume.Z = v.Extent.X, v.Extent.Y, v.Extent.Z
		}
	})
}

// SetScale sets the model scale on both materials.
func (m *Manager) SetScale(s float64) {
	m.update(func(f *Frame) {
		for _, u := range f.uniforms() {
			u.Scale = s
		}
	})
}

// SetOpacity sets the line opacity.
func (m *Manager) SetOpacity(a float64) {
	m.update(func(f *Frame) {
		f.Line.Uniforms.Opacity = a
	})
}

// SetPointSize sets the point sprite radius in model units.
func (m *Manager) SetPointSize(s float64) {
	m.update(func(f *Frame) {
		f.Point.Uniforms.PointSize = s
	})
}

func (m *Manager) update(fn func(*Frame)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.frame)
	m.frame.Seq++
}

func (f *Frame) uniforms() []*Uniforms {
	return []*Uniforms{&f.Point.Uniforms, &f.Line.Uniforms}
}

func materialOf(f *Frame, kind shader.Kind) *Material {
	if kind == shader.Line {
		return &f.Line
	}
	return &f.Point
}

func kindIndex(kind shader.Kind) int {
	if kind == shader.Line {
		return 1
	}
	return 0
}

// ChannelsVisible reports which expression channels matter for t, in the
// order c1, c2, c3, alpha. Solid colors only use alpha.
func ChannelsVisible(t shader.ColorType) [4]bool {
	if t == shader.Solid {
		return [4]bool{false, false, false, true}
	}
	return [4]bool{true, true, true, true}
}
