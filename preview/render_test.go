package preview

import (
	"errors"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mhdeeb/geo-art/geom"
	"github.com/mhdeeb/geo-art/geometry"
	"github.com/mhdeeb/geo-art/material"
	"github.com/mhdeeb/geo-art/shader"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func solidFrame(line, point shader.Expressions) material.Frame {
	u := material.DefaultUniforms(60)
	u.Scale = 1
	u.LineWidth = 4
	u.PointSize = 1
	return material.Frame{
		Seq:   1,
		Point: material.Material{Program: &shader.Program{Kind: shader.Point, Expressions: point}, Uniforms: u},
		Line:  material.Material{Program: &shader.Program{Kind: shader.Line, Expressions: line}, Uniforms: u},
	}
}

var (
	red   = shader.Expressions{C1: "1.0", C2: "0.0", C3: "0.0", Alpha: "1.0"}
	green = shader.Expressions{C1: "0.0", C2: "1.0", C3: "0.0", Alpha: "1.0"}
)

func testView() View {
	return View{
		Width:             100,
		Height:            100,
		ShowLines:         true,
		Background:        colorful.Color{R: 0, G: 0, B: 0},
		BackgroundOpacity: 1,
	}
}

func horizontal() *geometry.Buffers {
	s := geometry.Samples{geom.V3(-1, 0, 0), geom.V3(1, 0, 0)}
	return &geometry.Buffers{Points: geometry.Samples{geom.V3(0, 0, 0)}, Lines: s, Edges: geometry.BuildEdges(s)}
}

func rgba8(c color.Color) (r, g, b, a uint8) {
	r32, g32, b32, a32 := c.RGBA()
	return uint8(r32 >> 8), uint8(g32 >> 8), uint8(b32 >> 8), uint8(a32 >> 8)
}

func TestRenderLines(t *testing.T) {
	r := newTestRenderer(t)
	dc, err := r.Render(horizontal(), solidFrame(red, green), testView())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	defer dc.Close()

	img := dc.Image()
	if cr, cg, _, _ := rgba8(img.At(50, 50)); cr < 200 || cg > 50 {
		t.Errorf("center = (%d, %d), want red", cr, cg)
	}
	if cr, cg, cb, _ := rgba8(img.At(50, 10)); cr > 10 || cg > 10 || cb > 10 {
		t.Errorf("background = (%d, %d, %d), want black", cr, cg, cb)
	}
}

func TestRenderPoints(t *testing.T) {
	r := newTestRenderer(t)
	v := testView()
	v.ShowLines = false
	v.ShowPoints = true
	dc, err := r.Render(horizontal(), solidFrame(red, green), v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	defer dc.Close()

	if cr, cg, _, _ := rgba8(dc.Image().At(50, 50)); cg < 200 || cr > 50 {
		t.Errorf("center = (%d, %d), want green", cr, cg)
	}
}

func TestRenderHidden(t *testing.T) {
	r := newTestRenderer(t)
	v := testView()
	v.ShowLines = false
	v.Background = colorful.Color{R: 0, G: 0, B: 1}
	dc, err := r.Render(horizontal(), solidFrame(red, green), v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	defer dc.Close()

	if cr, _, cb, _ := rgba8(dc.Image().At(50, 50)); cr > 10 || cb < 245 {
		t.Errorf("center = (%d, _, %d), want background blue", cr, cb)
	}
}

func TestRenderCaption(t *testing.T) {
	r := newTestRenderer(t)
	v := testView()
	v.ShowLines = false
	v.Caption = "R=1 r=0 d=13"
	dc, err := r.Render(nil, solidFrame(red, green), v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	defer dc.Close()

	img := dc.Image()
	lit := false
	for y := 80; y < 100 && !lit; y++ {
		for x := 0; x < 100; x++ {
			if cr, _, _, _ := rgba8(img.At(x, y)); cr > 100 {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Error("caption not drawn")
	}
}

func TestRenderErrors(t *testing.T) {
	r := newTestRenderer(t)

	v := testView()
	v.Width = 0
	if _, err := r.Render(horizontal(), solidFrame(red, green), v); err == nil {
		t.Error("Render() with zero width: want error")
	}

	f := solidFrame(red, green)
	f.Line.Program = nil
	if _, err := r.Render(horizontal(), f, testView()); !errors.Is(err, ErrNoProgram) {
		t.Errorf("Render() error = %v, want %v", err, ErrNoProgram)
	}
}

func TestEvaluatorCache(t *testing.T) {
	r := newTestRenderer(t)
	m := solidFrame(red, green).Line
	a, err := r.evaluator(m)
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	b, _ := r.evaluator(m)
	if a != b {
		t.Error("evaluator rebuilt for the same expressions")
	}
}

func TestCaptionColor(t *testing.T) {
	if got := captionColor(colorful.Color{R: 1, G: 1, B: 1}); got.R != 0 {
		t.Errorf("captionColor(white) = %v, want black", got)
	}
	if got := captionColor(colorful.Color{}); got.R != 1 {
		t.Errorf("captionColor(black) = %v, want white", got)
	}
}
