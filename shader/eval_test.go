package shader

import (
	"errors"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mhdeeb/geo-art/geom"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-4 }

func TestEvaluatorChannel(t *testing.T) {
	tests := []struct {
		name string
		expr string
		p    geom.Vec4
		want float64
	}{
		{"default point hue", "-.05*(x+y)-10.", geom.V4(1, 1, 0, 0), -10.1},
		{"time", "t * 2", geom.V4(0, 0, 0, 1.5), 3},
		{"select", "select(0.25, 0.75, x > y)", geom.V4(2, 1, 0, 0), 0.75},
		{"map", "map(x, 0.0, 10.0, 0.0, 1.0)", geom.V4(5, 0, 0, 0), 0.5},
		{"norm", "norm(z, 2.0, 4.0)", geom.V4(0, 0, 3, 0), 0.5},
		{"length", "length(vec3<f32>(x, y, z))", geom.V4(3, 4, 0, 0), 5},
		{"hsv2rgb", "dot(hsv2rgb(vec3<f32>(0.0, 1.0, 1.0)), vec3<f32>(1.0, 0.0, 0.0))", geom.V4(0, 0, 0, 0), 1},
		{"constant", "PI", geom.V4(0, 0, 0, 0), math.Pi},
		{"clamp", "clamp(x, 0.0, 1.0)", geom.V4(-3, 0, 0, 0), 0},
		{"fract", "fract(x)", geom.V4(2.25, 0, 0, 0), 0.25},
		{"conversion", "f32(i32(x))", geom.V4(2.75, 0, 0, 0), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := NewEvaluator(DefaultLine().With(C1, tt.expr))
			if err != nil {
				t.Fatalf("NewEvaluator() error = %v", err)
			}
			got, err := ev.Channel(C1, tt.p)
			if err != nil {
				t.Fatalf("Channel() error = %v", err)
			}
			if !near(got, tt.want) {
				t.Errorf("Channel(%q, %v) = %v, want %v", tt.expr, tt.p, got, tt.want)
			}
		})
	}
}

func TestEvaluatorNoise(t *testing.T) {
	ev, err := NewEvaluator(DefaultLine().With(C1, "noise(vec2<f32>(x, y))"))
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}
	for _, p := range []geom.Vec4{geom.V4(0.1, 0.2, 0, 0), geom.V4(3.7, -1.2, 0, 0)} {
		a, err := ev.Channel(C1, p)
		if err != nil {
			t.Fatalf("Channel() error = %v", err)
		}
		b, _ := ev.Channel(C1, p)
		if a != b || a < 0 || a > 1 {
			t.Errorf("noise(%v) = %v, %v; want a stable value in [0, 1]", p, a, b)
		}
	}
}

func TestEvaluatorColor(t *testing.T) {
	solid := colorful.Color{R: 0.2, G: 0.4, B: 0.6}
	tests := []struct {
		name      string
		ct        ColorType
		exprs     Expressions
		wantColor colorful.Color
		wantAlpha float64
	}{
		{
			name:      "rgb clamps",
			ct:        RGB,
			exprs:     Expressions{C1: "2.0", C2: "-1.0", C3: "0.5", Alpha: "3.0"},
			wantColor: colorful.Color{R: 1, G: 0, B: 0.5},
			wantAlpha: 1,
		},
		{
			name:      "hsv wraps hue",
			ct:        HSV,
			exprs:     Expressions{C1: "1.0 + 1.0 / 3.0", C2: "1.0", C3: "1.0", Alpha: "0.2"},
			wantColor: colorful.Color{R: 0, G: 1, B: 0},
			wantAlpha: 0.2,
		},
		{
			name:      "solid ignores channels",
			ct:        Solid,
			exprs:     Expressions{C1: "0.9", C2: "0.9", C3: "0.9", Alpha: "0.5"},
			wantColor: solid,
			wantAlpha: 0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := NewEvaluator(tt.exprs)
			if err != nil {
				t.Fatalf("NewEvaluator() error = %v", err)
			}
			c, a, err := ev.Color(tt.ct, solid, geom.V4(0, 0, 0, 0))
			if err != nil {
				t.Fatalf("Color() error = %v", err)
			}
			if !near(c.R, tt.wantColor.R) || !near(c.G, tt.wantColor.G) || !near(c.B, tt.wantColor.B) {
				t.Errorf("Color() = %v, want %v", c, tt.wantColor)
			}
			if !near(a, tt.wantAlpha) {
				t.Errorf("Color() alpha = %v, want %v", a, tt.wantAlpha)
			}
		})
	}
}

func TestEvaluatorRejects(t *testing.T) {
	_, err := NewEvaluator(DefaultPoint().With(C2, "y +"))
	var ee *ExprError
	if !errors.As(err, &ee) || ee.Channel != C2 {
		t.Errorf("NewEvaluator() error = %v, want channel c2", err)
	}

	ev, err := NewEvaluator(DefaultPoint())
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}
	if _, err := ev.Channel(ChannelUnknown, geom.V4(0, 0, 0, 0)); err == nil {
		t.Error("Channel(unknown) error = nil")
	}
	if _, _, err := ev.Color(ColorType(7), colorful.Color{}, geom.V4(0, 0, 0, 0)); !errors.Is(err, ErrInvalidColorType) {
		t.Errorf("Color(7) error = %v, want ErrInvalidColorType", err)
	}
}
