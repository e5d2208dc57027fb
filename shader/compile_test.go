package shader

import (
	"errors"
	"strings"
	"testing"
)

func TestComposeSubstitutes(t *testing.T) {
	src := Compose(Line, Expressions{C1: "x", C2: "y", C3: ".5", Alpha: "1"}, CoverageOptions{WorldUnits: true})
	for _, want := range []string{
		"let c1: f32 = (x);",
		"let c3: f32 = (0.5);",
		"let a: f32 = (1.0);",
		"const WORLD_UNITS: bool = true;",
		"const ALPHA_TO_COVERAGE: bool = false;",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("Compose() missing %q", want)
		}
	}
	if strings.Contains(src, "{{") {
		t.Error("Compose() left a placeholder")
	}

	point := Compose(Point, DefaultPoint(), CoverageOptions{WorldUnits: true})
	if strings.Contains(point, "WORLD_UNITS") {
		t.Error("point source includes line coverage")
	}
}

func TestCompileAllVariants(t *testing.T) {
	opts := []CoverageOptions{
		{},
		{WorldUnits: true},
		{AlphaToCoverage: true},
		{WorldUnits: true, AlphaToCoverage: true},
	}
	for _, kind := range []Kind{Point, Line} {
		for _, o := range opts {
			exprs := DefaultLine()
			if kind == Point {
				exprs = DefaultPoint()
			}
			p, err := Compile(kind, exprs, o)
			if err != nil {
				t.Fatalf("Compile(%v, %+v) error = %v", kind, o, err)
			}
			if len(p.SPIRV) == 0 {
				t.Errorf("Compile(%v, %+v) produced no SPIR-V", kind, o)
			}
			if p.Kind != kind || p.Options != o {
				t.Errorf("Program = {%v %+v}, want {%v %+v}", p.Kind, p.Options, kind, o)
			}
		}
	}
}

func TestCompileHelpers(t *testing.T) {
	exprs := Expressions{
		C1:    "map(x, -1.0, 1.0, 0.0, 1.0)",
		C2:    "noise(vec2<f32>(x, y) * 4.0)",
		C3:    "norm(t, 0.0, TAU)",
		Alpha: "0.5 + 0.5 * sin(PI * t)",
	}
	if _, err := Compile(Point, exprs, CoverageOptions{}); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
}

func TestCompileAttributesChannel(t *testing.T) {
	tests := []struct {
		name    string
		exprs   Expressions
		channel Channel
		target  error
	}{
		{"syntax", DefaultLine().With(C2, "x +"), C2, ErrCompile},
		{"unknown identifier", DefaultLine().With(Alpha, "w * 2.0"), Alpha, ErrCompile},
		{"statement", DefaultLine().With(C3, "1.0; }"), C3, ErrInvalidExpression},
		{"empty", DefaultLine().With(C1, ""), C1, ErrInvalidExpression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(Line, tt.exprs, CoverageOptions{})
			var ee *ExprError
			if !errors.As(err, &ee) {
				t.Fatalf("Compile() error = %v, want *ExprError", err)
			}
			if ee.Channel != tt.channel {
				t.Errorf("ExprError.Channel = %v, want %v", ee.Channel, tt.channel)
			}
			if ee.Kind != Line {
				t.Errorf("ExprError.Kind = %v, want line", ee.Kind)
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("Compile() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	if err := Check(C1, "sin(x) * 0.5 + 0.5"); err != nil {
		t.Errorf("Check(valid) error = %v", err)
	}
	err := Check(C2, "sin(")
	var ee *ExprError
	if !errors.As(err, &ee) || ee.Channel != C2 {
		t.Errorf("Check(invalid) error = %v, want channel c2", err)
	}
}

func TestProgramGLSL(t *testing.T) {
	p, err := Compile(Point, DefaultPoint(), CoverageOptions{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	src, err := p.GLSL("vs_main")
	if err != nil {
		t.Fatalf("GLSL(vs_main) error = %v", err)
	}
	if !strings.Contains(src, "void main") {
		t.Errorf("GLSL(vs_main) has no main function:\n%s", src)
	}
}
