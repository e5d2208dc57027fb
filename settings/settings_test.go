package settings

import (
	"errors"
	"math"
	"testing"

	"github.com/mhdeeb/geo-art/shader"
)

func TestDefaultsValid(t *testing.T) {
	s := Defaults()
	if err := s.Validate(); err != nil {
		t.Fatalf("Defaults().Validate() error = %v", err)
	}
	if s.Time != s.TMax {
		t.Errorf("Defaults() time = %v, want t_max %v", s.Time, s.TMax)
	}
	if got := s.Shape(); got.Fixed != 1 || got.Rolling != 0 || got.Offset != 13 {
		t.Errorf("Defaults().Shape() = %+v", got)
	}
	if got := s.Expressions(shader.Point); got != shader.DefaultPoint() {
		t.Errorf("Defaults().Expressions(point) = %+v", got)
	}
	if got := s.ColorTypeOf(shader.Line); got != shader.RGB {
		t.Errorf("ColorTypeOf(line) = %v, want rgb", got)
	}
	if c := s.SolidColorOf(shader.Line); c.R != 1 || c.G != 1 || c.B != 1 {
		t.Errorf("SolidColorOf(line) = %v, want white", c)
	}
	if c := s.BackgroundColor(); c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("BackgroundColor() = %v, want black", c)
	}
}

func TestKeysCoverValues(t *testing.T) {
	keys := Keys()
	vals := Defaults().Values()
	if len(keys) != len(vals) {
		t.Fatalf("len(Keys()) = %d, len(Values()) = %d", len(keys), len(vals))
	}
	for _, k := range keys {
		if _, ok := vals[k]; !ok {
			t.Errorf("Values() missing %q", k)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		target error
	}{
		{"negative radius", func(s *Settings) { s.Fixed = -1 }, ErrOutOfRange},
		{"window", func(s *Settings) { s.TMin, s.TMax = 10, 5 }, ErrOutOfRange},
		{"color type", func(s *Settings) { s.ColorType = "cmyk" }, shader.ErrInvalidColorType},
		{"expression", func(s *Settings) { s.C1 = "1.0; }" }, shader.ErrInvalidExpression},
		{"hex", func(s *Settings) { s.Background = "black" }, ErrOutOfRange},
		{"point count", func(s *Settings) { s.PointCount = 5000 }, ErrOutOfRange},
		{"export", func(s *Settings) { s.ExportExt = "bmp" }, ErrOutOfRange},
		{"line width", func(s *Settings) { s.LineWidth = 0 }, ErrOutOfRange},
		{"infinite time", func(s *Settings) { s.Time = math.Inf(1) }, ErrOutOfRange},
		{"infinite window", func(s *Settings) { s.TMax = math.Inf(1) }, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.target) {
				t.Errorf("Validate() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Defaults().Get("nope"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get(nope) error = %v, want ErrUnknownKey", err)
	}
	v, err := Defaults().Get(KeyOffset)
	if err != nil || v != 13.0 {
		t.Errorf("Get(d) = %v, %v, want 13", v, err)
	}
}

func TestExpressionKeys(t *testing.T) {
	tests := []struct {
		key  string
		kind shader.Kind
		c    shader.Channel
	}{
		{KeyC1, shader.Line, shader.C1},
		{KeyAlpha, shader.Line, shader.Alpha},
		{KeyPointC3, shader.Point, shader.C3},
		{KeyPointAlpha, shader.Point, shader.Alpha},
	}
	for _, tt := range tests {
		if got := ExpressionKey(tt.kind, tt.c); got != tt.key {
			t.Errorf("ExpressionKey(%v, %v) = %q, want %q", tt.kind, tt.c, got, tt.key)
		}
		kind, c, ok := ExpressionOf(tt.key)
		if !ok || kind != tt.kind || c != tt.c {
			t.Errorf("ExpressionOf(%q) = %v, %v, %v, want %v, %v, true", tt.key, kind, c, ok, tt.kind, tt.c)
		}
	}
	if _, _, ok := ExpressionOf(KeyColorType); ok {
		t.Error("ExpressionOf(color_type) ok = true, want false")
	}
}
