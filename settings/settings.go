// Package settings holds the user-editable parameters of a sketch and the
// store that publishes their changes.
//
// Every parameter has a flat key (for example "R", "t_min" or "point_c1")
// shared by the JSON, TOML and YAML file formats and by the remote control
// protocol.
package settings

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mhdeeb/geo-art/geometry"
	"github.com/mhdeeb/geo-art/shader"
	"github.com/mhdeeb/geo-art/spiro"
)

var (
	// ErrUnknownKey is returned for a key that names no setting.
	ErrUnknownKey = errors.New("settings: unknown key")

	// ErrType is returned when a value has the wrong type for its key.
	ErrType = errors.New("settings: wrong value type")

	// ErrOutOfRange is returned when a value is outside its allowed range.
	ErrOutOfRange = errors.New("settings: value out of range")
)

// Defaults.
const (
	DefaultTLimit     = 60.0
	DefaultPointCount = 100
	DefaultLineWidth  = 0.3
	DefaultScale      = 0.4
	DefaultMultiplier = 1.5
)

// ExportExtensions lists the accepted values of export_ext.
var ExportExtensions = []string{"png", "webp", "jpg", "gif", "json"}

// Settings is one complete set of parameters.
type Settings struct {
	Fixed   float64 `json:"R" toml:"R" yaml:"R"`
	Rolling float64 `json:"r" toml:"r" yaml:"r"`
	Offset  float64 `json:"d" toml:"d" yaml:"d"`

	TMin                float64 `json:"t_min" toml:"t_min" yaml:"t_min"`
	TMax                float64 `json:"t_max" toml:"t_max" yaml:"t_max"`
	NormalizeParameters bool    `json:"normalize_parameters" toml:"normalize_parameters" yaml:"normalize_parameters"`

	ColorType  string  `json:"color_type" toml:"color_type" yaml:"color_type"`
	C1         string  `json:"c1" toml:"c1" yaml:"c1"`
	C2         string  `json:"c2" toml:"c2" yaml:"c2"`
	C3         string  `json:"c3" toml:"c3" yaml:"c3"`
	Alpha      string  `json:"alpha" toml:"alpha" yaml:"alpha"`
	SolidColor string  `json:"solid_color" toml:"solid_color" yaml:"solid_color"`
	LineWidth  float64 `json:"line_width" toml:"line_width" yaml:"line_width"`
	ShowLines  bool    `json:"show_lines" toml:"show_lines" yaml:"show_lines"`

	ShowPoints      bool   `json:"show_points" toml:"show_points" yaml:"show_points"`
	PointCount      int    `json:"point_count" toml:"point_count" yaml:"point_count"`
	PointColorType  string `json:"point_color_type" toml:"point_color_type" yaml:"point_color_type"`
	PointC1         string `json:"point_c1" toml:"point_c1" yaml:"point_c1"`
	PointC2         string `json:"point_c2" toml:"point_c2" yaml:"point_c2"`
	PointC3         string `json:"point_c3" toml:"point_c3" yaml:"point_c3"`
	PointAlpha      string `json:"point_alpha" toml:"point_alpha" yaml:"point_alpha"`
	PointSolidColor string `json:"point_solid_color" toml:"point_solid_color" yaml:"point_solid_color"`

	GeometryScale         float64 `json:"geometry_scale" toml:"geometry_scale" yaml:"geometry_scale"`
	Points                int     `json:"points" toml:"points" yaml:"points"`
	Background            string  `json:"background" toml:"background" yaml:"background"`
	BackgroundOpacity     float64 `json:"background_opacity" toml:"background_opacity" yaml:"background_opacity"`
	InterpolatePoints     bool    `json:"interpolate_points" toml:"interpolate_points" yaml:"interpolate_points"`
	InterpolateMultiplier float64 `json:"interpolate_multiplier" toml:"interpolate_multiplier" yaml:"interpolate_multiplier"`

	Animate         bool    `json:"animate" toml:"animate" yaml:"animate"`
	Time            float64 `json:"time" toml:"time" yaml:"time"`
	SpeedMultiplier float64 `json:"speed_multiplier" toml:"speed_multiplier" yaml:"speed_multiplier"`

	ExportExt string `json:"export_ext" toml:"export_ext" yaml:"export_ext"`
}

// Defaults returns the initial settings.
func Defaults() Settings {
	line, point := shader.DefaultLine(), shader.DefaultPoint()
	return Settings{
		Fixed:   1,
		Rolling: 0,
		Offset:  13,

		TMin:                0,
		TMax:                DefaultTLimit,
		NormalizeParameters: true,

		ColorType:  shader.RGB.String(),
		C1:         line.C1,
		C2:         line.C2,
		C3:         line.C3,
		Alpha:      line.Alpha,
		SolidColor: "#ffffff",
		LineWidth:  DefaultLineWidth,
		ShowLines:  true,

		ShowPoints:      false,
		PointCount:      DefaultPointCount,
		PointColorType:  shader.RGB.String(),
		PointC1:         point.C1,
		PointC2:         point.C2,
		PointC3:         point.C3,
		PointAlpha:      point.Alpha,
		PointSolidColor: "#ffffff",

		GeometryScale:         DefaultScale,
		Points:                DefaultPointCount,
		Background:            "#000000",
		BackgroundOpacity:     1,
		InterpolatePoints:     true,
		InterpolateMultiplier: DefaultMultiplier,

		Animate:         true,
		Time:            DefaultTLimit,
		SpeedMultiplier: 1,

		ExportExt: ExportExtensions[0],
	}
}

// Validate checks every field against its key's constraints and the time
// window ordering.
func (s Settings) Validate() error {
	var scratch Settings
	for _, f := range fields {
		if err := f.set(&scratch, f.get(&s)); err != nil {
			return err
		}
	}
	if s.TMin > s.TMax {
		return fmt.Errorf("%w: t_min %g > t_max %g", ErrOutOfRange, s.TMin, s.TMax)
	}
	return nil
}

// Get returns the value stored under key.
func (s Settings) Get(key string) (any, error) {
	f, ok := fieldByKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return f.get(&s), nil
}

// Values returns every setting keyed by name.
func (s Settings) Values() map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.key] = f.get(&s)
	}
	return out
}

// Shape returns the curve parameters.
func (s Settings) Shape() spiro.Shape {
	return spiro.Shape{Fixed: s.Fixed, Rolling: s.Rolling, Offset: s.Offset}
}

// Policy returns the line interpolation policy.
func (s Settings) Policy() geometry.Policy {
	return geometry.Policy{Interpolate: s.InterpolatePoints, Multiplier: s.InterpolateMultiplier}
}

// Expressions returns the color expressions of kind.
func (s Settings) Expressions(kind shader.Kind) shader.Expressions {
	if kind == shader.Line {
		return shader.Expressions{C1: s.C1, C2: s.C2, C3: s.C3, Alpha: s.Alpha}
	}
	return shader.Expressions{C1: s.PointC1, C2: s.PointC2, C3: s.PointC3, Alpha: s.PointAlpha}
}

// ColorTypeOf returns the parsed color type of kind. Settings that passed
// Validate always parse.
func (s Settings) ColorTypeOf(kind shader.Kind) shader.ColorType {
	name := s.PointColorType
	if kind == shader.Line {
		name = s.ColorType
	}
	ct, err := shader.ParseColorType(name)
	if err != nil {
		return shader.RGB
	}
	return ct
}

// SolidColorOf returns the parsed solid color of kind.
func (s Settings) SolidColorOf(kind shader.Kind) colorful.Color {
	hex := s.PointSolidColor
	if kind == shader.Line {
		hex = s.SolidColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}

// BackgroundColor returns the parsed background color.
func (s Settings) BackgroundColor() colorful.Color {
	c, err := colorful.Hex(s.Background)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// ExpressionKey returns the key holding channel c of kind.
func ExpressionKey(kind shader.Kind, c shader.Channel) string {
	if kind == shader.Line {
		return c.String()
	}
	return "point_" + c.String()
}

// ExpressionOf reports the kind and channel held by an expression key.
func ExpressionOf(key string) (shader.Kind, shader.Channel, bool) {
	for _, kind := range []shader.Kind{shader.Point, shader.Line} {
		for _, c := range shader.Channels {
			if ExpressionKey(kind, c) == key {
				return kind, c, true
			}
		}
	}
	return 0, shader.ChannelUnknown, false
}

// Keys returns all setting keys in declaration order.
func Keys() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.key
	}
	return out
}

// Setting keys.
const (
	KeyFixed                 = "R"
	KeyRolling               = "r"
	KeyOffset                = "d"
	KeyTMin                  = "t_min"
	KeyTMax                  = "t_max"
	KeyNormalizeParameters   = "normalize_parameters"
	KeyColorType             = "color_type"
	KeyC1                    = "c1"
	KeyC2                    = "c2"
	KeyC3                    = "c3"
	KeyAlpha                 = "alpha"
	KeySolidColor            = "solid_color"
	KeyLineWidth             = "line_width"
	KeyShowLines             = "show_lines"
	KeyShowPoints            = "show_points"
	KeyPointCount            = "point_count"
	KeyPointColorType        = "point_color_type"
	KeyPointC1               = "point_c1"
	KeyPointC2               = "point_c2"
	KeyPointC3               = "point_c3"
	KeyPointAlpha            = "point_alpha"
	KeyPointSolidColor       = "point_solid_color"
	KeyGeometryScale         = "geometry_scale"
	KeyPoints                = "points"
	KeyBackground            = "background"
	KeyBackgroundOpacity     = "background_opacity"
	KeyInterpolatePoints     = "interpolate_points"
	KeyInterpolateMultiplier = "interpolate_multiplier"
	KeyAnimate               = "animate"
	KeyTime                  = "time"
	KeySpeedMultiplier       = "speed_multiplier"
	KeyExportExt             = "export_ext"
)

type field struct {
	key string
	get func(*Settings) any
	set func(*Settings, any) error
}

var fields = []field{
	floatField(KeyFixed, func(s *Settings) *float64 { return &s.Fixed }, 0, 100),
	floatField(KeyRolling, func(s *Settings) *float64 { return &s.Rolling }, 0, 100),
	floatField(KeyOffset, func(s *Settings) *float64 { return &s.Offset }, 0, 100),
	{
		key: KeyTMin,
		get: func(s *Settings) any { return s.TMin },
		set: func(s *Settings, v any) error {
			x, err := toFloat(KeyTMin, v)
			if err != nil {
				return err
			}
			s.TMin = x
			if x > s.TMax {
				s.TMax = x
			}
			return nil
		},
	},
	{
		key: KeyTMax,
		get: func(s *Settings) any { return s.TMax },
		set: func(s *Settings, v any) error {
			x, err := toFloat(KeyTMax, v)
			if err != nil {
				return err
			}
			s.TMax = x
			if x < s.TMin {
				s.TMin = x
			}
			return nil
		},
	},
	boolField(KeyNormalizeParameters, func(s *Settings) *bool { return &s.NormalizeParameters }),
	stringField(KeyColorType, func(s *Settings) *string { return &s.ColorType }, validColorType),
	stringField(KeyC1, func(s *Settings) *string { return &s.C1 }, shader.Validate),
	stringField(KeyC2, func(s *Settings) *string { return &s.C2 }, shader.Validate),
	stringField(KeyC3, func(s *Settings) *string { return &s.C3 }, shader.Validate),
	stringField(KeyAlpha, func(s *Settings) *string { return &s.Alpha }, shader.Validate),
	stringField(KeySolidColor, func(s *Settings) *string { return &s.SolidColor }, validHex),
	floatField(KeyLineWidth, func(s *Settings) *float64 { return &s.LineWidth }, 0.0001, 1),
	boolField(KeyShowLines, func(s *Settings) *bool { return &s.ShowLines }),
	boolField(KeyShowPoints, func(s *Settings) *bool { return &s.ShowPoints }),
	{
		key: KeyPointCount,
		get: func(s *Settings) any { return s.PointCount },
		set: func(s *Settings, v any) error {
			n, err := toInt(KeyPointCount, v)
			if err != nil {
				return err
			}
			if err := geometry.ValidateCount(n); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrOutOfRange, KeyPointCount, err)
			}
			s.PointCount = n
			s.Points = n
			return nil
		},
	},
	stringField(KeyPointColorType, func(s *Settings) *string { return &s.PointColorType }, validColorType),
	stringField(KeyPointC1, func(s *Settings) *string { return &s.PointC1 }, shader.Validate),
	stringField(KeyPointC2, func(s *Settings) *string { return &s.PointC2 }, shader.Validate),
	stringField(KeyPointC3, func(s *Settings) *string { return &s.PointC3 }, shader.Validate),
	stringField(KeyPointAlpha, func(s *Settings) *string { return &s.PointAlpha }, shader.Validate),
	stringField(KeyPointSolidColor, func(s *Settings) *string { return &s.PointSolidColor }, validHex),
	floatField(KeyGeometryScale, func(s *Settings) *float64 { return &s.GeometryScale }, 0.1, 10),
	{
		key: KeyPoints,
		get: func(s *Settings) any { return s.Points },
		set: func(s *Settings, v any) error {
			n, err := toInt(KeyPoints, v)
			if err != nil {
				return err
			}
			if err := geometry.ValidateCount(n); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrOutOfRange, KeyPoints, err)
			}
			s.Points = n
			return nil
		},
	},
	stringField(KeyBackground, func(s *Settings) *string { return &s.Background }, validHex),
	floatField(KeyBackgroundOpacity, func(s *Settings) *float64 { return &s.BackgroundOpacity }, 0, 1),
	boolField(KeyInterpolatePoints, func(s *Settings) *bool { return &s.InterpolatePoints }),
	floatField(KeyInterpolateMultiplier, func(s *Settings) *float64 { return &s.InterpolateMultiplier }, 1, 10),
	boolField(KeyAnimate, func(s *Settings) *bool { return &s.Animate }),
	floatField(KeyTime, func(s *Settings) *float64 { return &s.Time }, -math.MaxFloat64, math.MaxFloat64),
	floatField(KeySpeedMultiplier, func(s *Settings) *float64 { return &s.SpeedMultiplier }, 0, 10),
	stringField(KeyExportExt, func(s *Settings) *string { return &s.ExportExt }, validExt),
}

var fieldByKey = func() map[string]field {
	m := make(map[string]field, len(fields))
	for _, f := range fields {
		m[f.key] = f
	}
	return m
}()

func floatField(key string, ptr func(*Settings) *float64, lo, hi float64) field {
	return field{
		key: key,
		get: func(s *Settings) any { return *ptr(s) },
		set: func(s *Settings, v any) error {
			x, err := toFloat(key, v)
			if err != nil {
				return err
			}
			if x < lo || x > hi {
				return fmt.Errorf("%w: %s = %g, want [%g, %g]", ErrOutOfRange, key, x, lo, hi)
			}
			*ptr(s) = x
			return nil
		},
	}
}

func boolField(key string, ptr func(*Settings) *bool) field {
	return field{
		key: key,
		get: func(s *Settings) any { return *ptr(s) },
		set: func(s *Settings, v any) error {
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("%w: %s wants bool, got %T", ErrType, key, v)
			}
			*ptr(s) = b
			return nil
		},
	}
}

func stringField(key string, ptr func(*Settings) *string, check func(string) error) field {
	return field{
		key: key,
		get: func(s *Settings) any { return *ptr(s) },
		set: func(s *Settings, v any) error {
			str, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: %s wants string, got %T", ErrType, key, v)
			}
			if err := check(str); err != nil {
				return fmt.Errorf("settings: %s: %w", key, err)
			}
			*ptr(s) = str
			return nil
		},
	}
}

func toFloat(key string, v any) (float64, error) {
	var x float64
	switch n := v.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	case int:
		x = float64(n)
	case int64:
		x = float64(n)
	case uint64:
		x = float64(n)
	default:
		return 0, fmt.Errorf("%w: %s wants number, got %T", ErrType, key, v)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("%w: %s = %g, want a finite number", ErrOutOfRange, key, x)
	}
	return x, nil
}

func toInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	}
	x, err := toFloat(key, v)
	if err != nil {
		return 0, err
	}
	if x != math.Trunc(x) {
		return 0, fmt.Errorf("%w: %s wants integer, got %g", ErrType, key, x)
	}
	return int(x), nil
}

func validColorType(s string) error {
	_, err := shader.ParseColorType(s)
	return err
}

func validHex(s string) error {
	if _, err := colorful.Hex(s); err != nil {
		return fmt.Errorf("%w: color %q", ErrOutOfRange, s)
	}
	return nil
}

func validExt(s string) error {
	if !slices.Contains(ExportExtensions, s) {
		return fmt.Errorf("%w: export extension %q", ErrOutOfRange, s)
	}
	return nil
}
