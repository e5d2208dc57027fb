package geoart

import (
	"fmt"

	"github.com/mhdeeb/geo-art/settings"
	"github.com/mhdeeb/geo-art/shader"
)

// Keys grouped by what a change to them touches.
var (
	geometryKeys = []string{
		settings.KeyFixed, settings.KeyRolling, settings.KeyOffset,
		settings.KeyPoints, settings.KeyInterpolatePoints, settings.KeyInterpolateMultiplier,
	}
	windowKeys = []string{settings.KeyTMin, settings.KeyTMax}
	viewKeys   = []string{
		settings.KeyShowLines, settings.KeyShowPoints,
		settings.KeyBackground, settings.KeyBackgroundOpacity,
	}
	expressionKeys = map[string]shader.Kind{
		settings.KeyC1:         shader.Line,
		settings.KeyC2:         shader.Line,
		settings.KeyC3:         shader.Line,
		settings.KeyAlpha:      shader.Line,
		settings.KeyPointC1:    shader.Point,
		settings.KeyPointC2:    shader.Point,
		settings.KeyPointC3:    shader.Point,
		settings.KeyPointAlpha: shader.Point,
	}
	colorTypeKeys = map[string]shader.Kind{
		settings.KeyColorType:      shader.Line,
		settings.KeyPointColorType: shader.Point,
	}
	solidColorKeys = map[string]shader.Kind{
		settings.KeySolidColor:      shader.Line,
		settings.KeyPointSolidColor: shader.Point,
	}
)

// subscribe routes settings changes to the geometry, the materials and
// the renderer. Handlers read the store snapshot rather than the change
// value so that multi-key updates converge on the final state.
func (a *App) subscribe() {
	on := func(fn func(settings.Settings) error, keys ...string) {
		sub := a.store.Subscribe(func(c settings.Change) {
			if err := fn(a.store.Snapshot()); err != nil {
				a.opts.onError(fmt.Errorf("geoart: %s: %w", c.Key, err))
			}
		}, keys...)
		a.subs = append(a.subs, sub)
	}

	on(a.rebuild, geometryKeys...)
	on(func(s settings.Settings) error {
		return a.materials.SetTimeWindow(s.TMin, s.TMax)
	}, windowKeys...)
	on(func(s settings.Settings) error {
		a.syncView(s)
		return nil
	}, viewKeys...)

	for key, kind := range expressionKeys {
		on(func(s settings.Settings) error {
			return a.materials.Recompile(kind, s.Expressions(kind))
		}, key)
	}
	for key, kind := range colorTypeKeys {
		on(func(s settings.Settings) error {
			return a.materials.SetColorType(kind, s.ColorTypeOf(kind))
		}, key)
	}
	for key, kind := range solidColorKeys {
		on(func(s settings.Settings) error {
			a.materials.SetSolidColor(kind, s.SolidColorOf(kind))
			return nil
		}, key)
	}

	on(func(s settings.Settings) error {
		a.materials.SetLineWidth(s.LineWidth)
		return nil
	}, settings.KeyLineWidth)
	on(func(s settings.Settings) error {
		a.materials.SetNormalization(s.NormalizeParameters)
		return nil
	}, settings.KeyNormalizeParameters)
	on(func(s settings.Settings) error {
		a.materials.SetScale(s.GeometryScale)
		return nil
	}, settings.KeyGeometryScale)
	on(func(s settings.Settings) error {
		a.materials.SetTime(s.Time)
		return nil
	}, settings.KeyTime)
}
