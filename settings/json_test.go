package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		s    Settings
	}{
		{"defaults", Defaults()},
		{"edited", func() Settings {
			s := Defaults()
			s.Fixed, s.Rolling, s.Offset = 5, 3, 0.5
			s.TMin, s.TMax, s.Time = 2.5, 40, 17.25
			s.ColorType = "hsv"
			s.C1 = "fract(x * 0.1 + t)"
			s.PointC1 = "-.05*(x+y)-10."
			s.PointColorType = "solid"
			s.PointSolidColor = "#ff8800"
			s.ShowPoints = true
			s.PointCount, s.Points = 321, 123
			s.ExportExt = "gif"
			return s
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Save(&buf, tt.s); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := Load(&buf)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(tt.s, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveUsesControlKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := Save(&buf, Defaults()); err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	for _, k := range Keys() {
		if _, ok := m[k]; !ok {
			t.Errorf("saved JSON missing key %q", k)
		}
	}
	if len(m) != len(Keys()) {
		t.Errorf("saved JSON has %d keys, want %d", len(m), len(Keys()))
	}
	if m["R"] != 1.0 || m["r"] != 0.0 {
		t.Errorf("R = %v, r = %v; want 1 and 0", m["R"], m["r"])
	}
}

func TestLoadPartialAndUnknown(t *testing.T) {
	got, err := Load(strings.NewReader(`{"d": 7, "c1": "x", "reset": null, "extra": [1, 2]}`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Defaults()
	want.Offset = 7
	want.C1 = "x"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"wrong type", `{"R": "big"}`},
		{"invalid expression", `{"c2": "1.0; }"}`},
		{"window", `{"t_min": 10, "t_max": 1}`},
		{"syntax", `{"R": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.in)); err == nil {
				t.Errorf("Load(%s) error = nil", tt.in)
			}
		})
	}
	var typeErr *json.UnmarshalTypeError
	if _, err := Load(strings.NewReader(`{"animate": 1}`)); !errors.As(err, &typeErr) {
		t.Errorf("Load(animate: 1) error = %v, want *json.UnmarshalTypeError", err)
	}
}
