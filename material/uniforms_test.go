package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/mhdeeb/geo-art/geom"
	"github.com/mhdeeb/geo-art/shader"
)

func f32At(b []byte, off int) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[off:])))
}

func TestUniformsPack(t *testing.T) {
	u := DefaultUniforms(60)
	u.Time = 12.5
	u.ColorType = shader.HSV
	u.Resolution = [2]float64{800, 600}

	b := u.Pack()
	if len(b) != UniformSize {
		t.Fatalf("len(Pack()) = %d, want %d", len(b), UniformSize)
	}
	tests := []struct {
		name string
		off  int
		want float64
	}{
		{"min_point.x", 0, -1},
		{"volume.x", 16, 2},
		{"volume.w", 28, 60},
		{"solid_color.a", 44, 1},
		{"resolution.x", 48, 800},
		{"resolution.y", 52, 600},
		{"time", 56, 12.5},
		{"max_time", 64, 60},
		{"linewidth", 68, float64(float32(DefaultLineWidth))},
		{"scale", 84, float64(float32(DefaultScale))},
	}
	for _, tt := range tests {
		if got := f32At(b, tt.off); got != tt.want {
			t.Errorf("Pack() %s = %v, want %v", tt.name, got, tt.want)
		}
	}
	if got := int32(binary.LittleEndian.Uint32(b[76:])); got != int32(shader.HSV) {
		t.Errorf("Pack() color_type = %d, want %d", got, shader.HSV)
	}
	if got := binary.LittleEndian.Uint32(b[80:]); got != 1 {
		t.Errorf("Pack() normalize_parameters = %d, want 1", got)
	}
}

func TestUniformsSpaceTime(t *testing.T) {
	u := DefaultUniforms(60)
	got := u.SpaceTime(geom.V3(0, 1, 5), 30)
	want := geom.V4(0.5, 1, 0, 0.5)
	if got != want {
		t.Errorf("SpaceTime() = %v, want %v", got, want)
	}

	u.Normalize = false
	if got := u.SpaceTime(geom.V3(0, 1, 5), 30); got != geom.V4(0, 1, 5, 30) {
		t.Errorf("SpaceTime() raw = %v", got)
	}
}

func TestChannelsVisible(t *testing.T) {
	tests := []struct {
		ct   shader.ColorType
		want [4]bool
	}{
		{shader.RGB, [4]bool{true, true, true, true}},
		{shader.HSV, [4]bool{true, true, true, true}},
		{shader.Solid, [4]bool{false, false, false, true}},
	}
	for _, tt := range tests {
		if got := ChannelsVisible(tt.ct); got != tt.want {
			t.Errorf("ChannelsVisible(%v) = %v, want %v", tt.ct, got, tt.want)
		}
	}
}
