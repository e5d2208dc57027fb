package geometry

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mhdeeb/geo-art/geom"
)

func TestBounds(t *testing.T) {
	s := Samples{geom.V3(-2, 1, 0), geom.V3(4, -3, 0), geom.V3(0, 5, 0)}
	got := Bounds(s, 10, 70)
	want := Volume{
		Min:    geom.V4(-2, -3, 0, 10),
		Extent: geom.V4(6, 8, 0, 60),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Bounds() mismatch (-want +got):\n%s", diff)
	}
}

func TestVolumeNormalize(t *testing.T) {
	v := DefaultVolume(60)
	got := v.Normalize(geom.V4(1, -1, 5, 30))
	want := geom.V4(1, 0, 0, 0.5)
	if got != want {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestVolumeWithTime(t *testing.T) {
	v := DefaultVolume(60).WithTime(5, 25)
	if v.Min.W != 5 || v.Extent.W != 20 {
		t.Errorf("WithTime() = %+v, want min.w 5 extent.w 20", v)
	}
	if v.Min.X != -1 || v.Extent.X != 2 {
		t.Errorf("WithTime() changed spatial axes: %+v", v)
	}
}
