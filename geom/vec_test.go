package geom

import (
	"math"
	"testing"
)

func TestVec3Ops(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, 6, 3)
	if got := a.Dist(b); got != 5 {
		t.Errorf("Dist() = %v, want 5", got)
	}
	if got := a.Lerp(b, 0.5); got != V3(2.5, 4, 3) {
		t.Errorf("Lerp() = %v, want {2.5 4 3}", got)
	}
	if got := a.Add(b).Sub(b); got != a {
		t.Errorf("Add().Sub() = %v, want %v", got, a)
	}
	if got := a.Extend(7).Array(); got != [4]float64{1, 2, 3, 7} {
		t.Errorf("Extend().Array() = %v", got)
	}
}

func TestVec3IsFinite(t *testing.T) {
	tests := []struct {
		v    Vec3
		want bool
	}{
		{V3(0, 0, 0), true},
		{V3(math.NaN(), 0, 0), false},
		{V3(0, math.Inf(1), 0), false},
		{V3(0, 0, math.Inf(-1)), false},
	}
	for _, tt := range tests {
		if got := tt.v.IsFinite(); got != tt.want {
			t.Errorf("%v.IsFinite() = %v, want %v", tt.v, got, tt.want)
		}
	}
}
