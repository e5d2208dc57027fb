package geometry

import (
	"math"
	"testing"

	"github.com/mhdeeb/geo-art/geom"
	"github.com/mhdeeb/geo-art/spiro"
)

func TestPolicyLineCount(t *testing.T) {
	tests := []struct {
		p     Policy
		count int
		want  int
	}{
		{Policy{Interpolate: false, Multiplier: 3}, 100, 100},
		{Policy{Interpolate: true, Multiplier: 1.5}, 100, 150},
		{Policy{Interpolate: true, Multiplier: 1.5}, 11, 17},
		{Policy{Interpolate: true, Multiplier: 0.5}, 100, 100},
	}
	for _, tt := range tests {
		if got := tt.p.LineCount(tt.count); got != tt.want {
			t.Errorf("%+v.LineCount(%d) = %d, want %d", tt.p, tt.count, got, tt.want)
		}
	}
}

func TestResampleArcEvenSpacing(t *testing.T) {
	poly := Samples{geom.V3(0, 0, 0), geom.V3(1, 0, 0), geom.V3(1, 3, 0)}
	out := ResampleArc(poly, 5)
	if len(out) != 5 {
		t.Fatalf("ResampleArc() returned %d points, want 5", len(out))
	}
	if out[0] != poly[0] || out[4].Dist(poly[2]) > 1e-12 {
		t.Errorf("ends = %v, %v, want %v, %v", out[0], out[4], poly[0], poly[2])
	}
	for i := 1; i < len(out); i++ {
		if d := out[i].Dist(out[i-1]); math.Abs(d-1) > 1e-9 {
			t.Errorf("spacing %d = %v, want 1", i, d)
		}
	}
	if want := geom.V3(1, 0, 0); out[1].Dist(want) > 1e-9 {
		t.Errorf("out[1] = %v, want %v", out[1], want)
	}
}

func TestResampleArcDegenerate(t *testing.T) {
	p := geom.V3(2, 2, 0)
	out := ResampleArc(Samples{p, p, p}, 4)
	for i, q := range out {
		if q != p {
			t.Errorf("out[%d] = %v, want %v", i, q, p)
		}
	}
	if ResampleArc(nil, 3) != nil {
		t.Error("ResampleArc(nil) should be nil")
	}
}

func TestLineSamplesPolicy(t *testing.T) {
	shape := spiro.Shape{Fixed: 5, Rolling: 3, Offset: 2}
	points, err := BuildVertices(shape, 100)
	if err != nil {
		t.Fatal(err)
	}

	raw := LineSamples(shape, points, Policy{})
	if len(raw) != len(points) {
		t.Errorf("without interpolation: %d samples, want %d", len(raw), len(points))
	}

	lines := LineSamples(shape, points, DefaultPolicy())
	if len(lines) != 150 {
		t.Fatalf("with interpolation: %d samples, want 150", len(lines))
	}
	if lines[0].Dist(points[0]) > 1e-6 || lines[len(lines)-1].Dist(points[len(points)-1]) > 1e-3 {
		t.Errorf("interpolated path ends %v..%v, want %v..%v",
			lines[0], lines[len(lines)-1], points[0], points[len(points)-1])
	}
}

func TestLineSamplesHighRatioFallsBack(t *testing.T) {
	// r = 0 becomes spiro.Epsilon: ratio ~1e4, fitting is skipped.
	shape := spiro.Shape{Fixed: 1, Rolling: 0, Offset: 13}
	points, err := BuildVertices(shape, 100)
	if err != nil {
		t.Fatal(err)
	}
	lines := LineSamples(shape, points, DefaultPolicy())
	if len(lines) != 150 {
		t.Fatalf("got %d samples, want 150", len(lines))
	}
	for i, p := range lines {
		if !p.IsFinite() {
			t.Fatalf("lines[%d] = %v, want finite", i, p)
		}
	}
}
