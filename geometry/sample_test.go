package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/mhdeeb/geo-art/geom"
	"github.com/mhdeeb/geo-art/spiro"
)

// lineEval is a straight line from (0,0,0) to (1,0,0).
type lineEval struct{}

func (lineEval) At(dr float64) geom.Vec3 { return geom.V3(dr, 0, 0) }

func TestBuildVerticesCount(t *testing.T) {
	shape := spiro.Shape{Fixed: 1, Rolling: 0, Offset: 13}
	for n := MinCount; n <= MaxCount; n++ {
		s, err := BuildVertices(shape, n)
		if err != nil {
			t.Fatalf("BuildVertices(%d) error = %v", n, err)
		}
		if len(s) != n {
			t.Fatalf("BuildVertices(%d) returned %d points", n, len(s))
		}
	}
}

func TestBuildVerticesEndpoints(t *testing.T) {
	s, err := BuildVertices(lineEval{}, 11)
	if err != nil {
		t.Fatal(err)
	}
	if s[0].X != 0 || s[10].X != 1 {
		t.Errorf("endpoints = %v, %v, want dr 0 and 1", s[0], s[10])
	}
	if math.Abs(s[5].X-0.5) > 1e-12 {
		t.Errorf("s[5] = %v, want dr 0.5", s[5])
	}
}

func TestBuildVerticesOutOfRange(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 9, 501, 10000} {
		s, err := BuildVertices(lineEval{}, n)
		if !errors.Is(err, ErrCountOutOfRange) {
			t.Errorf("BuildVertices(%d) error = %v, want ErrCountOutOfRange", n, err)
		}
		if s != nil {
			t.Errorf("BuildVertices(%d) returned %d points, want none", n, len(s))
		}
	}
}

func TestBuildEdges(t *testing.T) {
	for _, n := range []int{0, 1, 2, 10, 100, 500} {
		s := sampleUniform(lineEval{}, n)
		if n == 0 {
			s = nil
		}
		edges := BuildEdges(s)
		want := n - 1
		if n < 2 {
			want = 0
		}
		if len(edges) != want {
			t.Errorf("BuildEdges(len %d) = %d edges, want %d", n, len(edges), want)
		}
		for i, e := range edges {
			if e.Start != s[i] || e.End != s[i+1] {
				t.Fatalf("edge %d = %v, want %v -> %v", i, e, s[i], s[i+1])
			}
		}
	}
}

func TestLineDistances(t *testing.T) {
	s := Samples{geom.V3(0, 0, 0), geom.V3(3, 4, 0), geom.V3(3, 4, 2)}
	got := LineDistances(s)
	want := []float64{0, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LineDistances()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
