package geometry

import (
	"errors"
	"fmt"

	"github.com/mhdeeb/geo-art/geom"
)

// Point count bounds accepted by BuildVertices.
const (
	MinCount = 10
	MaxCount = 500
)

// ErrCountOutOfRange is returned when a point count is outside
// [MinCount, MaxCount].
var ErrCountOutOfRange = errors.New("geometry: point count out of range")

// Evaluator maps a normalized parameter dr in [0, 1] to a point.
// spiro.Shape implements it.
type Evaluator interface {
	At(dr float64) geom.Vec3
}

// Samples is an ordered sequence of points in curve order.
type Samples []geom.Vec3

// Edge is one segment of the open polyline through a sample set.
type Edge struct {
	Start, End geom.Vec3
}

// ValidateCount reports whether n is an accepted point count.
func ValidateCount(n int) error {
	if n < MinCount || n > MaxCount {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrCountOutOfRange, n, MinCount, MaxCount)
	}
	return nil
}

// BuildVertices samples ev at count evenly spaced parameters
// dr = i/(count−1). It returns exactly count points.
func BuildVertices(ev Evaluator, count int) (Samples, error) {
	if err := ValidateCount(count); err != nil {
		return nil, err
	}
	return sampleUniform(ev, count), nil
}

// sampleUniform is BuildVertices without the count bounds, used for dense
// internal sampling.
func sampleUniform(ev Evaluator, count int) Samples {
	out := make(Samples, count)
	if count == 1 {
		out[0] = ev.At(0)
		return out
	}
	last := float64(count - 1)
	for i := range out {
		out[i] = ev.At(float64(i) / last)
	}
	return out
}

// BuildEdges connects sample i to sample i+1. The polyline is open, so n
// samples give n−1 edges; fewer than two samples give none.
func BuildEdges(s Samples) []Edge {
	if len(s) < 2 {
		return nil
	}
	edges := make([]Edge, len(s)-1)
	for i := range edges {
		edges[i] = Edge{Start: s[i], End: s[i+1]}
	}
	return edges
}

// LineDistances returns the cumulative arc length at each sample, starting
// at zero. Line dashing and arc-length resampling read it.
func LineDistances(s Samples) []float64 {
	d := make([]float64, len(s))
	for i := 1; i < len(s); i++ {
		d[i] = d[i-1] + s[i].Dist(s[i-1])
	}
	return d
}
