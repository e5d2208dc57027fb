package geometry

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mhdeeb/geo-art/internal/logging"
	"github.com/mhdeeb/geo-art/spiro"
)

// ErrStale is returned by Rebuild when a newer rebuild already published
// its buffers; the result of the older one is discarded.
var ErrStale = errors.New("geometry: rebuild superseded")

// Buffers is one complete, immutable generation of geometry.
type Buffers struct {
	Generation uint64
	Shape      spiro.Shape
	Policy     Policy

	// Points are the instance positions for the point material.
	Points Samples
	// Lines is the polyline drawn by the line material, possibly
	// resampled per Policy.
	Lines     Samples
	Edges     []Edge
	Distances []float64
	Volume    Volume
}

// Length returns the arc length of the line polyline.
func (b *Buffers) Length() float64 {
	if len(b.Distances) == 0 {
		return 0
	}
	return b.Distances[len(b.Distances)-1]
}

// Request describes a rebuild.
type Request struct {
	Shape  spiro.Shape
	Count  int
	Policy Policy
	TMin   float64
	TMax   float64
}

// SwapFunc is called after a new generation is published. old is nil on
// the first swap.
type SwapFunc func(old, cur *Buffers)

// Builder owns the live geometry and swaps it atomically.
type Builder struct {
	current atomic.Pointer[Buffers]
	gen     atomic.Uint64

	mu     sync.Mutex // serializes publish and hooks
	onSwap []SwapFunc
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// OnSwap registers fn to run after each publish, in registration order.
// Hooks release resources tied to the old generation.
func (b *Builder) OnSwap(fn SwapFunc) {
	b.mu.Lock()
	b.onSwap = append(b.onSwap, fn)
	b.mu.Unlock()
}

// Current returns the live generation, or nil before the first Rebuild.
func (b *Builder) Current() *Buffers {
	return b.current.Load()
}

// Rebuild builds a full generation for req and publishes it. On error the
// current generation is left untouched.
func (b *Builder) Rebuild(req Request) (*Buffers, error) {
	gen := b.gen.Add(1)

	points, err := BuildVertices(req.Shape, req.Count)
	if err != nil {
		return nil, fmt.Errorf("geometry: rebuild: %w", err)
	}
	lines := LineSamples(req.Shape, points, req.Policy)
	next := &Buffers{
		Generation: gen,
		Shape:      req.Shape,
		Policy:     req.Policy,
		Points:     points,
		Lines:      lines,
		Edges:      BuildEdges(lines),
		Distances:  LineDistances(lines),
		Volume:     Bounds(lines, req.TMin, req.TMax),
	}
	if err := b.publish(next); err != nil {
		return nil, err
	}
	return next, nil
}

func (b *Builder) publish(next *Buffers) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	old := b.current.Load()
	if old != nil && old.Generation > next.Generation {
		logging.Logger().Debug("geometry: dropping stale rebuild",
			"generation", next.Generation, "current", old.Generation)
		return ErrStale
	}
	b.current.Store(next)
	logging.Logger().Debug("geometry: published",
		"generation", next.Generation, "points", len(next.Points), "lines", len(next.Lines))
	for _, fn := range b.onSwap {
		fn(old, next)
	}
	return nil
}
