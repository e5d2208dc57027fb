package loop

import "math"

// Wrap folds t into [lo, hi] as a sawtooth: running past hi continues from
// lo, running below lo continues from hi. An empty, inverted or
// non-finite window returns lo, as does a non-finite t.
func Wrap(t, lo, hi float64) float64 {
	span := hi - lo
	if !(span > 0) || math.IsInf(span, 0) || math.IsNaN(t) || math.IsInf(t, 0) {
		return lo
	}
	switch {
	case t > hi:
		return lo + math.Mod(t-hi, span)
	case t < lo:
		return hi - math.Mod(lo-t, span)
	}
	return t
}
