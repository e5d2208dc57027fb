// Package geometry samples a curve into the vertex and edge buffers drawn by
// the point and line materials.
//
// Samples are taken at dr = i/(count−1) for i in [0, count), so the first
// sample sits at dr = 0 and the last at dr = 1. Counts outside
// [MinCount, MaxCount] are rejected with ErrCountOutOfRange rather than
// clamped, leaving the caller's current buffers in place.
//
// A Builder owns the live Buffers. Rebuild constructs a complete new set and
// publishes it with a single atomic swap, so readers only ever observe a
// fully built generation. When two rebuilds race, the one started last wins
// and the older result is dropped.
package geometry
