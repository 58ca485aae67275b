// Package distance provides the squared-Euclidean distance predicate used
// by the neighbor package's ε-neighborhood search.
package distance

import "github.com/hupe1980/gdbscan/internal/simd"

// Squared calculates the squared Euclidean distance between two 2D points.
// Squaring avoids a square root on every candidate pair; callers compare
// against ε² instead of ε.
func Squared(ax, ay, bx, by float32) float32 {
	return simd.SquaredDist(ax, ay, bx, by)
}

// WithinBatch evaluates, for a fixed source point (sx, sy), whether each of
// the points in (xs, ys) lies within epsSq squared-distance, writing the
// result into mask. len(xs) == len(ys) == len(mask) is required.
func WithinBatch(sx, sy float32, xs, ys []float32, epsSq float32, mask []bool) {
	simd.SquaredDistBatch(sx, sy, xs, ys, epsSq, mask)
}
