// Package util provides small, dependency-free helpers shared by tests
// and benchmarks: a seeded RNG and synthetic point-set generators.
package util

import "math/rand"

// RNG wraps a seeded math/rand source for reproducible test fixtures.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// GenerateUniformPoints generates num points with x and y coordinates drawn
// uniformly from [0, extent).
func (r *RNG) GenerateUniformPoints(num int, extent float32) (xs, ys []float32) {
	xs = make([]float32, num)
	ys = make([]float32, num)
	for i := range xs {
		xs[i] = r.rand.Float32() * extent
		ys[i] = r.rand.Float32() * extent
	}
	return xs, ys
}

// GenerateClusters generates numClusters Gaussian-ish blobs of pointsPerCluster
// points each, centered on a grid spaced spacing apart, with the given
// per-cluster spread. Useful for exercising multi-cluster BFS expansion in
// tests and benchmarks without depending on a fixture file.
func (r *RNG) GenerateClusters(numClusters, pointsPerCluster int, spacing, spread float32) (xs, ys []float32) {
	n := numClusters * pointsPerCluster
	xs = make([]float32, 0, n)
	ys = make([]float32, 0, n)
	for c := 0; c < numClusters; c++ {
		cx := float32(c) * spacing
		cy := float32(c%3) * spacing
		for i := 0; i < pointsPerCluster; i++ {
			xs = append(xs, cx+(r.rand.Float32()-0.5)*spread)
			ys = append(ys, cy+(r.rand.Float32()-0.5)*spread)
		}
	}
	return xs, ys
}
