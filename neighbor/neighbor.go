// Package neighbor implements the brute-force parallel ε-neighborhood
// graph builder: the O(N²) stage of the pipeline that proposes every
// candidate edge under the squared-distance predicate and records it into
// a graph.StagingGraph, partitioned statically across worker goroutines.
package neighbor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/gdbscan/core"
	"github.com/hupe1980/gdbscan/dataset"
	"github.com/hupe1980/gdbscan/distance"
	"github.com/hupe1980/gdbscan/graph"
)

// Config controls how the neighbor graph is built.
type Config struct {
	// Epsilon is the neighborhood radius. Squared internally so the
	// per-pair comparison never takes a square root.
	Epsilon float64
	// NumWorkers is the number of goroutines used to partition the N
	// source points. Defaults to 1 if <= 0.
	NumWorkers int
	// Encoding selects the staging adjacency representation.
	Encoding graph.Encoding
	// SIMD enables the 8-lane batch distance kernel. When false, a
	// one-pair-at-a-time scalar kernel is used instead; both paths are
	// required to produce bitwise-identical results.
	SIMD bool
}

// Build constructs the ε-neighborhood graph over ds and returns the
// finalized CSR. Each worker owns a disjoint, contiguous range of source
// indices, so no synchronization is required while proposing edges; the
// parallel fill inside Finalize is a separate, later barrier.
func Build(ctx context.Context, ds *dataset.Dataset, cfg Config) (*graph.CSR, error) {
	staging, err := BuildStaging(ctx, ds, cfg)
	if err != nil {
		return nil, err
	}
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return staging.Finalize(ctx, numWorkers)
}

// BuildStaging runs only the candidate-edge proposal phase, leaving the
// caller to call StagingGraph.Finalize separately. Splitting the two phases
// lets a caller time and record them as distinct pipeline stages.
func BuildStaging(ctx context.Context, ds *dataset.Dataset, cfg Config) (*graph.StagingGraph, error) {
	n := ds.Len()
	staging := graph.NewStaging(n, cfg.Encoding)
	if n == 0 {
		return staging, nil
	}

	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}
	epsSq := float32(cfg.Epsilon * cfg.Epsilon)

	grp, ctx := errgroup.WithContext(ctx)
	chunk := (n + numWorkers - 1) / numWorkers

	xs := ds.XSlice()
	ys := ds.YSlice()

	for w := 0; w < numWorkers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		grp.Go(func() error {
			mask := make([]bool, len(xs))
			for u := lo; u < hi; u++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := buildRow(staging, cfg, core.NodeID(u), n, xs, ys, epsSq, mask); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}

	return staging, nil
}

// buildRow proposes all edges out of source node u.
func buildRow(staging *graph.StagingGraph, cfg Config, u core.NodeID, n int, xs, ys []float32, epsSq float32, mask []bool) error {
	ux, uy := xs[u], ys[u]

	if cfg.SIMD {
		distance.WithinBatch(ux, uy, xs, ys, epsSq, mask)
		if cfg.Encoding == graph.Bits {
			return commitBitsFromMask(staging, u, n, mask)
		}
		for v := 0; v < n; v++ {
			if v == int(u) || !mask[v] {
				continue
			}
			if err := staging.InsertDense(u, core.NodeID(v)); err != nil {
				return err
			}
		}
		return nil
	}

	// Scalar fallback: one pair at a time, required to match the batch
	// path bit-for-bit.
	if cfg.Encoding == graph.Bits {
		wordsPerRow := (n + 63) / 64
		for w := 0; w < wordsPerRow; w++ {
			var word uint64
			base := w * 64
			limit := base + 64
			if limit > n {
				limit = n
			}
			for v := base; v < limit; v++ {
				if v == int(u) {
					continue
				}
				if distance.Squared(ux, uy, xs[v], ys[v]) <= epsSq {
					word |= 1 << uint(v-base)
				}
			}
			if word != 0 {
				if err := staging.InsertBits(u, w, word); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for v := 0; v < n; v++ {
		if v == int(u) {
			continue
		}
		if distance.Squared(ux, uy, xs[v], ys[v]) <= epsSq {
			if err := staging.InsertDense(u, core.NodeID(v)); err != nil {
				return err
			}
		}
	}
	return nil
}

// commitBitsFromMask folds a flat boolean mask (as produced by the batch
// kernel) into 64-bit words and inserts each non-zero word in one call.
func commitBitsFromMask(staging *graph.StagingGraph, u core.NodeID, n int, mask []bool) error {
	wordsPerRow := (n + 63) / 64
	for w := 0; w < wordsPerRow; w++ {
		var word uint64
		base := w * 64
		limit := base + 64
		if limit > n {
			limit = n
		}
		for v := base; v < limit; v++ {
			if v == int(u) || !mask[v] {
				continue
			}
			word |= 1 << uint(v-base)
		}
		if word != 0 {
			if err := staging.InsertBits(u, w, word); err != nil {
				return err
			}
		}
	}
	return nil
}
