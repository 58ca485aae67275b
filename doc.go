// Package gdbscan implements a parallel DBSCAN (Density-Based Spatial
// Clustering of Applications with Noise) engine for two-dimensional
// Euclidean point sets.
//
// The pipeline has four stages. The caller performs stage 1;
// solver.Solver.Run performs stages 2-4 in order:
//
//  1. Load a Dataset (columnar x/y float32 coordinates).
//  2. Build the ε-neighborhood graph with a brute-force O(N²) distance
//     kernel, partitioned across worker goroutines (neighbor package).
//  3. Finalize the graph into an immutable CSR adjacency structure
//     (graph package).
//  4. Classify nodes as Core/Noise by degree, then run a level-synchronous
//     parallel BFS to assign cluster ids and relabel reachable Noise nodes
//     as Border (cluster package).
//
// # Quick start
//
//	cfg := solver.NewConfig(solver.WithEpsilon(1.5), solver.WithMinPts(4))
//	ds, _ := dataset.LoadText(f)
//	result, err := solver.New(cfg).Run(ctx, ds)
//
// # Concurrency model
//
// Neighbor construction and BFS both use static partitioning across a
// fixed worker pool (sized by solver.Config.NumWorkers), joined at
// goroutine barriers rather than a work-stealing queue — see the graph
// and cluster package docs for the exact partitioning scheme.
//
// # Persistence
//
// The core algorithm is single-shot and in-memory. The optional snapshot
// package archives a completed run's labeling (the per-point records and
// the cluster count) to a pluggable blob backend for later inspection; the
// configuration and the graph are not archived.
package gdbscan
