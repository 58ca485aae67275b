// Package cluster implements the post-finalize DBSCAN labeling pass: a
// serial classification scan followed by sequential cluster identification,
// each cluster expanded by a level-synchronous parallel breadth-first
// search over the frozen graph.
package cluster

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/gdbscan/core"
	"github.com/hupe1980/gdbscan/graph"
)

// Config controls the classification and expansion phases.
type Config struct {
	// MinPts is the minimum degree for a node to be classified Core.
	MinPts int
	// NumWorkers is the parallelism used within each BFS level. Defaults
	// to 1 if <= 0.
	NumWorkers int
}

// Record is one output row: the classification of a single input point.
type Record struct {
	Index      core.NodeID
	ClusterID  core.ClusterID
	Membership graph.Membership
}

// Result is the complete labeling output: per-node records plus compact
// roaring-bitmap partitions for export.
type Result struct {
	Records []Record

	// Clusters maps each assigned cluster id to the set of node indices in
	// it. Core and Border members of a cluster are both included.
	Clusters map[core.ClusterID]*roaring.Bitmap

	CorePoints   *roaring.Bitmap
	BorderPoints *roaring.Bitmap
	NoisePoints  *roaring.Bitmap

	NumClusters int
}

// Run classifies every node in csr, identifies clusters in index order, and
// expands each via parallel BFS. csr is mutated in place (membership and
// cluster id fields); Run is not safe to call twice on the same CSR.
func Run(csr *graph.CSR, cfg Config) *Result {
	classify(csr, cfg.MinPts)
	identify(csr, cfg.NumWorkers)
	return buildResult(csr)
}

// classify performs the serial O(N) degree-threshold pass. Border is not
// assigned here; it only arises during BFS expansion.
func classify(csr *graph.CSR, minPts int) {
	for k := 0; k < csr.N(); k++ {
		node := core.NodeID(k)
		if csr.Degree(node) >= minPts {
			csr.SetMembership(node, graph.Core)
		} else {
			csr.SetMembership(node, graph.Noise)
		}
	}
}

// identify sweeps nodes in index order, seeding a new cluster at every
// unclaimed Core node and expanding it to completion before moving on.
// Cluster ids are therefore a deterministic function of iteration order,
// independent of NumWorkers.
func identify(csr *graph.CSR, numWorkers int) {
	cluster := core.ClusterID(0)
	for k := 0; k < csr.N(); k++ {
		node := core.NodeID(k)
		if csr.Membership(node) != graph.Core {
			continue
		}
		if !csr.CompareAndSwapClusterID(node, core.NoCluster, cluster) {
			continue
		}
		expand(csr, node, cluster, numWorkers)
		cluster++
	}
}

// expand runs the level-synchronous parallel BFS seeded at node, claiming
// every node it reaches for cluster via CompareAndSwapClusterID so exactly
// one worker ever enqueues a given neighbor.
func expand(csr *graph.CSR, seed core.NodeID, cluster core.ClusterID, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	current := []core.NodeID{seed}
	next := make([][]core.NodeID, numWorkers)

	for len(current) > 0 {
		chunk := (len(current) + numWorkers - 1) / numWorkers

		var wg sync.WaitGroup
		for t := 0; t < numWorkers; t++ {
			lo := t * chunk
			hi := lo + chunk
			if hi > len(current) {
				hi = len(current)
			}
			if lo >= hi {
				next[t] = next[t][:0]
				continue
			}
			wg.Add(1)
			go func(t, lo, hi int) {
				defer wg.Done()
				local := next[t][:0]
				for _, n := range current[lo:hi] {
					if csr.Membership(n) == graph.Noise {
						csr.SetMembership(n, graph.Border)
						continue
					}
					for _, nbRaw := range csr.Neighbors(n) {
						nb := core.NodeID(nbRaw)
						if csr.CompareAndSwapClusterID(nb, core.NoCluster, cluster) {
							local = append(local, nb)
						}
					}
				}
				next[t] = local
			}(t, lo, hi)
		}
		wg.Wait()

		current = current[:0]
		for _, partial := range next {
			current = append(current, partial...)
		}
	}
}

// buildResult walks the finalized CSR once to assemble the per-node record
// slice and the roaring-bitmap partitions.
func buildResult(csr *graph.CSR) *Result {
	n := csr.N()
	res := &Result{
		Records:      make([]Record, n),
		Clusters:     make(map[core.ClusterID]*roaring.Bitmap),
		CorePoints:   roaring.New(),
		BorderPoints: roaring.New(),
		NoisePoints:  roaring.New(),
	}

	for k := 0; k < n; k++ {
		node := core.NodeID(k)
		m := csr.Membership(node)
		cid := csr.ClusterID(node)

		res.Records[k] = Record{Index: node, ClusterID: cid, Membership: m}

		switch m {
		case graph.Core:
			res.CorePoints.Add(uint32(k))
		case graph.Border:
			res.BorderPoints.Add(uint32(k))
		default:
			res.NoisePoints.Add(uint32(k))
		}

		if m != graph.Noise {
			bm, ok := res.Clusters[cid]
			if !ok {
				bm = roaring.New()
				res.Clusters[cid] = bm
			}
			bm.Add(uint32(k))
		}
	}

	res.NumClusters = len(res.Clusters)
	return res
}
