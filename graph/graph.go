// Package graph implements the two-phase ε-neighborhood graph: a mutable
// StagingGraph populated by the neighbor package's distance kernel, and an
// immutable CSR produced by a single Finalize call. The two phases are
// distinct Go types, so adjacency can only be read from the CSR that
// Finalize returns. Mutating or finalizing a StagingGraph after Finalize is
// caught at runtime and returns a PhaseError.
package graph

import (
	"context"
	"math/bits"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	gdbscan "github.com/hupe1980/gdbscan"
	"github.com/hupe1980/gdbscan/core"
	"github.com/hupe1980/gdbscan/internal/simd"
)

// Encoding selects how StagingGraph records candidate edges during the
// build phase.
type Encoding int

const (
	// Dense stores each node's neighbor list as a growable slice. Memory is
	// O(E); no SIMD-friendly inner structure.
	Dense Encoding = iota
	// Bits stores each node's adjacency as a row of the bit-matrix
	// N × ⌈N/64⌉, regardless of density, enabling word-level popcount and
	// OR-merge operations.
	Bits
)

func (e Encoding) String() string {
	if e == Bits {
		return "bits"
	}
	return "dense"
}

// Membership classifies a node after the classify and identify passes.
type Membership uint32

const (
	// Noise is the default: no classification performed yet, or the node
	// is not density-reachable from any Core node.
	Noise Membership = iota
	Core
	Border
)

func (m Membership) String() string {
	switch m {
	case Core:
		return "core"
	case Border:
		return "border"
	default:
		return "noise"
	}
}

// StagingGraph is the mutable phase-A adjacency container.
type StagingGraph struct {
	n        int
	encoding Encoding

	dense [][]core.NodeID // len n, used when encoding == Dense
	bits  []uint64        // n * wordsPerRow words, used when encoding == Bits

	wordsPerRow int

	// frozen guards against the pathological case of a caller retaining a
	// pointer into the staging graph across Finalize: the common call
	// pattern (Finalize takes ownership and the staging value is dropped)
	// never touches this field.
	frozen bool
}

// NewStaging allocates an empty staging graph for n nodes.
func NewStaging(n int, encoding Encoding) *StagingGraph {
	g := &StagingGraph{n: n, encoding: encoding}
	switch encoding {
	case Bits:
		g.wordsPerRow = (n + 63) / 64
		if g.wordsPerRow == 0 {
			g.wordsPerRow = 1
		}
		g.bits = make([]uint64, n*g.wordsPerRow)
	default:
		g.dense = make([][]core.NodeID, n)
	}
	return g
}

// N returns the node count.
func (g *StagingGraph) N() int { return g.n }

// Encoding returns the staging encoding in use.
func (g *StagingGraph) Encoding() Encoding { return g.encoding }

// InsertDense appends v to u's dense neighbor list. Valid only when the
// graph was created with Dense encoding.
func (g *StagingGraph) InsertDense(u, v core.NodeID) error {
	if g.frozen {
		return gdbscan.NewPhaseError("InsertDense", gdbscan.ErrAlreadyFrozen)
	}
	if int(u) >= g.n {
		return &gdbscan.OutOfRange{Index: int(u), N: g.n}
	}
	if int(v) >= g.n {
		return &gdbscan.OutOfRange{Index: int(v), N: g.n}
	}
	g.dense[u] = append(g.dense[u], v)
	return nil
}

// row returns the bit-matrix row for node u (Bits encoding only).
func (g *StagingGraph) row(u core.NodeID) []uint64 {
	start := int(u) * g.wordsPerRow
	return g.bits[start : start+g.wordsPerRow]
}

// InsertBits OR-merges mask into word wordIdx of u's adjacency row. Valid
// only when the graph was created with Bits encoding. Repeated inserts of
// the same bit are idempotent.
func (g *StagingGraph) InsertBits(u core.NodeID, wordIdx int, mask uint64) error {
	if g.frozen {
		return gdbscan.NewPhaseError("InsertBits", gdbscan.ErrAlreadyFrozen)
	}
	if int(u) >= g.n {
		return &gdbscan.OutOfRange{Index: int(u), N: g.n}
	}
	if wordIdx < 0 || wordIdx >= g.wordsPerRow {
		return &gdbscan.OutOfRange{Index: wordIdx, N: g.wordsPerRow}
	}
	row := g.row(u)
	row[wordIdx] |= mask
	return nil
}

// Finalize consumes the staging graph and returns the immutable CSR. It
// is a two-pass transition: (1) an exclusive prefix scan over node degrees
// builds Va, (2) Ea is allocated and filled in parallel, partitioned by
// striding node indices across numWorkers goroutines.
//
// Finalize takes StagingGraph by value-like ownership: callers should
// treat g as consumed afterward. A defensive runtime guard catches the
// pathological case of a caller calling Finalize twice, or retaining g
// across the call and attempting to insert into it afterward, returning a
// PhaseError wrapping ErrAlreadyFrozen. A second defensive internal
// consistency check raises an Internal error if the parallel fill writes a
// different number of entries than Va predicted.
func (g *StagingGraph) Finalize(ctx context.Context, numWorkers int) (*CSR, error) {
	if g.frozen {
		return nil, gdbscan.NewPhaseError("Finalize", gdbscan.ErrAlreadyFrozen)
	}
	g.frozen = true

	n := g.n
	va := make([]uint32, 2*n)

	degree := func(u int) int {
		if g.encoding == Bits {
			start := u * g.wordsPerRow
			return simd.PopcountWords(g.bits[start : start+g.wordsPerRow])
		}
		return len(g.dense[u])
	}

	offset := uint32(0)
	for u := 0; u < n; u++ {
		d := degree(u)
		va[2*u] = offset
		va[2*u+1] = uint32(d)
		offset += uint32(d)
	}

	ea := make([]uint32, offset)
	if offset == 0 {
		g.dense, g.bits = nil, nil
		return &CSR{n: n, va: va, ea: ea, membership: newMembership(n), clusterIds: newClusterIDs(n)}, nil
	}

	if numWorkers <= 0 {
		numWorkers = 1
	}

	grp, _ := errgroup.WithContext(ctx)

	for w := 0; w < numWorkers && w < n; w++ {
		grp.Go(func() error {
			for u := w; u < n; u += numWorkers {
				dst := ea[va[2*u] : va[2*u]+va[2*u+1]]
				written := 0
				if g.encoding == Bits {
					written = fillFromBits(dst, g.row(core.NodeID(u)))
				} else {
					for i, v := range g.dense[u] {
						dst[i] = uint32(v)
						written++
					}
				}
				if written != int(va[2*u+1]) {
					return &gdbscan.Internal{Msg: "degree/write-count mismatch during finalize"}
				}
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	g.dense, g.bits = nil, nil

	return &CSR{
		n:          n,
		va:         va,
		ea:         ea,
		membership: newMembership(n),
		clusterIds: newClusterIDs(n),
	}, nil
}

// fillFromBits writes the ascending indices of set bits in row into dst,
// extracting the lowest set bit repeatedly (val &= val-1) so each write
// corresponds to exactly one bit. It returns the number of entries written.
func fillFromBits(dst []uint32, row []uint64) int {
	i := 0
	for w, val := range row {
		for val != 0 {
			pos := bits.TrailingZeros64(val)
			dst[i] = uint32(w*64 + pos)
			i++
			val &= val - 1
		}
	}
	return i
}

func newMembership(n int) []atomic.Uint32 {
	return make([]atomic.Uint32, n)
}

func newClusterIDs(n int) []atomic.Int32 {
	ids := make([]atomic.Int32, n)
	for i := range ids {
		ids[i].Store(int32(core.NoCluster))
	}
	return ids
}

// CSR is the immutable, frozen adjacency structure. Va holds an
// interleaved (offset, degree) pair per node; Ea holds all neighbor
// indices concatenated in node order.
type CSR struct {
	n  int
	va []uint32
	ea []uint32

	membership []atomic.Uint32
	clusterIds []atomic.Int32
}

// N returns the node count.
func (c *CSR) N() int { return c.n }

// Degree returns the out-degree of node u.
func (c *CSR) Degree(u core.NodeID) int { return int(c.va[2*u+1]) }

// Neighbors returns the neighbor indices of node u, in ascending order for
// the Bits encoding and insertion order for Dense.
func (c *CSR) Neighbors(u core.NodeID) []uint32 {
	off := c.va[2*u]
	deg := c.va[2*u+1]
	return c.ea[off : off+deg]
}

// Va exposes the raw offset/degree array, primarily for tests asserting
// the prefix-sum invariant.
func (c *CSR) Va() []uint32 { return c.va }

// Ea exposes the raw concatenated neighbor array.
func (c *CSR) Ea() []uint32 { return c.ea }

// Membership returns the current classification of node i.
func (c *CSR) Membership(i core.NodeID) Membership {
	return Membership(c.membership[i].Load())
}

// SetMembership atomically sets the classification of node i.
func (c *CSR) SetMembership(i core.NodeID, m Membership) {
	c.membership[i].Store(uint32(m))
}

// ClusterID returns the cluster assigned to node i, or core.NoCluster.
func (c *CSR) ClusterID(i core.NodeID) core.ClusterID {
	return core.ClusterID(c.clusterIds[i].Load())
}

// SetClusterID assigns a cluster id to node i unconditionally. The cluster
// package claims both seeds and neighbors through CompareAndSwapClusterID
// and does not call this method.
func (c *CSR) SetClusterID(i core.NodeID, id core.ClusterID) {
	c.clusterIds[i].Store(int32(id))
}

// CompareAndSwapClusterID atomically assigns id to node i only if its
// current cluster id is old, returning whether this call won the race.
// This is the claim primitive BFS uses to guarantee each node is enqueued
// by exactly one worker: concurrent discoverers of the same neighbor race
// this CAS and exactly one observes true.
func (c *CSR) CompareAndSwapClusterID(i core.NodeID, old, id core.ClusterID) bool {
	return c.clusterIds[i].CompareAndSwap(int32(old), int32(id))
}
