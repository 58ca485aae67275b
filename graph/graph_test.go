package graph

import (
	"context"
	"errors"
	"testing"

	gdbscan "github.com/hupe1980/gdbscan"
	"github.com/hupe1980/gdbscan/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDense(t *testing.T, n int, edges [][2]int, workers int) *CSR {
	t.Helper()
	g := NewStaging(n, Dense)
	for _, e := range edges {
		require.NoError(t, g.InsertDense(core.NodeID(e[0]), core.NodeID(e[1])))
	}
	csr, err := g.Finalize(context.Background(), workers)
	require.NoError(t, err)
	return csr
}

func buildBits(t *testing.T, n int, edges [][2]int, workers int) *CSR {
	t.Helper()
	g := NewStaging(n, Bits)
	for _, e := range edges {
		u, v := e[0], e[1]
		require.NoError(t, g.InsertBits(core.NodeID(u), v/64, uint64(1)<<(uint(v)%64)))
	}
	csr, err := g.Finalize(context.Background(), workers)
	require.NoError(t, err)
	return csr
}

func neighborSet(c *CSR, u core.NodeID) map[uint32]bool {
	m := map[uint32]bool{}
	for _, v := range c.Neighbors(u) {
		m[v] = true
	}
	return m
}

func TestFinalize_PrefixSumInvariant(t *testing.T) {
	edges := [][2]int{{0, 1}, {0, 2}, {1, 0}, {2, 0}}
	csr := buildDense(t, 3, edges, 2)

	va := csr.Va()
	total := 0
	for k := 0; k < 3; k++ {
		assert.Equal(t, uint32(total), va[2*k])
		total += int(va[2*k+1])
	}
	assert.Equal(t, total, len(csr.Ea()))
}

func TestFinalize_ZeroEdges(t *testing.T) {
	csr := buildDense(t, 4, nil, 2)
	assert.Empty(t, csr.Ea())
	for k := 0; k < 4; k++ {
		assert.Equal(t, 0, csr.Degree(core.NodeID(k)))
	}
}

func TestFinalize_ZeroNodes(t *testing.T) {
	csr := buildDense(t, 0, nil, 2)
	assert.Empty(t, csr.Va())
	assert.Empty(t, csr.Ea())
}

func TestFinalize_DenseBitsEquivalence(t *testing.T) {
	n := 10
	edges := [][2]int{
		{0, 8}, {8, 0}, {0, 9}, {9, 0}, {1, 2}, {2, 1}, {3, 4}, {4, 3},
	}

	dense := buildDense(t, n, edges, 3)
	bitset := buildBits(t, n, edges, 3)

	for u := 0; u < n; u++ {
		assert.Equal(t, neighborSet(dense, core.NodeID(u)), neighborSet(bitset, core.NodeID(u)), "node %d", u)
	}
}

func TestFinalize_WorkerCountInvariance(t *testing.T) {
	n := 6
	edges := [][2]int{{0, 1}, {1, 0}, {2, 3}, {3, 2}, {4, 5}, {5, 4}}

	one := buildDense(t, n, edges, 1)
	many := buildDense(t, n, edges, 4)

	for u := 0; u < n; u++ {
		assert.Equal(t, neighborSet(one, core.NodeID(u)), neighborSet(many, core.NodeID(u)))
	}
}

func TestBits_TailHandling(t *testing.T) {
	// 10 nodes: word 0 covers bits 0-63, node 8 and 9 live in the same word.
	g := NewStaging(10, Bits)
	require.NoError(t, g.InsertBits(0, 0, (1<<8)|(1<<9)))

	csr, err := g.Finalize(context.Background(), 2)
	require.NoError(t, err)

	neighbors := csr.Neighbors(0)
	assert.ElementsMatch(t, []uint32{8, 9}, neighbors)
	for _, v := range neighbors {
		assert.Less(t, int(v), 10)
	}
}

func TestOutOfRange(t *testing.T) {
	g := NewStaging(3, Dense)
	err := g.InsertDense(0, 5)
	assert.Error(t, err)

	gb := NewStaging(3, Bits)
	err = gb.InsertBits(5, 0, 1)
	assert.Error(t, err)
}

func TestFinalize_Twice_ReturnsPhaseError(t *testing.T) {
	g := NewStaging(2, Dense)
	require.NoError(t, g.InsertDense(0, 1))

	_, err := g.Finalize(context.Background(), 1)
	require.NoError(t, err)

	_, err = g.Finalize(context.Background(), 1)
	require.Error(t, err)
	var pe *gdbscan.PhaseError
	assert.ErrorAs(t, err, &pe)
	assert.True(t, errors.Is(err, gdbscan.ErrAlreadyFrozen))
}

func TestInsertAfterFinalize_ReturnsPhaseError(t *testing.T) {
	g := NewStaging(2, Dense)
	_, err := g.Finalize(context.Background(), 1)
	require.NoError(t, err)

	err = g.InsertDense(0, 1)
	require.Error(t, err)
	var pe *gdbscan.PhaseError
	assert.ErrorAs(t, err, &pe)

	gb := NewStaging(2, Bits)
	_, err = gb.Finalize(context.Background(), 1)
	require.NoError(t, err)

	err = gb.InsertBits(0, 0, 1)
	require.Error(t, err)
	assert.ErrorAs(t, err, &pe)
}

func TestMembershipAndClusterID_Defaults(t *testing.T) {
	csr := buildDense(t, 2, nil, 1)
	assert.Equal(t, Noise, csr.Membership(0))
	assert.Equal(t, core.NoCluster, csr.ClusterID(0))

	csr.SetMembership(0, Core)
	csr.SetClusterID(0, 1)
	assert.Equal(t, Core, csr.Membership(0))
	assert.Equal(t, core.ClusterID(1), csr.ClusterID(0))
}
