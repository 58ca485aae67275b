package cluster

import (
	"context"
	"testing"

	"github.com/hupe1980/gdbscan/core"
	"github.com/hupe1980/gdbscan/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, n int, edges [][2]int, workers int) *graph.CSR {
	t.Helper()
	g := graph.NewStaging(n, graph.Dense)
	for _, e := range edges {
		require.NoError(t, g.InsertDense(core.NodeID(e[0]), core.NodeID(e[1])))
	}
	csr, err := g.Finalize(context.Background(), workers)
	require.NoError(t, err)
	return csr
}

func symmetric(edges ...[2]int) [][2]int {
	out := make([][2]int, 0, len(edges)*2)
	for _, e := range edges {
		out = append(out, e, [2]int{e[1], e[0]})
	}
	return out
}

// A 3-node mutually-connected core with one dangling leaf: 0,1,2 form a
// triangle (degree 2 each), 3 connects only to 0 (degree 1 for 3, degree 3
// for 0). With minPts=2, nodes 0-2 are Core and 3 is Noise-turned-Border.
func TestRun_CoreClusterWithBorder(t *testing.T) {
	edges := symmetric([2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2}, [2]int{0, 3})
	csr := build(t, 4, edges, 2)

	res := Run(csr, Config{MinPts: 2, NumWorkers: 2})

	assert.Equal(t, graph.Core, res.Records[0].Membership)
	assert.Equal(t, graph.Core, res.Records[1].Membership)
	assert.Equal(t, graph.Core, res.Records[2].Membership)
	assert.Equal(t, graph.Border, res.Records[3].Membership)

	assert.Equal(t, core.ClusterID(0), res.Records[0].ClusterID)
	assert.Equal(t, core.ClusterID(0), res.Records[3].ClusterID)
	assert.Equal(t, 1, res.NumClusters)
}

// An isolated node with no edges at all stays Noise with no cluster id.
func TestRun_IsolatedNodeIsNoise(t *testing.T) {
	csr := build(t, 1, nil, 1)
	res := Run(csr, Config{MinPts: 1, NumWorkers: 1})

	assert.Equal(t, graph.Noise, res.Records[0].Membership)
	assert.Equal(t, core.NoCluster, res.Records[0].ClusterID)
	assert.Equal(t, 0, res.NumClusters)
	assert.True(t, res.NoisePoints.Contains(0))
}

// Two disjoint triangles get two distinct, deterministically ordered
// cluster ids.
func TestRun_TwoDisjointClusters(t *testing.T) {
	edges := symmetric(
		[2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2},
		[2]int{3, 4}, [2]int{4, 5}, [2]int{3, 5},
	)
	csr := build(t, 6, edges, 1)

	res := Run(csr, Config{MinPts: 2, NumWorkers: 1})

	assert.Equal(t, 2, res.NumClusters)
	assert.Equal(t, core.ClusterID(0), res.Records[0].ClusterID)
	assert.Equal(t, core.ClusterID(1), res.Records[3].ClusterID)
	for _, r := range res.Records {
		assert.Equal(t, graph.Core, r.Membership)
	}
}

// clusterPartition reduces a Result to the comparable shape: membership per
// index plus, for non-noise nodes, which other indices share its cluster.
func clusterPartition(res *Result) (memberships []graph.Membership, groups [][]int) {
	memberships = make([]graph.Membership, len(res.Records))
	byCluster := map[core.ClusterID][]int{}
	for _, r := range res.Records {
		memberships[r.Index] = r.Membership
		if r.Membership != graph.Noise {
			byCluster[r.ClusterID] = append(byCluster[r.ClusterID], int(r.Index))
		}
	}
	for _, g := range byCluster {
		groups = append(groups, g)
	}
	return
}

// Varying NumWorkers must not change membership or the cluster partition.
func TestRun_WorkerCountInvariance(t *testing.T) {
	edges := symmetric(
		[2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 5},
		[2]int{6, 7}, [2]int{7, 8},
	)

	csrOne := build(t, 9, edges, 1)
	resOne := Run(csrOne, Config{MinPts: 2, NumWorkers: 1})

	csrMany := build(t, 9, edges, 4)
	resMany := Run(csrMany, Config{MinPts: 2, NumWorkers: 8})

	memOne, groupsOne := clusterPartition(resOne)
	memMany, groupsMany := clusterPartition(resMany)

	assert.Equal(t, memOne, memMany)
	assert.ElementsMatch(t, groupsOne, groupsMany)
}

// Running the pipeline twice on identically-constructed graphs produces
// identical output, including cluster id assignment.
func TestRun_Deterministic(t *testing.T) {
	edges := symmetric([2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2}, [2]int{0, 3})

	csrA := build(t, 4, edges, 3)
	resA := Run(csrA, Config{MinPts: 2, NumWorkers: 3})

	csrB := build(t, 4, edges, 3)
	resB := Run(csrB, Config{MinPts: 2, NumWorkers: 3})

	assert.Equal(t, resA.Records, resB.Records)
}

// Every node ends up in exactly one of {Core, Border, Noise}, and
// clusterId == -1 iff membership == Noise.
func TestRun_MembershipPartitionInvariant(t *testing.T) {
	edges := symmetric([2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2}, [2]int{0, 3}, [2]int{4, 5})
	csr := build(t, 6, edges, 2)
	res := Run(csr, Config{MinPts: 2, NumWorkers: 2})

	for _, r := range res.Records {
		if r.Membership == graph.Noise {
			assert.Equal(t, core.NoCluster, r.ClusterID, "node %d", r.Index)
		} else {
			assert.NotEqual(t, core.NoCluster, r.ClusterID, "node %d", r.Index)
		}
	}
}
