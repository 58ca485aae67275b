package solver

import (
	"context"
	"strings"
	"testing"

	"github.com/hupe1980/gdbscan/dataset"
	"github.com/hupe1980/gdbscan/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name string
		cfg  *Config
	}{
		{"zero epsilon", NewConfig(WithEpsilon(0), WithMinPts(1), WithWorkers(1))},
		{"negative epsilon", NewConfig(WithEpsilon(-1), WithMinPts(1), WithWorkers(1))},
		{"zero min pts", NewConfig(WithEpsilon(1), WithMinPts(0), WithWorkers(1))},
		{"zero workers", NewConfig(WithEpsilon(1), WithMinPts(1), WithWorkers(0))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	assert.GreaterOrEqual(t, cfg.NumWorkers, 1)
	assert.Equal(t, graph.Dense, cfg.Encoding)
	assert.True(t, cfg.SIMD)
}

// Two tight pairs far apart: end-to-end Run should find two singleton-pair
// clusters with minPts=2, treating each member as Core.
func TestSolver_Run_TwoPairs(t *testing.T) {
	input := "4\n0 0 0\n1 0.3 0\n2 100 100\n3 100.3 100\n"
	ds, err := dataset.LoadText(strings.NewReader(input))
	require.NoError(t, err)

	cfg := NewConfig(WithEpsilon(1.0), WithMinPts(2), WithWorkers(2))
	result, err := New(cfg).Run(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, 2, result.NumClusters)
	assert.Equal(t, graph.Core, result.Records[0].Membership)
	assert.Equal(t, result.Records[0].ClusterID, result.Records[1].ClusterID)
	assert.NotEqual(t, result.Records[0].ClusterID, result.Records[2].ClusterID)
}

func TestSolver_Run_InvalidConfigFailsBeforeWork(t *testing.T) {
	ds := dataset.New(0)
	cfg := NewConfig(WithEpsilon(0))
	_, err := New(cfg).Run(context.Background(), ds)
	assert.Error(t, err)
}

func TestSolver_Run_EmptyDataset(t *testing.T) {
	ds := dataset.New(0)
	cfg := NewConfig(WithEpsilon(1.0), WithMinPts(1), WithWorkers(2))
	result, err := New(cfg).Run(context.Background(), ds)
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.NumClusters)
}

// Encoding equivalence at the full pipeline level: dense and bits runs over
// the same input yield the same membership and cluster partition.
func TestSolver_Run_EncodingEquivalence(t *testing.T) {
	input := "6\n0 0 0\n1 0.2 0.1\n2 0.3 0.3\n3 5 5\n4 5.1 5.2\n5 9 9\n"

	dsA, err := dataset.LoadText(strings.NewReader(input))
	require.NoError(t, err)
	cfgDense := NewConfig(WithEpsilon(1.0), WithMinPts(2), WithWorkers(2), WithEncoding(graph.Dense))
	resDense, err := New(cfgDense).Run(context.Background(), dsA)
	require.NoError(t, err)

	dsB, err := dataset.LoadText(strings.NewReader(input))
	require.NoError(t, err)
	cfgBits := NewConfig(WithEpsilon(1.0), WithMinPts(2), WithWorkers(2), WithEncoding(graph.Bits))
	resBits, err := New(cfgBits).Run(context.Background(), dsB)
	require.NoError(t, err)

	for i := range resDense.Records {
		assert.Equal(t, resDense.Records[i].Membership, resBits.Records[i].Membership, "node %d", i)
	}
	assert.Equal(t, resDense.NumClusters, resBits.NumClusters)
}
