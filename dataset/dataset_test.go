package dataset

import (
	"strings"
	"testing"

	"github.com/hupe1980/gdbscan/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadText(t *testing.T) {
	input := "3\n0 0.0 0.0\n1 1.5 2.5\n2 -1.0 3.0\n"

	ds, err := LoadText(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.InDelta(t, float32(1.5), ds.X(1), 1e-6)
	assert.InDelta(t, float32(2.5), ds.Y(1), 1e-6)
	assert.InDelta(t, float32(-1.0), ds.X(2), 1e-6)
}

func TestLoadText_OutOfOrderRecords(t *testing.T) {
	input := "2\n1 9 9\n0 1 1\n"

	ds, err := LoadText(strings.NewReader(input))
	require.NoError(t, err)

	assert.InDelta(t, float32(1), ds.X(0), 1e-6)
	assert.InDelta(t, float32(9), ds.X(1), 1e-6)
}

func TestLoadText_ZeroPoints(t *testing.T) {
	ds, err := LoadText(strings.NewReader("0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}

func TestLoadText_MalformedCount(t *testing.T) {
	_, err := LoadText(strings.NewReader("abc\n"))
	assert.Error(t, err)
}

func TestLoadText_IndexOutOfRange(t *testing.T) {
	_, err := LoadText(strings.NewReader("1\n5 0 0\n"))
	assert.Error(t, err)
}

func TestLoadText_TruncatedRecord(t *testing.T) {
	_, err := LoadText(strings.NewReader("2\n0 1 1\n"))
	assert.Error(t, err)
}

func TestDataset_PaddingNeverExposedAsValidIndex(t *testing.T) {
	ds := New(3)
	ds.Set(core.NodeID(0), 1, 1)
	ds.Set(core.NodeID(1), 2, 2)
	ds.Set(core.NodeID(2), 3, 3)

	assert.GreaterOrEqual(t, len(ds.XSlice()), 8)
	assert.Equal(t, 3, ds.Len())
}
