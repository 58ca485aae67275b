package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSquared(t *testing.T) {
	tests := []struct {
		name           string
		ax, ay, bx, by float32
		expected       float32
	}{
		{"identical", 1, 2, 1, 2, 0},
		{"unit", 0, 0, 1, 0, 1},
		{"3-4-5", 0, 0, 3, 4, 25},
		{"negative", -1, -1, 1, 1, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Squared(tt.ax, tt.ay, tt.bx, tt.by)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestWithinBatch(t *testing.T) {
	xs := []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	ys := []float32{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	mask := make([]bool, len(xs))

	WithinBatch(0, 0, xs, ys, 9, mask) // epsSq=9 -> eps=3

	want := []bool{true, true, true, true, false, false, false, false, false, false}
	assert.Equal(t, want, mask)
}

func TestWithinBatch_TailNotMultipleOfLanes(t *testing.T) {
	xs := []float32{0, 1, 2}
	ys := []float32{0, 0, 0}
	mask := make([]bool, len(xs))

	WithinBatch(0, 0, xs, ys, 1, mask)

	assert.Equal(t, []bool{true, true, false}, mask)
}
