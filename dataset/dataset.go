// Package dataset provides immutable, columnar storage for 2D point
// coordinates and the loaders that populate it from the pipeline's input
// format.
package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	gdbscan "github.com/hupe1980/gdbscan"
	"github.com/hupe1980/gdbscan/core"
	"github.com/hupe1980/gdbscan/internal/mmap"
)

// laneWidth is the reference 8-lane width of the batch distance kernel: the
// X/Y slices are padded to a multiple of this so an 8-lane load starting at
// any lane boundary stays in-bounds. Padding values are always zero and are never observed as
// edges, because every candidate neighbor index is additionally guarded by
// i < N before being committed.
const laneWidth = 8

// Dataset is an immutable, column-major store of 2D point coordinates.
// X and Y are parallel slices of length N, padded to a multiple of
// laneWidth for the batch distance kernel.
type Dataset struct {
	n int
	x []float32
	y []float32
}

// New allocates an empty Dataset for n points. Coordinates default to zero
// and must be populated via Set before the Dataset is used.
func New(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	padded := ((n + laneWidth - 1) / laneWidth) * laneWidth
	if padded == 0 {
		padded = laneWidth
	}
	return &Dataset{
		n: n,
		x: make([]float32, padded),
		y: make([]float32, padded),
	}
}

// Len returns the number of points, N.
func (d *Dataset) Len() int { return d.n }

// Set assigns the coordinates of point i. i must be in [0, N).
func (d *Dataset) Set(i core.NodeID, x, y float32) {
	d.x[i] = x
	d.y[i] = y
}

// X returns the x-coordinate of point i.
func (d *Dataset) X(i core.NodeID) float32 { return d.x[i] }

// Y returns the y-coordinate of point i.
func (d *Dataset) Y(i core.NodeID) float32 { return d.y[i] }

// XSlice returns the backing, lane-padded x-coordinate slice. Only the
// first Len() entries are meaningful; the rest are zero padding retained
// for the batch distance kernel's wide loads.
func (d *Dataset) XSlice() []float32 { return d.x }

// YSlice returns the backing, lane-padded y-coordinate slice.
func (d *Dataset) YSlice() []float32 { return d.y }

// LoadText parses the whitespace-delimited input format: an integer N,
// followed by N records of (index, x, y). Record order is not constrained.
func LoadText(r io.Reader) (*Dataset, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	tok, ok := next()
	if !ok {
		return nil, &gdbscan.ConfigError{Field: "input", Value: "empty"}
	}
	var n int
	if _, err := fmt.Sscan(tok, &n); err != nil {
		return nil, &gdbscan.ConfigError{Field: "input.n", Value: tok}
	}
	if n < 0 {
		return nil, gdbscan.NewConfigError("input.n", n)
	}

	ds := New(n)
	for k := 0; k < n; k++ {
		idxTok, ok := next()
		if !ok {
			return nil, gdbscan.NewConfigError("input.record", fmt.Sprintf("missing record %d", k))
		}
		xTok, ok := next()
		if !ok {
			return nil, gdbscan.NewConfigError("input.record", fmt.Sprintf("missing x for record %d", k))
		}
		yTok, ok := next()
		if !ok {
			return nil, gdbscan.NewConfigError("input.record", fmt.Sprintf("missing y for record %d", k))
		}

		var idx int
		var x, y float64
		if _, err := fmt.Sscan(idxTok, &idx); err != nil {
			return nil, gdbscan.NewConfigError("input.index", idxTok)
		}
		if _, err := fmt.Sscan(xTok, &x); err != nil {
			return nil, gdbscan.NewConfigError("input.x", xTok)
		}
		if _, err := fmt.Sscan(yTok, &y); err != nil {
			return nil, gdbscan.NewConfigError("input.y", yTok)
		}
		if idx < 0 || idx >= n {
			return nil, &gdbscan.OutOfRange{Index: idx, N: n}
		}
		ds.Set(core.NodeID(idx), float32(x), float32(y))
	}

	return ds, nil
}

// LoadMmap memory-maps the file at path and parses it without first copying
// the whole file into a second, heap-allocated buffer — useful for very
// large point sets.
func LoadMmap(path string) (*Dataset, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	// bytes.Reader over the mapped slice: no copy, just a cursor.
	return LoadText(bytes.NewReader(m.Bytes()))
}
