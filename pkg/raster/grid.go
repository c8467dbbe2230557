package raster

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/chazu/phc/pkg/cell"
)

// Grid is an N×N table of dielectric constants sampled at pixel centres.
// Row index i runs along the first lattice direction (x), column index j
// along the second (y).
type Grid struct {
	n    int
	data *mat.Dense
}

func newGrid(n int, fill float64) *Grid {
	d := make([]float64, n*n)
	if fill != 0 {
		for i := range d {
			d[i] = fill
		}
	}
	return &Grid{n: n, data: mat.NewDense(n, n, d)}
}

// FromValues builds a grid from explicit rows. The rows must form a
// non-empty square.
func FromValues(rows [][]float64) (*Grid, error) {
	const op = "grid from values"
	n := len(rows)
	if n == 0 {
		return nil, cell.Invalid(op, "rows", "grid is empty")
	}
	g := newGrid(n, 0)
	for i, r := range rows {
		if len(r) != n {
			return nil, cell.Invalid(op, "rows", "row %d has %d values, want %d", i, len(r), n)
		}
		copy(g.data.RawRowView(i), r)
	}
	return g, nil
}

// Size returns N.
func (g *Grid) Size() int { return g.n }

// At returns ε at pixel (i, j). It panics if either index is out of range.
func (g *Grid) At(i, j int) float64 { return g.data.At(i, j) }

// Row returns a copy of row i.
func (g *Grid) Row(i int) []float64 {
	return append([]float64(nil), g.data.RawRowView(i)...)
}

// Mean returns the arithmetic mean of all N² samples.
func (g *Grid) Mean() float64 {
	return stat.Mean(g.data.RawMatrix().Data, nil)
}

// Values returns a copy of the grid as rows.
func (g *Grid) Values() [][]float64 {
	out := make([][]float64, g.n)
	for i := range out {
		out[i] = g.Row(i)
	}
	return out
}

// Fraction returns the share of pixels whose value is within tol of eps.
func (g *Grid) Fraction(eps, tol float64) float64 {
	d := g.data.RawMatrix().Data
	hits := 0
	for _, v := range d {
		if math.Abs(v-eps) <= tol {
			hits++
		}
	}
	return float64(hits) / float64(len(d))
}

// Finite reports whether every sample is a finite number.
func (g *Grid) Finite() bool {
	d := g.data.RawMatrix().Data
	if floats.HasNaN(d) {
		return false
	}
	return !math.IsInf(floats.Max(d), 1) && !math.IsInf(floats.Min(d), -1)
}

// Matrix exposes the samples as a read-only gonum matrix.
func (g *Grid) Matrix() mat.Matrix { return g.data }
