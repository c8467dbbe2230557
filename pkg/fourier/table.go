package fourier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Table holds the N×N Fourier coefficients with the zero order at the
// centre. Orders run over [-N/2, N-1-N/2] on both axes; order m sits at
// row m + N/2.
type Table struct {
	n    int
	data *mat.CDense
}

func newTable(n int, data []complex128) *Table {
	return &Table{n: n, data: mat.NewCDense(n, n, data)}
}

// Size returns N.
func (t *Table) Size() int { return t.n }

// MinOrder and MaxOrder bound the valid orders on each axis.
func (t *Table) MinOrder() int { return -(t.n / 2) }
func (t *Table) MaxOrder() int { return t.n - 1 - t.n/2 }

// Raw returns the entry at storage position (row, col).
func (t *Table) Raw(row, col int) complex128 { return t.data.At(row, col) }

// Index maps orders (m, n) to a storage position. ok is false when either
// order is out of range.
func (t *Table) Index(m, n int) (row, col int, ok bool) {
	lo, hi := t.MinOrder(), t.MaxOrder()
	if m < lo || m > hi || n < lo || n > hi {
		return 0, 0, false
	}
	return m + t.n/2, n + t.n/2, true
}

// Order maps a storage position to its orders (m, n).
func (t *Table) Order(row, col int) (m, n int) {
	return row - t.n/2, col - t.n/2
}

// At returns ξ(m, n). It panics if either order is out of range.
func (t *Table) At(m, n int) complex128 {
	row, col, ok := t.Index(m, n)
	if !ok {
		panic(fmt.Sprintf("fourier: order (%d, %d) out of range [%d, %d]", m, n, t.MinOrder(), t.MaxOrder()))
	}
	return t.data.At(row, col)
}

// Lookup returns ξ(m, n) and whether the orders are in range.
func (t *Table) Lookup(m, n int) (complex128, bool) {
	row, col, ok := t.Index(m, n)
	if !ok {
		return 0, false
	}
	return t.data.At(row, col), true
}

// Center returns ξ(0, 0), the mean dielectric constant.
func (t *Table) Center() complex128 { return t.At(0, 0) }

// MaxImag returns the largest |Im ξ| over the table.
func (t *Table) MaxImag() float64 {
	var worst float64
	for r := 0; r < t.n; r++ {
		for c := 0; c < t.n; c++ {
			worst = math.Max(worst, math.Abs(imag(t.data.At(r, c))))
		}
	}
	return worst
}

// Values returns a copy of the table as rows in storage order.
func (t *Table) Values() [][]complex128 {
	out := make([][]complex128, t.n)
	for r := range out {
		out[r] = make([]complex128, t.n)
		for c := range out[r] {
			out[r][c] = t.data.At(r, c)
		}
	}
	return out
}
