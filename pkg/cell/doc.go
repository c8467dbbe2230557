// Package cell defines the unit-cell model of a two-dimensional photonic
// crystal: the lattice, the materials, the inclusion shapes and the ordered
// base that places them. Values in this package are plain data; the
// rasterizer and Fourier engine consume them read-only.
package cell
