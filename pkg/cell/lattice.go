package cell

import (
	"fmt"
	"math"
)

// Vec2 is an in-plane vector in real-space length units.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v * k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Norm returns the Euclidean length of v.
func (v Vec2) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Cross returns the z component of v × o.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

// LatticeKind distinguishes the supported Bravais lattices.
type LatticeKind int

const (
	LatticeSquare     LatticeKind = iota // a1 ⟂ a2, |a1| = |a2|
	LatticeTriangular                    // 60° between a1 and a2
)

func (k LatticeKind) String() string {
	switch k {
	case LatticeSquare:
		return "square"
	case LatticeTriangular:
		return "triangular"
	default:
		return fmt.Sprintf("LatticeKind(%d)", int(k))
	}
}

// Lattice holds the in-plane basis vectors of a 2D periodic structure.
type Lattice struct {
	Kind LatticeKind
	A1   Vec2
	A2   Vec2
}

// NewSquare returns a square lattice with lattice constant a.
func NewSquare(a float64) Lattice {
	return Lattice{
		Kind: LatticeSquare,
		A1:   Vec2{X: a},
		A2:   Vec2{Y: a},
	}
}

// NewTriangular returns a triangular (hexagonal) lattice with lattice
// constant a.
func NewTriangular(a float64) Lattice {
	return Lattice{
		Kind: LatticeTriangular,
		A1:   Vec2{X: a},
		A2:   Vec2{X: a * 0.5, Y: a * math.Sqrt(3) / 2},
	}
}

// Constant returns the lattice constant |a1|.
func (l Lattice) Constant() float64 {
	return l.A1.Norm()
}

// Area returns the in-plane unit-cell area |a1 × a2|.
func (l Lattice) Area() float64 {
	return math.Abs(l.A1.Cross(l.A2))
}

// Scale returns the lattice with both basis vectors multiplied by k.
func (l Lattice) Scale(k float64) Lattice {
	return Lattice{Kind: l.Kind, A1: l.A1.Scale(k), A2: l.A2.Scale(k)}
}
