package cell

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// Frac is a position in fractional coordinates: multiples of the lattice
// basis vectors. The unit cell spans [-0.5, 0.5) on both axes.
type Frac struct {
	S, T float64
}

// PlacedShape is one inclusion: a shape, where it sits, and what it is made of.
type PlacedShape struct {
	Name     string // optional, used by Lookup and in diagnostics
	Shape    Shape
	Center   Frac
	Material Material
}

// Base is the ordered content of a unit cell. Later shapes overwrite earlier
// ones where they overlap; an empty base is a homogeneous background.
type Base struct {
	Background Material
	Shapes     []PlacedShape
}

// NewBase returns an empty base over the given background material.
func NewBase(background Material) *Base {
	return &Base{Background: background}
}

// Add appends a shape to the end of the drawing order.
func (b *Base) Add(s Shape, center Frac, m Material) *Base {
	b.Shapes = append(b.Shapes, PlacedShape{Shape: s, Center: center, Material: m})
	return b
}

// AddNamed appends a named shape to the end of the drawing order.
func (b *Base) AddNamed(name string, s Shape, center Frac, m Material) *Base {
	b.Shapes = append(b.Shapes, PlacedShape{Name: name, Shape: s, Center: center, Material: m})
	return b
}

// Len returns the number of placed shapes.
func (b Base) Len() int {
	return len(b.Shapes)
}

// Lookup returns the last shape with the given name.
func (b Base) Lookup(name string) (PlacedShape, bool) {
	for i := len(b.Shapes) - 1; i >= 0; i-- {
		if b.Shapes[i].Name == name {
			return b.Shapes[i], true
		}
	}
	return PlacedShape{}, false
}

// Epsilons returns the distinct in-plane dielectric constants present in
// the base, background first, then shapes in drawing order.
func (b Base) Epsilons() []float64 {
	eps := append([]float64{b.Background.InPlane()},
		lo.Map(b.Shapes, func(p PlacedShape, _ int) float64 { return p.Material.InPlane() })...)
	return lo.Uniq(eps)
}

// FillingFactor returns the summed shape area over the unit-cell area.
// Overlaps are counted twice; use the rasterized grid for exact coverage.
func (b Base) FillingFactor(l Lattice) float64 {
	area := l.Area()
	if area <= 0 {
		return 0
	}
	return lo.SumBy(b.Shapes, func(p PlacedShape) float64 { return p.Shape.Area() }) / area
}

// Scale returns a copy of the base with every shape dimension multiplied
// by k. Fractional centres and materials are unchanged.
func (b Base) Scale(k float64) Base {
	return Base{
		Background: b.Background,
		Shapes: lo.Map(b.Shapes, func(p PlacedShape, _ int) PlacedShape {
			p.Shape = p.Shape.Scale(k)
			return p
		}),
	}
}

// Clone returns a copy that shares no slice storage with b.
func (b Base) Clone() Base {
	return Base{Background: b.Background, Shapes: append([]PlacedShape(nil), b.Shapes...)}
}

// SimpleCircle returns a base holding one circular inclusion of material
// hole at the cell centre, sized so that it covers fillingFactor of the
// unit-cell area: r = sqrt(f·A/π).
func SimpleCircle(fillingFactor float64, l Lattice, background, hole Material) (*Base, error) {
	if fillingFactor < 0 || fillingFactor > 1 || math.IsNaN(fillingFactor) {
		return nil, &GeometryError{
			Op:      "simple circle",
			Field:   "filling factor",
			Message: fmt.Sprintf("%g is outside [0, 1]", fillingFactor),
			Err:     ErrInvalidGeometry,
		}
	}
	radius := math.Sqrt(fillingFactor * l.Area() / math.Pi)
	b := NewBase(background)
	b.AddNamed("hole", Circle{Radius: radius}, Frac{}, hole)
	return b, nil
}

// Crystal is a complete 2D photonic-crystal description.
type Crystal struct {
	Lattice Lattice
	Base    Base
}

// Scale returns the crystal with the lattice and every shape dimension
// multiplied by k.
func (c Crystal) Scale(k float64) Crystal {
	return Crystal{Lattice: c.Lattice.Scale(k), Base: c.Base.Scale(k)}
}
