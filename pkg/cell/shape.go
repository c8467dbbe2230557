package cell

import (
	"fmt"
	"math"
)

// ShapeKind enumerates the inclusion shapes.
type ShapeKind int

const (
	ShapeCircle               ShapeKind = iota // disc of a given radius
	ShapeEquilateralTriangle                   // equilateral triangle, centroid-centred
	ShapeRightAngledIsosceles                  // right isosceles triangle, centroid-centred
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeEquilateralTriangle:
		return "equilateral-triangle"
	case ShapeRightAngledIsosceles:
		return "right-angled-isosceles"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Shape is the closed set of inclusion geometries. Dimensions are
// real-space lengths in the lattice constant's unit; rotations are degrees
// counter-clockwise.
type Shape interface {
	Kind() ShapeKind
	// Area is the shape's area in squared length units.
	Area() float64
	// Extent is the largest distance from the shape's centre to its boundary.
	Extent() float64
	// Scale returns the shape with every length multiplied by k.
	Scale(k float64) Shape
	shape() // marker method restricting implementations to this package
}

// Circle is a disc centred on its placement point.
type Circle struct {
	Radius float64
}

func (Circle) shape()                  {}
func (Circle) Kind() ShapeKind         { return ShapeCircle }
func (c Circle) Area() float64         { return math.Pi * c.Radius * c.Radius }
func (c Circle) Extent() float64       { return c.Radius }
func (c Circle) Scale(k float64) Shape { return Circle{Radius: c.Radius * k} }

// EquilateralTriangle has its centroid on the placement point and, at zero
// rotation, one vertex pointing along +y.
type EquilateralTriangle struct {
	Side     float64
	Rotation float64 // degrees, counter-clockwise
}

func (EquilateralTriangle) shape()          {}
func (EquilateralTriangle) Kind() ShapeKind { return ShapeEquilateralTriangle }

func (t EquilateralTriangle) Area() float64 {
	return math.Sqrt(3) / 4 * t.Side * t.Side
}

func (t EquilateralTriangle) Extent() float64 {
	return t.Side / math.Sqrt(3)
}

func (t EquilateralTriangle) Scale(k float64) Shape {
	return EquilateralTriangle{Side: t.Side * k, Rotation: t.Rotation}
}

// RightAngledIsosceles has its centroid on the placement point and, at zero
// rotation, the right angle at the lower-left with legs along +x and +y.
type RightAngledIsosceles struct {
	Leg      float64
	Rotation float64 // degrees, counter-clockwise
}

func (RightAngledIsosceles) shape()          {}
func (RightAngledIsosceles) Kind() ShapeKind { return ShapeRightAngledIsosceles }

func (r RightAngledIsosceles) Area() float64 {
	return r.Leg * r.Leg / 2
}

// Extent is the centroid's distance to the farthest vertex (either acute
// corner), √5·L/3.
func (r RightAngledIsosceles) Extent() float64 {
	return math.Sqrt(5) * r.Leg / 3
}

func (r RightAngledIsosceles) Scale(k float64) Shape {
	return RightAngledIsosceles{Leg: r.Leg * k, Rotation: r.Rotation}
}

// CanonicalVertices returns the vertices of a polygonal shape in its local,
// unrotated frame: counter-clockwise, centroid at the origin. It returns
// nil for shapes that are not polygons.
func CanonicalVertices(s Shape) []Vec2 {
	switch v := s.(type) {
	case EquilateralTriangle:
		r := v.Side / math.Sqrt(3) // circumradius
		return []Vec2{
			{X: 0, Y: r},
			{X: -v.Side / 2, Y: -r / 2},
			{X: v.Side / 2, Y: -r / 2},
		}
	case RightAngledIsosceles:
		l := v.Leg
		return []Vec2{
			{X: -l / 3, Y: -l / 3},
			{X: 2 * l / 3, Y: -l / 3},
			{X: -l / 3, Y: 2 * l / 3},
		}
	default:
		return nil
	}
}

// Rotation returns the rotation of s in degrees; circles report 0.
func Rotation(s Shape) float64 {
	switch v := s.(type) {
	case EquilateralTriangle:
		return v.Rotation
	case RightAngledIsosceles:
		return v.Rotation
	default:
		return 0
	}
}
