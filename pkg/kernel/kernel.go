// Package kernel defines the abstract membership kernel used by the
// rasterizer. A kernel builds closed 2D regions (discs and polygons) and
// places them in real space; the rasterizer only asks whether a pixel
// centre lies inside. Implementations (analytic, sdfx) can be swapped
// without changing the rasterizer.
package kernel

import "math"

// Point is a position in real-space length units.
type Point struct {
	X, Y float64
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Point
}

// Contains reports whether p lies inside b, boundary included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Translate returns b moved by d.
func (b Box) Translate(d Point) Box {
	return Box{
		Min: Point{X: b.Min.X + d.X, Y: b.Min.Y + d.Y},
		Max: Point{X: b.Max.X + d.X, Y: b.Max.Y + d.Y},
	}
}

// BoundsOf returns the bounding box of a set of points.
func BoundsOf(pts []Point) Box {
	b := Box{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range pts {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// Region is a closed point set in the plane.
type Region interface {
	// Contains reports whether p lies inside the region.
	Contains(p Point) bool
	// Bounds returns a box enclosing the region.
	Bounds() Box
}

// Kernel is the abstract membership kernel interface.
type Kernel interface {
	// Name identifies the implementation in logs.
	Name() string

	// Primitives, centred on the origin of their local frame.
	Circle(radius float64) (Region, error)
	Polygon(vertices []Point) (Region, error) // counter-clockwise

	// Place rotates r counter-clockwise by rotation degrees about its local
	// origin, then moves that origin to center.
	Place(r Region, center Point, rotation float64) Region
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
