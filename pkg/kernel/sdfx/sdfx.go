// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. A point is inside a region
// when the signed distance there is not positive.
package sdfx

import (
	"fmt"

	"github.com/chazu/phc/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// sdfxRegion wraps an sdf.SDF2 to implement kernel.Region.
type sdfxRegion struct {
	s sdf.SDF2
}

// Contains reports whether the signed distance at p is <= 0.
func (r *sdfxRegion) Contains(p kernel.Point) bool {
	return r.s.Evaluate(v2.Vec{X: p.X, Y: p.Y}) <= 0
}

// Bounds returns the axis-aligned bounding box.
func (r *sdfxRegion) Bounds() kernel.Box {
	bb := r.s.BoundingBox()
	return kernel.Box{
		Min: kernel.Point{X: bb.Min.X, Y: bb.Min.Y},
		Max: kernel.Point{X: bb.Max.X, Y: bb.Max.Y},
	}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// Name returns "sdfx".
func (k *SdfxKernel) Name() string { return "sdfx" }

// unwrap extracts the underlying sdf.SDF2 from a kernel.Region. Regions
// built by another kernel cannot be mixed in.
func unwrap(r kernel.Region) sdf.SDF2 {
	return r.(*sdfxRegion).s
}

// wrap creates a kernel.Region from an sdf.SDF2.
func wrap(s sdf.SDF2) kernel.Region {
	return &sdfxRegion{s: s}
}

// Circle creates a disc centred on the origin.
func (k *SdfxKernel) Circle(radius float64) (kernel.Region, error) {
	s, err := sdf.Circle2D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: circle: %w", err)
	}
	return wrap(s), nil
}

// Polygon creates a closed polygon from its vertices.
func (k *SdfxKernel) Polygon(vertices []kernel.Point) (kernel.Region, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("sdfx: polygon needs at least 3 vertices, got %d", len(vertices))
	}
	v := make([]v2.Vec, len(vertices))
	for i, p := range vertices {
		v[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	s, err := sdf.Polygon2D(v)
	if err != nil {
		return nil, fmt.Errorf("sdfx: polygon: %w", err)
	}
	return wrap(s), nil
}

// Place rotates a region by rotation degrees (counter-clockwise) and then
// translates its origin to center.
func (k *SdfxKernel) Place(r kernel.Region, center kernel.Point, rotation float64) kernel.Region {
	m := sdf.Translate2d(v2.Vec{X: center.X, Y: center.Y})
	if rotation != 0 {
		m = m.Mul(sdf.Rotate2d(kernel.Radians(rotation)))
	}
	return wrap(sdf.Transform2D(unwrap(r), m))
}
