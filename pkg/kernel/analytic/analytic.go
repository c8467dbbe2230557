// Package analytic implements kernel.Kernel with exact closed-form
// membership tests: squared distance for discs, half-plane intersection for
// convex counter-clockwise polygons, and an even-odd edge-crossing test for
// any other simple polygon.
package analytic

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/phc/pkg/kernel"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel = (*Kernel)(nil)
	_ kernel.Region = (*disc)(nil)
	_ kernel.Region = (*convex)(nil)
	_ kernel.Region = (*crossing)(nil)
	_ kernel.Region = (*placed)(nil)
)

// Kernel is the default membership kernel. The zero value is ready to use.
type Kernel struct{}

// New returns an analytic kernel.
func New() *Kernel {
	return &Kernel{}
}

// Name returns "analytic".
func (k *Kernel) Name() string { return "analytic" }

// disc is the closed disc x² + y² ≤ r².
type disc struct {
	r2     float64
	bounds kernel.Box
}

func (d *disc) Contains(p kernel.Point) bool {
	return p.X*p.X+p.Y*p.Y <= d.r2
}

func (d *disc) Bounds() kernel.Box { return d.bounds }

// Circle returns the closed disc of the given radius.
func (k *Kernel) Circle(radius float64) (kernel.Region, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("analytic: circle radius %g must be positive and finite", radius)
	}
	return &disc{
		r2: radius * radius,
		bounds: kernel.Box{
			Min: kernel.Point{X: -radius, Y: -radius},
			Max: kernel.Point{X: radius, Y: radius},
		},
	}, nil
}

// convex is the intersection of the left half-planes of its edges.
type convex struct {
	v      []kernel.Point
	bounds kernel.Box
}

// Contains is true when p is on or to the left of every directed edge.
func (c *convex) Contains(p kernel.Point) bool {
	n := len(c.v)
	for i := 0; i < n; i++ {
		a, b := c.v[i], c.v[(i+1)%n]
		if (b.X-a.X)*(p.Y-a.Y)-(b.Y-a.Y)*(p.X-a.X) < 0 {
			return false
		}
	}
	return true
}

func (c *convex) Bounds() kernel.Box { return c.bounds }

// crossing tests membership by counting edge crossings of a ray cast
// towards +x.
type crossing struct {
	v      []kernel.Point
	bounds kernel.Box
}

func (c *crossing) Contains(p kernel.Point) bool {
	inside := false
	n := len(c.v)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := c.v[i], c.v[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

func (c *crossing) Bounds() kernel.Box { return c.bounds }

// errDegenerate reports a polygon with fewer than three vertices or zero area.
var errDegenerate = errors.New("analytic: degenerate polygon")

// Polygon returns the region enclosed by vertices. Convex counter-clockwise
// polygons use the half-plane test; everything else falls back to edge
// crossings.
func (k *Kernel) Polygon(vertices []kernel.Point) (kernel.Region, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: %d vertices", errDegenerate, len(vertices))
	}
	for _, p := range vertices {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, fmt.Errorf("analytic: polygon vertex %+v is not finite", p)
		}
	}
	v := append([]kernel.Point(nil), vertices...)
	if signedArea(v) == 0 {
		return nil, fmt.Errorf("%w: zero area", errDegenerate)
	}
	bounds := kernel.BoundsOf(v)
	if isConvexCCW(v) {
		return &convex{v: v, bounds: bounds}, nil
	}
	return &crossing{v: v, bounds: bounds}, nil
}

func signedArea(v []kernel.Point) float64 {
	var a float64
	for i := range v {
		p, q := v[i], v[(i+1)%len(v)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// isConvexCCW reports whether every turn is a left turn (or straight).
func isConvexCCW(v []kernel.Point) bool {
	n := len(v)
	for i := 0; i < n; i++ {
		a, b, c := v[i], v[(i+1)%n], v[(i+2)%n]
		if (b.X-a.X)*(c.Y-b.Y)-(b.Y-a.Y)*(c.X-b.X) < 0 {
			return false
		}
	}
	return true
}

// placed moves a local-frame region into real space. Queries are mapped
// back into the local frame: translate by -center, then rotate by -θ.
type placed struct {
	inner    kernel.Region
	center   kernel.Point
	cos, sin float64
	rotated  bool
	bounds   kernel.Box
}

func (p *placed) Contains(q kernel.Point) bool {
	dx, dy := q.X-p.center.X, q.Y-p.center.Y
	if !p.rotated {
		return p.inner.Contains(kernel.Point{X: dx, Y: dy})
	}
	return p.inner.Contains(kernel.Point{
		X: p.cos*dx + p.sin*dy,
		Y: -p.sin*dx + p.cos*dy,
	})
}

func (p *placed) Bounds() kernel.Box { return p.bounds }

// Place rotates r counter-clockwise by rotation degrees and centres it on
// center. Discs ignore rotation.
func (k *Kernel) Place(r kernel.Region, center kernel.Point, rotation float64) kernel.Region {
	p := &placed{inner: r, center: center}
	_, isDisc := r.(*disc)
	local := r.Bounds()
	if rotation == 0 || isDisc {
		p.bounds = local.Translate(center)
		return p
	}

	p.sin, p.cos = math.Sincos(kernel.Radians(rotation))
	p.rotated = true
	corners := []kernel.Point{
		local.Min,
		{X: local.Max.X, Y: local.Min.Y},
		local.Max,
		{X: local.Min.X, Y: local.Max.Y},
	}
	for i, c := range corners {
		corners[i] = kernel.Point{
			X: p.cos*c.X - p.sin*c.Y,
			Y: p.sin*c.X + p.cos*c.Y,
		}
	}
	p.bounds = kernel.BoundsOf(corners).Translate(center)
	return p
}
