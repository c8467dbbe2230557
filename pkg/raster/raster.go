// Package raster samples a unit cell onto an N×N grid of dielectric
// constants. The raster is read-only with respect to its input and always
// returns a fresh grid.
//
// Pixel (i, j) sits at fractional coordinates ((i − c)/N, (j − c)/N) with
// c = (N−1)/2, so the grid is symmetric about the cell centre; its real-space
// centre is ((i − c)·A1 + (j − c)·A2)/N. For a square lattice of constant a
// that is x = (i − c)·a/N, y = (j − c)·a/N. A pixel takes the ε of the last
// shape in the base that contains it, or the background when none does.
package raster

import (
	"fmt"
	"math"

	"github.com/chazu/phc/internal/logging"
	"github.com/chazu/phc/pkg/cell"
	"github.com/chazu/phc/pkg/kernel"
)

const op = "generate grid"

// footprint is one shape reduced to kernel regions (the shape itself and,
// with periodic images on, its eight neighbours).
type footprint struct {
	eps     float64
	regions []kernel.Region
	bounds  []kernel.Box
}

func (f *footprint) contains(p kernel.Point) bool {
	for i, r := range f.regions {
		if f.bounds[i].Contains(p) && r.Contains(p) {
			return true
		}
	}
	return false
}

// GenerateGrid rasterizes base for a square cell of lattice constant
// latticeConstant at gridSize × gridSize resolution.
func GenerateGrid(base cell.Base, latticeConstant float64, gridSize int, opts ...Option) (*Grid, error) {
	if !finite(latticeConstant) || latticeConstant <= 0 {
		return nil, cell.Invalid(op, "lattice constant", "%g must be positive and finite", latticeConstant)
	}
	return generate(base, cell.NewSquare(latticeConstant), gridSize, opts)
}

// GenerateCrystalGrid rasterizes c.Base over the cell spanned by c.Lattice's
// basis vectors. Grid rows follow A1 and columns follow A2, so an oblique
// lattice gives a grid sampled in fractional coordinates.
func GenerateCrystalGrid(c cell.Crystal, gridSize int, opts ...Option) (*Grid, error) {
	l := c.Lattice
	if a := l.Constant(); !finite(a) || a <= 0 {
		return nil, cell.Invalid(op, "lattice constant", "%g must be positive and finite", a)
	}
	if !finite(l.A2.X) || !finite(l.A2.Y) || !(l.Area() > 0) {
		return nil, cell.Invalid(op, "lattice", "basis vectors %v and %v do not span a cell", l.A1, l.A2)
	}
	return generate(c.Base, l, gridSize, opts)
}

func generate(base cell.Base, l cell.Lattice, gridSize int, opts []Option) (*Grid, error) {
	if gridSize <= 0 {
		return nil, cell.Invalid(op, "grid size", "%d must be positive", gridSize)
	}
	bg := base.Background.InPlane()
	if !finite(bg) || bg < 0 {
		return nil, cell.Invalid(op, "background", "dielectric constant %g must be finite and non-negative", bg)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.Or(o.logger)

	b := basisOf(l)
	prints, err := footprints(o.kernel, base, b, o.periodic)
	if err != nil {
		return nil, err
	}

	g := newGrid(gridSize, bg)
	if len(prints) > 0 {
		fill := rowFiller(g, prints, b)
		if o.workers == 1 {
			for i := 0; i < gridSize; i++ {
				fill(i)
			}
		} else {
			pool := newRowPool(o.workers)
			work := make([]func(), gridSize)
			for i := range work {
				i := i
				work[i] = func() { fill(i) }
			}
			pool.ExecuteAll(work)
			pool.Close()
		}
	}

	log.Debug("raster: grid generated",
		"size", gridSize,
		"shapes", len(base.Shapes),
		"kernel", o.kernel.Name(),
		"lattice", l.Kind.String(),
		"periodic", o.periodic)
	return g, nil
}

// basis holds the lattice vectors as kernel points.
type basis struct {
	a1, a2 kernel.Point
}

func basisOf(l cell.Lattice) basis {
	return basis{
		a1: kernel.Point{X: l.A1.X, Y: l.A1.Y},
		a2: kernel.Point{X: l.A2.X, Y: l.A2.Y},
	}
}

// at returns u·A1 + v·A2.
func (b basis) at(u, v float64) kernel.Point {
	return kernel.Point{X: u*b.a1.X + v*b.a2.X, Y: u*b.a1.Y + v*b.a2.Y}
}

// rowFiller returns a function that paints row i. Rows share nothing but
// read-only footprints, so they may run concurrently.
func rowFiller(g *Grid, prints []footprint, b basis) func(i int) {
	n := g.n
	c := float64(n-1) / 2
	return func(i int) {
		row := g.data.RawRowView(i)
		u := float64(i) - c
		for j := 0; j < n; j++ {
			p := b.at(u, float64(j)-c)
			p.X /= float64(n)
			p.Y /= float64(n)
			for s := len(prints) - 1; s >= 0; s-- {
				if prints[s].contains(p) {
					row[j] = prints[s].eps
					break
				}
			}
		}
	}
}

// footprints builds kernel regions for every placed shape, in base order.
func footprints(k kernel.Kernel, base cell.Base, b basis, periodic bool) ([]footprint, error) {
	out := make([]footprint, 0, len(base.Shapes))
	for i, p := range base.Shapes {
		if !finite(p.Center.S) || !finite(p.Center.T) {
			return nil, cell.Invalid(op, shapeField(i, p), "centre (%g, %g) is not finite", p.Center.S, p.Center.T)
		}
		eps := p.Material.InPlane()
		if !finite(eps) || eps < 0 {
			return nil, cell.Invalid(op, shapeField(i, p), "dielectric constant %g must be finite and non-negative", eps)
		}

		local, err := localRegion(k, p.Shape)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		rot := cell.Rotation(p.Shape)
		if !finite(rot) {
			return nil, cell.Invalid(op, shapeField(i, p), "rotation %g is not finite", rot)
		}

		center := b.at(p.Center.S, p.Center.T)
		f := footprint{eps: eps}
		f.add(k.Place(local, center, rot))
		if periodic {
			for di := -1; di <= 1; di++ {
				for dj := -1; dj <= 1; dj++ {
					if di == 0 && dj == 0 {
						continue
					}
					d := b.at(float64(di), float64(dj))
					img := kernel.Point{X: center.X + d.X, Y: center.Y + d.Y}
					f.add(k.Place(local, img, rot))
				}
			}
		}
		out = append(out, f)
	}
	return out, nil
}

func (f *footprint) add(r kernel.Region) {
	f.regions = append(f.regions, r)
	f.bounds = append(f.bounds, r.Bounds())
}

// localRegion builds the shape in its own frame, centred on the origin.
func localRegion(k kernel.Kernel, s cell.Shape) (kernel.Region, error) {
	switch s := s.(type) {
	case cell.Circle:
		if !finite(s.Radius) || s.Radius <= 0 {
			return nil, cell.Invalid(op, "radius", "%g must be positive and finite", s.Radius)
		}
		r, err := k.Circle(s.Radius)
		if err != nil {
			return nil, cell.Invalid(op, "radius", "%v", err)
		}
		return r, nil
	case cell.EquilateralTriangle:
		if !finite(s.Side) || s.Side <= 0 {
			return nil, cell.Invalid(op, "side", "%g must be positive and finite", s.Side)
		}
		return polygon(k, s)
	case cell.RightAngledIsosceles:
		if !finite(s.Leg) || s.Leg <= 0 {
			return nil, cell.Invalid(op, "leg", "%g must be positive and finite", s.Leg)
		}
		return polygon(k, s)
	default:
		return nil, cell.Unsupported(op, s)
	}
}

func polygon(k kernel.Kernel, s cell.Shape) (kernel.Region, error) {
	v := cell.CanonicalVertices(s)
	pts := make([]kernel.Point, len(v))
	for i, p := range v {
		pts[i] = kernel.Point{X: p.X, Y: p.Y}
	}
	r, err := k.Polygon(pts)
	if err != nil {
		return nil, cell.Invalid(op, "vertices", "%v", err)
	}
	return r, nil
}

func shapeField(i int, p cell.PlacedShape) string {
	if p.Name != "" {
		return fmt.Sprintf("shape %d (%s)", i, p.Name)
	}
	return fmt.Sprintf("shape %d", i)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
