package analytic

import (
	"math"
	"testing"

	"github.com/chazu/phc/pkg/kernel"
)

func TestCircle(t *testing.T) {
	k := New()
	c, err := k.Circle(2)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		p    kernel.Point
		want bool
	}{
		{"centre", kernel.Point{}, true},
		{"on boundary", kernel.Point{X: 2}, true},
		{"inside diagonal", kernel.Point{X: 1.4, Y: 1.4}, true},
		{"outside diagonal", kernel.Point{X: 1.5, Y: 1.5}, false},
		{"far", kernel.Point{X: 10, Y: -10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
	if b := c.Bounds(); b.Min != (kernel.Point{X: -2, Y: -2}) || b.Max != (kernel.Point{X: 2, Y: 2}) {
		t.Errorf("Bounds() = %+v", b)
	}
}

func TestCircleRejectsBadRadius(t *testing.T) {
	k := New()
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := k.Circle(r); err == nil {
			t.Errorf("Circle(%g) should fail", r)
		}
	}
}

// unitTriangle is the right triangle (0,0), (1,0), (0,1).
var unitTriangle = []kernel.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}

func TestConvexHalfPlane(t *testing.T) {
	k := New()
	r, err := k.Polygon(unitTriangle)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.(*convex); !ok {
		t.Fatalf("CCW triangle should use the half-plane test, got %T", r)
	}
	tests := []struct {
		p    kernel.Point
		want bool
	}{
		{kernel.Point{X: 0.25, Y: 0.25}, true},
		{kernel.Point{X: 0, Y: 0}, true},   // vertex
		{kernel.Point{X: 0.5, Y: 0}, true}, // edge
		{kernel.Point{X: 0.6, Y: 0.6}, false},
		{kernel.Point{X: -0.01, Y: 0.5}, false},
		{kernel.Point{X: 0.5, Y: -0.01}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestCrossingMatchesHalfPlane(t *testing.T) {
	k := New()
	cw := []kernel.Point{unitTriangle[0], unitTriangle[2], unitTriangle[1]}
	r, err := k.Polygon(cw)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.(*crossing); !ok {
		t.Fatalf("clockwise polygon should use the crossing test, got %T", r)
	}
	h, _ := k.Polygon(unitTriangle)

	// Interior grid away from edges: both tests agree.
	for i := 0; i < 40; i++ {
		for j := 0; j < 40; j++ {
			p := kernel.Point{X: -0.5 + float64(i)*0.0503, Y: -0.5 + float64(j)*0.0497}
			if r.Contains(p) != h.Contains(p) {
				t.Fatalf("disagreement at %+v: crossing=%v half-plane=%v", p, r.Contains(p), h.Contains(p))
			}
		}
	}
}

func TestConcavePolygon(t *testing.T) {
	// An L shape: the notch at (0.75, 0.75) is outside.
	l := []kernel.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.5, Y: 1}, {X: 0, Y: 1}}
	r, err := New().Polygon(l)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.(*crossing); !ok {
		t.Fatalf("concave polygon should use the crossing test, got %T", r)
	}
	if !r.Contains(kernel.Point{X: 0.25, Y: 0.75}) {
		t.Error("upper arm should be inside")
	}
	if !r.Contains(kernel.Point{X: 0.75, Y: 0.25}) {
		t.Error("lower arm should be inside")
	}
	if r.Contains(kernel.Point{X: 0.75, Y: 0.75}) {
		t.Error("notch should be outside")
	}
}

func TestPolygonRejectsDegenerate(t *testing.T) {
	k := New()
	cases := map[string][]kernel.Point{
		"two points": {{X: 0}, {X: 1}},
		"collinear":  {{X: 0}, {X: 1}, {X: 2}},
		"nan":        {{X: 0}, {X: 1}, {X: math.NaN(), Y: 1}},
	}
	for name, v := range cases {
		if _, err := k.Polygon(v); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestPlaceTranslatesAndRotates(t *testing.T) {
	k := New()
	tri, _ := k.Polygon(unitTriangle)

	// Rotated by 90° CCW the triangle occupies (-1..0, 0..1).
	rot := k.Place(tri, kernel.Point{}, 90)
	if !rot.Contains(kernel.Point{X: -0.25, Y: 0.25}) {
		t.Error("rotated triangle should contain (-0.25, 0.25)")
	}
	if rot.Contains(kernel.Point{X: 0.25, Y: 0.25}) {
		t.Error("rotated triangle should not contain (0.25, 0.25)")
	}

	moved := k.Place(tri, kernel.Point{X: 10, Y: 20}, 0)
	if !moved.Contains(kernel.Point{X: 10.25, Y: 20.25}) {
		t.Error("translated triangle should contain (10.25, 20.25)")
	}
	if moved.Contains(kernel.Point{X: 0.25, Y: 0.25}) {
		t.Error("translated triangle should not contain the original point")
	}

	b := k.Place(tri, kernel.Point{X: 1, Y: 1}, 180).Bounds()
	const tol = 1e-12
	if math.Abs(b.Min.X-0) > tol || math.Abs(b.Max.X-1) > tol || math.Abs(b.Min.Y-0) > tol || math.Abs(b.Max.Y-1) > tol {
		t.Errorf("bounds after 180° about (1,1) = %+v, want (0,0)-(1,1)", b)
	}
}

func TestPlaceDiscIgnoresRotation(t *testing.T) {
	k := New()
	c, _ := k.Circle(1)
	p := k.Place(c, kernel.Point{X: 3}, 45)
	if !p.Contains(kernel.Point{X: 3.99}) || p.Contains(kernel.Point{X: 4.01}) {
		t.Error("placed disc boundary is wrong")
	}
	if b := p.Bounds(); b.Min.X != 2 || b.Max.X != 4 {
		t.Errorf("bounds = %+v", b)
	}
}

func TestRotationSymmetryOfEquilateral(t *testing.T) {
	// An equilateral triangle rotated by 120° covers the same points.
	s := 1.0
	r := s / math.Sqrt(3)
	v := []kernel.Point{{X: 0, Y: r}, {X: -s / 2, Y: -r / 2}, {X: s / 2, Y: -r / 2}}
	k := New()
	tri, _ := k.Polygon(v)
	a := k.Place(tri, kernel.Point{}, 0)
	b := k.Place(tri, kernel.Point{}, 120)

	mismatch := 0
	for i := 0; i < 50; i++ {
		for j := 0; j < 50; j++ {
			p := kernel.Point{X: -0.6 + float64(i)*0.0241, Y: -0.6 + float64(j)*0.0243}
			if a.Contains(p) != b.Contains(p) {
				mismatch++
			}
		}
	}
	// Points within rounding distance of an edge may flip.
	if mismatch > 2 {
		t.Errorf("%d of 2500 points differ after a 120° rotation", mismatch)
	}
}
