package kernel

import (
	"math"
	"testing"
)

// --- Box helper tests ---

func TestBoxContains(t *testing.T) {
	b := Box{Min: Point{X: -1, Y: -2}, Max: Point{X: 1, Y: 2}}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"centre", Point{}, true},
		{"corner", Point{X: 1, Y: 2}, true},
		{"left of box", Point{X: -1.5, Y: 0}, false},
		{"above box", Point{X: 0, Y: 2.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBoxTranslate(t *testing.T) {
	b := Box{Min: Point{X: -1, Y: -1}, Max: Point{X: 1, Y: 1}}.Translate(Point{X: 3, Y: -4})
	want := Box{Min: Point{X: 2, Y: -5}, Max: Point{X: 4, Y: -3}}
	if b != want {
		t.Errorf("Translate = %+v, want %+v", b, want)
	}
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf([]Point{{X: 1, Y: 5}, {X: -2, Y: 0}, {X: 3, Y: -1}})
	want := Box{Min: Point{X: -2, Y: -1}, Max: Point{X: 3, Y: 5}}
	if b != want {
		t.Errorf("BoundsOf = %+v, want %+v", b, want)
	}

	empty := BoundsOf(nil)
	if empty.Contains(Point{}) {
		t.Error("bounds of no points should contain nothing")
	}
}

func TestRadians(t *testing.T) {
	tests := []struct {
		deg, want float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{-45, -math.Pi / 4},
	}
	for _, tt := range tests {
		if got := Radians(tt.deg); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("Radians(%g) = %g, want %g", tt.deg, got, tt.want)
		}
	}
}
