package cell

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func validCrystal() Crystal {
	b := NewBase(FromEpsilon(12.7449))
	b.AddNamed("hole", Circle{Radius: 0.2}, Frac{}, Air())
	return Crystal{Lattice: NewSquare(1), Base: *b}
}

func TestValidateClean(t *testing.T) {
	res := ValidateAll(validCrystal())
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestValidateEmptyBase(t *testing.T) {
	c := Crystal{Lattice: NewSquare(1), Base: Base{Background: Silicon()}}
	if errs := Validate(c); len(errs) != 0 {
		t.Errorf("empty base should be valid, got %v", errs)
	}
}

// blob is a shape kind validation knows nothing about.
type blob struct{ Circle }

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Crystal)
		want   string
		kind   error
	}{
		{
			name:   "zero lattice",
			mutate: func(c *Crystal) { c.Lattice = NewSquare(0) },
			want:   "lattice constant",
		},
		{
			name:   "non-finite second basis vector",
			mutate: func(c *Crystal) { c.Lattice.A2.Y = math.NaN() },
			want:   "second basis vector",
		},
		{
			name:   "negative radius",
			mutate: func(c *Crystal) { c.Base.Shapes[0].Shape = Circle{Radius: -1} },
			want:   "radius",
		},
		{
			name:   "nan side",
			mutate: func(c *Crystal) { c.Base.Shapes[0].Shape = EquilateralTriangle{Side: math.NaN()} },
			want:   "side",
		},
		{
			name:   "infinite rotation",
			mutate: func(c *Crystal) { c.Base.Shapes[0].Shape = RightAngledIsosceles{Leg: 0.1, Rotation: math.Inf(1)} },
			want:   "rotation",
		},
		{
			name:   "nan centre",
			mutate: func(c *Crystal) { c.Base.Shapes[0].Center.S = math.NaN() },
			want:   "centre",
		},
		{
			name:   "negative epsilon",
			mutate: func(c *Crystal) { c.Base.Shapes[0].Material = FromEpsilon(-1) },
			want:   "dielectric",
		},
		{
			name:   "missing shape",
			mutate: func(c *Crystal) { c.Base.Shapes[0].Shape = nil },
			want:   "missing",
			kind:   ErrUnsupportedShape,
		},
		{
			name:   "unknown shape",
			mutate: func(c *Crystal) { c.Base.Shapes[0].Shape = blob{Circle{Radius: 0.1}} },
			want:   "unknown shape type",
			kind:   ErrUnsupportedShape,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCrystal()
			c.Base = c.Base.Clone()
			tt.mutate(&c)
			errs := Validate(c)
			if len(errs) == 0 {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(errs[0].Error(), tt.want) {
				t.Errorf("error %q does not mention %q", errs[0].Error(), tt.want)
			}
			kind := tt.kind
			if kind == nil {
				kind = ErrInvalidGeometry
			}
			if !errors.Is(errs[0], kind) {
				t.Errorf("blocking finding should match %v", kind)
			}
			if kind == ErrUnsupportedShape && errors.Is(errs[0], ErrInvalidGeometry) {
				t.Error("shape kind finding should not match ErrInvalidGeometry")
			}
		})
	}
}

func TestValidateWarnings(t *testing.T) {
	b := NewBase(Silicon())
	b.AddNamed("edge", Circle{Radius: 0.2}, Frac{S: 0.45}, Air()).
		AddNamed("dup", Circle{Radius: 0.1}, Frac{}, Air()).
		AddNamed("dup", Circle{Radius: 0.1}, Frac{}, Air()).
		Add(Circle{Radius: 0.05}, Frac{S: 0.7}, Air())
	res := ValidateAll(Crystal{Lattice: NewSquare(1), Base: *b})

	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	var msgs []string
	for _, w := range res.Warnings {
		if w.Severity != SeverityWarning {
			t.Errorf("warning has severity %v", w.Severity)
		}
		if errors.Is(w, ErrInvalidGeometry) {
			t.Error("warning should not match ErrInvalidGeometry")
		}
		msgs = append(msgs, w.Error())
	}
	joined := strings.Join(msgs, "\n")
	for _, want := range []string{"outside the unit cell", "extend beyond", "fully covered by shape 2", `name "dup" already used`} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings missing %q:\n%s", want, joined)
		}
	}
}

func TestValidationErrorFormatting(t *testing.T) {
	e := ValidationError{Index: -1, Message: "bad lattice", Severity: SeverityError}
	if got := e.Error(); got != "[error] bad lattice" {
		t.Errorf("Error() = %q", got)
	}
	e = ValidationError{Index: 2, Name: "hole", Message: "x", Severity: SeverityWarning}
	if got := e.Error(); got != "[warning] shape 2 (hole): x" {
		t.Errorf("Error() = %q", got)
	}
}

func TestOverhangUsesLatticeBasis(t *testing.T) {
	tests := []struct {
		name    string
		lattice Lattice
		center  Frac
		warn    bool
	}{
		// The triangular cell is only √3/2·a wide across its s edges.
		{"square clear", NewSquare(1), Frac{S: 0.35}, false},
		{"triangular along s", NewTriangular(1), Frac{S: 0.35}, true},
		{"triangular along t", NewTriangular(1), Frac{T: 0.35}, true},
		{"triangular centred", NewTriangular(1), Frac{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBase(Silicon())
			b.Add(Circle{Radius: 0.14}, tt.center, Air())
			res := ValidateAll(Crystal{Lattice: tt.lattice, Base: *b})
			if !res.OK() {
				t.Fatalf("unexpected errors: %v", res.Errors)
			}
			if got := len(res.Warnings) > 0; got != tt.warn {
				t.Errorf("warned = %v, want %v (%v)", got, tt.warn, res.Warnings)
			}
		})
	}
}
