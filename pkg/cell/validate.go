package cell

import (
	"fmt"
	"math"
)

// ValidationSeverity indicates whether a finding blocks rasterization or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks rasterization
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Index is the
// position of the offending shape in the base, or -1 for cell-level findings.
type ValidationError struct {
	Index    int
	Name     string
	Message  string
	Severity ValidationSeverity
	Err      error // kind of a blocking finding; nil means ErrInvalidGeometry
}

func (e ValidationError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	case e.Name != "":
		return fmt.Sprintf("[%s] shape %d (%s): %s", e.Severity, e.Index, e.Name, e.Message)
	default:
		return fmt.Sprintf("[%s] shape %d: %s", e.Severity, e.Index, e.Message)
	}
}

// Unwrap lets blocking findings match their error kind with errors.Is:
// ErrUnsupportedShape for a missing or unknown shape, ErrInvalidGeometry
// otherwise.
func (e ValidationError) Unwrap() error {
	if e.Severity != SeverityError {
		return nil
	}
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidGeometry
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural checks that must pass before a crystal can be
// rasterized. An empty slice means the crystal is valid. Read-only.
func Validate(c Crystal) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateLattice(c.Lattice)...)
	errs = append(errs, validateMaterial(-1, "", "background", c.Base.Background)...)
	for i, p := range c.Base.Shapes {
		errs = append(errs, validateShape(i, p)...)
		errs = append(errs, validateMaterial(i, p.Name, "material", p.Material)...)
	}
	return errs
}

// ValidateAll runs Validate plus the advisory geometric checks and returns
// errors and warnings separately.
func ValidateAll(c Crystal) ValidationResult {
	var result ValidationResult
	result.Errors = Validate(c)
	if len(result.Errors) > 0 {
		// Geometric advisories assume finite, positive dimensions.
		return result
	}
	result.Warnings = append(result.Warnings, warnCenters(c.Base)...)
	result.Warnings = append(result.Warnings, warnOverhang(c)...)
	result.Warnings = append(result.Warnings, warnHidden(c.Base)...)
	result.Warnings = append(result.Warnings, warnDuplicateNames(c.Base)...)
	return result
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateLattice(l Lattice) []ValidationError {
	a := l.Constant()
	if !finite(a) || a <= 0 {
		return []ValidationError{{
			Index:    -1,
			Message:  fmt.Sprintf("lattice constant is %g, must be positive", a),
			Severity: SeverityError,
		}}
	}
	if !finite(l.A2.X) || !finite(l.A2.Y) {
		return []ValidationError{{
			Index:    -1,
			Message:  fmt.Sprintf("second basis vector (%g, %g) is not finite", l.A2.X, l.A2.Y),
			Severity: SeverityError,
		}}
	}
	if l.Area() <= 0 {
		return []ValidationError{{
			Index:    -1,
			Message:  "lattice basis vectors are collinear",
			Severity: SeverityError,
		}}
	}
	return nil
}

func validateMaterial(idx int, name, what string, m Material) []ValidationError {
	eps := m.InPlane()
	if !finite(eps) || eps < 0 {
		return []ValidationError{{
			Index:    idx,
			Name:     name,
			Message:  fmt.Sprintf("%s in-plane dielectric constant is %g, must be finite and non-negative", what, eps),
			Severity: SeverityError,
		}}
	}
	return nil
}

func validateShape(idx int, p PlacedShape) []ValidationError {
	var errs []ValidationError
	add := func(format string, args ...any) {
		errs = append(errs, ValidationError{
			Index:    idx,
			Name:     p.Name,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	if !finite(p.Center.S) || !finite(p.Center.T) {
		add("centre (%g, %g) is not finite", p.Center.S, p.Center.T)
	}

	switch s := p.Shape.(type) {
	case Circle:
		if !finite(s.Radius) || s.Radius <= 0 {
			add("circle radius is %g, must be positive", s.Radius)
		}
	case EquilateralTriangle:
		if !finite(s.Side) || s.Side <= 0 {
			add("triangle side is %g, must be positive", s.Side)
		}
		if !finite(s.Rotation) {
			add("triangle rotation is %g, must be finite", s.Rotation)
		}
	case RightAngledIsosceles:
		if !finite(s.Leg) || s.Leg <= 0 {
			add("right isosceles leg is %g, must be positive", s.Leg)
		}
		if !finite(s.Rotation) {
			add("right isosceles rotation is %g, must be finite", s.Rotation)
		}
	case nil:
		add("shape is missing")
		errs[len(errs)-1].Err = ErrUnsupportedShape
	default:
		add("unknown shape type %T", p.Shape)
		errs[len(errs)-1].Err = ErrUnsupportedShape
	}

	return errs
}

// warnCenters flags centres outside the conventional [-0.5, 0.5) cell.
func warnCenters(b Base) []ValidationError {
	var warnings []ValidationError
	in := func(v float64) bool { return v >= -0.5 && v < 0.5 }
	for i, p := range b.Shapes {
		if !in(p.Center.S) || !in(p.Center.T) {
			warnings = append(warnings, ValidationError{
				Index:    i,
				Name:     p.Name,
				Message:  fmt.Sprintf("centre (%g, %g) lies outside the unit cell [-0.5, 0.5)", p.Center.S, p.Center.T),
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}

// warnOverhang flags shapes whose extent crosses the cell boundary. Without
// periodic images the part outside the cell is clipped.
//
// The cell edges s = ±0.5 are |A1×A2|/|A2| apart per unit of s, and likewise
// for t, so the clearance to each pair of edges is measured in real space.
func warnOverhang(c Crystal) []ValidationError {
	var warnings []ValidationError
	area := c.Lattice.Area()
	hs, ht := area/c.Lattice.A2.Norm(), area/c.Lattice.A1.Norm()
	for i, p := range c.Base.Shapes {
		r := p.Shape.Extent()
		if (0.5-math.Abs(p.Center.S))*hs < r || (0.5-math.Abs(p.Center.T))*ht < r {
			warnings = append(warnings, ValidationError{
				Index:    i,
				Name:     p.Name,
				Message:  fmt.Sprintf("%s may extend beyond the unit cell", p.Shape.Kind()),
				Severity: SeverityWarning,
			})
		}
	}
	return warnings
}

// warnHidden flags a shape that is exactly repeated later in the drawing
// order; the earlier copy never reaches the grid.
func warnHidden(b Base) []ValidationError {
	var warnings []ValidationError
	for i := range b.Shapes {
		for j := i + 1; j < len(b.Shapes); j++ {
			if b.Shapes[i].Shape == b.Shapes[j].Shape && b.Shapes[i].Center == b.Shapes[j].Center {
				warnings = append(warnings, ValidationError{
					Index:    i,
					Name:     b.Shapes[i].Name,
					Message:  fmt.Sprintf("fully covered by shape %d", j),
					Severity: SeverityWarning,
				})
				break
			}
		}
	}
	return warnings
}

func warnDuplicateNames(b Base) []ValidationError {
	var warnings []ValidationError
	seen := make(map[string]int)
	for i, p := range b.Shapes {
		if p.Name == "" {
			continue
		}
		if first, ok := seen[p.Name]; ok {
			warnings = append(warnings, ValidationError{
				Index:    i,
				Name:     p.Name,
				Message:  fmt.Sprintf("name %q already used by shape %d", p.Name, first),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[p.Name] = i
	}
	return warnings
}
