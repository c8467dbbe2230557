package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"

	"github.com/chazu/phc/pkg/cell"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMaterial wraps a cell.Material.
type sexpMaterial struct {
	m cell.Material
}

func (m *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	e := m.m.Epsilon
	if m.m.IsIsotropic() {
		return fmt.Sprintf("(material :eps %g)", e[0])
	}
	return fmt.Sprintf("(material :eps-x %g :eps-y %g :eps-z %g)", e[0], e[1], e[2])
}
func (m *sexpMaterial) Type() *zygo.RegisteredType { return nil }

// sexpLattice wraps a cell.Lattice.
type sexpLattice struct {
	l cell.Lattice
}

func (l *sexpLattice) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(lattice :%s :a %g)", l.l.Kind, l.l.Constant())
}
func (l *sexpLattice) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps an unplaced cell.Shape, returned by circle, triangle and
// right-isosceles and consumed by place.
type sexpShape struct {
	s cell.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	switch v := s.s.(type) {
	case cell.Circle:
		return fmt.Sprintf("(circle :radius %g)", v.Radius)
	case cell.EquilateralTriangle:
		return fmt.Sprintf("(triangle :side %g :rotation %g)", v.Side, v.Rotation)
	case cell.RightAngledIsosceles:
		return fmt.Sprintf("(right-isosceles :leg %g :rotation %g)", v.Leg, v.Rotation)
	}
	return fmt.Sprintf("(shape %s)", s.s.Kind())
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpVec2 wraps a fractional position.
type sexpVec2 struct {
	v cell.Frac
}

func (v *sexpVec2) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec2 %g %g)", v.v.S, v.v.T)
}
func (v *sexpVec2) Type() *zygo.RegisteredType { return nil }

// sexpPlaced refers to a shape already added to the base.
type sexpPlaced struct {
	index int
	name  string
}

func (p *sexpPlaced) SexpString(ps *zygo.PrintState) string {
	if p.name != "" {
		return fmt.Sprintf("(placed %q)", p.name)
	}
	return fmt.Sprintf("(placed #%d)", p.index)
}
func (p *sexpPlaced) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A keyword
// followed by another keyword (or nothing) is a flag and maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			if _, next := isKW(args[i+1]); !next {
				result.kw[name] = args[i+1]
				i += 2
				continue
			}
		}
		result.kw[name] = zygo.SexpNull
		i++
	}
	return result
}

// flag reports whether the bare keyword name was given.
func (a kwArgs) flag(name string) bool {
	v, ok := a.kw[name]
	return ok && v == zygo.SexpNull
}

// number returns the keyword's numeric value, or def when absent.
func (a kwArgs) number(fn, name string, def float64) (float64, bool, error) {
	v, ok := a.kw[name]
	if !ok {
		return def, false, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %s: %w", fn, name, err)
	}
	return f, true, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func isNumber(s zygo.Sexp) bool {
	_, err := toFloat64(s)
	return err == nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toMaterial extracts a cell.Material from a sexpMaterial.
func toMaterial(s zygo.Sexp) (cell.Material, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.m, nil
	}
	return cell.Material{}, fmt.Errorf("expected material, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts an unplaced shape.
func toShape(s zygo.Sexp) (cell.Shape, error) {
	if v, ok := s.(*sexpShape); ok {
		return v.s, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toFrac accepts (vec2 s t) or a two-number list.
func toFrac(s zygo.Sexp) (cell.Frac, error) {
	if v, ok := s.(*sexpVec2); ok {
		return v.v, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil || len(items) != 2 || !lo.EveryBy(items, isNumber) {
		return cell.Frac{}, fmt.Errorf("expected vec2 or a list of two numbers, got %s", s.SexpString(nil))
	}
	xs := lo.Map(items, func(item zygo.Sexp, _ int) float64 {
		f, _ := toFloat64(item)
		return f
	})
	return cell.Frac{S: xs[0], T: xs[1]}, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// ---------------------------------------------------------------------------
// Crystal builder
// ---------------------------------------------------------------------------

// crystalBuilder accumulates the effects of builtins during one evaluation.
type crystalBuilder struct {
	lattice    *cell.Lattice
	background *cell.Material
	shapes     []cell.PlacedShape
}

// backgroundOrDefault returns the declared background, or silicon.
func (b *crystalBuilder) backgroundOrDefault() cell.Material {
	if b.background != nil {
		return *b.background
	}
	return cell.Silicon()
}

func (b *crystalBuilder) place(name string, s cell.Shape, at cell.Frac, m cell.Material) *sexpPlaced {
	b.shapes = append(b.shapes, cell.PlacedShape{Name: name, Shape: s, Center: at, Material: m})
	return &sexpPlaced{index: len(b.shapes) - 1, name: name}
}

// crystal returns the finished crystal. A program must declare a lattice.
func (b *crystalBuilder) crystal() (*cell.Crystal, error) {
	if b.lattice == nil {
		return nil, fmt.Errorf("no lattice defined; add (lattice :square :a 1) or (lattice :triangular :a 1)")
	}
	return &cell.Crystal{
		Lattice: *b.lattice,
		Base: cell.Base{
			Background: b.backgroundOrDefault(),
			Shapes:     append([]cell.PlacedShape(nil), b.shapes...),
		},
	}, nil
}

// prelude binds the common materials. It is kept on a single line and
// prepended to user source so reported line numbers are unchanged.
var prelude = fmt.Sprintf(
	"(def air (material :eps %g)) (def vacuum (material :eps %g)) (def silicon (material :eps %g)) "+
		"(def silica (material :eps %g)) (def indium-phosphide (material :eps %g)) ",
	cell.EpsilonAir, cell.EpsilonVacuum, cell.EpsilonSilicon, cell.EpsilonSiliconDioxide, cell.EpsilonIndiumPhosphide)

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the crystal DSL builtins into a zygomys
// environment. The builtins record lattice, background and shapes on b.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *crystalBuilder) {

	// -----------------------------------------------------------------------
	// (lattice :square :a 1.0) / (lattice :triangular :a 1.0)
	// -----------------------------------------------------------------------
	env.AddFunction("lattice", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		a, ok, err := pa.number("lattice", "a", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		if !ok || !positive(a) {
			return zygo.SexpNull, fmt.Errorf("lattice: :a must be a positive lattice constant")
		}

		var l cell.Lattice
		switch {
		case pa.flag("square") && pa.flag("triangular"):
			return zygo.SexpNull, fmt.Errorf("lattice: choose one of :square or :triangular")
		case pa.flag("triangular"):
			l = cell.NewTriangular(a)
		default:
			l = cell.NewSquare(a)
		}
		b.lattice = &l
		return &sexpLattice{l: l}, nil
	})

	// -----------------------------------------------------------------------
	// (material :eps 12.1) (material :n 3.48) (material :eps-x 2 :eps-y 3 :eps-z 4)
	// -----------------------------------------------------------------------
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		eps, hasEps, err := pa.number("material", "eps", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		n, hasN, err := pa.number("material", "n", 0)
		if err != nil {
			return zygo.SexpNull, err
		}

		var m cell.Material
		switch {
		case hasEps && hasN:
			return zygo.SexpNull, fmt.Errorf("material: give either :eps or :n, not both")
		case hasEps:
			m = cell.FromEpsilon(eps)
		case hasN:
			m = cell.FromIndex(n)
		default:
			var diag [3]float64
			for i, axis := range []string{"eps-x", "eps-y", "eps-z"} {
				v, ok, err := pa.number("material", axis, 0)
				if err != nil {
					return zygo.SexpNull, err
				}
				if !ok {
					return zygo.SexpNull, fmt.Errorf("material: needs :eps, :n, or all of :eps-x :eps-y :eps-z")
				}
				diag[i] = v
			}
			m = cell.Anisotropic(diag[0], diag[1], diag[2])
		}
		for _, e := range m.Epsilon {
			if e < 0 || math.IsNaN(e) || math.IsInf(e, 0) {
				return zygo.SexpNull, fmt.Errorf("material: dielectric constant %g must be finite and non-negative", e)
			}
		}
		return &sexpMaterial{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (background (material :eps 12.7449))
	// -----------------------------------------------------------------------
	env.AddFunction("background", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("background requires exactly 1 material, got %d arguments", len(args))
		}
		m, err := toMaterial(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("background: %w", err)
		}
		b.background = &m
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (circle :radius 0.2)
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, _, err := pa.number("circle", "radius", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		if !positive(r) {
			return zygo.SexpNull, fmt.Errorf("circle: :radius must be positive, got %g", r)
		}
		return &sexpShape{s: cell.Circle{Radius: r}}, nil
	})

	// -----------------------------------------------------------------------
	// (triangle :side 0.3 :rotation 30)
	// -----------------------------------------------------------------------
	env.AddFunction("triangle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		side, _, err := pa.number("triangle", "side", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		if !positive(side) {
			return zygo.SexpNull, fmt.Errorf("triangle: :side must be positive, got %g", side)
		}
		rot, _, err := pa.number("triangle", "rotation", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{s: cell.EquilateralTriangle{Side: side, Rotation: rot}}, nil
	})

	// -----------------------------------------------------------------------
	// (right-isosceles :leg 0.3 :rotation 0)
	//
	// Registered as "right_isosceles"; the preprocessor rewrites the
	// hyphenated form.
	// -----------------------------------------------------------------------
	env.AddFunction("right_isosceles", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		leg, _, err := pa.number("right-isosceles", "leg", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		if !positive(leg) {
			return zygo.SexpNull, fmt.Errorf("right-isosceles: :leg must be positive, got %g", leg)
		}
		rot, _, err := pa.number("right-isosceles", "rotation", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{s: cell.RightAngledIsosceles{Leg: leg, Rotation: rot}}, nil
	})

	// -----------------------------------------------------------------------
	// (vec2 0.25 0)
	// -----------------------------------------------------------------------
	env.AddFunction("vec2", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("vec2 requires exactly 2 arguments, got %d", len(args))
		}
		s, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: s: %w", err)
		}
		t, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec2: t: %w", err)
		}
		return &sexpVec2{v: cell.Frac{S: s, T: t}}, nil
	})

	// -----------------------------------------------------------------------
	// (place (circle :radius 0.2) :at (vec2 0 0) :material air :name "hole")
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a shape as first argument")
		}
		s, err := toShape(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: %w", err)
		}

		var at cell.Frac
		if v, ok := pa.kw["at"]; ok {
			if at, err = toFrac(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
		}
		m := cell.Air()
		if v, ok := pa.kw["material"]; ok {
			if m, err = toMaterial(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("place: material: %w", err)
			}
		}
		var shapeName string
		if v, ok := pa.kw["name"]; ok {
			if shapeName, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("place: name: %w", err)
			}
		}
		return b.place(shapeName, s, at, m), nil
	})

	// -----------------------------------------------------------------------
	// (simple-circle :filling 0.16 :material air)
	//
	// One centred disc covering the given fraction of the cell. Needs the
	// lattice; uses the background declared so far.
	// -----------------------------------------------------------------------
	env.AddFunction("simple_circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if b.lattice == nil {
			return zygo.SexpNull, fmt.Errorf("simple-circle: declare the lattice first")
		}
		pa := parseArgs(args)
		ff, ok, err := pa.number("simple-circle", "filling", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		if !ok {
			return zygo.SexpNull, fmt.Errorf("simple-circle: :filling is required")
		}
		m := cell.Air()
		if v, ok := pa.kw["material"]; ok {
			if m, err = toMaterial(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("simple-circle: material: %w", err)
			}
		}
		base, err := cell.SimpleCircle(ff, *b.lattice, b.backgroundOrDefault(), m)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("simple-circle: %w", err)
		}
		hole := base.Shapes[0]
		return b.place(hole.Name, hole.Shape, hole.Center, hole.Material), nil
	})
}
