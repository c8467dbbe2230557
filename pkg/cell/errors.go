package cell

import (
	"errors"
	"fmt"
)

// Error kinds shared by the rasterizer and the Fourier engine. Both are
// deterministic: retrying with the same input fails the same way.
var (
	// ErrInvalidGeometry reports a non-positive lattice constant or grid
	// resolution, mismatched dimensions, or non-finite values.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrUnsupportedShape reports a shape kind with no rasterization rule.
	ErrUnsupportedShape = errors.New("unsupported shape")
)

// GeometryError carries the operation and field that failed along with the
// error kind it wraps.
type GeometryError struct {
	Op      string // e.g. "generate grid"
	Field   string // e.g. "grid size"; empty if not field-specific
	Message string
	Err     error // ErrInvalidGeometry or ErrUnsupportedShape
}

func (e *GeometryError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *GeometryError) Unwrap() error { return e.Err }

// Invalid returns a GeometryError wrapping ErrInvalidGeometry.
func Invalid(op, field, format string, args ...any) error {
	return &GeometryError{Op: op, Field: field, Message: fmt.Sprintf(format, args...), Err: ErrInvalidGeometry}
}

// Unsupported returns a GeometryError wrapping ErrUnsupportedShape.
func Unsupported(op string, s Shape) error {
	msg := fmt.Sprintf("no rasterization rule for %T", s)
	if s != nil {
		msg = fmt.Sprintf("no rasterization rule for %s (%T)", s.Kind(), s)
	}
	return &GeometryError{Op: op, Message: msg, Err: ErrUnsupportedShape}
}
