// Package phc runs the whole pipeline: a crystal description goes in, its
// dielectric grid and Fourier coefficient table come out.
package phc

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chazu/phc/internal/logging"
	"github.com/chazu/phc/pkg/cell"
	"github.com/chazu/phc/pkg/engine"
	"github.com/chazu/phc/pkg/fourier"
	"github.com/chazu/phc/pkg/raster"
)

// Result is the output of one analysis.
type Result struct {
	Grid     *raster.Grid
	Table    *fourier.Table
	Warnings []cell.ValidationError
}

// SetLogger installs l as the logger for every phc package. Nil restores
// the silent default.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Analyze validates c, rasterizes it at gridSize × gridSize and computes
// its coefficient table. Blocking validation findings are returned joined,
// and match cell.ErrInvalidGeometry with errors.Is. Warnings do not stop the
// analysis; they are logged and returned in the result.
func Analyze(c cell.Crystal, gridSize int, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := logging.Or(o.logger)

	v := cell.ValidateAll(c)
	if !v.OK() {
		errs := make([]error, len(v.Errors))
		for i, e := range v.Errors {
			errs[i] = e
		}
		return nil, fmt.Errorf("phc: invalid crystal: %w", errors.Join(errs...))
	}
	for _, w := range v.Warnings {
		log.Warn("phc: "+w.Message, "shape", w.Index, "name", w.Name)
	}

	// Step 1: rasterize the unit cell.
	grid, err := raster.GenerateCrystalGrid(c, gridSize, o.rasterOptions()...)
	if err != nil {
		return nil, fmt.Errorf("phc: %w", err)
	}

	// Step 2: transform the grid.
	table, err := fourier.CalculateAllXi(grid, gridSize, o.fourierOptions()...)
	if err != nil {
		return nil, fmt.Errorf("phc: %w", err)
	}

	return &Result{Grid: grid, Table: table, Warnings: v.Warnings}, nil
}

// SourceError reports evaluation errors from crystal source code.
type SourceError struct {
	Errors []engine.EvalError
}

func (e *SourceError) Error() string {
	if len(e.Errors) == 1 {
		return "phc: " + e.Errors[0].Error()
	}
	return fmt.Sprintf("phc: %s (and %d more errors)", e.Errors[0].Error(), len(e.Errors)-1)
}

// AnalyzeSource evaluates crystal description source with eng and analyzes
// the result. Errors in the source are returned as a *SourceError.
func AnalyzeSource(eng *engine.Engine, source string, gridSize int, opts ...Option) (*Result, error) {
	c, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("phc: %w", err)
	}
	if len(evalErrs) > 0 {
		return nil, &SourceError{Errors: evalErrs}
	}
	return Analyze(*c, gridSize, opts...)
}
