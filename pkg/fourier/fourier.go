// Package fourier computes the 2D Fourier coefficients ξ(m, n) of a
// dielectric grid:
//
//	ξ(m, n) = (1/N²) Σ δ[i, j]·exp(+2πi(m·sᵢ + n·tⱼ))
//
// where δ is the grid minus its mean and (sᵢ, tⱼ) = ((i − c)/N, (j − c)/N)
// are the fractional pixel coordinates measured from the cell centre. For a
// square cell of constant a that is exp(+2πi(m·xᵢ + n·yⱼ)/a); for an oblique
// cell, order (m, n) belongs to the reciprocal vector m·b1 + n·b2. The zero
// order is replaced by the mean itself, so ξ(0, 0) is exactly the average
// dielectric constant.
package fourier

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/chazu/phc/internal/logging"
	"github.com/chazu/phc/pkg/cell"
	"github.com/chazu/phc/pkg/raster"
)

const op = "calculate xi"

// Origin selects the point the series is referred to.
type Origin int

const (
	// CellCentered refers phases to the cell centre, the same origin as
	// fractional shape coordinates. A centrosymmetric cell gives a real
	// table.
	CellCentered Origin = iota
	// IndexOrigin refers phases to pixel (0, 0). Magnitudes are the same
	// as CellCentered; phases differ by exp(−2πi(m+n)c/N).
	IndexOrigin
)

func (o Origin) String() string {
	switch o {
	case CellCentered:
		return "cell-centered"
	case IndexOrigin:
		return "index"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	plan   PlanFactory
	origin Origin
	logger *slog.Logger
}

func defaultOptions() options {
	return options{
		plan:   func(n int) Plan { return NewGonumPlan(n) },
		origin: CellCentered,
	}
}

// WithPlan sets the 1D transform used for rows and columns. Nil keeps the
// gonum FFT.
func WithPlan(f PlanFactory) Option {
	return func(o *options) {
		if f != nil {
			o.plan = f
		}
	}
}

// WithOrigin selects the phase origin.
func WithOrigin(origin Origin) Option {
	return func(o *options) {
		o.origin = origin
	}
}

// WithLogger overrides the shared logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// conventionLength is the plan length used to check a factory's convention.
const conventionLength = 8

// Engine computes coefficient tables. It holds only configuration and may
// be shared between goroutines.
type Engine struct {
	opts options
}

// New returns an engine after verifying that its plan's declared sign and
// normalization match what it computes.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.origin != CellCentered && o.origin != IndexOrigin {
		return nil, fmt.Errorf("fourier: unknown origin %v", o.origin)
	}
	if err := VerifyConvention(o.plan(conventionLength)); err != nil {
		return nil, err
	}
	return &Engine{opts: o}, nil
}

// CalculateAllXi is a convenience wrapper for New followed by
// Engine.CalculateAllXi.
func CalculateAllXi(grid *raster.Grid, gridSize int, opts ...Option) (*Table, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return e.CalculateAllXi(grid, gridSize)
}

// CalculateAllXi returns the centred coefficient table for grid. gridSize
// must equal the grid's size.
func (e *Engine) CalculateAllXi(grid *raster.Grid, gridSize int) (*Table, error) {
	if grid == nil {
		return nil, cell.Invalid(op, "grid", "grid is nil")
	}
	if gridSize <= 0 || gridSize != grid.Size() {
		return nil, cell.Invalid(op, "grid size", "%d does not match grid of size %d", gridSize, grid.Size())
	}
	if !grid.Finite() {
		return nil, cell.Invalid(op, "grid", "grid holds non-finite samples")
	}
	n := gridSize
	log := logging.Or(e.opts.logger)

	mean := grid.Mean()
	data := make([]complex128, n*n)
	for i := 0; i < n; i++ {
		row := data[i*n : (i+1)*n]
		for j, v := range grid.Row(i) {
			row[j] = complex(v-mean, 0)
		}
	}

	if n > 1 {
		if err := e.transform(data, n); err != nil {
			return nil, err
		}
		if e.opts.origin == CellCentered {
			shiftOrigin(data, n)
		}
	}

	table := newTable(n, center(data, n))
	row, col, _ := table.Index(0, 0)
	table.data.Set(row, col, complex(mean, 0))

	log.Debug("fourier: coefficients computed",
		"size", n,
		"origin", e.opts.origin.String(),
		"mean", mean)
	return table, nil
}

// transform applies the positive-exponent 2D DFT in place, rows then
// columns, and scales by 1/N² unless the plan already normalizes.
func (e *Engine) transform(data []complex128, n int) error {
	p := e.opts.plan(n)
	if p.Len() != n {
		return fmt.Errorf("fourier: plan length %d, want %d", p.Len(), n)
	}

	run, normalized := p.Inverse, p.InverseNormalized()
	if p.ForwardSign() > 0 {
		run, normalized = p.Forward, false
	}

	buf := make([]complex128, n)
	for i := 0; i < n; i++ {
		row := data[i*n : (i+1)*n]
		run(buf, row)
		copy(row, buf)
	}
	col := make([]complex128, n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			col[i] = data[i*n+j]
		}
		run(buf, col)
		for i := 0; i < n; i++ {
			data[i*n+j] = buf[i]
		}
	}

	if !normalized {
		s := complex(1/float64(n*n), 0)
		for k := range data {
			data[k] *= s
		}
	}
	return nil
}

// signedOrder maps raw DFT index k to its order in [-N/2, N-1-N/2].
func signedOrder(k, n int) int {
	return (k+n/2)%n - n/2
}

// shiftOrigin moves the phase origin from pixel (0, 0) to the cell centre
// c = (N−1)/2 by multiplying entry (k1, k2) by exp(−2πi(m+n)c/N).
func shiftOrigin(data []complex128, n int) {
	c := float64(n-1) / 2
	phase := make([]complex128, n)
	for k := 0; k < n; k++ {
		s, co := math.Sincos(-2 * math.Pi * float64(signedOrder(k, n)) * c / float64(n))
		phase[k] = complex(co, s)
	}
	for k1 := 0; k1 < n; k1++ {
		for k2 := 0; k2 < n; k2++ {
			data[k1*n+k2] *= phase[k1] * phase[k2]
		}
	}
}

// center reorders raw DFT output so that raw index k lands at (k + N/2) mod N.
func center(data []complex128, n int) []complex128 {
	out := make([]complex128, n*n)
	h := n / 2
	for k1 := 0; k1 < n; k1++ {
		r := (k1 + h) % n
		for k2 := 0; k2 < n; k2++ {
			out[r*n+(k2+h)%n] = data[k1*n+k2]
		}
	}
	return out
}
