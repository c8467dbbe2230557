package raster

import (
	"log/slog"

	"github.com/chazu/phc/pkg/kernel"
	"github.com/chazu/phc/pkg/kernel/analytic"
)

// Option configures a GenerateGrid call.
//
// Example:
//
//	// Sequential rasterization with the SDF kernel
//	g, err := raster.GenerateGrid(base, a, 128,
//		raster.WithKernel(sdfx.New()),
//		raster.WithWorkers(1))
type Option func(*options)

type options struct {
	kernel   kernel.Kernel
	workers  int
	periodic bool
	logger   *slog.Logger
}

func defaultOptions() options {
	return options{
		kernel:  analytic.New(),
		workers: 0, // GOMAXPROCS
	}
}

// WithKernel sets the membership kernel. Nil keeps the analytic default.
func WithKernel(k kernel.Kernel) Option {
	return func(o *options) {
		if k != nil {
			o.kernel = k
		}
	}
}

// WithWorkers sets the number of row workers. 1 rasterizes on the calling
// goroutine; 0 or less uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithPeriodicImages also tests the eight neighbouring lattice images of
// every shape, so an inclusion that crosses the cell boundary reappears on
// the opposite side. Off by default: shapes are clipped at the cell edge.
func WithPeriodicImages(on bool) Option {
	return func(o *options) {
		o.periodic = on
	}
}

// WithLogger overrides the shared logger for one call.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
