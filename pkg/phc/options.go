package phc

import (
	"log/slog"

	"github.com/chazu/phc/pkg/fourier"
	"github.com/chazu/phc/pkg/kernel"
	"github.com/chazu/phc/pkg/raster"
)

// Option configures Analyze.
type Option func(*options)

type options struct {
	raster  []raster.Option
	fourier []fourier.Option
	logger  *slog.Logger
}

func defaultOptions() options {
	return options{}
}

// WithKernel selects the membership kernel used by the rasterizer.
func WithKernel(k kernel.Kernel) Option {
	return func(o *options) {
		o.raster = append(o.raster, raster.WithKernel(k))
	}
}

// WithWorkers bounds rasterization parallelism. See raster.WithWorkers.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.raster = append(o.raster, raster.WithWorkers(n))
	}
}

// WithPeriodicImages enables wrap-around of shapes crossing the cell edge.
func WithPeriodicImages(on bool) Option {
	return func(o *options) {
		o.raster = append(o.raster, raster.WithPeriodicImages(on))
	}
}

// WithOrigin selects the phase origin of the coefficient table.
func WithOrigin(origin fourier.Origin) Option {
	return func(o *options) {
		o.fourier = append(o.fourier, fourier.WithOrigin(origin))
	}
}

// WithPlan sets the 1D transform factory.
func WithPlan(f fourier.PlanFactory) Option {
	return func(o *options) {
		o.fourier = append(o.fourier, fourier.WithPlan(f))
	}
}

// WithLogger overrides the shared logger for one call, including the
// rasterizer and the Fourier engine.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func (o options) rasterOptions() []raster.Option {
	if o.logger == nil {
		return o.raster
	}
	return append(append([]raster.Option(nil), o.raster...), raster.WithLogger(o.logger))
}

func (o options) fourierOptions() []fourier.Option {
	if o.logger == nil {
		return o.fourier
	}
	return append(append([]fourier.Option(nil), o.fourier...), fourier.WithLogger(o.logger))
}
