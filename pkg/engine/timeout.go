package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/chazu/phc/pkg/cell"
)

// DefaultTimeout bounds a single evaluation unless WithTimeout says otherwise.
const DefaultTimeout = 5 * time.Second

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the evaluation time limit. Non-positive values keep
// DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// evalResult carries one evaluation's output back from its goroutine.
type evalResult struct {
	crystal *cell.Crystal
	errors  []EvalError
	err     error
}

// wait blocks until the evaluation numbered gen reports on ch, the engine's
// timeout elapses, or ctx is done. A result that arrives after a newer
// evaluation has started is dropped.
//
// On timeout or cancellation the evaluating goroutine keeps running; its
// buffered send lets it exit once zygomys returns.
func (e *Engine) wait(ctx context.Context, ch <-chan evalResult, gen uint64) (*cell.Crystal, []EvalError, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	select {
	case res := <-ch:
		if !e.current(gen) {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.crystal, res.errors, res.err

	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, nil, fmt.Errorf("evaluation timed out after %s: %w", e.timeout, ctx.Err())
		}
		return nil, nil, fmt.Errorf("evaluation canceled: %w", ctx.Err())
	}
}

// begin starts a new evaluation generation and returns its number.
func (e *Engine) begin() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	return e.generation
}

// current reports whether gen is still the latest evaluation.
func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}
