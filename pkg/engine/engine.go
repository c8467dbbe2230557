// Package engine evaluates the crystal description language. It wraps
// zygomys in a sandboxed environment and produces a cell.Crystal from user
// source code.
//
// A program declares a lattice, optionally a background material, and places
// shapes in drawing order:
//
//	(lattice :square :a 1)
//	(background (material :eps 12.7449))
//	(place (circle :radius 0.2257) :at (vec2 0 0) :material air :name "hole")
//
// The names air, vacuum, silicon, silica and indium-phosphide are bound to
// their materials before user code runs.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/phc/pkg/cell"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is an advisory finding about an evaluated crystal.
type EvalWarning struct {
	Shape   int // index in drawing order, -1 for the whole crystal
	Name    string
	Message string
}

// EvalResult bundles the full output of Check.
type EvalResult struct {
	Crystal  *cell.Crystal
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use; each
// call to Evaluate creates a fresh sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate takes crystal source code and produces a Crystal.
//
// Return semantics:
//   - On success: returns crystal + nil errors + nil error
//   - On parse/eval failure: returns nil crystal + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*cell.Crystal, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate with a caller-supplied context. Cancelling ctx
// abandons the wait with a fatal error wrapping ctx.Err().
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*cell.Crystal, []EvalError, error) {
	gen := e.begin()
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		c, evalErrs, err := e.evaluate(source)
		ch <- evalResult{crystal: c, errors: evalErrs, err: err}
	}()

	return e.wait(ctx, ch, gen)
}

// Check evaluates source and then validates the resulting crystal. Blocking
// validation findings are reported as errors and the crystal is withheld.
func (e *Engine) Check(source string) (EvalResult, error) {
	c, evalErrs, err := e.Evaluate(source)
	if err != nil || len(evalErrs) > 0 {
		return EvalResult{Errors: evalErrs}, err
	}

	v := cell.ValidateAll(*c)
	result := EvalResult{Crystal: c}
	for _, f := range v.Errors {
		result.Errors = append(result.Errors, EvalError{Message: f.Error()})
	}
	for _, f := range v.Warnings {
		result.Warnings = append(result.Warnings, EvalWarning{Shape: f.Index, Name: f.Name, Message: f.Message})
	}
	if len(result.Errors) > 0 {
		result.Crystal = nil
	}
	return result, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*cell.Crystal, []EvalError, error) {
	b := &crystalBuilder{}

	if strings.TrimSpace(source) != "" {
		// Sandbox mode prevents user code from accessing the filesystem or syscalls.
		env := zygo.NewZlispSandbox()
		defer env.Stop()
		registerBuiltins(env, b)

		if err := env.LoadString(preprocessSource(prelude + source)); err != nil {
			return nil, parseZygomysError(err), nil
		}
		if _, err := env.Run(); err != nil {
			return nil, parseZygomysError(err), nil
		}
	}

	c, err := b.crystal()
	if err != nil {
		return nil, []EvalError{{Message: err.Error()}}, nil
	}
	return c, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	// No line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
