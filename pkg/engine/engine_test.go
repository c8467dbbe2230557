package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const minimal = "(lattice :square :a 1)"

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	for _, src := range []string{"", "   \n\t  \n  "} {
		c, evalErrs, err := eng.Evaluate(src)
		if err != nil {
			t.Fatalf("unexpected fatal error: %v", err)
		}
		if c != nil {
			t.Fatal("expected nil crystal without a lattice")
		}
		if len(evalErrs) != 1 || !strings.Contains(evalErrs[0].Message, "no lattice") {
			t.Fatalf("expected a missing lattice error, got %v", evalErrs)
		}
	}
}

func TestEvaluateMinimal(t *testing.T) {
	eng := NewEngine()

	c, evalErrs, err := eng.Evaluate(minimal)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if c == nil {
		t.Fatal("expected non-nil crystal")
	}
	if len(c.Base.Shapes) != 0 {
		t.Errorf("expected empty base, got %d shapes", len(c.Base.Shapes))
	}
}

func TestEvaluateMultipleExpressions(t *testing.T) {
	eng := NewEngine()

	source := `
(def a 2)
(def r (* a 0.1))
(lattice :square :a a)
(place (circle :radius r))
`
	c, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if c.Lattice.Constant() != 2 {
		t.Errorf("lattice constant = %g, want 2", c.Lattice.Constant())
	}
	if len(c.Base.Shapes) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(c.Base.Shapes))
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	// Unmatched paren is a parse error.
	c, evalErrs, err := eng.Evaluate("(lattice :square :a 1")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if c != nil {
		t.Fatal("expected nil crystal on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine()

	c, evalErrs, err := eng.Evaluate(minimal + "\n(place (circle :radius 0.2) :material unobtainium)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if c != nil {
		t.Fatal("expected nil crystal on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvaluateSyntaxErrorHasLineInfo(t *testing.T) {
	eng := NewEngine()

	// The material prelude shares line 1 with user code, so line numbers
	// are the user's.
	source := minimal + "\n(place (circle :radius 0.2)"
	_, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	e := evalErrs[0]
	if e.Message == "" {
		t.Error("eval error message should not be empty")
	}
	if e.Line > 0 {
		t.Logf("extracted line info: line=%d, message=%q", e.Line, e.Message)
	} else {
		t.Logf("no line info extracted (line=0), message=%q", e.Message)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	e2 := EvalError{Message: "no location"}
	if s2 := e2.Error(); strings.Contains(s2, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s2)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	source := minimal + "\n(place (triangle :side 0.4 :rotation 30) :at (vec2 0.1 0.2))"

	first, _, err := eng.Evaluate(source)
	if err != nil || first == nil {
		t.Fatalf("first evaluation failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		c, evalErrs, err := eng.Evaluate(source)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if c.Base.Shapes[0] != first.Base.Shapes[0] {
			t.Errorf("iteration %d: got %+v, want %+v", i, c.Base.Shapes[0], first.Base.Shapes[0])
		}
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// wait is exercised directly with a channel that never sends; an endless
	// zygomys loop would leave the sandbox running.
	eng := NewEngine(WithTimeout(20 * time.Millisecond))
	gen := eng.begin()

	start := time.Now()
	_, _, err := eng.wait(context.Background(), make(chan evalResult), gen)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "timed out after 20ms") {
		t.Errorf("expected timeout error message, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > DefaultTimeout {
		t.Errorf("wait took %s, longer than the default limit", elapsed)
	}
}

func TestWithTimeoutIgnoresNonPositive(t *testing.T) {
	for _, d := range []time.Duration{0, -time.Second} {
		if got := NewEngine(WithTimeout(d)).timeout; got != DefaultTimeout {
			t.Errorf("WithTimeout(%s) gives %s, want %s", d, got, DefaultTimeout)
		}
	}
}

func TestEvaluateContextCanceled(t *testing.T) {
	eng := NewEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := eng.begin()
	_, _, err := eng.wait(ctx, make(chan evalResult), gen)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled error, got: %v", err)
	}
}

func TestEvaluateContext(t *testing.T) {
	c, evalErrs, err := NewEngine().EvaluateContext(context.Background(), minimal)
	if err != nil || len(evalErrs) > 0 || c == nil {
		t.Fatalf("got %v, %v, %v", c, evalErrs, err)
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	eng := NewEngine()
	stale := eng.begin()
	eng.begin()

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	_, _, err := eng.wait(context.Background(), ch, stale)
	if err == nil {
		t.Fatal("expected error for stale generation")
	}
	if !strings.Contains(err.Error(), "superseded") {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestCheck(t *testing.T) {
	eng := NewEngine()

	t.Run("warnings", func(t *testing.T) {
		source := minimal + `
(place (circle :radius 0.1) :name "a")
(place (circle :radius 0.1) :at (vec2 0.3 0) :name "a")
`
		res, err := eng.Check(source)
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Errors) > 0 {
			t.Fatalf("unexpected errors: %v", res.Errors)
		}
		if res.Crystal == nil {
			t.Fatal("expected crystal")
		}
		if len(res.Warnings) == 0 {
			t.Error("expected a duplicate name warning")
		}
	})

	t.Run("eval errors pass through", func(t *testing.T) {
		res, err := eng.Check("(lattice")
		if err != nil {
			t.Fatal(err)
		}
		if res.Crystal != nil || len(res.Errors) == 0 {
			t.Errorf("got %+v, want errors and no crystal", res)
		}
	})
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
		{
			name:     "short line format",
			msg:      "line 3: bad shape",
			wantLine: 3,
			wantMsg:  "bad shape",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
