package fourier

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan is a reusable 1D complex DFT of fixed length. Forward and Inverse
// write into dst (allocated when nil) and return it; src is left untouched.
// A plan is not required to be safe for concurrent use.
type Plan interface {
	Len() int
	Forward(dst, src []complex128) []complex128
	Inverse(dst, src []complex128) []complex128

	// ForwardSign is the sign of the exponent in the forward direction:
	// -1 for exp(-2πi·jk/n), +1 for exp(+2πi·jk/n). Inverse uses the
	// opposite sign.
	ForwardSign() int
	// InverseNormalized reports whether Inverse divides by n.
	InverseNormalized() bool
}

// PlanFactory builds a plan for length n.
type PlanFactory func(n int) Plan

var (
	_ Plan = (*GonumPlan)(nil)
	_ Plan = (*DirectPlan)(nil)
)

// GonumPlan runs gonum's mixed-radix complex FFT.
type GonumPlan struct {
	fft *fourier.CmplxFFT
}

// NewGonumPlan returns an FFT plan of length n.
func NewGonumPlan(n int) *GonumPlan {
	return &GonumPlan{fft: fourier.NewCmplxFFT(n)}
}

func (p *GonumPlan) Len() int { return p.fft.Len() }

// Forward computes exp(-) coefficients, unnormalized.
func (p *GonumPlan) Forward(dst, src []complex128) []complex128 {
	return p.fft.Coefficients(dst, src)
}

// Inverse computes the exp(+) sequence, unnormalized.
func (p *GonumPlan) Inverse(dst, src []complex128) []complex128 {
	return p.fft.Sequence(dst, src)
}

func (p *GonumPlan) ForwardSign() int        { return -1 }
func (p *GonumPlan) InverseNormalized() bool { return false }

// DirectPlan evaluates the DFT sum term by term in O(n²). It is slow but
// has no radix restrictions and serves as a reference for the FFT.
type DirectPlan struct {
	n       int
	twiddle []complex128 // exp(+2πi·k/n)
}

// NewDirectPlan returns a direct DFT of length n.
func NewDirectPlan(n int) *DirectPlan {
	w := make([]complex128, n)
	for k := range w {
		s, c := math.Sincos(2 * math.Pi * float64(k) / float64(n))
		w[k] = complex(c, s)
	}
	return &DirectPlan{n: n, twiddle: w}
}

func (p *DirectPlan) Len() int { return p.n }

func (p *DirectPlan) Forward(dst, src []complex128) []complex128 {
	return p.sum(dst, src, -1, 1)
}

// Inverse is normalized by 1/n.
func (p *DirectPlan) Inverse(dst, src []complex128) []complex128 {
	return p.sum(dst, src, +1, 1/float64(p.n))
}

func (p *DirectPlan) ForwardSign() int        { return -1 }
func (p *DirectPlan) InverseNormalized() bool { return true }

func (p *DirectPlan) sum(dst, src []complex128, sign int, scale float64) []complex128 {
	n := p.n
	if len(src) != n {
		panic(fmt.Sprintf("fourier: sequence length %d does not match plan length %d", len(src), n))
	}
	if dst == nil {
		dst = make([]complex128, n)
	} else if len(dst) != n {
		panic(fmt.Sprintf("fourier: destination length %d does not match plan length %d", len(dst), n))
	}
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var acc complex128
		for j, x := range src {
			idx := (j * k) % n
			if sign < 0 && idx != 0 {
				idx = n - idx
			}
			acc += x * p.twiddle[idx]
		}
		out[k] = acc * complex(scale, 0)
	}
	copy(dst, out)
	return dst
}

// ErrConvention reports a plan whose declared sign or normalization does
// not match what it computes.
var ErrConvention = errors.New("fourier: plan convention mismatch")

// VerifyConvention drives p with a unit impulse and checks that Forward,
// Inverse, ForwardSign and InverseNormalized agree. Lengths below three
// cannot distinguish the exponent sign; only the normalization is checked
// for them.
func VerifyConvention(p Plan) error {
	n := p.Len()
	if n < 1 {
		return fmt.Errorf("%w: length %d", ErrConvention, n)
	}
	sign := float64(p.ForwardSign())
	if sign != 1 && sign != -1 {
		return fmt.Errorf("%w: forward sign %v is not ±1", ErrConvention, sign)
	}
	scale := 1.0
	if p.InverseNormalized() {
		scale = 1 / float64(n)
	}

	k := min(1, n-1)
	impulse := make([]complex128, n)
	impulse[k] = 1
	fwd := p.Forward(nil, impulse)
	inv := p.Inverse(nil, impulse)

	const tol = 1e-9
	for j := 0; j < n; j++ {
		theta := 2 * math.Pi * float64(j*k) / float64(n)
		if want := cmplx.Rect(1, sign*theta); cmplx.Abs(fwd[j]-want) > tol {
			return fmt.Errorf("%w: forward[%d] = %v, want %v", ErrConvention, j, fwd[j], want)
		}
		if want := cmplx.Rect(scale, -sign*theta); cmplx.Abs(inv[j]-want) > tol {
			return fmt.Errorf("%w: inverse[%d] = %v, want %v", ErrConvention, j, inv[j], want)
		}
	}
	return nil
}
