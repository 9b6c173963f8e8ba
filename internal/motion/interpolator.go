package motion

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrBreakpoints is returned when interpolation breakpoints are malformed.
var ErrBreakpoints = errors.New("invalid breakpoints")

// Extrapolation controls what an Interpolator returns outside its input range.
type Extrapolation int

const (
	// Clamp holds the first/last output value.
	Clamp Extrapolation = iota
	// Extend continues the slope of the first/last segment.
	Extend
)

func (e Extrapolation) String() string {
	switch e {
	case Clamp:
		return "clamp"
	case Extend:
		return "extend"
	default:
		return fmt.Sprintf("extrapolation(%d)", int(e))
	}
}

// Interpolator maps an input value onto an output range through piecewise-linear breakpoints.
// It is immutable once built and safe for concurrent use.
type Interpolator struct {
	xs    []float64
	ys    []float64
	left  Extrapolation
	right Extrapolation
}

// Option configures an Interpolator.
type Option func(*Interpolator)

// WithExtrapolateLeft sets the policy for inputs below the first breakpoint.
func WithExtrapolateLeft(e Extrapolation) Option {
	return func(in *Interpolator) { in.left = e }
}

// WithExtrapolateRight sets the policy for inputs above the last breakpoint.
func WithExtrapolateRight(e Extrapolation) Option {
	return func(in *Interpolator) { in.right = e }
}

// WithExtrapolate sets the same policy on both sides.
func WithExtrapolate(e Extrapolation) Option {
	return func(in *Interpolator) {
		in.left = e
		in.right = e
	}
}

// NewInterpolator validates the breakpoints and returns an Interpolator.
// Inputs must be finite and strictly increasing; both sides clamp unless configured otherwise.
func NewInterpolator(xs, ys []float64, opts ...Option) (*Interpolator, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d inputs but %d outputs", ErrBreakpoints, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 breakpoints, got %d", ErrBreakpoints, len(xs))
	}
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			return nil, fmt.Errorf("%w: breakpoint %d is not finite", ErrBreakpoints, i)
		}
		if i > 0 && xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("%w: input %d (%g) is not greater than input %d (%g)", ErrBreakpoints, i, xs[i], i-1, xs[i-1])
		}
	}

	in := &Interpolator{
		xs: append([]float64(nil), xs...),
		ys: append([]float64(nil), ys...),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in, nil
}

// Value returns the interpolated output for x.
func (in *Interpolator) Value(x float64) float64 {
	n := len(in.xs)

	if x < in.xs[0] {
		if in.left == Clamp {
			return in.ys[0]
		}
		return segment(in.xs[0], in.xs[1], in.ys[0], in.ys[1], x)
	}
	if x > in.xs[n-1] {
		if in.right == Clamp {
			return in.ys[n-1]
		}
		return segment(in.xs[n-2], in.xs[n-1], in.ys[n-2], in.ys[n-1], x)
	}

	// First breakpoint strictly greater than x; x lies in [xs[i-1], xs[i]].
	i := sort.Search(n, func(k int) bool { return in.xs[k] > x })
	if i == n {
		return in.ys[n-1]
	}
	if i == 0 {
		return in.ys[0]
	}
	return segment(in.xs[i-1], in.xs[i], in.ys[i-1], in.ys[i], x)
}

// Domain returns the first and last input breakpoints.
func (in *Interpolator) Domain() (float64, float64) {
	return in.xs[0], in.xs[len(in.xs)-1]
}

// Loop wraps x into [0, period). Non-positive periods return x unchanged.
func Loop(x, period float64) float64 {
	if period <= 0 {
		return x
	}
	m := math.Mod(x, period)
	if m < 0 {
		m += period
	}
	return m
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func segment(x0, x1, y0, y1, x float64) float64 {
	return Lerp(y0, y1, (x-x0)/(x1-x0))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
