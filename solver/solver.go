// Package solver holds the bracketed one-dimensional root finders used by the bootstraps.
package solver

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotBracketed means f has the same sign at both bounds.
	ErrNotBracketed = errors.New("solver: root not bracketed")
	// ErrMaxEvaluations means the evaluation budget ran out before the accuracy was reached.
	ErrMaxEvaluations = errors.New("solver: maximum number of function evaluations exceeded")
	// ErrBounds means the search interval or the guess is malformed.
	ErrBounds = errors.New("solver: invalid bounds")
)

// Func is an objective whose evaluation may fail.
type Func func(x float64) (float64, error)

// Result reports where the search stopped. On failure Root is the best point found.
type Result struct {
	Root        float64
	Value       float64
	Evaluations int
}

// Error wraps a solver failure with the last state of the search.
type Error struct {
	Result
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v after %d evaluations (x=%.12g, f=%.6g)", e.Err, e.Evaluations, e.Root, e.Value)
}

func (e *Error) Unwrap() error { return e.Err }

type counter struct {
	f     Func
	n     int
	max   int
	bestX float64
	bestF float64
}

func (c *counter) eval(x float64) (float64, error) {
	if c.n >= c.max {
		return 0, ErrMaxEvaluations
	}
	c.n++
	fx, err := c.f(x)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(fx) {
		return 0, fmt.Errorf("solver: objective returned NaN at x=%g", x)
	}
	if c.n == 1 || math.Abs(fx) < math.Abs(c.bestF) {
		c.bestX, c.bestF = x, fx
	}
	return fx, nil
}

func (c *counter) fail(err error) (Result, error) {
	r := Result{Root: c.bestX, Value: c.bestF, Evaluations: c.n}
	if errors.Is(err, ErrMaxEvaluations) || errors.Is(err, ErrNotBracketed) {
		return r, &Error{Result: r, Err: err}
	}
	return r, err
}

func (c *counter) done(x, fx float64) (Result, error) {
	return Result{Root: x, Value: fx, Evaluations: c.n}, nil
}

func checkBounds(guess, xMin, xMax float64) error {
	if !(xMin < xMax) {
		return fmt.Errorf("%w: xMin %g not below xMax %g", ErrBounds, xMin, xMax)
	}
	if guess < xMin || guess > xMax {
		return fmt.Errorf("%w: guess %g outside [%g, %g]", ErrBounds, guess, xMin, xMax)
	}
	return nil
}

// bracket evaluates both bounds and the guess and returns the guess with the bound whose
// value has the opposite sign.
func bracket(c *counter, guess, xMin, xMax float64) (x, fx, y, fy float64, found bool, err error) {
	fMin, err := c.eval(xMin)
	if err != nil {
		return
	}
	if fMin == 0 {
		return xMin, 0, xMin, 0, true, nil
	}
	fMax, err := c.eval(xMax)
	if err != nil {
		return
	}
	if fMax == 0 {
		return xMax, 0, xMax, 0, true, nil
	}
	if math.Signbit(fMin) == math.Signbit(fMax) {
		err = fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNotBracketed, xMin, fMin, xMax, fMax)
		return
	}
	if guess == xMin || guess == xMax {
		return xMax, fMax, xMin, fMin, false, nil
	}
	fg, err := c.eval(guess)
	if err != nil {
		return
	}
	if fg == 0 {
		return guess, 0, guess, 0, true, nil
	}
	if math.Signbit(fg) != math.Signbit(fMin) {
		return guess, fg, xMin, fMin, false, nil
	}
	return guess, fg, xMax, fMax, false, nil
}

// growth is the factor by which expand widens its step after each miss.
const growth = 1.6

// expand walks outward from the guess, widening the side whose value is closer to zero,
// until f changes sign. It fails only once both bounds are reached.
func expand(c *counter, guess, step, xMin, xMax float64) (x, fx, y, fy float64, found bool, err error) {
	fg, err := c.eval(guess)
	if err != nil {
		return
	}
	if fg == 0 {
		return guess, 0, guess, 0, true, nil
	}
	lo, flo := guess, fg
	hi, fhi := guess, fg
	for {
		left := lo > xMin && (hi == xMax || lo == guess || (hi > guess && math.Abs(flo) <= math.Abs(fhi)))
		if left {
			lo = math.Max(lo-step, xMin)
			if flo, err = c.eval(lo); err != nil {
				return
			}
			if flo == 0 {
				return lo, 0, lo, 0, true, nil
			}
			if math.Signbit(flo) != math.Signbit(fg) {
				return guess, fg, lo, flo, false, nil
			}
		} else {
			hi = math.Min(hi+step, xMax)
			if fhi, err = c.eval(hi); err != nil {
				return
			}
			if fhi == 0 {
				return hi, 0, hi, 0, true, nil
			}
			if math.Signbit(fhi) != math.Signbit(fg) {
				return guess, fg, hi, fhi, false, nil
			}
		}
		if lo == xMin && hi == xMax {
			err = fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNotBracketed, xMin, flo, xMax, fhi)
			return
		}
		if (lo < guess || lo == xMin) && (hi > guess || hi == xMax) {
			step *= growth
		}
	}
}
