package termstructure

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/ratecurve/utils"
)

var (
	ErrNoHelpers              = errors.New("no rate helpers")
	ErrDuplicatePillar        = errors.New("pillar dates are not strictly increasing")
	ErrPillarBeforeReference  = errors.New("instrument date is not after the reference date")
	ErrNegativeRate           = errors.New("negative rate quote cannot be represented by a log-discount curve")
	ErrUnsupportedCombination = errors.New("unsupported trait, interpolation and bootstrap combination")
	ErrOutOfRange             = errors.New("time is beyond the curve's last pillar")
	ErrNegativeTime           = errors.New("negative time")
	ErrNotConverged           = errors.New("bootstrap did not converge")
	ErrCyclicDependency       = errors.New("curve depends on itself")
)

// ConfigurationError reports a curve that can never be built as specified.
type ConfigurationError struct {
	Reason error
	// Index is the offending helper position after sorting, or -1.
	Index  int
	Date   time.Time
	Detail string
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error: " + e.Reason.Error()
	if e.Index >= 0 {
		msg += fmt.Sprintf(" (helper %d", e.Index)
		if !e.Date.IsZero() {
			msg += ", " + e.Date.Format(utils.DateLayout)
		}
		msg += ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Reason }

// ConvergenceError reports a bootstrap that ran out of iterations.
type ConvergenceError struct {
	// Pillar is the 1-based node being solved, or the node with the largest residual when the
	// pass limit was hit.
	Pillar     int
	Date       time.Time
	Instrument string
	Residual   float64
	Tolerance  float64
	// Iterations counts solver evaluations at the pillar, or passes when Pass limit was hit.
	Iterations int
	Pass       int
	Err        error
}

func (e *ConvergenceError) Error() string {
	msg := fmt.Sprintf("%v: pillar %d (%s, %s) residual %.3e above tolerance %.1e after %d iterations in pass %d",
		ErrNotConverged, e.Pillar, e.Instrument, e.Date.Format(utils.DateLayout), e.Residual, e.Tolerance, e.Iterations, e.Pass)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both ErrNotConverged and the solver's own cause.
func (e *ConvergenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotConverged}
	}
	return []error{ErrNotConverged, e.Err}
}

// ExtrapolationError reports a query past the last pillar without extrapolation.
type ExtrapolationError struct {
	Time, MaxTime float64
	Date, MaxDate time.Time
}

func (e *ExtrapolationError) Error() string {
	if !e.Date.IsZero() {
		return fmt.Sprintf("%v: date %s is past max date %s", ErrOutOfRange, e.Date.Format(utils.DateLayout), e.MaxDate.Format(utils.DateLayout))
	}
	return fmt.Sprintf("%v: time %g is past max time %g", ErrOutOfRange, e.Time, e.MaxTime)
}

func (e *ExtrapolationError) Unwrap() error { return ErrOutOfRange }
