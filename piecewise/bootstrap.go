package piecewise

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/meenmo/ratecurve/config"
	"github.com/meenmo/ratecurve/interpolation"
	"github.com/meenmo/ratecurve/ratehelper"
	"github.com/meenmo/ratecurve/solver"
	"github.com/meenmo/ratecurve/termstructure"
)

// Bootstrap is the algorithm that solves the node values of a curve.
type Bootstrap interface {
	Name() string
	validate(trait Trait, m interpolation.Method) error
	run(p *problem) (Stats, error)
}

// Stats describes the last rebuild of a curve.
type Stats struct {
	Algorithm   string
	Passes      int
	Evaluations int
	// Warm is set when the rebuild started from the previous node values.
	Warm bool
	// MaxError is the largest absolute quote error after the rebuild.
	MaxError float64
}

// problem is one rebuild: sorted helpers and the trial curve whose data the algorithm fills.
type problem struct {
	helpers []ratehelper.RateHelper
	trait   Trait
	method  interpolation.Method
	trial   *snapshot
	logger  *zap.Logger
}

func (p *problem) date(i int) time.Time { return p.trial.dates[i] }

// maxError values every helper on the trial curve.
func (p *problem) maxError() (worst float64, at int, err error) {
	for i, h := range p.helpers {
		e, err := h.QuoteError(p.trial)
		if err != nil {
			return 0, 0, fmt.Errorf("pillar %d (%s): %w", i+1, h, err)
		}
		if math.Abs(e) >= worst {
			worst, at = math.Abs(e), i+1
		}
	}
	return worst, at, nil
}

// pillarError attaches the pillar to a failure. Solver failures become convergence errors.
func (p *problem) pillarError(i, pass int, tolerance float64, res solver.Result, err error) error {
	h := p.helpers[i-1]
	var se *solver.Error
	if errors.As(err, &se) {
		ce := &termstructure.ConvergenceError{
			Pillar:     i,
			Date:       p.date(i),
			Instrument: h.String(),
			Residual:   res.Value,
			Tolerance:  tolerance,
			Iterations: res.Evaluations,
			Pass:       pass,
			Err:        err,
		}
		p.logger.Warn("pillar did not converge",
			zap.Int("pillar", i), zap.String("instrument", h.String()), zap.Float64("residual", res.Value), zap.Error(err))
		return ce
	}
	return fmt.Errorf("pillar %d (%s): %w", i, h, err)
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

// IterativeBootstrap solves the pillars one after the other, holding earlier pillars fixed,
// and repeats the sweep until the nodes stop moving. Schemes whose segments depend only on
// their two end nodes need a single sweep.
type IterativeBootstrap struct {
	// Accuracy is the root finder's tolerance on node values and the largest node move
	// that ends the passes. Zero takes config.Bootstrap.Accuracy.
	Accuracy       float64
	MaxPasses      int
	MaxEvaluations int
}

func (IterativeBootstrap) Name() string { return "iterative" }

func (IterativeBootstrap) validate(Trait, interpolation.Method) error { return nil }

func (b IterativeBootstrap) withDefaults() IterativeBootstrap {
	c := config.GetConfig().Bootstrap
	if b.Accuracy <= 0 {
		b.Accuracy = c.Accuracy
	}
	if b.MaxPasses <= 0 {
		b.MaxPasses = c.MaxPasses
	}
	if b.MaxEvaluations <= 0 {
		b.MaxEvaluations = c.MaxEvaluations
	}
	return b
}

const (
	// stallTolerance bounds the quote error at which a pass that no longer reduces the
	// error still counts as converged.
	stallTolerance = 1e-8
	// bracketStep is the first step of the bracket search around each guess, as a
	// fraction of the pillar's value range capped at one.
	bracketStep = 1e-3
)

// seedMethod is the local scheme that places the nodes of a global one on a cold build.
// A spline through a partial strip swings past its last node, so guesses taken from it
// fall outside any sensible bracket.
func seedMethod(t Trait) interpolation.Method {
	if _, ok := t.(Discount); ok {
		return interpolation.LogLinear
	}
	return interpolation.Linear
}

func (b IterativeBootstrap) run(p *problem) (Stats, error) {
	b = b.withDefaults()
	v := p.trial
	n := len(p.helpers)
	stats := Stats{Algorithm: b.Name(), Warm: v.valid}

	if v.valid {
		if err := v.interpolate(p.trait, p.method, n+1); err != nil {
			return stats, err
		}
	}
	seed := !v.valid && p.method.Locality() == interpolation.Global
	prevErr := math.Inf(1)
	for pass := 0; ; pass++ {
		prev := append([]float64(nil), v.data...)
		m := p.method
		if pass == 0 && seed {
			m = seedMethod(p.trait)
		}
		if err := b.sweep(p, m, pass == 0 && !v.valid, pass, &stats); err != nil {
			return stats, err
		}
		v.valid = true
		if m != p.method {
			if err := v.interpolate(p.trait, p.method, n+1); err != nil {
				return stats, err
			}
		}
		stats.Passes = pass + 1

		var change float64
		for i := 1; i <= n; i++ {
			change = math.Max(change, math.Abs(v.data[i]-prev[i]))
		}
		maxErr, worst, err := p.maxError()
		if err != nil {
			return stats, err
		}
		stats.MaxError = maxErr
		p.logger.Debug("pass finished", zap.Int("pass", pass), zap.String("interpolation", m.String()),
			zap.Float64("max_change", change), zap.Float64("max_error", maxErr))

		if p.method.Locality() == interpolation.Local {
			return stats, nil
		}
		if m == p.method && b.settled(change, maxErr, prevErr, pass) {
			return stats, nil
		}
		if pass+1 >= b.MaxPasses {
			p.logger.Warn("bootstrap pass limit reached", zap.Int("passes", pass+1), zap.Float64("max_error", maxErr))
			return stats, &termstructure.ConvergenceError{
				Pillar:     worst,
				Date:       p.date(worst),
				Instrument: p.helpers[worst-1].String(),
				Residual:   maxErr,
				Tolerance:  b.Accuracy,
				Iterations: pass + 1,
				Pass:       pass,
			}
		}
		prevErr = maxErr
	}
}

// settled reports whether a pass ends the iteration: the nodes stopped moving, or the
// quote error stopped shrinking at a level that still reprices the helpers.
func (b IterativeBootstrap) settled(change, maxErr, prevErr float64, pass int) bool {
	if change <= b.Accuracy {
		return true
	}
	return pass > 0 && math.Abs(maxErr-prevErr) < b.Accuracy && maxErr <= stallTolerance
}

// sweep solves every pillar once under m. A cold sweep interpolates only the nodes
// solved so far; otherwise every node takes part and the previous values are the guesses.
func (b IterativeBootstrap) sweep(p *problem, m interpolation.Method, cold bool, pass int, stats *Stats) error {
	v := p.trial
	n := len(p.helpers)
	for i := 1; i <= n; i++ {
		active := n + 1
		var guess float64
		if cold {
			active = i + 1
			guess = p.trait.InitialGuess(i, v)
		} else {
			guess = p.trait.Guess(i, v)
		}
		lo, hi := p.trait.MinValueAfter(i, v), p.trait.MaxValueAfter(i, v)
		guess = clamp(guess, lo, hi)
		if cold {
			p.trait.UpdateGuess(v.data, guess, i)
		}

		h := p.helpers[i-1]
		objective := func(x float64) (float64, error) {
			p.trait.UpdateGuess(v.data, x, i)
			if err := v.interpolate(p.trait, m, active); err != nil {
				return 0, err
			}
			return h.QuoteError(v)
		}
		brent := solver.Brent{MaxEvaluations: b.MaxEvaluations, Step: bracketStep * math.Min(hi-lo, 1)}
		res, err := brent.Solve(objective, b.Accuracy, guess, lo, hi)
		stats.Evaluations += res.Evaluations
		if err != nil {
			return p.pillarError(i, pass, b.Accuracy, res, err)
		}
		p.trait.UpdateGuess(v.data, res.Root, i)
		if err := v.interpolate(p.trait, m, active); err != nil {
			return p.pillarError(i, pass, b.Accuracy, res, err)
		}
		p.logger.Debug("pillar solved",
			zap.Int("pillar", i), zap.Time("date", p.date(i)), zap.Float64("value", res.Root), zap.Int("evaluations", res.Evaluations))
	}
	return nil
}

// LocalBootstrap solves each pillar once. The segment ending at pillar i is cut from an
// interpolation over the Window nodes before it, scaled to join the segments already
// solved, which are never revisited. Global schemes cannot be split this way.
type LocalBootstrap struct {
	// Accuracy is the root finder's tolerance. Zero takes config.Bootstrap.LocalAccuracy.
	Accuracy       float64
	MaxEvaluations int
	Window         int
}

func (LocalBootstrap) Name() string { return "local" }

func (LocalBootstrap) validate(_ Trait, m interpolation.Method) error {
	if m.Locality() == interpolation.Global {
		return fmt.Errorf("%s interpolation is global and cannot be bootstrapped locally", m)
	}
	return nil
}

func (b LocalBootstrap) withDefaults() LocalBootstrap {
	c := config.GetConfig().Bootstrap
	if b.Accuracy <= 0 {
		b.Accuracy = c.LocalAccuracy
	}
	if b.MaxEvaluations <= 0 {
		b.MaxEvaluations = c.LocalMaxEvaluations
	}
	if b.Window <= 0 {
		b.Window = c.LocalWindow
	}
	return b
}

func (b LocalBootstrap) run(p *problem) (Stats, error) {
	b = b.withDefaults()
	v := p.trial
	n := len(p.helpers)
	stats := Stats{Algorithm: b.Name(), Warm: v.valid, Passes: 1}
	secant := solver.Secant{MaxEvaluations: b.MaxEvaluations}

	ls := &localShape{trait: p.trait}
	v.shape = ls
	for i := 1; i <= n; i++ {
		lo := max(0, i-b.Window)
		start, end := v.times[i-1], v.times[i]
		anchor := ls.discount(start)

		var guess float64
		if v.valid {
			guess = p.trait.Guess(i, v)
		} else {
			guess = p.trait.InitialGuess(i, v)
		}
		xMin, xMax := p.trait.MinValueAfter(i, v), p.trait.MaxValueAfter(i, v)
		guess = clamp(guess, xMin, xMax)

		place := func(x float64) error {
			p.trait.UpdateGuess(v.data, x, i)
			piece, err := p.method.Interpolate(v.times[lo:i+1], v.data[lo:i+1])
			if err != nil {
				return err
			}
			ls.set(i-1, start, end, anchor, piece)
			return nil
		}
		h := p.helpers[i-1]
		objective := func(x float64) (float64, error) {
			if err := place(x); err != nil {
				return 0, err
			}
			return h.QuoteError(v)
		}
		res, err := secant.Solve(objective, b.Accuracy, guess, xMin, xMax)
		stats.Evaluations += res.Evaluations
		if err != nil {
			return stats, p.pillarError(i, 0, b.Accuracy, res, err)
		}
		if err := place(res.Root); err != nil {
			return stats, p.pillarError(i, 0, b.Accuracy, res, err)
		}
		p.logger.Debug("pillar solved",
			zap.Int("pillar", i), zap.Time("date", p.date(i)), zap.Float64("value", res.Root), zap.Int("evaluations", res.Evaluations))
	}
	v.valid = true
	maxErr, _, err := p.maxError()
	if err != nil {
		return stats, err
	}
	stats.MaxError = maxErr
	return stats, nil
}
