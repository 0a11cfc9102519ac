package bond

import (
	"fmt"
	"math"
	"time"
)

const (
	yieldTolerance = 1e-12
	yieldMaxIter   = 100
	yieldFloor     = -0.05
	yieldCeiling   = 0.50
)

// Yield solves for the yield, compounded at the coupon frequency, whose dirty price equals
// clean plus accrued at settle. Periods are counted ACT/ACT ICMA style: the first is the
// fraction of the current coupon period left, each later flow adds one period.
//
// The solver uses Newton-Raphson with analytic first derivative.
func (b *FixedRateBond) Yield(clean float64, settle time.Time) (float64, error) {
	cfs, prev, next, err := b.remaining(settle)
	if err != nil {
		return 0, fmt.Errorf("Yield: %w", err)
	}
	target := clean + b.AccruedAmount(settle)
	y, iter, err := solveYield(target, b.periodsPerYear(), firstPeriod(settle, prev, next), cfs)
	if err != nil {
		return y, fmt.Errorf("Yield: %w after %d iterations", err, iter)
	}
	return y, nil
}

// CleanPriceFromYield is the inverse of Yield.
func (b *FixedRateBond) CleanPriceFromYield(y float64, settle time.Time) (float64, error) {
	cfs, prev, next, err := b.remaining(settle)
	if err != nil {
		return 0, fmt.Errorf("CleanPriceFromYield: %w", err)
	}
	dirty, _ := dirtyPriceAndDeriv(y, b.periodsPerYear(), firstPeriod(settle, prev, next), cfs)
	return dirty - b.AccruedAmount(settle), nil
}

func (b *FixedRateBond) periodsPerYear() float64 {
	return float64(b.leg.PayFrequency.PerYear())
}

func firstPeriod(settle, prev, next time.Time) float64 {
	return float64(daysBetween(settle, next)) / float64(daysBetween(prev, next))
}

// solveYield finds y such that dirtyPrice(y) == target via Newton-Raphson.
func solveYield(target, freq, t1 float64, cfs []Cashflow) (float64, int, error) {
	// Initial guess: mid-range (2.5 %).
	y := 0.025

	for iter := 0; iter < yieldMaxIter; iter++ {
		price, dPdy := dirtyPriceAndDeriv(y, freq, t1, cfs)
		f := price - target

		if math.Abs(f) < yieldTolerance {
			return y, iter + 1, nil
		}
		if math.Abs(dPdy) < 1e-15 {
			return y, iter + 1, fmt.Errorf("derivative too small at iter %d", iter)
		}

		y = clamp(y-f/dPdy, yieldFloor, yieldCeiling)
	}

	return y, yieldMaxIter, fmt.Errorf("did not converge")
}

// dirtyPriceAndDeriv returns (price, dPrice/dy):
//
//	t_k  = t_1 + (k − 1)                 (coupon periods)
//	price = Σ CF_k / (1+y/f)^t_k
//	dP/dy = Σ −(t_k/f) · CF_k / (1+y/f)^(t_k+1)
func dirtyPriceAndDeriv(y, freq, t1 float64, cfs []Cashflow) (float64, float64) {
	base := 1.0 + y/freq
	var price, deriv float64
	for i, cf := range cfs {
		t := t1 + float64(i)
		amt := cf.Amount()
		price += amt / math.Pow(base, t)
		deriv += -t / freq * amt / math.Pow(base, t+1)
	}
	return price, deriv
}

// daysBetween returns the number of calendar days from start to end (ACT).
func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
