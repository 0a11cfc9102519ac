// Package rate holds the interest-rate compounding algebra used to turn discount factors into
// quoted zero and forward rates and back.
package rate

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/meenmo/ratecurve/daycount"
)

// Compounding selects how a rate accrues over a period.
type Compounding int

const (
	Simple Compounding = iota
	Compounded
	Continuous
	// SimpleThenCompounded is simple up to one period and compounded beyond.
	SimpleThenCompounded
	// CompoundedThenSimple is compounded up to one period and simple beyond.
	CompoundedThenSimple
)

func (c Compounding) String() string {
	switch c {
	case Simple:
		return "simple"
	case Compounded:
		return "compounded"
	case Continuous:
		return "continuous"
	case SimpleThenCompounded:
		return "simple-then-compounded"
	case CompoundedThenSimple:
		return "compounded-then-simple"
	}
	return fmt.Sprintf("Compounding(%d)", int(c))
}

// ParseCompounding resolves a compounding name as written by String.
func ParseCompounding(s string) (Compounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple":
		return Simple, nil
	case "compounded":
		return Compounded, nil
	case "", "continuous":
		return Continuous, nil
	case "simple-then-compounded":
		return SimpleThenCompounded, nil
	case "compounded-then-simple":
		return CompoundedThenSimple, nil
	}
	return 0, fmt.Errorf("rate.ParseCompounding: unknown compounding %q", s)
}

// Frequency is the number of compounding periods per year.
type Frequency int

const (
	NoFrequency Frequency = -1
	Once        Frequency = 0
	Annual      Frequency = 1
	Semiannual  Frequency = 2
	Quarterly   Frequency = 4
	Monthly     Frequency = 12
	Weekly      Frequency = 52
	Daily       Frequency = 365
)

// ErrFrequency is returned when a compounded rate has no usable frequency.
var ErrFrequency = errors.New("rate: compounded rates need a positive frequency")

// InterestRate couples a rate value with the conventions needed to interpret it.
type InterestRate struct {
	Rate        float64
	DayCount    daycount.Convention
	Compounding Compounding
	Frequency   Frequency
}

// New validates the frequency against the compounding rule.
func New(r float64, dc daycount.Convention, comp Compounding, freq Frequency) (InterestRate, error) {
	if needsFrequency(comp) && freq <= 0 {
		return InterestRate{}, fmt.Errorf("rate.New: %s with frequency %d: %w", comp, freq, ErrFrequency)
	}
	return InterestRate{Rate: r, DayCount: dc, Compounding: comp, Frequency: freq}, nil
}

func needsFrequency(comp Compounding) bool {
	return comp == Compounded || comp == SimpleThenCompounded || comp == CompoundedThenSimple
}

// CompoundFactor is the growth of one unit over t years.
func (ir InterestRate) CompoundFactor(t float64) float64 {
	r := ir.Rate
	f := float64(ir.Frequency)
	switch ir.Compounding {
	case Simple:
		return 1 + r*t
	case Compounded:
		return math.Pow(1+r/f, f*t)
	case Continuous:
		return math.Exp(r * t)
	case SimpleThenCompounded:
		if t <= 1/f {
			return 1 + r*t
		}
		return math.Pow(1+r/f, f*t)
	case CompoundedThenSimple:
		if t <= 1/f {
			return math.Pow(1+r/f, f*t)
		}
		return 1 + r*t
	}
	return math.NaN()
}

// DiscountFactor is the inverse of CompoundFactor.
func (ir InterestRate) DiscountFactor(t float64) float64 {
	return 1 / ir.CompoundFactor(t)
}

// CompoundFactorBetween measures the accrual period with the rate's own day count.
func (ir InterestRate) CompoundFactorBetween(start, end time.Time) float64 {
	return ir.CompoundFactor(ir.DayCount.YearFraction(start, end))
}

// EquivalentRate re-expresses ir under another compounding over a period of t years.
func (ir InterestRate) EquivalentRate(comp Compounding, freq Frequency, t float64) (InterestRate, error) {
	return ImpliedRate(ir.CompoundFactor(t), ir.DayCount, comp, freq, t)
}

// ImpliedRate returns the rate that grows one unit into compound over t years.
func ImpliedRate(compound float64, dc daycount.Convention, comp Compounding, freq Frequency, t float64) (InterestRate, error) {
	if compound <= 0 {
		return InterestRate{}, fmt.Errorf("rate.ImpliedRate: non-positive compound factor %g", compound)
	}
	if needsFrequency(comp) && freq <= 0 {
		return InterestRate{}, fmt.Errorf("rate.ImpliedRate: %s with frequency %d: %w", comp, freq, ErrFrequency)
	}
	out := InterestRate{DayCount: dc, Compounding: comp, Frequency: freq}
	if compound == 1 {
		if t < 0 {
			return InterestRate{}, fmt.Errorf("rate.ImpliedRate: negative time %g", t)
		}
		return out, nil
	}
	if t <= 0 {
		return InterestRate{}, fmt.Errorf("rate.ImpliedRate: non-positive time %g", t)
	}

	f := float64(freq)
	simple := func() float64 { return (compound - 1) / t }
	compounded := func() float64 { return (math.Pow(compound, 1/(f*t)) - 1) * f }
	switch comp {
	case Simple:
		out.Rate = simple()
	case Compounded:
		out.Rate = compounded()
	case Continuous:
		out.Rate = math.Log(compound) / t
	case SimpleThenCompounded:
		if t <= 1/f {
			out.Rate = simple()
		} else {
			out.Rate = compounded()
		}
	case CompoundedThenSimple:
		if t <= 1/f {
			out.Rate = compounded()
		} else {
			out.Rate = simple()
		}
	default:
		return InterestRate{}, fmt.Errorf("rate.ImpliedRate: unknown compounding %d", int(comp))
	}
	return out, nil
}

func (ir InterestRate) String() string {
	s := fmt.Sprintf("%.6f %% %s %s", ir.Rate*100, ir.DayCount, ir.Compounding)
	if needsFrequency(ir.Compounding) {
		s += fmt.Sprintf(" (%d/yr)", int(ir.Frequency))
	}
	return s
}
