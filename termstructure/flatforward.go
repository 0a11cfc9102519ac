package termstructure

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/ratecurve/daycount"
	"github.com/meenmo/ratecurve/handle"
	"github.com/meenmo/ratecurve/observer"
	"github.com/meenmo/ratecurve/quote"
	"github.com/meenmo/ratecurve/rate"
	"github.com/meenmo/ratecurve/utils"
)

// FlatForward is a curve with a single rate read from a quote at query time. It has no
// pillars, so it never needs extrapolation.
type FlatForward struct {
	observer.Observable
	ref         Reference
	dc          daycount.Convention
	rate        handle.Handle[*quote.Quote]
	compounding rate.Compounding
	frequency   rate.Frequency
}

// NewFlatForward builds a flat curve whose level follows q. Notifications from q and, for a
// floating reference, from the evaluation date are forwarded to the curve's observers.
func NewFlatForward(ref Reference, q handle.Handle[*quote.Quote], dc daycount.Convention, comp rate.Compounding, freq rate.Frequency) (*FlatForward, error) {
	if _, err := rate.New(0, dc, comp, freq); err != nil {
		return nil, fmt.Errorf("NewFlatForward: %w", err)
	}
	f := &FlatForward{ref: ref, dc: dc, rate: q, compounding: comp, frequency: freq}
	observer.Watch(f, q)
	if ref.Floating() {
		observer.Watch(f, ref.Settings())
	}
	return f, nil
}

// NewFlatForwardRate is a continuously compounded flat curve at a fixed level.
func NewFlatForwardRate(reference time.Time, r float64, dc daycount.Convention) *FlatForward {
	f, _ := NewFlatForward(FixedReference(reference), handle.New(quote.New("flat", r)), dc, rate.Continuous, rate.NoFrequency)
	return f
}

// Update has no state to invalidate: the quote is read on every query.
func (f *FlatForward) Update() {}

func (f *FlatForward) ReferenceDate() time.Time { return f.ref.Date() }

func (f *FlatForward) DayCounter() daycount.Convention { return f.dc }

// MaxDate is effectively unbounded.
func (f *FlatForward) MaxDate() (time.Time, error) {
	return utils.Date(2199, time.December, 31), nil
}

func (f *FlatForward) TimeFromReference(d time.Time) float64 { return Time(f, d) }

func (f *FlatForward) level() (rate.InterestRate, error) {
	q, err := f.rate.Current()
	if err != nil {
		return rate.InterestRate{}, fmt.Errorf("FlatForward: %w", err)
	}
	v, err := q.Value()
	if err != nil {
		return rate.InterestRate{}, fmt.Errorf("FlatForward: %w", err)
	}
	return rate.InterestRate{Rate: v, DayCount: f.dc, Compounding: f.compounding, Frequency: f.frequency}, nil
}

func (f *FlatForward) DiscountTime(t float64, extrapolate bool) (float64, error) {
	if err := CheckRange(t, math.Inf(1), extrapolate, true); err != nil {
		return 0, err
	}
	ir, err := f.level()
	if err != nil {
		return 0, err
	}
	return ir.DiscountFactor(math.Max(t, 0)), nil
}

func (f *FlatForward) Discount(d time.Time, extrapolate bool) (float64, error) {
	return Discount(f, d, extrapolate)
}

func (f *FlatForward) ZeroRate(d time.Time, dc daycount.Convention, comp rate.Compounding, freq rate.Frequency, extrapolate bool) (rate.InterestRate, error) {
	return ZeroRate(f, d, dc, comp, freq, extrapolate)
}

func (f *FlatForward) ForwardRate(d1, d2 time.Time, dc daycount.Convention, comp rate.Compounding, freq rate.Frequency, extrapolate bool) (rate.InterestRate, error) {
	return ForwardRate(f, d1, d2, dc, comp, freq, extrapolate)
}
