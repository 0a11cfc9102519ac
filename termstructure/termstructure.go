// Package termstructure defines the query surface shared by every yield curve and the algebra
// that derives zero and forward rates from discount factors.
package termstructure

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/daycount"
	"github.com/meenmo/ratecurve/observer"
	"github.com/meenmo/ratecurve/rate"
	"github.com/meenmo/ratecurve/settings"
)

// Discounter is the narrow view instruments price against.
type Discounter interface {
	ReferenceDate() time.Time
	Discount(d time.Time, extrapolate bool) (float64, error)
}

// Kernel is the minimal curve: a reference date, a time axis and discount factors by time.
// Everything else in YieldCurve is derived from it by the functions in this package.
type Kernel interface {
	ReferenceDate() time.Time
	DayCounter() daycount.Convention
	DiscountTime(t float64, extrapolate bool) (float64, error)
}

// YieldCurve is the full query surface of an observable curve.
type YieldCurve interface {
	observer.Subject
	Kernel
	Discounter
	MaxDate() (time.Time, error)
	TimeFromReference(d time.Time) float64
	ZeroRate(d time.Time, dc daycount.Convention, comp rate.Compounding, freq rate.Frequency, extrapolate bool) (rate.InterestRate, error)
	ForwardRate(d1, d2 time.Time, dc daycount.Convention, comp rate.Compounding, freq rate.Frequency, extrapolate bool) (rate.InterestRate, error)
}

// dt is the window used for instantaneous rates at a single point in time.
const dt = 1e-4

// Time measures d from the kernel's reference date on its own day counter.
func Time(k Kernel, d time.Time) float64 {
	return k.DayCounter().YearFraction(k.ReferenceDate(), d)
}

// Discount returns the discount factor at date d.
func Discount(k Kernel, d time.Time, extrapolate bool) (float64, error) {
	return k.DiscountTime(Time(k, d), extrapolate)
}

// ZeroRate is the rate earned from the reference date to d, quoted with the caller's day counter.
func ZeroRate(k Kernel, d time.Time, dc daycount.Convention, comp rate.Compounding, freq rate.Frequency, extrapolate bool) (rate.InterestRate, error) {
	ref := k.ReferenceDate()
	if d.Equal(ref) {
		disc, err := k.DiscountTime(dt, extrapolate)
		if err != nil {
			return rate.InterestRate{}, fmt.Errorf("ZeroRate: %w", err)
		}
		return rate.ImpliedRate(1/disc, dc, comp, freq, dt)
	}
	disc, err := Discount(k, d, extrapolate)
	if err != nil {
		return rate.InterestRate{}, fmt.Errorf("ZeroRate: %w", err)
	}
	return rate.ImpliedRate(1/disc, dc, comp, freq, dc.YearFraction(ref, d))
}

// ForwardRate is the rate between d1 and d2, quoted with the caller's day counter.
// Equal dates give the instantaneous forward.
func ForwardRate(k Kernel, d1, d2 time.Time, dc daycount.Convention, comp rate.Compounding, freq rate.Frequency, extrapolate bool) (rate.InterestRate, error) {
	if d2.Before(d1) {
		return rate.InterestRate{}, fmt.Errorf("ForwardRate: end %s before start %s", d2.Format("2006-01-02"), d1.Format("2006-01-02"))
	}
	if d1.Equal(d2) {
		t1 := math.Max(Time(k, d1)-dt/2, 0)
		t2 := t1 + dt
		return forwardBetweenTimes(k, t1, t2, dc, comp, freq, dt, extrapolate)
	}
	return forwardBetweenTimes(k, Time(k, d1), Time(k, d2), dc, comp, freq, dc.YearFraction(d1, d2), extrapolate)
}

// ForwardRateTime is the forward between curve times t1 and t2, quoted over the same span.
func ForwardRateTime(k Kernel, t1, t2 float64, comp rate.Compounding, freq rate.Frequency, extrapolate bool) (rate.InterestRate, error) {
	if t2 < t1 {
		return rate.InterestRate{}, fmt.Errorf("ForwardRateTime: t2 %g before t1 %g", t2, t1)
	}
	if t2 == t1 {
		t1 = math.Max(t1-dt/2, 0)
		t2 = t1 + dt
	}
	return forwardBetweenTimes(k, t1, t2, k.DayCounter(), comp, freq, t2-t1, extrapolate)
}

func forwardBetweenTimes(k Kernel, t1, t2 float64, dc daycount.Convention, comp rate.Compounding, freq rate.Frequency, tau float64, extrapolate bool) (rate.InterestRate, error) {
	d1, err := k.DiscountTime(t1, extrapolate)
	if err != nil {
		return rate.InterestRate{}, fmt.Errorf("ForwardRate: %w", err)
	}
	d2, err := k.DiscountTime(t2, extrapolate)
	if err != nil {
		return rate.InterestRate{}, fmt.Errorf("ForwardRate: %w", err)
	}
	return rate.ImpliedRate(d1/d2, dc, comp, freq, tau)
}

// CheckRange validates t against the curve's last time. allowed is the curve-level
// extrapolation switch; extrapolate is the per-call one.
func CheckRange(t, maxTime float64, extrapolate, allowed bool) error {
	if t < 0 {
		if closeEnough(t, 0) {
			return nil
		}
		return fmt.Errorf("%w: %g", ErrNegativeTime, t)
	}
	if t > maxTime && !closeEnough(t, maxTime) && !extrapolate && !allowed {
		return &ExtrapolationError{Time: t, MaxTime: maxTime}
	}
	return nil
}

func closeEnough(x, y float64) bool {
	if x == y {
		return true
	}
	diff := math.Abs(x - y)
	tol := 42 * 2.220446049250313e-16
	if x == 0 || y == 0 {
		return diff < tol*tol
	}
	return diff <= tol*math.Abs(x) || diff <= tol*math.Abs(y)
}

// Extrapolator is the curve-level extrapolation switch, embedded by curves.
type Extrapolator struct {
	extrapolate bool
}

// EnableExtrapolation allows queries past the last pillar without the per-call flag.
func (e *Extrapolator) EnableExtrapolation(on bool) { e.extrapolate = on }

func (e *Extrapolator) AllowsExtrapolation() bool { return e.extrapolate }

// Reference resolves a curve's reference date: either pinned, or settlementDays business days
// after the evaluation date.
type Reference struct {
	fixed          time.Time
	floating       bool
	settlementDays int
	calendar       calendar.CalendarID
	settings       *settings.Settings
}

// FixedReference pins the reference date.
func FixedReference(d time.Time) Reference {
	return Reference{fixed: d}
}

// FloatingReference follows the evaluation date of s (Global() when nil).
func FloatingReference(settlementDays int, cal calendar.CalendarID, s *settings.Settings) Reference {
	return Reference{floating: true, settlementDays: settlementDays, calendar: cal, settings: settings.Or(s)}
}

// Date returns the current reference date.
func (r Reference) Date() time.Time {
	if !r.floating {
		return r.fixed
	}
	return calendar.Advance(r.calendar, r.settings.EvaluationDate(), calendar.Period{Length: r.settlementDays, Unit: calendar.Days}, calendar.Following, false)
}

// Floating reports whether the date moves with the evaluation date.
func (r Reference) Floating() bool { return r.floating }

// Settings returns the settings a floating reference watches, nil for fixed ones.
func (r Reference) Settings() *settings.Settings { return r.settings }
