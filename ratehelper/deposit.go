package ratehelper

import (
	"fmt"
	"time"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/handle"
	"github.com/meenmo/ratecurve/quote"
	"github.com/meenmo/ratecurve/swap/market"
	"github.com/meenmo/ratecurve/termstructure"
)

// Deposit calibrates to a simple money-market rate from spot to spot + tenor.
type Deposit struct {
	*base
	tenor      calendar.Period
	fixingDays int
	index      market.LegConvention
	start, end time.Time
}

// NewDeposit quotes a deposit on the index's calendar, roll and day count. fixingDays is the
// spot lag from the trade date.
func NewDeposit(q handle.Handle[*quote.Quote], tenor calendar.Period, fixingDays int, index market.LegConvention, opts ...Option) (*Deposit, error) {
	o := collect(opts)
	d := &Deposit{
		base:       newBase(fmt.Sprintf("%s deposit", tenor), q, o, true),
		tenor:      tenor,
		fixingDays: fixingDays,
		index:      index,
	}
	d.schedule = d.buildDates
	d.implied = d.impliedRate
	if err := d.register(); err != nil {
		return nil, fmt.Errorf("NewDeposit: %w", err)
	}
	return d, nil
}

func (d *Deposit) buildDates(trade time.Time) (helperDates, error) {
	if d.tenor.Length <= 0 {
		return helperDates{}, fmt.Errorf("non-positive tenor %s", d.tenor)
	}
	eom := d.index.RollConvention == market.BackwardEOM
	d.start = calendar.Advance(d.index.Calendar, trade, calendar.Period{Length: d.fixingDays, Unit: calendar.Days}, calendar.Following, false)
	d.end = calendar.Advance(d.index.Calendar, d.start, d.tenor, d.index.BusinessDayAdjustment, eom)
	return helperDates{earliest: d.start, pillar: d.end, latest: d.end}, nil
}

func (d *Deposit) impliedRate(ts termstructure.Discounter) (float64, error) {
	return simpleForward(ts, d.start, d.end, d.index)
}

// StartDate and MaturityDate are the accrual dates of the deposit.
func (d *Deposit) StartDate() time.Time    { return d.start }
func (d *Deposit) MaturityDate() time.Time { return d.end }

// FRA calibrates to a forward rate agreement on the index tenor, starting monthsToStart
// months after spot.
type FRA struct {
	*base
	monthsToStart int
	fixingDays    int
	index         market.LegConvention
	start, end    time.Time
}

// NewFRA quotes an n x (n + index tenor) FRA. The index tenor is the index leg's payment
// frequency.
func NewFRA(q handle.Handle[*quote.Quote], monthsToStart, fixingDays int, index market.LegConvention, opts ...Option) (*FRA, error) {
	o := collect(opts)
	months := int(index.PayFrequency)
	f := &FRA{
		base:          newBase(fmt.Sprintf("%dx%d FRA", monthsToStart, monthsToStart+months), q, o, true),
		monthsToStart: monthsToStart,
		fixingDays:    fixingDays,
		index:         index,
	}
	f.schedule = f.buildDates
	f.implied = f.impliedRate
	if err := f.register(); err != nil {
		return nil, fmt.Errorf("NewFRA: %w", err)
	}
	return f, nil
}

func (f *FRA) buildDates(trade time.Time) (helperDates, error) {
	months := int(f.index.PayFrequency)
	if months <= 0 {
		return helperDates{}, fmt.Errorf("index %s has no term tenor", f.index.ReferenceRate)
	}
	if f.monthsToStart < 0 {
		return helperDates{}, fmt.Errorf("negative start %d", f.monthsToStart)
	}
	eom := f.index.RollConvention == market.BackwardEOM
	cal := f.index.Calendar
	spot := calendar.Advance(cal, trade, calendar.Period{Length: f.fixingDays, Unit: calendar.Days}, calendar.Following, false)
	f.start = calendar.Advance(cal, spot, calendar.Period{Length: f.monthsToStart, Unit: calendar.Months}, f.index.BusinessDayAdjustment, eom)
	f.end = calendar.Advance(cal, f.start, calendar.Period{Length: months, Unit: calendar.Months}, f.index.BusinessDayAdjustment, eom)
	return helperDates{earliest: f.start, pillar: f.end, latest: f.end}, nil
}

func (f *FRA) impliedRate(ts termstructure.Discounter) (float64, error) {
	return simpleForward(ts, f.start, f.end, f.index)
}

func (f *FRA) StartDate() time.Time    { return f.start }
func (f *FRA) MaturityDate() time.Time { return f.end }

func simpleForward(ts termstructure.Discounter, start, end time.Time, index market.LegConvention) (float64, error) {
	dStart, err := ts.Discount(start, false)
	if err != nil {
		return 0, err
	}
	dEnd, err := ts.Discount(end, false)
	if err != nil {
		return 0, err
	}
	return (dStart/dEnd - 1) / index.DayCount.YearFraction(start, end), nil
}
