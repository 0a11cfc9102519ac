package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/swap"
	"github.com/meenmo/ratecurve/swap/market"
	"github.com/meenmo/ratecurve/termstructure"
)

// Face is the redemption amount prices are quoted against.
const Face = 100.0

// FixedRateBond is a bullet bond paying a fixed coupon on the schedule of a fixed leg.
// All amounts are per 100 face.
type FixedRateBond struct {
	Coupon         float64
	SettlementDays int

	leg       market.LegConvention
	issue     time.Time
	maturity  time.Time
	periods   []swap.SchedulePeriod
	cashflows []Cashflow
}

// NewFixedRateBond builds the coupon schedule between issue and maturity. coupon is a decimal.
func NewFixedRateBond(issue, maturity time.Time, coupon float64, leg market.LegConvention, settlementDays int) (*FixedRateBond, error) {
	if leg.LegType != market.LegFixed {
		return nil, fmt.Errorf("NewFixedRateBond: leg must be fixed, got %s", leg.LegType)
	}
	periods, err := swap.GenerateSchedule(issue, maturity, leg)
	if err != nil {
		return nil, fmt.Errorf("NewFixedRateBond: %w", err)
	}
	b := &FixedRateBond{
		Coupon:         coupon,
		SettlementDays: settlementDays,
		leg:            leg,
		issue:          issue,
		maturity:       maturity,
		periods:        periods,
	}
	b.cashflows = make([]Cashflow, len(periods))
	for i, p := range periods {
		b.cashflows[i] = Cashflow{Date: p.PayDate, Coupon: Face * coupon * leg.DayCount.YearFraction(p.StartDate, p.EndDate)}
	}
	b.cashflows[len(b.cashflows)-1].Principal = Face
	return b, nil
}

func (b *FixedRateBond) IssueDate() time.Time    { return b.issue }
func (b *FixedRateBond) MaturityDate() time.Time { return b.maturity }
func (b *FixedRateBond) Calendar() calendar.CalendarID {
	return b.leg.Calendar
}

// Cashflows returns the coupon and redemption flows, oldest first.
func (b *FixedRateBond) Cashflows() []Cashflow {
	out := make([]Cashflow, len(b.cashflows))
	copy(out, b.cashflows)
	return out
}

// LastPaymentDate is the redemption payment date.
func (b *FixedRateBond) LastPaymentDate() time.Time {
	return b.cashflows[len(b.cashflows)-1].Date
}

// SettlementDate is SettlementDays business days after trade.
func (b *FixedRateBond) SettlementDate(trade time.Time) time.Time {
	return calendar.Advance(b.leg.Calendar, trade, calendar.Period{Length: b.SettlementDays, Unit: calendar.Days}, calendar.Following, false)
}

// AccruedAmount is the coupon accrued from the start of the current period up to settle.
func (b *FixedRateBond) AccruedAmount(settle time.Time) float64 {
	for _, p := range b.periods {
		if !settle.Before(p.StartDate) && settle.Before(p.EndDate) {
			return Face * b.Coupon * b.leg.DayCount.YearFraction(p.StartDate, settle)
		}
	}
	return 0
}

// DirtyPrice discounts the flows paid after settle and forwards them to settle.
func (b *FixedRateBond) DirtyPrice(disc termstructure.Discounter, settle time.Time) (float64, error) {
	dSettle, err := disc.Discount(settle, false)
	if err != nil {
		return 0, fmt.Errorf("DirtyPrice: %w", err)
	}
	pv := 0.0
	for _, cf := range b.cashflows {
		if !cf.Date.After(settle) {
			continue
		}
		df, err := disc.Discount(cf.Date, false)
		if err != nil {
			return 0, fmt.Errorf("DirtyPrice: %w", err)
		}
		pv += cf.Amount() * df
	}
	return pv / dSettle, nil
}

// CleanPrice is DirtyPrice less accrued.
func (b *FixedRateBond) CleanPrice(disc termstructure.Discounter, settle time.Time) (float64, error) {
	dirty, err := b.DirtyPrice(disc, settle)
	if err != nil {
		return 0, err
	}
	return dirty - b.AccruedAmount(settle), nil
}

// remaining returns the flows not yet paid at settle and the accrual period settle falls in.
func (b *FixedRateBond) remaining(settle time.Time) ([]Cashflow, time.Time, time.Time, error) {
	for i, p := range b.periods {
		if p.EndDate.After(settle) {
			return b.cashflows[i:], p.StartDate, p.EndDate, nil
		}
	}
	return nil, time.Time{}, time.Time{}, fmt.Errorf("settlement %s is past maturity", settle.Format("2006-01-02"))
}
