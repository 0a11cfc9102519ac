package swap

import (
	"fmt"
	"reflect"
	"time"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/swap/market"
	"github.com/meenmo/ratecurve/utils"
)

// stubDays is the longest front or back stub that is merged into its neighbour.
const stubDays = 7

func isNilInterface(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// SpotEffectiveMaturity computes spot, effective, and unadjusted maturity dates from a trade date.
//
// Conventions:
// - spot = tradeDate + spotLagBD business days on cal (a zero lag rolls to the next business day)
// - effective = spot, or spot advanced by forwardStart when it is non-zero
// - maturity = effective + tenor; with eom set and an effective date on the last business day
// of its month, maturity is the last calendar day of the target month
func SpotEffectiveMaturity(tradeDate time.Time, cal calendar.CalendarID, spotLagBD int, forwardStart, tenor calendar.Period, eom bool) (spot, effective, maturity time.Time) {
	spot = calendar.Advance(cal, tradeDate, calendar.Period{Length: spotLagBD, Unit: calendar.Days}, calendar.Following, false)
	effective = spot
	if forwardStart.Length > 0 {
		effective = calendar.Advance(cal, spot, forwardStart, calendar.ModifiedFollowing, eom)
	}
	maturity = tenor.AddTo(effective)
	if eom && tenor.Unit >= calendar.Months && calendar.IsEndOfMonth(cal, effective) {
		maturity = utils.Date(maturity.Year(), maturity.Month()+1, 0)
	}
	return spot, effective, maturity
}

// GenerateSchedule builds the payment schedule for a leg.
//
// It returns business-day adjusted StartDate/EndDate/PayDate along with integer accrual days.
// When leg.ScheduleDirection is ScheduleBackward, periods are generated from maturity
// backward, creating a front stub if needed; otherwise they roll forward from the effective
// date with a back stub.
func GenerateSchedule(effective, maturity time.Time, leg market.LegConvention) ([]SchedulePeriod, error) {
	if !maturity.After(effective) {
		return nil, fmt.Errorf("GenerateSchedule: maturity %s not after effective %s", maturity.Format(utils.DateLayout), effective.Format(utils.DateLayout))
	}
	if err := leg.Validate(); err != nil {
		return nil, fmt.Errorf("GenerateSchedule: %w", err)
	}

	var dates []time.Time
	if leg.ScheduleDirection == market.ScheduleBackward {
		dates = backwardDates(effective, maturity, leg)
	} else {
		dates = forwardDates(effective, maturity, leg)
	}
	return buildPeriods(dates, leg), nil
}

func rollsToMonthEnd(anchor time.Time, leg market.LegConvention) bool {
	return leg.RollConvention == market.BackwardEOM && utils.IsMonthEnd(anchor)
}

func roll(anchor time.Time, months int, eom bool) time.Time {
	d := utils.AddMonth(anchor, months)
	if eom {
		return utils.Date(d.Year(), d.Month()+1, 0)
	}
	return d
}

// backwardDates rolls unadjusted dates back from maturity, keeping intermediate dates aligned
// with maturity. A front stub of stubDays or less is merged into the first regular period.
func backwardDates(effective, maturity time.Time, leg market.LegConvention) []time.Time {
	months := int(leg.PayFrequency)
	eom := rollsToMonthEnd(maturity, leg)

	dates := []time.Time{maturity}
	for i := 1; ; i++ {
		d := roll(maturity, -i*months, eom)
		if !d.After(effective) {
			break
		}
		dates = append(dates, d)
	}
	if last := dates[len(dates)-1]; len(dates) > 1 && utils.Days(effective, last) <= stubDays {
		dates = dates[:len(dates)-1]
	}
	dates = append(dates, effective)

	for i, j := 0, len(dates)-1; i < j; i, j = i+1, j-1 {
		dates[i], dates[j] = dates[j], dates[i]
	}
	return dates
}

// forwardDates rolls unadjusted dates forward from effective; a back stub of stubDays or less
// is merged into the last regular period.
func forwardDates(effective, maturity time.Time, leg market.LegConvention) []time.Time {
	months := int(leg.PayFrequency)
	eom := rollsToMonthEnd(effective, leg)

	dates := []time.Time{effective}
	for i := 1; ; i++ {
		d := roll(effective, i*months, eom)
		if !d.Before(maturity) {
			break
		}
		dates = append(dates, d)
	}
	if last := dates[len(dates)-1]; len(dates) > 1 && utils.Days(last, maturity) <= stubDays {
		dates = dates[:len(dates)-1]
	}
	return append(dates, maturity)
}

func buildPeriods(dates []time.Time, leg market.LegConvention) []SchedulePeriod {
	// Overnight legs accrue continuously: each period starts on the previous adjusted end.
	isOIS := market.IsOvernight(leg.ReferenceRate) && leg.LegType == market.LegFloating

	periods := make([]SchedulePeriod, 0, len(dates)-1)
	var prevAdjustedEnd time.Time
	for i := 0; i < len(dates)-1; i++ {
		accrualStart := calendar.AdjustConvention(leg.Calendar, dates[i], leg.BusinessDayAdjustment)
		if isOIS && !prevAdjustedEnd.IsZero() {
			accrualStart = prevAdjustedEnd
		}
		accrualEnd := calendar.AdjustConvention(leg.Calendar, dates[i+1], leg.BusinessDayAdjustment)

		payBase := accrualEnd
		if !calendar.IsBusinessDay(leg.Calendar, payBase) {
			payBase = calendar.Adjust(leg.Calendar, payBase)
		}
		paymentDate := calendar.AddBusinessDays(leg.Calendar, payBase, leg.PayDelayDays)

		fixingDate := calendar.AddBusinessDays(leg.Calendar, accrualStart, -leg.FixingLagDays)
		if leg.ResetPosition == market.ResetInArrears {
			fixingDate = calendar.AddBusinessDays(leg.Calendar, accrualEnd, -(leg.RateCutoffDays + leg.FixingLagDays))
		}

		periods = append(periods, SchedulePeriod{
			StartDate:   accrualStart,
			EndDate:     accrualEnd,
			PayDate:     paymentDate,
			AccrualDays: utils.Days(accrualStart, accrualEnd),
			FixingDate:  fixingDate,
		})
		prevAdjustedEnd = accrualEnd
	}
	return periods
}
