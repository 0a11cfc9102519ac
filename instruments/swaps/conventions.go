// Package swaps carries named leg conventions for the swap markets the curves are built from.
package swaps

import (
	"fmt"
	"sort"
	"strings"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/daycount"
	"github.com/meenmo/ratecurve/swap/market"
)

// Preset leg conventions for EUR, USD and JPY.
var (
	ESTRFloat = market.LegConvention{
		LegType:                 market.LegFloating,
		ReferenceRate:           market.ESTR,
		DayCount:                daycount.Actual360,
		ResetFrequency:          market.FreqDaily,
		PayFrequency:            market.FreqAnnual,
		PayDelayDays:            1,
		BusinessDayAdjustment:   calendar.ModifiedFollowing,
		RollConvention:          market.BackwardEOM,
		Calendar:                calendar.TARGET,
		ResetPosition:           market.ResetInArrears,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
		ScheduleDirection:       market.ScheduleBackward,
	}

	SOFRFloat = market.LegConvention{
		LegType:                 market.LegFloating,
		ReferenceRate:           market.SOFR,
		DayCount:                daycount.Actual360,
		ResetFrequency:          market.FreqDaily,
		PayFrequency:            market.FreqAnnual,
		PayDelayDays:            2,
		BusinessDayAdjustment:   calendar.ModifiedFollowing,
		RollConvention:          market.BackwardEOM,
		Calendar:                calendar.USD,
		ResetPosition:           market.ResetInArrears,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
		ScheduleDirection:       market.ScheduleBackward,
	}

	EURIBOR3MFloat = market.LegConvention{
		LegType:                 market.LegFloating,
		ReferenceRate:           market.EURIBOR3M,
		DayCount:                daycount.Actual360,
		ResetFrequency:          market.FreqQuarterly,
		PayFrequency:            market.FreqQuarterly,
		FixingLagDays:           2,
		BusinessDayAdjustment:   calendar.ModifiedFollowing,
		RollConvention:          market.BackwardEOM,
		Calendar:                calendar.TARGET,
		ResetPosition:           market.ResetInAdvance,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
		ScheduleDirection:       market.ScheduleBackward,
	}

	EURIBOR6MFloat = market.LegConvention{
		LegType:                 market.LegFloating,
		ReferenceRate:           market.EURIBOR6M,
		DayCount:                daycount.Actual360,
		ResetFrequency:          market.FreqSemi,
		PayFrequency:            market.FreqSemi,
		FixingLagDays:           2,
		BusinessDayAdjustment:   calendar.ModifiedFollowing,
		RollConvention:          market.BackwardEOM,
		Calendar:                calendar.TARGET,
		ResetPosition:           market.ResetInAdvance,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
		ScheduleDirection:       market.ScheduleBackward,
	}

	TONARFloat = market.LegConvention{
		LegType:                 market.LegFloating,
		ReferenceRate:           market.TONAR,
		DayCount:                daycount.Actual365Fixed,
		ResetFrequency:          market.FreqDaily,
		PayFrequency:            market.FreqAnnual,
		PayDelayDays:            2,
		BusinessDayAdjustment:   calendar.ModifiedFollowing,
		RollConvention:          market.BackwardEOM,
		Calendar:                calendar.JPN,
		ResetPosition:           market.ResetInArrears,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
	}

	TIBOR3MFloat = market.LegConvention{
		LegType:                 market.LegFloating,
		ReferenceRate:           market.TIBOR3M,
		DayCount:                daycount.Actual365Fixed,
		ResetFrequency:          market.FreqQuarterly,
		PayFrequency:            market.FreqQuarterly,
		FixingLagDays:           2,
		BusinessDayAdjustment:   calendar.ModifiedFollowing,
		RollConvention:          market.BackwardEOM,
		Calendar:                calendar.JPN,
		ResetPosition:           market.ResetInAdvance,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
	}

	TIBOR6MFloat = market.LegConvention{
		LegType:                 market.LegFloating,
		ReferenceRate:           market.TIBOR6M,
		DayCount:                daycount.Actual365Fixed,
		ResetFrequency:          market.FreqSemi,
		PayFrequency:            market.FreqSemi,
		FixingLagDays:           2,
		BusinessDayAdjustment:   calendar.ModifiedFollowing,
		RollConvention:          market.BackwardEOM,
		Calendar:                calendar.JPN,
		ResetPosition:           market.ResetInAdvance,
		IncludeInitialPrincipal: true,
		IncludeFinalPrincipal:   true,
	}

	// EUR IBOR IRS fixed leg: annual, 30/360 bond basis, unadjusted accrual dates.
	Euribor6MFixed = market.LegConvention{
		LegType:               market.LegFixed,
		DayCount:              daycount.Thirty360,
		PayFrequency:          market.FreqAnnual,
		BusinessDayAdjustment: calendar.Unadjusted,
		RollConvention:        market.BackwardEOM,
		Calendar:              calendar.TARGET,
		ScheduleDirection:     market.ScheduleBackward,
	}

	// JPY IRS fixed leg: semiannual payments, ACT/365F, JPN calendar.
	JpyFixedSemi = market.LegConvention{
		LegType:               market.LegFixed,
		DayCount:              daycount.Actual365Fixed,
		PayFrequency:          market.FreqSemi,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		RollConvention:        market.BackwardEOM,
		Calendar:              calendar.JPN,
	}

	// EUR OIS fixed leg: annual payments, ACT/360, TARGET calendar.
	EstrFixedAnnual = market.LegConvention{
		LegType:               market.LegFixed,
		ReferenceRate:         market.ESTR,
		DayCount:              daycount.Actual360,
		PayFrequency:          market.FreqAnnual,
		PayDelayDays:          1,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		RollConvention:        market.BackwardEOM,
		Calendar:              calendar.TARGET,
		ScheduleDirection:     market.ScheduleBackward,
	}

	// USD OIS fixed leg: annual payments, ACT/360, New York calendar.
	SofrFixedAnnual = market.LegConvention{
		LegType:               market.LegFixed,
		ReferenceRate:         market.SOFR,
		DayCount:              daycount.Actual360,
		PayFrequency:          market.FreqAnnual,
		PayDelayDays:          2,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		RollConvention:        market.BackwardEOM,
		Calendar:              calendar.USD,
		ScheduleDirection:     market.ScheduleBackward,
	}

	// JPY OIS fixed leg: annual payments, ACT/365F, JPN calendar.
	TonarFixedAnnual = market.LegConvention{
		LegType:               market.LegFixed,
		ReferenceRate:         market.TONAR,
		DayCount:              daycount.Actual365Fixed,
		PayFrequency:          market.FreqAnnual,
		PayDelayDays:          2,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		RollConvention:        market.BackwardEOM,
		Calendar:              calendar.JPN,
	}
)

var legs = map[string]market.LegConvention{
	"ESTR":        ESTRFloat,
	"SOFR":        SOFRFloat,
	"TONAR":       TONARFloat,
	"EURIBOR3M":   EURIBOR3MFloat,
	"EURIBOR6M":   EURIBOR6MFloat,
	"TIBOR3M":     TIBOR3MFloat,
	"TIBOR6M":     TIBOR6MFloat,
	"EUR-FIXED":   Euribor6MFixed,
	"JPY-FIXED":   JpyFixedSemi,
	"ESTR-FIXED":  EstrFixedAnnual,
	"SOFR-FIXED":  SofrFixedAnnual,
	"TONAR-FIXED": TonarFixedAnnual,
}

// Leg looks up a preset leg convention by name, case-insensitively.
func Leg(name string) (market.LegConvention, error) {
	leg, ok := legs[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return market.LegConvention{}, fmt.Errorf("swaps.Leg: unknown leg %q (known: %s)", name, strings.Join(LegNames(), ", "))
	}
	return leg, nil
}

// LegNames lists the preset names accepted by Leg.
func LegNames() []string {
	names := make([]string, 0, len(legs))
	for k := range legs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
