// Package market holds the conventions that describe one leg of a swap.
package market

import (
	"fmt"
	"strings"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/daycount"
)

// LegType distinguishes floating vs fixed.
type LegType string

const (
	LegFloating LegType = "FLOATING"
	LegFixed    LegType = "FIXED"
)

// Frequency enumerates payment/reset frequencies in months.
type Frequency int

const (
	FreqAnnual    Frequency = 12
	FreqSemi      Frequency = 6
	FreqQuarterly Frequency = 3
	FreqMonthly   Frequency = 1
	FreqDaily     Frequency = 0
)

// ParseFrequency accepts names ("annual", "semi") and month counts ("6M", "1Y").
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ANNUAL", "1Y", "12M":
		return FreqAnnual, nil
	case "SEMI", "SEMIANNUAL", "6M":
		return FreqSemi, nil
	case "QUARTERLY", "3M":
		return FreqQuarterly, nil
	case "MONTHLY", "1M":
		return FreqMonthly, nil
	case "DAILY", "1D":
		return FreqDaily, nil
	}
	return 0, fmt.Errorf("market.ParseFrequency: unknown frequency %q", s)
}

// PerYear is the number of periods per year, 0 for daily resets.
func (f Frequency) PerYear() int {
	if f <= 0 {
		return 0
	}
	return 12 / int(f)
}

// RollConvention for month-end handling.
type RollConvention string

const (
	BackwardEOM RollConvention = "BACKWARD_EOM"
	NoRoll      RollConvention = "NONE"
)

// ResetPosition indicates fixing timing.
type ResetPosition string

const (
	ResetInAdvance ResetPosition = "IN_ADVANCE"
	ResetInArrears ResetPosition = "IN_ARREARS"
)

// ScheduleDirection selects whether regular periods are anchored on the effective or the
// maturity date.
type ScheduleDirection string

const (
	ScheduleForward  ScheduleDirection = "FORWARD"
	ScheduleBackward ScheduleDirection = "BACKWARD"
)

// LegConvention captures standard swap leg settings.
type LegConvention struct {
	LegType                 LegType
	ReferenceRate           ReferenceIndex
	DayCount                daycount.Convention
	ResetFrequency          Frequency
	PayFrequency            Frequency
	FixingLagDays           int
	PayDelayDays            int
	BusinessDayAdjustment   calendar.BusinessDayConvention
	RollConvention          RollConvention
	Calendar                calendar.CalendarID
	ResetPosition           ResetPosition
	RateCutoffDays          int
	IncludeInitialPrincipal bool
	IncludeFinalPrincipal   bool
	ScheduleDirection       ScheduleDirection
}

// Validate rejects conventions a schedule cannot be generated from.
func (l LegConvention) Validate() error {
	if l.PayFrequency <= 0 {
		return fmt.Errorf("unsupported pay frequency %d", l.PayFrequency)
	}
	if l.DayCount == "" {
		return fmt.Errorf("missing day count")
	}
	return nil
}
