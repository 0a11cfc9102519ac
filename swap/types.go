package swap

import (
	"errors"
	"time"
)

var (
	// ErrNilCurve is returned when a required curve argument is nil.
	ErrNilCurve = errors.New("nil curve")
	// ErrEmptySchedule is returned when a leg has no periods.
	ErrEmptySchedule = errors.New("empty schedule")
	// ErrZeroAnnuity is returned when a par quantity would divide by a zero annuity.
	ErrZeroAnnuity = errors.New("zero annuity")
)

// Position describes whether the swap receives or pays the fixed leg.
type Position string

const (
	PositionReceive Position = "REC"
	PositionPay     Position = "PAY"
)

// SchedulePeriod is a cashflow period for a single leg.
//
// Dates are business-day adjusted per the provided leg convention.
type SchedulePeriod struct {
	StartDate   time.Time
	EndDate     time.Time
	PayDate     time.Time
	AccrualDays int
	FixingDate  time.Time
}

// ForwardRate is a simple forward rate over an accrual period, associated with its fixing date.
//
// Rate is returned as a decimal (e.g., 0.025 == 2.5%).
type ForwardRate struct {
	FixingDate time.Time
	StartDate  time.Time
	EndDate    time.Time
	Rate       float64
}

// PV contains present values for each leg and the net sum, signed from the holder's side.
type PV struct {
	FixedLegPV float64
	FloatLegPV float64
	TotalPV    float64
}
