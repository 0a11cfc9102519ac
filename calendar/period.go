package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/ratecurve/utils"
)

// TimeUnit is the unit of a Period.
type TimeUnit int

const (
	Days TimeUnit = iota
	Weeks
	Months
	Years
)

// Period is a tenor such as 1W, 3M or 10Y.
type Period struct {
	Length int
	Unit   TimeUnit
}

// ParsePeriod converts tenor strings like "1W", "3M", "10Y" to a Period.
func ParsePeriod(tenor string) (Period, error) {
	tenor = strings.TrimSpace(strings.ToUpper(tenor))
	if len(tenor) < 2 {
		return Period{}, fmt.Errorf("ParsePeriod: invalid tenor %q", tenor)
	}
	var unit TimeUnit
	switch tenor[len(tenor)-1] {
	case 'D':
		unit = Days
	case 'W':
		unit = Weeks
	case 'M':
		unit = Months
	case 'Y':
		unit = Years
	default:
		return Period{}, fmt.Errorf("ParsePeriod: invalid tenor unit in %q", tenor)
	}
	n, err := strconv.Atoi(tenor[:len(tenor)-1])
	if err != nil {
		return Period{}, fmt.Errorf("ParsePeriod: %q: %w", tenor, err)
	}
	return Period{Length: n, Unit: unit}, nil
}

// MustParsePeriod is ParsePeriod for literals known to be valid.
func MustParsePeriod(tenor string) Period {
	p, err := ParsePeriod(tenor)
	if err != nil {
		panic(err)
	}
	return p
}

// Months returns the period length in months; day and week periods return 0.
func (p Period) Months() int {
	switch p.Unit {
	case Months:
		return p.Length
	case Years:
		return 12 * p.Length
	}
	return 0
}

// Years approximates the period as a year fraction.
func (p Period) Years() float64 {
	switch p.Unit {
	case Days:
		return float64(p.Length) / 365.0
	case Weeks:
		return float64(p.Length) * 7.0 / 365.0
	case Months:
		return float64(p.Length) / 12.0
	}
	return float64(p.Length)
}

// AddTo adds the period to d on the calendar, without business-day adjustment.
func (p Period) AddTo(d time.Time) time.Time {
	switch p.Unit {
	case Days:
		return d.AddDate(0, 0, p.Length)
	case Weeks:
		return d.AddDate(0, 0, 7*p.Length)
	}
	return utils.AddMonth(d, p.Months())
}

func (p Period) String() string {
	return strconv.Itoa(p.Length) + [...]string{"D", "W", "M", "Y"}[p.Unit]
}
