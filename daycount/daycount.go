// Package daycount converts date pairs into accrual year fractions.
package daycount

import (
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/ratecurve/utils"
)

// Convention names a day count convention.
type Convention string

const (
	Actual360        Convention = "ACT/360"
	Actual365Fixed   Convention = "ACT/365F"
	Thirty360        Convention = "30/360"
	ThirtyE360       Convention = "30E/360"
	ActualActualISDA Convention = "ACT/ACT"
)

// Parse resolves the common spellings of a convention name.
func Parse(s string) (Convention, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "ACT/360", "A360", "ACTUAL360", "ACTUAL/360":
		return Actual360, nil
	case "ACT/365F", "ACT/365", "A365F", "ACTUAL365FIXED", "ACT/365FIXED":
		return Actual365Fixed, nil
	case "30/360", "30U/360", "BONDBASIS", "30/360US":
		return Thirty360, nil
	case "30E/360", "EUROBONDBASIS":
		return ThirtyE360, nil
	case "ACT/ACT", "ACT/ACTISDA", "ACTUALACTUAL":
		return ActualActualISDA, nil
	}
	return "", fmt.Errorf("daycount.Parse: unknown convention %q", s)
}

func (c Convention) String() string { return string(c) }

// DayCount returns the number of days between start and end under the convention.
func (c Convention) DayCount(start, end time.Time) int {
	switch c {
	case Thirty360:
		return thirty360(start, end, false)
	case ThirtyE360:
		return thirty360(start, end, true)
	default:
		return utils.Days(start, end)
	}
}

// YearFraction computes the year fraction between two dates.
func (c Convention) YearFraction(start, end time.Time) float64 {
	switch c {
	case Actual360:
		return float64(utils.Days(start, end)) / 360.0
	case Thirty360, ThirtyE360:
		return float64(c.DayCount(start, end)) / 360.0
	case ActualActualISDA:
		return actActISDA(start, end)
	default:
		return float64(utils.Days(start, end)) / 365.0
	}
}

// thirty360 implements the bond basis (US) and, with euro set, the Eurobond basis.
func thirty360(start, end time.Time, euro bool) int {
	d1, d2 := start.Day(), end.Day()
	if euro {
		if d1 > 30 {
			d1 = 30
		}
		if d2 > 30 {
			d2 = 30
		}
	} else {
		if d1 > 30 {
			d1 = 30
		}
		if d2 > 30 && d1 == 30 {
			d2 = 30
		}
	}
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return 360*(y2-y1) + 30*(m2-m1) + (d2 - d1)
}

func actActISDA(start, end time.Time) float64 {
	if end.Before(start) {
		return -actActISDA(end, start)
	}
	if start.Year() == end.Year() {
		return float64(utils.Days(start, end)) / yearDays(start.Year())
	}
	y1, y2 := start.Year(), end.Year()
	frac := float64(utils.Days(start, utils.Date(y1+1, time.January, 1))) / yearDays(y1)
	frac += float64(y2 - y1 - 1)
	frac += float64(utils.Days(utils.Date(y2, time.January, 1), end)) / yearDays(y2)
	return frac
}

func yearDays(year int) float64 {
	if utils.IsLeapYear(year) {
		return 366
	}
	return 365
}
