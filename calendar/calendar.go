package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/ratecurve/utils"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	TARGET CalendarID = "TARGET"
	JPN    CalendarID = "JPN"
	USD    CalendarID = "USD"
	KRW    CalendarID = "KRW"
	// NullCalendar treats every day, weekends included, as a business day.
	NullCalendar CalendarID = "NONE"
)

// Parse resolves a calendar name; the empty string maps to TARGET.
func Parse(s string) (CalendarID, error) {
	switch CalendarID(strings.ToUpper(strings.TrimSpace(s))) {
	case "", TARGET:
		return TARGET, nil
	case JPN, "JP", "TOKYO":
		return JPN, nil
	case USD, "US", "NYC":
		return USD, nil
	case KRW, "KR", "SEOUL":
		return KRW, nil
	case NullCalendar, "NULL":
		return NullCalendar, nil
	}
	return "", fmt.Errorf("calendar.Parse: unknown calendar %q", s)
}

func isHoliday(cal CalendarID, t time.Time) bool {
	switch cal {
	case TARGET:
		return isTargetHoliday(t)
	case JPN:
		return isJapanHoliday(t)
	case USD:
		return isUSHoliday(t)
	case KRW:
		return isKoreaHoliday(t)
	default:
		return false
	}
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if cal == NullCalendar {
		return true
	}
	if isWeekend(t) {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust applies Modified Following.
func Adjust(cal CalendarID, t time.Time) time.Time {
	origMonth := t.Month()
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !IsBusinessDay(cal, t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AdjustPreceding rolls backwards to the previous business day.
func AdjustPreceding(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// BusinessDaysBetween counts business days in [from, to).
func BusinessDaysBetween(cal CalendarID, from, to time.Time) int {
	sign := 1
	if to.Before(from) {
		from, to = to, from
		sign = -1
	}
	n := 0
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(cal, d) {
			n++
		}
	}
	return sign * n
}

// AddYearsWithRoll adds years and applies backward EOM adjustment then Modified Following.
func AddYearsWithRoll(cal CalendarID, t time.Time, years int) time.Time {
	target := t.AddDate(years, 0, 0)
	if utils.IsMonthEnd(t) {
		target = utils.Date(target.Year(), target.Month()+1, 0)
	}
	return Adjust(cal, target)
}

// LastBusinessDayOfMonth returns the last business day of the month containing t.
func LastBusinessDayOfMonth(cal CalendarID, t time.Time) time.Time {
	nextMonth := utils.Date(t.Year(), t.Month()+1, 1)
	return AddBusinessDays(cal, nextMonth, -1)
}

// IsEndOfMonth checks if t is the last business day of its month.
func IsEndOfMonth(cal CalendarID, t time.Time) bool {
	return t.Equal(LastBusinessDayOfMonth(cal, t))
}
