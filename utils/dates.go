// Package utils holds the calendar-date helpers shared by every package: all dates are UTC
// midnights.
package utils

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the ISO date layout used by every file format in this module.
const DateLayout = "2006-01-02"

// ParseDate converts YYYY-MM-DD to a UTC midnight time.Time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: %w", err)
	}
	return t, nil
}

// Date builds a UTC midnight date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t, keeping the calendar date in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Days returns the whole number of calendar days from start to end.
func Days(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Hours() / 24))
}

// IsLeapYear reports whether year has 366 days.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days of the month containing t.
func DaysInMonth(t time.Time) int {
	return Date(t.Year(), t.Month()+1, 0).Day()
}

// IsMonthEnd reports whether t is the last calendar day of its month.
func IsMonthEnd(t time.Time) bool {
	return t.Day() == DaysInMonth(t)
}

// AddMonth behaves like Excel's EDATE: the day is clamped to the end of the target month
// instead of spilling into the next one.
func AddMonth(t time.Time, months int) time.Time {
	first := Date(t.Year(), t.Month(), 1).AddDate(0, months, 0)
	day := min(t.Day(), DaysInMonth(first))
	return Date(first.Year(), first.Month(), day)
}
