package calendar

import (
	"time"

	"github.com/meenmo/ratecurve/utils"
)

// easterMonday returns the Easter Monday of year (Gregorian computus).
func easterMonday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return utils.Date(year, time.Month(month), day).AddDate(0, 0, 1)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// TARGET2: New Year, Good Friday, Easter Monday, Labour Day, Christmas and Boxing Day.
func isTargetHoliday(t time.Time) bool {
	_, m, d := t.Date()
	switch {
	case m == time.January && d == 1:
		return true
	case m == time.May && d == 1:
		return true
	case m == time.December && (d == 25 || d == 26):
		return true
	}
	em := easterMonday(t.Year())
	return sameDay(t, em) || sameDay(t, em.AddDate(0, 0, -3))
}

// nthWeekday returns the n-th wd of month; n < 0 counts from the month end.
func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	if n > 0 {
		first := utils.Date(year, month, 1)
		offset := (int(wd) - int(first.Weekday()) + 7) % 7
		return first.AddDate(0, 0, offset+7*(n-1))
	}
	last := utils.Date(year, month+1, 0)
	offset := (int(last.Weekday()) - int(wd) + 7) % 7
	return last.AddDate(0, 0, -offset+7*(n+1))
}

// observed moves a Saturday holiday to Friday and a Sunday holiday to Monday.
func observed(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	}
	return t
}

// US government bond market (SOFR) holidays.
func isUSHoliday(t time.Time) bool {
	y := t.Year()

	// New Year's Day is not moved back into the previous year.
	ny := utils.Date(y, time.January, 1)
	if sameDay(t, ny) || (ny.Weekday() == time.Sunday && sameDay(t, ny.AddDate(0, 0, 1))) {
		return true
	}

	fixed := []time.Time{
		utils.Date(y, time.July, 4),
		utils.Date(y, time.November, 11),
		utils.Date(y, time.December, 25),
	}
	if y >= 2022 {
		fixed = append(fixed, utils.Date(y, time.June, 19))
	}
	for _, h := range fixed {
		if sameDay(t, observed(h)) {
			return true
		}
	}

	floating := []time.Time{
		nthWeekday(y, time.January, time.Monday, 3),
		nthWeekday(y, time.February, time.Monday, 3),
		nthWeekday(y, time.May, time.Monday, -1),
		nthWeekday(y, time.September, time.Monday, 1),
		nthWeekday(y, time.October, time.Monday, 2),
		nthWeekday(y, time.November, time.Thursday, 4),
		easterMonday(y).AddDate(0, 0, -3),
	}
	for _, h := range floating {
		if sameDay(t, h) {
			return true
		}
	}
	return false
}

// Tokyo bank holidays that do not move: year-end and New Year closures.
// Equinoxes and Happy Monday rules are not modelled.
func isJapanHoliday(t time.Time) bool {
	_, m, d := t.Date()
	switch {
	case m == time.January && d <= 3:
		return true
	case m == time.December && d == 31:
		return true
	case m == time.February && d == 11:
		return true
	case m == time.April && d == 29:
		return true
	case m == time.May && d >= 3 && d <= 5:
		return true
	case m == time.November && (d == 3 || d == 23):
		return true
	}
	return false
}

// Seoul solar-calendar holidays. Lunar New Year, Buddha's Birthday and Chuseok are not modelled.
func isKoreaHoliday(t time.Time) bool {
	_, m, d := t.Date()
	switch {
	case m == time.January && d == 1:
		return true
	case m == time.March && d == 1:
		return true
	case m == time.May && d == 5:
		return true
	case m == time.June && d == 6:
		return true
	case m == time.August && d == 15:
		return true
	case m == time.October && (d == 3 || d == 9):
		return true
	case m == time.December && (d == 25 || d == 31):
		return true
	}
	return false
}
