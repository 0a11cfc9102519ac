package calendar

import (
	"fmt"
	"strings"
	"time"
)

// BusinessDayConvention selects how a date falling on a holiday is rolled.
type BusinessDayConvention string

const (
	Following         BusinessDayConvention = "F"
	ModifiedFollowing BusinessDayConvention = "MF"
	Preceding         BusinessDayConvention = "P"
	ModifiedPreceding BusinessDayConvention = "MP"
	Unadjusted        BusinessDayConvention = "U"
)

// ParseConvention accepts the short codes and their long names.
func ParseConvention(s string) (BusinessDayConvention, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "F", "FOLLOWING":
		return Following, nil
	case "", "MF", "MODIFIEDFOLLOWING":
		return ModifiedFollowing, nil
	case "P", "PRECEDING":
		return Preceding, nil
	case "MP", "MODIFIEDPRECEDING":
		return ModifiedPreceding, nil
	case "U", "UNADJUSTED", "NONE":
		return Unadjusted, nil
	}
	return "", fmt.Errorf("calendar.ParseConvention: unknown convention %q", s)
}

// AdjustConvention rolls t onto a business day of cal according to bdc.
func AdjustConvention(cal CalendarID, t time.Time, bdc BusinessDayConvention) time.Time {
	switch bdc {
	case Unadjusted:
		return t
	case Following:
		return AdjustFollowing(cal, t)
	case Preceding:
		return AdjustPreceding(cal, t)
	case ModifiedPreceding:
		adj := AdjustPreceding(cal, t)
		if adj.Month() != t.Month() {
			return AdjustFollowing(cal, t)
		}
		return adj
	default:
		return Adjust(cal, t)
	}
}

// Advance moves d by period p on cal.
//
// Day periods count business days. Week periods move calendar days and then roll with bdc.
// Month and year periods follow EDATE; with endOfMonth set, a start on the last business day
// of its month lands on the last business day of the target month.
func Advance(cal CalendarID, d time.Time, p Period, bdc BusinessDayConvention, endOfMonth bool) time.Time {
	switch p.Unit {
	case Days:
		if p.Length == 0 {
			return AdjustConvention(cal, d, Following)
		}
		return AddBusinessDays(cal, d, p.Length)
	case Weeks:
		return AdjustConvention(cal, d.AddDate(0, 0, 7*p.Length), bdc)
	default:
		target := p.AddTo(d)
		if endOfMonth && IsEndOfMonth(cal, d) {
			return LastBusinessDayOfMonth(cal, target)
		}
		return AdjustConvention(cal, target, bdc)
	}
}
