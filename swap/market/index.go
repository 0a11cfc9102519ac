package market

import "github.com/meenmo/ratecurve/calendar"

// ReferenceIndex enumerates supported floating benchmarks.
type ReferenceIndex string

const (
	ESTR      ReferenceIndex = "ESTR"
	EURIBOR3M ReferenceIndex = "EURIBOR3M"
	EURIBOR6M ReferenceIndex = "EURIBOR6M"
	TONAR     ReferenceIndex = "TONAR"
	TIBOR3M   ReferenceIndex = "TIBOR3M"
	TIBOR6M   ReferenceIndex = "TIBOR6M"
	SOFR      ReferenceIndex = "SOFR"
	CD91D     ReferenceIndex = "CD91D"
)

// IsOvernight reports whether the reference rate is an overnight index used in OIS discounting/projection.
func IsOvernight(r ReferenceIndex) bool {
	switch r {
	case ESTR, TONAR, SOFR:
		return true
	default:
		return false
	}
}

// Tenor is the index's deposit tenor, zero for overnight indices.
func (r ReferenceIndex) Tenor() calendar.Period {
	switch r {
	case EURIBOR3M, TIBOR3M, CD91D:
		return calendar.Period{Length: 3, Unit: calendar.Months}
	case EURIBOR6M, TIBOR6M:
		return calendar.Period{Length: 6, Unit: calendar.Months}
	}
	return calendar.Period{}
}
