package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/utils"
)

func TestTargetHolidays(t *testing.T) {
	t.Parallel()

	holidays := []time.Time{
		utils.Date(2024, time.January, 1),
		utils.Date(2024, time.March, 29), // Good Friday
		utils.Date(2024, time.April, 1),  // Easter Monday
		utils.Date(2024, time.May, 1),
		utils.Date(2024, time.December, 25),
		utils.Date(2024, time.December, 26),
		utils.Date(2025, time.April, 18),
		utils.Date(2025, time.April, 21),
	}
	for _, d := range holidays {
		assert.False(t, calendar.IsBusinessDay(calendar.TARGET, d), d.Format(utils.DateLayout))
	}
	assert.True(t, calendar.IsBusinessDay(calendar.TARGET, utils.Date(2024, time.March, 28)))
	assert.False(t, calendar.IsBusinessDay(calendar.TARGET, utils.Date(2024, time.March, 30)))
	assert.True(t, calendar.IsBusinessDay(calendar.NullCalendar, utils.Date(2024, time.March, 30)))
}

func TestUSHolidays(t *testing.T) {
	t.Parallel()

	holidays := []time.Time{
		utils.Date(2024, time.January, 15),  // MLK
		utils.Date(2024, time.May, 27),      // Memorial Day
		utils.Date(2024, time.June, 19),     // Juneteenth
		utils.Date(2024, time.July, 4),      // Independence Day
		utils.Date(2024, time.November, 28), // Thanksgiving
		utils.Date(2022, time.December, 26), // Christmas observed
		utils.Date(2023, time.January, 2),   // New Year observed
	}
	for _, d := range holidays {
		assert.False(t, calendar.IsBusinessDay(calendar.USD, d), d.Format(utils.DateLayout))
	}
	// New Year on a Saturday is not observed on the prior Friday.
	assert.True(t, calendar.IsBusinessDay(calendar.USD, utils.Date(2021, time.December, 31)))
}

func TestAdjustConventions(t *testing.T) {
	t.Parallel()

	sat := utils.Date(2024, time.August, 31)
	assert.Equal(t, utils.Date(2024, time.August, 30), calendar.AdjustConvention(calendar.TARGET, sat, calendar.ModifiedFollowing))
	assert.Equal(t, utils.Date(2024, time.September, 2), calendar.AdjustConvention(calendar.TARGET, sat, calendar.Following))
	assert.Equal(t, utils.Date(2024, time.August, 30), calendar.AdjustConvention(calendar.TARGET, sat, calendar.Preceding))
	assert.Equal(t, sat, calendar.AdjustConvention(calendar.TARGET, sat, calendar.Unadjusted))

	sun := utils.Date(2024, time.September, 1)
	assert.Equal(t, utils.Date(2024, time.September, 2), calendar.AdjustConvention(calendar.TARGET, sun, calendar.ModifiedPreceding))
}

func TestAdvance(t *testing.T) {
	t.Parallel()

	spot := utils.Date(2024, time.February, 29)
	cases := []struct {
		tenor string
		eom   bool
		want  time.Time
	}{
		{"2D", false, utils.Date(2024, time.March, 4)},
		{"1W", false, utils.Date(2024, time.March, 7)},
		{"1M", false, utils.Date(2024, time.March, 28)}, // Good Friday and Easter Monday roll back
		{"1M", true, utils.Date(2024, time.March, 28)},
		{"1Y", false, utils.Date(2025, time.February, 28)},
		{"3M", true, utils.Date(2024, time.May, 31)},
	}
	for _, tc := range cases {
		got := calendar.Advance(calendar.TARGET, spot, calendar.MustParsePeriod(tc.tenor), calendar.ModifiedFollowing, tc.eom)
		assert.Equal(t, tc.want, got, "%s eom=%v", tc.tenor, tc.eom)
	}
}

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	p, err := calendar.ParsePeriod(" 10y ")
	require.NoError(t, err)
	assert.Equal(t, calendar.Period{Length: 10, Unit: calendar.Years}, p)
	assert.Equal(t, 120, p.Months())
	assert.Equal(t, "10Y", p.String())

	_, err = calendar.ParsePeriod("3Q")
	require.Error(t, err)
	_, err = calendar.ParsePeriod("M")
	require.Error(t, err)
}

func TestBusinessDaysBetween(t *testing.T) {
	t.Parallel()

	from := utils.Date(2024, time.March, 25)
	to := utils.Date(2024, time.April, 8)
	// Two weeks less Good Friday and Easter Monday.
	assert.Equal(t, 8, calendar.BusinessDaysBetween(calendar.TARGET, from, to))
	assert.Equal(t, -8, calendar.BusinessDaysBetween(calendar.TARGET, to, from))
}
