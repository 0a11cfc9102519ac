package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratecurve/utils"
)

func TestAddMonthClampsToMonthEnd(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from   time.Time
		months int
		want   time.Time
	}{
		{utils.Date(2024, time.January, 31), 1, utils.Date(2024, time.February, 29)},
		{utils.Date(2023, time.January, 31), 1, utils.Date(2023, time.February, 28)},
		{utils.Date(2024, time.August, 31), 3, utils.Date(2024, time.November, 30)},
		{utils.Date(2024, time.November, 27), 60, utils.Date(2029, time.November, 27)},
		{utils.Date(2024, time.March, 31), -1, utils.Date(2024, time.February, 29)},
		{utils.Date(2024, time.December, 15), 1, utils.Date(2025, time.January, 15)},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, utils.AddMonth(c.from, c.months), "%s %+d", c.from.Format(utils.DateLayout), c.months)
	}
}

func TestDateHelpers(t *testing.T) {
	t.Parallel()

	d, err := utils.ParseDate("2024-11-27")
	require.NoError(t, err)
	assert.Equal(t, utils.Date(2024, time.November, 27), d)
	_, err = utils.ParseDate("27/11/2024")
	require.Error(t, err)

	assert.Equal(t, d, utils.Truncate(time.Date(2024, 11, 27, 17, 45, 0, 0, time.UTC)))
	assert.Equal(t, 365, utils.Days(utils.Date(2023, 1, 1), utils.Date(2024, 1, 1)))
	assert.True(t, utils.IsLeapYear(2000))
	assert.False(t, utils.IsLeapYear(1900))
	assert.True(t, utils.IsMonthEnd(utils.Date(2024, time.February, 29)))
	assert.False(t, utils.IsMonthEnd(utils.Date(2023, time.February, 27)))
}
