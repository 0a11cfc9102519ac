package daycount_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratecurve/daycount"
	"github.com/meenmo/ratecurve/utils"
)

func TestYearFraction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		dc         daycount.Convention
		start, end time.Time
		want       float64
	}{
		{daycount.Actual360, utils.Date(2024, 1, 1), utils.Date(2024, 7, 1), 182.0 / 360.0},
		{daycount.Actual365Fixed, utils.Date(2024, 1, 1), utils.Date(2025, 1, 1), 366.0 / 365.0},
		{daycount.Thirty360, utils.Date(2024, 1, 31), utils.Date(2024, 3, 31), 60.0 / 360.0},
		{daycount.Thirty360, utils.Date(2024, 1, 30), utils.Date(2024, 3, 31), 60.0 / 360.0},
		{daycount.Thirty360, utils.Date(2024, 1, 15), utils.Date(2024, 3, 31), 76.0 / 360.0},
		{daycount.ThirtyE360, utils.Date(2024, 1, 15), utils.Date(2024, 3, 31), 75.0 / 360.0},
		{daycount.ActualActualISDA, utils.Date(2023, 7, 1), utils.Date(2024, 7, 1), 184.0/365.0 + 182.0/366.0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, tc.dc.YearFraction(tc.start, tc.end), 1e-15, "%s %s→%s", tc.dc, tc.start.Format(utils.DateLayout), tc.end.Format(utils.DateLayout))
	}
}

func TestYearFractionIsAntisymmetric(t *testing.T) {
	t.Parallel()

	a, b := utils.Date(2023, 3, 10), utils.Date(2026, 11, 2)
	for _, dc := range []daycount.Convention{daycount.Actual360, daycount.Actual365Fixed, daycount.ActualActualISDA} {
		assert.InDelta(t, -dc.YearFraction(a, b), dc.YearFraction(b, a), 1e-15, string(dc))
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]daycount.Convention{
		"act/360":    daycount.Actual360,
		"ACT/365":    daycount.Actual365Fixed,
		"Bond Basis": daycount.Thirty360,
		"30E/360":    daycount.ThirtyE360,
		"ACT/ACT":    daycount.ActualActualISDA,
	} {
		got, err := daycount.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := daycount.Parse("BUS/252")
	require.Error(t, err)
}
