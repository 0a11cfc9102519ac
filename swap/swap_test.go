package swap_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/daycount"
	"github.com/meenmo/ratecurve/instruments/swaps"
	"github.com/meenmo/ratecurve/swap"
	"github.com/meenmo/ratecurve/swap/market"
	"github.com/meenmo/ratecurve/termstructure"
	"github.com/meenmo/ratecurve/utils"
)

func TestGenerateSchedule_SinglePeriod(t *testing.T) {
	t.Parallel()

	effective := utils.Date(2025, 3, 3)
	maturity := utils.Date(2026, 3, 3)

	leg := market.LegConvention{
		LegType:               market.LegFloating,
		ReferenceRate:         market.TIBOR6M,
		DayCount:              daycount.Actual365Fixed,
		ResetFrequency:        market.FreqAnnual,
		PayFrequency:          market.FreqAnnual,
		BusinessDayAdjustment: calendar.ModifiedFollowing,
		RollConvention:        market.BackwardEOM,
		Calendar:              calendar.USD,
		ResetPosition:         market.ResetInAdvance,
	}

	periods, err := swap.GenerateSchedule(effective, maturity, leg)
	if err != nil {
		t.Fatalf("GenerateSchedule error: %v", err)
	}
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	p := periods[0]
	if !p.StartDate.Equal(effective) {
		t.Fatalf("StartDate mismatch: got %s", p.StartDate.Format(utils.DateLayout))
	}
	if !p.EndDate.Equal(maturity) {
		t.Fatalf("EndDate mismatch: got %s", p.EndDate.Format(utils.DateLayout))
	}
	if !p.PayDate.Equal(maturity) {
		t.Fatalf("PayDate mismatch: got %s", p.PayDate.Format(utils.DateLayout))
	}
	if p.AccrualDays != 365 {
		t.Fatalf("AccrualDays mismatch: got %d", p.AccrualDays)
	}
	if !p.FixingDate.Equal(effective) {
		t.Fatalf("FixingDate mismatch: got %s", p.FixingDate.Format(utils.DateLayout))
	}
}

func TestGenerateScheduleBackwardFrontStub(t *testing.T) {
	t.Parallel()

	periods, err := swap.GenerateSchedule(utils.Date(2025, 1, 15), utils.Date(2027, 3, 15), swaps.EURIBOR6MFloat)
	require.NoError(t, err)
	require.Len(t, periods, 5)

	assert.Equal(t, utils.Date(2025, 1, 15), periods[0].StartDate)
	// 2025-03-15 is a Saturday.
	assert.Equal(t, utils.Date(2025, 3, 17), periods[0].EndDate)
	assert.Equal(t, utils.Date(2025, 1, 13), periods[0].FixingDate)
	assert.Equal(t, utils.Date(2027, 3, 15), periods[4].EndDate)
	for i := 1; i < len(periods); i++ {
		assert.Equal(t, periods[i-1].EndDate, periods[i].StartDate, "period %d", i)
	}
}

func TestGenerateScheduleMergesShortStub(t *testing.T) {
	t.Parallel()

	periods, err := swap.GenerateSchedule(utils.Date(2025, 3, 10), utils.Date(2026, 3, 15), swaps.Euribor6MFixed)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	// Unadjusted accrual keeps the Sunday end date.
	assert.Equal(t, utils.Date(2026, 3, 15), periods[0].EndDate)
	assert.Equal(t, utils.Date(2026, 3, 16), periods[0].PayDate)

	fwd := swaps.Euribor6MFixed
	fwd.ScheduleDirection = market.ScheduleForward
	periods, err = swap.GenerateSchedule(utils.Date(2025, 3, 10), utils.Date(2027, 3, 15), fwd)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, utils.Date(2026, 3, 10), periods[0].EndDate)
	assert.Equal(t, utils.Date(2027, 3, 15), periods[1].EndDate)
}

func TestGenerateScheduleMonthEndRoll(t *testing.T) {
	t.Parallel()

	leg := swaps.Euribor6MFixed
	leg.PayFrequency = market.FreqSemi
	periods, err := swap.GenerateSchedule(utils.Date(2025, 2, 28), utils.Date(2027, 2, 28), leg)
	require.NoError(t, err)
	require.Len(t, periods, 4)
	assert.Equal(t, utils.Date(2025, 8, 31), periods[0].EndDate)
	assert.Equal(t, utils.Date(2026, 2, 28), periods[1].EndDate)
	assert.Equal(t, utils.Date(2026, 8, 31), periods[2].EndDate)
}

func TestGenerateScheduleOvernightPayDelay(t *testing.T) {
	t.Parallel()

	periods, err := swap.GenerateSchedule(utils.Date(2024, 11, 27), utils.Date(2027, 11, 27), swaps.ESTRFloat)
	require.NoError(t, err)
	require.Len(t, periods, 3)
	for i, p := range periods {
		assert.Equal(t, calendar.AddBusinessDays(calendar.TARGET, p.EndDate, 1), p.PayDate, "period %d", i)
		if i > 0 {
			assert.Equal(t, periods[i-1].EndDate, p.StartDate)
		}
	}
}

func TestGenerateScheduleRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := swap.GenerateSchedule(utils.Date(2026, 1, 5), utils.Date(2025, 1, 5), swaps.EURIBOR6MFloat)
	require.Error(t, err)

	leg := swaps.EURIBOR6MFloat
	leg.PayFrequency = market.FreqDaily
	_, err = swap.GenerateSchedule(utils.Date(2025, 1, 5), utils.Date(2026, 1, 5), leg)
	require.Error(t, err)
}

func TestSpotEffectiveMaturity(t *testing.T) {
	t.Parallel()

	oneYear := calendar.MustParsePeriod("1Y")
	fiveYears := calendar.MustParsePeriod("5Y")

	spot, eff, mat := swap.SpotEffectiveMaturity(utils.Date(2024, 11, 25), calendar.TARGET, 2, calendar.Period{}, fiveYears, false)
	assert.Equal(t, utils.Date(2024, 11, 27), spot)
	assert.Equal(t, spot, eff)
	assert.Equal(t, utils.Date(2029, 11, 27), mat)

	_, eff, mat = swap.SpotEffectiveMaturity(utils.Date(2024, 11, 25), calendar.TARGET, 2, oneYear, fiveYears, false)
	assert.Equal(t, utils.Date(2025, 11, 27), eff)
	assert.Equal(t, utils.Date(2030, 11, 27), mat)

	spot, _, mat = swap.SpotEffectiveMaturity(utils.Date(2024, 4, 26), calendar.TARGET, 2, calendar.Period{}, calendar.MustParsePeriod("1M"), true)
	assert.Equal(t, utils.Date(2024, 4, 30), spot)
	assert.Equal(t, utils.Date(2024, 5, 31), mat)
}

func TestVanillaOnFlatCurve(t *testing.T) {
	t.Parallel()

	ref := utils.Date(2024, 11, 27)
	curve := termstructure.NewFlatForwardRate(ref, 0.03, daycount.Actual365Fixed)
	s, err := swap.NewVanilla(ref, utils.Date(2034, 11, 27), swaps.Euribor6MFixed, swaps.EURIBOR6MFloat)
	require.NoError(t, err)

	// Contiguous periods paid at their end telescope to D(start) - D(end).
	first := s.FloatSchedule()[0].StartDate
	last := s.FloatSchedule()[len(s.FloatSchedule())-1].EndDate
	d0, err := curve.Discount(first, false)
	require.NoError(t, err)
	dn, err := curve.Discount(last, false)
	require.NoError(t, err)
	floatPV, err := s.FloatLegPV(curve, curve)
	require.NoError(t, err)
	assert.InDelta(t, d0-dn, floatPV, 1e-14)

	fair, err := s.FairRate(curve, curve)
	require.NoError(t, err)
	assert.InDelta(t, 0.0305, fair, 0.002)

	s.FixedRate = fair
	s.Notional = 1e6
	pv, err := s.NPV(curve, curve)
	require.NoError(t, err)
	assert.InDelta(t, 0, pv.TotalPV, 1e-8)
	assert.Greater(t, pv.FixedLegPV, 0.0)

	s.FixedRate = fair + 0.001
	rec, err := s.NPV(curve, curve)
	require.NoError(t, err)
	s.Position = swap.PositionPay
	pay, err := s.NPV(curve, curve)
	require.NoError(t, err)
	assert.Greater(t, rec.TotalPV, 0.0)
	assert.InDelta(t, -rec.TotalPV, pay.TotalPV, 1e-9)

	s.Spread = 0.001
	s.Position = swap.PositionReceive
	spread, err := s.NPV(curve, curve)
	require.NoError(t, err)
	assert.Less(t, spread.TotalPV, rec.TotalPV)

	fwds, err := s.ForwardRates(curve)
	require.NoError(t, err)
	require.Len(t, fwds, len(s.FloatSchedule()))
	p := fwds[0]
	tau365 := daycount.Actual365Fixed.YearFraction(p.StartDate, p.EndDate)
	tau360 := daycount.Actual360.YearFraction(p.StartDate, p.EndDate)
	assert.InDelta(t, (math.Exp(0.03*tau365)-1)/tau360, p.Rate, 1e-14)
}

func TestOISRequiresOvernightLeg(t *testing.T) {
	t.Parallel()

	ref := utils.Date(2024, 11, 27)
	_, err := swap.NewOIS(ref, ref.AddDate(2, 0, 0), swaps.EstrFixedAnnual, swaps.EURIBOR3MFloat)
	require.Error(t, err)

	_, err = swap.NewVanilla(ref, ref.AddDate(2, 0, 0), swaps.EURIBOR6MFloat, swaps.Euribor6MFixed)
	require.Error(t, err)

	ois, err := swap.NewOIS(ref, ref.AddDate(2, 0, 0), swaps.EstrFixedAnnual, swaps.ESTRFloat)
	require.NoError(t, err)
	curve := termstructure.NewFlatForwardRate(ref, 0.025, daycount.Actual360)
	fair, err := ois.FairRate(curve, curve)
	require.NoError(t, err)
	// Annual compounding of a continuous 2.5% over ACT/360 accruals.
	assert.InDelta(t, math.Exp(0.025)-1, fair, 2e-4)
	assert.Equal(t, calendar.AddBusinessDays(calendar.TARGET, utils.Date(2026, 11, 27), 1), ois.LatestDate())
}

func TestBasisFairSpread(t *testing.T) {
	t.Parallel()

	ref := utils.Date(2024, 11, 27)
	b, err := swap.NewBasis(ref, utils.Date(2029, 11, 27), swaps.EURIBOR3MFloat, swaps.EURIBOR6MFloat)
	require.NoError(t, err)

	flat := termstructure.NewFlatForwardRate(ref, 0.03, daycount.Actual365Fixed)
	same, err := b.FairSpread(flat, flat, flat)
	require.NoError(t, err)
	assert.InDelta(t, 0, same, 1e-9)

	higher := termstructure.NewFlatForwardRate(ref, 0.032, daycount.Actual365Fixed)
	spread, err := b.FairSpread(flat, higher, flat)
	require.NoError(t, err)
	assert.InDelta(t, 21, spread, 1)

	b.SpreadBP = spread
	npv, err := b.NPV(flat, higher, flat)
	require.NoError(t, err)
	assert.InDelta(t, 0, npv, 1e-15)

	_, err = swap.NewBasis(ref, utils.Date(2029, 11, 27), swaps.Euribor6MFixed, swaps.EURIBOR6MFloat)
	require.Error(t, err)
}
