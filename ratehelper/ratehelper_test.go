package ratehelper_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratecurve/bond"
	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/daycount"
	"github.com/meenmo/ratecurve/handle"
	"github.com/meenmo/ratecurve/instruments/swaps"
	"github.com/meenmo/ratecurve/observer"
	"github.com/meenmo/ratecurve/quote"
	"github.com/meenmo/ratecurve/ratehelper"
	"github.com/meenmo/ratecurve/settings"
	"github.com/meenmo/ratecurve/swap"
	"github.com/meenmo/ratecurve/termstructure"
	"github.com/meenmo/ratecurve/utils"
)

var (
	trade = utils.Date(2024, time.November, 25)
	spot  = utils.Date(2024, time.November, 27)
)

type counter struct {
	name  string
	count int
}

func (c *counter) Update() { c.count++ }

func flat(r float64) *termstructure.FlatForward {
	return termstructure.NewFlatForwardRate(spot, r, daycount.Actual365Fixed)
}

func TestDeposit(t *testing.T) {
	t.Parallel()

	q := quote.New("3M", 0.04557)
	h, err := ratehelper.NewDeposit(handle.New(q), calendar.MustParsePeriod("3M"), 2, swaps.EURIBOR6MFloat, ratehelper.WithTradeDate(trade))
	require.NoError(t, err)

	assert.Equal(t, spot, h.EarliestDate())
	assert.Equal(t, utils.Date(2025, time.February, 27), h.PillarDate())
	assert.Equal(t, h.PillarDate(), h.LatestDate())
	assert.True(t, h.QuotesRate())
	assert.Equal(t, "3M deposit", h.String())

	curve := flat(0.04)
	implied, err := h.ImpliedQuote(curve)
	require.NoError(t, err)
	days := float64(utils.Days(h.StartDate(), h.MaturityDate()))
	assert.InDelta(t, (math.Exp(0.04*days/365)-1)/(days/360), implied, 1e-14)

	qe, err := h.QuoteError(curve)
	require.NoError(t, err)
	assert.InDelta(t, implied-0.04557, qe, 1e-16)

	week, err := ratehelper.NewDeposit(handle.New(quote.New("1W", 0.04559)), calendar.MustParsePeriod("1W"), 2, swaps.EURIBOR6MFloat, ratehelper.WithTradeDate(trade))
	require.NoError(t, err)
	assert.Equal(t, utils.Date(2024, time.December, 4), week.PillarDate())
}

func TestHelperForwardsQuoteNotifications(t *testing.T) {
	t.Parallel()

	q := quote.New("3M", 0.04557)
	r := handle.NewRelinkable(q)
	h, err := ratehelper.NewDeposit(r.Handle(), calendar.MustParsePeriod("3M"), 2, swaps.EURIBOR6MFloat, ratehelper.WithTradeDate(trade))
	require.NoError(t, err)
	c := &counter{name: "c"}
	observer.Watch(c, h)

	q.SetValue(0.046)
	assert.Equal(t, 1, c.count)
	v, err := h.QuoteValue()
	require.NoError(t, err)
	assert.Equal(t, 0.046, v)

	q.Invalidate()
	assert.Equal(t, 2, c.count)
	_, err = h.QuoteError(flat(0.04))
	require.ErrorIs(t, err, quote.ErrInvalid)

	r.Reset()
	assert.Equal(t, 3, c.count)
	_, err = h.QuoteValue()
	require.ErrorIs(t, err, handle.ErrEmpty)
}

func TestHelperFollowsEvaluationDate(t *testing.T) {
	t.Parallel()

	s := settings.New()
	s.SetEvaluationDate(utils.Date(2024, time.November, 22))
	h, err := ratehelper.NewDeposit(handle.New(quote.New("1M", 0.04581)), calendar.MustParsePeriod("1M"), 2, swaps.EURIBOR6MFloat, ratehelper.WithSettings(s))
	require.NoError(t, err)
	c := &counter{name: "c"}
	observer.Watch(c, h)
	assert.Equal(t, utils.Date(2024, time.November, 26), h.EarliestDate())

	s.SetEvaluationDate(trade)
	assert.Equal(t, 1, c.count)
	assert.Equal(t, spot, h.EarliestDate())
	assert.Equal(t, utils.Date(2024, time.December, 27), h.PillarDate())

	fixed, err := ratehelper.NewDeposit(handle.New(quote.New("1M", 0.04581)), calendar.MustParsePeriod("1M"), 2, swaps.EURIBOR6MFloat, ratehelper.WithSettings(s), ratehelper.WithTradeDate(trade))
	require.NoError(t, err)
	f := &counter{name: "f"}
	observer.Watch(f, fixed)
	s.SetEvaluationDate(utils.Date(2024, time.December, 2))
	assert.Equal(t, 0, f.count)
	assert.Equal(t, spot, fixed.EarliestDate())
}

func TestFRA(t *testing.T) {
	t.Parallel()

	h, err := ratehelper.NewFRA(handle.New(quote.New("3x6", 0.04557)), 3, 2, swaps.EURIBOR3MFloat, ratehelper.WithTradeDate(trade))
	require.NoError(t, err)
	assert.Equal(t, "3x6 FRA", h.String())
	assert.Equal(t, utils.Date(2025, time.February, 27), h.EarliestDate())
	assert.Equal(t, utils.Date(2025, time.May, 27), h.PillarDate())

	curve := flat(0.04)
	implied, err := h.ImpliedQuote(curve)
	require.NoError(t, err)
	days := float64(utils.Days(h.StartDate(), h.MaturityDate()))
	assert.InDelta(t, (math.Exp(0.04*days/365)-1)/(days/360), implied, 1e-14)

	_, err = ratehelper.NewFRA(handle.New(quote.New("bad", 0.04)), -1, 2, swaps.EURIBOR3MFloat, ratehelper.WithTradeDate(trade))
	require.Error(t, err)
}

func TestSwapMatchesVanillaFairRate(t *testing.T) {
	t.Parallel()

	h, err := ratehelper.NewSwap(handle.New(quote.New("5Y", 0.0499)), calendar.MustParsePeriod("5Y"), 2, swaps.Euribor6MFixed, swaps.EURIBOR6MFloat, ratehelper.WithTradeDate(trade))
	require.NoError(t, err)
	assert.Equal(t, "5Y swap", h.String())
	assert.Equal(t, spot, h.EarliestDate())
	assert.Equal(t, utils.Date(2029, time.November, 27), h.PillarDate())

	v, err := swap.NewVanilla(spot, utils.Date(2029, time.November, 27), swaps.Euribor6MFixed, swaps.EURIBOR6MFloat)
	require.NoError(t, err)
	curve := flat(0.045)
	want, err := v.FairRate(curve, curve)
	require.NoError(t, err)
	got, err := h.ImpliedQuote(curve)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	spread, err := ratehelper.NewSwap(handle.New(quote.New("5Y", 0.0499)), calendar.MustParsePeriod("5Y"), 2, swaps.Euribor6MFixed, swaps.EURIBOR6MFloat,
		ratehelper.WithTradeDate(trade), ratehelper.WithSpread(0.001))
	require.NoError(t, err)
	withSpread, err := spread.ImpliedQuote(curve)
	require.NoError(t, err)
	assert.Greater(t, withSpread, got+0.0009)

	fwd, err := ratehelper.NewSwap(handle.New(quote.New("1Yx5Y", 0.05)), calendar.MustParsePeriod("5Y"), 2, swaps.Euribor6MFixed, swaps.EURIBOR6MFloat,
		ratehelper.WithTradeDate(trade), ratehelper.WithForwardStart(calendar.MustParsePeriod("1Y")))
	require.NoError(t, err)
	assert.Equal(t, utils.Date(2025, time.November, 27), fwd.EarliestDate())
	assert.Equal(t, "1Yx5Y swap", fwd.String())
}

func TestSwapWithExogenousDiscounting(t *testing.T) {
	t.Parallel()

	ois := handle.NewRelinkable[termstructure.YieldCurve](flat(0.03))
	h, err := ratehelper.NewSwap(handle.New(quote.New("10Y", 0.0547)), calendar.MustParsePeriod("10Y"), 2, swaps.Euribor6MFixed, swaps.EURIBOR6MFloat,
		ratehelper.WithTradeDate(trade), ratehelper.WithDiscountCurve(ois.Handle()))
	require.NoError(t, err)
	c := &counter{name: "c"}
	observer.Watch(c, h)

	proj := flat(0.045)
	single, err := h.Underlying().FairRate(proj, proj)
	require.NoError(t, err)
	dual, err := h.ImpliedQuote(proj)
	require.NoError(t, err)
	assert.NotEqual(t, single, dual)

	ois.LinkTo(flat(0.02))
	assert.Equal(t, 1, c.count)
	moved, err := h.ImpliedQuote(proj)
	require.NoError(t, err)
	assert.NotEqual(t, dual, moved)

	ois.Reset()
	_, err = h.ImpliedQuote(proj)
	require.ErrorIs(t, err, handle.ErrEmpty)
}

func TestOIS(t *testing.T) {
	t.Parallel()

	_, err := ratehelper.NewOIS(handle.New(quote.New("1Y", 0.03)), calendar.MustParsePeriod("1Y"), 2, swaps.EstrFixedAnnual, swaps.EURIBOR3MFloat, ratehelper.WithTradeDate(trade))
	require.Error(t, err)

	h, err := ratehelper.NewOIS(handle.New(quote.New("2Y", 0.03)), calendar.MustParsePeriod("2Y"), 2, swaps.EstrFixedAnnual, swaps.ESTRFloat, ratehelper.WithTradeDate(trade))
	require.NoError(t, err)
	assert.Equal(t, "2Y ESTR OIS", h.String())
	// One business day payment lag after 2026-11-27.
	assert.Equal(t, utils.Date(2026, time.November, 30), h.PillarDate())

	curve := flat(0.03)
	implied, err := h.ImpliedQuote(curve)
	require.NoError(t, err)
	assert.InDelta(t, 0.0304, implied, 5e-4)
}

func TestBasisSwap(t *testing.T) {
	t.Parallel()

	_, err := ratehelper.NewBasisSwap(handle.New(quote.New("5Y", 0.001)), calendar.MustParsePeriod("5Y"), 2, swaps.EURIBOR3MFloat, swaps.EURIBOR6MFloat,
		handle.Handle[termstructure.YieldCurve]{}, ratehelper.WithTradeDate(trade))
	require.Error(t, err)

	base := handle.NewRelinkable[termstructure.YieldCurve](flat(0.03))
	h, err := ratehelper.NewBasisSwap(handle.New(quote.New("5Y", 0.001)), calendar.MustParsePeriod("5Y"), 2, swaps.EURIBOR3MFloat, swaps.EURIBOR6MFloat,
		base.Handle(), ratehelper.WithTradeDate(trade))
	require.NoError(t, err)
	assert.False(t, h.QuotesRate())
	c := &counter{name: "c"}
	observer.Watch(c, h)

	same, err := h.ImpliedQuote(flat(0.03))
	require.NoError(t, err)
	assert.InDelta(t, 0, same, 1e-13)

	wider, err := h.ImpliedQuote(flat(0.032))
	require.NoError(t, err)
	assert.InDelta(t, 0.0021, wider, 2e-4)

	base.LinkTo(flat(0.031))
	assert.Equal(t, 1, c.count)
}

func TestBondHelper(t *testing.T) {
	t.Parallel()

	b, err := bond.NewFixedRateBond(utils.Date(2023, time.June, 15), utils.Date(2030, time.June, 15), 0.045, swaps.Euribor6MFixed, 2)
	require.NoError(t, err)
	h, err := ratehelper.NewBond(handle.New(quote.New("bond", 101.5)), b, ratehelper.WithTradeDate(trade))
	require.NoError(t, err)
	assert.False(t, h.QuotesRate())
	assert.Equal(t, spot, h.SettlementDate())
	assert.Equal(t, spot, h.EarliestDate())
	assert.Equal(t, utils.Date(2030, time.June, 17), h.PillarDate())

	curve := flat(0.04)
	want, err := b.CleanPrice(curve, spot)
	require.NoError(t, err)
	got, err := h.ImpliedQuote(curve)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	old, err := bond.NewFixedRateBond(utils.Date(2019, time.June, 15), utils.Date(2024, time.June, 15), 0.045, swaps.Euribor6MFixed, 2)
	require.NoError(t, err)
	_, err = ratehelper.NewBond(handle.New(quote.New("old", 100)), old, ratehelper.WithTradeDate(trade))
	require.Error(t, err)
}
