package piecewise_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/handle"
	"github.com/meenmo/ratecurve/instruments/swaps"
	"github.com/meenmo/ratecurve/quote"
	"github.com/meenmo/ratecurve/ratehelper"
	"github.com/meenmo/ratecurve/settings"
	"github.com/meenmo/ratecurve/termstructure"
	"github.com/meenmo/ratecurve/utils"
)

var (
	evalDate = utils.Date(2024, time.November, 25)
	spot     = utils.Date(2024, time.November, 27)
)

type marketQuote struct {
	tenor string
	rate  float64 // percent
}

var (
	depositQuotes = []marketQuote{
		{"1W", 4.559}, {"1M", 4.581}, {"2M", 4.573}, {"3M", 4.557}, {"6M", 4.496}, {"9M", 4.490},
	}
	swapQuotes = []marketQuote{
		{"1Y", 4.54}, {"2Y", 4.63}, {"3Y", 4.75}, {"4Y", 4.86}, {"5Y", 4.99},
		{"6Y", 5.11}, {"7Y", 5.23}, {"8Y", 5.33}, {"9Y", 5.41}, {"10Y", 5.47},
		{"12Y", 5.60}, {"15Y", 5.75}, {"20Y", 5.89}, {"25Y", 5.95}, {"30Y", 5.96},
	}
	fraQuotes = []struct {
		start int
		rate  float64
	}{
		{1, 4.581}, {2, 4.573}, {3, 4.557}, {6, 4.496}, {9, 4.490},
	}
	estrQuotes = []marketQuote{
		{"1M", 3.16}, {"3M", 3.05}, {"6M", 2.83}, {"1Y", 2.55}, {"2Y", 2.25}, {"3Y", 2.18},
		{"5Y", 2.17}, {"7Y", 2.21}, {"10Y", 2.30}, {"15Y", 2.40}, {"20Y", 2.38}, {"30Y", 2.23},
	}
)

// market is a set of quotes and helpers that follow the evaluation date of their own
// settings, so tests can run in parallel.
type market struct {
	settings *settings.Settings
	quotes   map[string]*quote.Quote
	helpers  []ratehelper.RateHelper
}

func newMarket() *market {
	s := settings.New()
	s.SetEvaluationDate(evalDate)
	return &market{settings: s, quotes: map[string]*quote.Quote{}}
}

func (m *market) quote(name string, v float64) handle.Handle[*quote.Quote] {
	q := quote.New(name, v)
	m.quotes[name] = q
	return handle.New(q)
}

func (m *market) deposits(t *testing.T, quotes []marketQuote) *market {
	t.Helper()
	for _, mq := range quotes {
		h, err := ratehelper.NewDeposit(m.quote("DEP"+mq.tenor, mq.rate/100), calendar.MustParsePeriod(mq.tenor), 2,
			swaps.EURIBOR6MFloat, ratehelper.WithSettings(m.settings))
		require.NoError(t, err)
		m.helpers = append(m.helpers, h)
	}
	return m
}

func (m *market) swaps(t *testing.T, quotes []marketQuote, opts ...ratehelper.Option) *market {
	t.Helper()
	opts = append([]ratehelper.Option{ratehelper.WithSettings(m.settings)}, opts...)
	for _, mq := range quotes {
		h, err := ratehelper.NewSwap(m.quote("IRS"+mq.tenor, mq.rate/100), calendar.MustParsePeriod(mq.tenor), 2,
			swaps.Euribor6MFixed, swaps.EURIBOR6MFloat, opts...)
		require.NoError(t, err)
		m.helpers = append(m.helpers, h)
	}
	return m
}

func (m *market) ois(t *testing.T, quotes []marketQuote) *market {
	t.Helper()
	for _, mq := range quotes {
		h, err := ratehelper.NewOIS(m.quote("OIS"+mq.tenor, mq.rate/100), calendar.MustParsePeriod(mq.tenor), 2,
			swaps.EstrFixedAnnual, swaps.ESTRFloat, ratehelper.WithSettings(m.settings))
		require.NoError(t, err)
		m.helpers = append(m.helpers, h)
	}
	return m
}

// standard is the deposit and swap strip the reference scenario is quoted on.
func standard(t *testing.T) *market {
	return newMarket().deposits(t, depositQuotes).swaps(t, swapQuotes)
}

// requireRepriced checks every helper against the curve it calibrated.
func requireRepriced(t *testing.T, helpers []ratehelper.RateHelper, curve termstructure.Discounter, tolerance float64) {
	t.Helper()
	for _, h := range helpers {
		q, err := h.QuoteValue()
		require.NoError(t, err, h.String())
		implied, err := h.ImpliedQuote(curve)
		require.NoError(t, err, h.String())
		require.InDelta(t, q, implied, tolerance, h.String())
	}
}
