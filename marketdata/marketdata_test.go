package marketdata_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	zapobserver "go.uber.org/zap/zaptest/observer"

	"github.com/meenmo/ratecurve/marketdata"
	"github.com/meenmo/ratecurve/observer"
	"github.com/meenmo/ratecurve/utils"
)

type counter struct{ count int }

func (c *counter) Update() { c.count++ }

func loadEUR(t *testing.T) *marketdata.Market {
	t.Helper()
	f, err := marketdata.Load(filepath.Join("testdata", "eur.yaml"))
	require.NoError(t, err)
	m, err := marketdata.Build(f)
	require.NoError(t, err)
	return m
}

func TestLoadAndBuild(t *testing.T) {
	t.Parallel()

	core, logs := zapobserver.New(zap.DebugLevel)
	f, err := marketdata.Load(filepath.Join("testdata", "eur.yaml"))
	require.NoError(t, err)
	m, err := marketdata.Build(f, marketdata.WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.Equal(t, []string{"ESTR", "EUR6M", "EUR3M", "BUND"}, m.Names())
	assert.Equal(t, 4, logs.FilterMessage("curve defined").Len())
	assert.Equal(t, utils.Date(2024, time.November, 25), m.Settings.EvaluationDate())

	spot := utils.Date(2024, time.November, 27)
	for _, name := range m.Names() {
		c, err := m.Curve(name)
		require.NoError(t, err)
		assert.Equal(t, spot, c.ReferenceDate(), name)
		for _, h := range c.Helpers() {
			q, err := h.QuoteValue()
			require.NoError(t, err)
			implied, err := h.ImpliedQuote(c)
			require.NoError(t, err, "%s %s", name, h)
			tol := map[string]float64{"EUR3M": 1e-7, "BUND": 1e-8}[name]
			if tol == 0 {
				tol = 1e-9
			}
			assert.InDelta(t, q, implied, tol, "%s %s", name, h)
		}
	}
	assert.Equal(t, 4, logs.FilterMessage("curve bootstrapped").Len())

	_, err = m.Curve("USD")
	require.Error(t, err)
}

func TestQuoteUnitsAndNames(t *testing.T) {
	t.Parallel()

	m := loadEUR(t)
	for _, tc := range []struct {
		name  string
		kind  marketdata.Kind
		value float64
	}{
		{"ESTR/1Y ois", marketdata.Rate, 0.0255},
		{"EUR6M/1W deposit", marketdata.Rate, 0.04559},
		{"EUR3M/3x6 FRA", marketdata.Rate, 0.0445},
		{"EUR3M/5Y basis", marketdata.Spread, -0.0012},
		{"BUND/2029-11-15 bond", marketdata.Price, 99.80},
		{"turn-2025", marketdata.Factor, 0.9999},
	} {
		q, ok := m.Book.Quote(tc.name)
		require.True(t, ok, tc.name)
		v, err := q.Value()
		require.NoError(t, err)
		assert.InDelta(t, tc.value, v, 1e-15, tc.name)
		kind, _ := m.Book.Kind(tc.name)
		assert.Equal(t, tc.kind, kind, tc.name)
	}
	assert.Len(t, m.Book.Names(), 12+13+6+4+1)
}

func TestBumpPropagatesThroughDependentCurves(t *testing.T) {
	t.Parallel()

	m := loadEUR(t)
	estr, err := m.Curve("ESTR")
	require.NoError(t, err)
	six, err := m.Curve("EUR6M")
	require.NoError(t, err)
	three, err := m.Curve("EUR3M")
	require.NoError(t, err)
	bund, err := m.Curve("BUND")
	require.NoError(t, err)

	counters := map[string]*counter{}
	for name, c := range map[string]observer.Subject{"ESTR": estr, "EUR6M": six, "EUR3M": three, "BUND": bund} {
		counters[name] = &counter{}
		observer.Watch(counters[name], c)
	}

	d := utils.Date(2031, time.November, 27)
	before, err := three.Discount(d, false)
	require.NoError(t, err)

	was, now, err := m.Book.Bump("EUR6M/5Y swap", 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.0499, was, 1e-15)
	assert.InDelta(t, 0.0500, now, 1e-15)
	assert.Equal(t, 0, counters["ESTR"].count)
	assert.Equal(t, 1, counters["EUR6M"].count)
	assert.Equal(t, 1, counters["EUR3M"].count)
	assert.Equal(t, 0, counters["BUND"].count)

	after, err := three.Discount(d, false)
	require.NoError(t, err)
	assert.Less(t, after, before)

	// A discounting change reaches every curve built on it, once.
	_, _, err = m.Book.Bump("ESTR/10Y ois", -2)
	require.NoError(t, err)
	assert.Equal(t, 1, counters["ESTR"].count)
	assert.Equal(t, 2, counters["EUR6M"].count)
	assert.Equal(t, 2, counters["EUR3M"].count)

	_, _, err = m.Book.Bump("BUND/2025-11-15 bond", 10)
	require.NoError(t, err)
	q, _ := m.Book.Quote("BUND/2025-11-15 bond")
	v, _ := q.Value()
	assert.InDelta(t, 100.15, v, 1e-12)

	_, _, err = m.Book.Bump("nope", 1)
	require.Error(t, err)
	require.Error(t, m.Book.Set("nope", 1))
	require.NoError(t, m.Book.Set("BUND/2025-11-15 bond", 100.05))
}

func TestEvaluationDateMovesFloatingCurves(t *testing.T) {
	t.Parallel()

	m := loadEUR(t)
	six, err := m.Curve("EUR6M")
	require.NoError(t, err)
	bund, err := m.Curve("BUND")
	require.NoError(t, err)

	m.Settings.SetEvaluationDate(utils.Date(2024, time.November, 26))
	assert.Equal(t, utils.Date(2024, time.November, 28), six.ReferenceDate())
	assert.Equal(t, utils.Date(2024, time.November, 27), bund.ReferenceDate())
	for _, h := range six.Helpers() {
		q, err := h.QuoteValue()
		require.NoError(t, err)
		implied, err := h.ImpliedQuote(six)
		require.NoError(t, err)
		assert.InDelta(t, q, implied, 1e-9, h.String())
	}
}

func TestParseRejectsBadDefinitions(t *testing.T) {
	t.Parallel()

	for name, doc := range map[string]string{
		"no date":        "curves: [{name: A, instruments: [{type: deposit, tenor: 3M, index: EURIBOR3M, quote: 1}]}]",
		"no curves":      "evaluation_date: 2024-11-25",
		"unknown key":    "evaluation_date: 2024-11-25\ncolour: red\ncurves: [{name: A, instruments: [{type: deposit, tenor: 3M, index: EURIBOR3M, quote: 1}]}]",
		"duplicate":      "evaluation_date: 2024-11-25\ncurves: [{name: A, instruments: [{type: deposit, tenor: 3M, index: EURIBOR3M, quote: 1}]}, {name: A, instruments: [{type: deposit, tenor: 6M, index: EURIBOR6M, quote: 1}]}]",
		"forward ref":    "evaluation_date: 2024-11-25\ncurves: [{name: A, discount: B, instruments: [{type: deposit, tenor: 3M, index: EURIBOR3M, quote: 1}]}]",
		"no instruments": "evaluation_date: 2024-11-25\ncurves: [{name: A, instruments: []}]",
		"bad type":       "evaluation_date: 2024-11-25\ncurves: [{name: A, instruments: [{type: future, tenor: 3M, quote: 1}]}]",
		"swap legs":      "evaluation_date: 2024-11-25\ncurves: [{name: A, instruments: [{type: swap, tenor: 5Y, fixed: EUR-FIXED, quote: 1}]}]",
		"basis base":     "evaluation_date: 2024-11-25\ncurves: [{name: A, instruments: [{type: basis, tenor: 5Y, base: EURIBOR6M, other: EURIBOR3M, base_curve: A, quote: 1}]}]",
	} {
		_, err := marketdata.Parse([]byte(doc))
		require.Error(t, err, name)
	}

	_, err := marketdata.Parse([]byte("evaluation_date: 2024-11-25\ncurves: [{name: A, instruments: [{type: bond, quote: 1}]}]"))
	require.ErrorIs(t, err, marketdata.ErrInvalidDefinition)
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	for name, doc := range map[string]string{
		"leg":           "evaluation_date: 2024-11-25\ncurves: [{name: A, instruments: [{type: deposit, tenor: 3M, index: LIBOR, quote: 1}]}]",
		"tenor":         "evaluation_date: 2024-11-25\ncurves: [{name: A, instruments: [{type: deposit, tenor: 3Q, index: EURIBOR3M, quote: 1}]}]",
		"trait":         "evaluation_date: 2024-11-25\ncurves: [{name: A, trait: par, instruments: [{type: deposit, tenor: 3M, index: EURIBOR3M, quote: 1}]}]",
		"combination":   "evaluation_date: 2024-11-25\ncurves: [{name: A, interpolation: linear, instruments: [{type: deposit, tenor: 3M, index: EURIBOR3M, quote: 1}]}]",
		"algorithm":     "evaluation_date: 2024-11-25\ncurves: [{name: A, bootstrap: {algorithm: newton}, instruments: [{type: deposit, tenor: 3M, index: EURIBOR3M, quote: 1}]}]",
		"date":          "evaluation_date: 25/11/2024\ncurves: [{name: A, instruments: [{type: deposit, tenor: 3M, index: EURIBOR3M, quote: 1}]}]",
		"negative rate": "evaluation_date: 2024-11-25\ncurves: [{name: A, instruments: [{type: deposit, tenor: 3M, index: EURIBOR3M, quote: -0.5}]}]",
		"shared quote":  "evaluation_date: 2024-11-25\ncurves: [{name: A, instruments: [{type: deposit, name: X, tenor: 3M, index: EURIBOR3M, quote: 1}, {type: deposit, name: X, tenor: 6M, index: EURIBOR6M, quote: 2}]}]",
	} {
		f, err := marketdata.Parse([]byte(doc))
		require.NoError(t, err, name)
		_, err = marketdata.Build(f)
		require.Error(t, err, name)
	}
}

func TestLoadLimits(t *testing.T) {
	t.Parallel()

	_, err := marketdata.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	big := filepath.Join(t.TempDir(), "big.yaml")
	require.NoError(t, os.WriteFile(big, make([]byte, marketdata.MaxFileSize+1), 0o600))
	_, err = marketdata.Load(big)
	require.Error(t, err)
}
