// Package ratehelper adapts calibrating instruments (deposits, FRAs, swaps, bonds, basis swaps)
// to the bootstrap: each helper knows its pillar date, its market quote and the value its
// instrument would be quoted at on a trial curve.
package ratehelper

import (
	"fmt"
	"time"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/handle"
	"github.com/meenmo/ratecurve/observer"
	"github.com/meenmo/ratecurve/quote"
	"github.com/meenmo/ratecurve/settings"
	"github.com/meenmo/ratecurve/termstructure"
	"github.com/meenmo/ratecurve/utils"
)

// RateHelper is one calibrating instrument. Helpers are subjects: a change of their quote,
// of an exogenous curve they use, or of the evaluation date they follow is passed on to the
// curve that watches them.
type RateHelper interface {
	observer.Subject
	Quote() handle.Handle[*quote.Quote]
	QuoteValue() (float64, error)
	// EarliestDate is the first date the instrument needs from a curve.
	EarliestDate() time.Time
	// PillarDate is the curve node this helper calibrates.
	PillarDate() time.Time
	// LatestDate is the last date the instrument needs from a curve.
	LatestDate() time.Time
	// ImpliedQuote values the instrument on ts in the units of its quote.
	ImpliedQuote(ts termstructure.Discounter) (float64, error)
	// QuoteError is ImpliedQuote minus the market quote.
	QuoteError(ts termstructure.Discounter) (float64, error)
	// QuotesRate reports whether the quote is an interest rate, as opposed to a price or a
	// spread.
	QuotesRate() bool
	String() string
}

// Option configures a helper.
type Option func(*options)

type options struct {
	settings     *settings.Settings
	trade        time.Time
	discount     handle.Handle[termstructure.YieldCurve]
	spread       float64
	forwardStart calendar.Period
}

// WithSettings makes the helper follow s instead of settings.Global().
func WithSettings(s *settings.Settings) Option {
	return func(o *options) { o.settings = s }
}

// WithTradeDate pins the date the instrument's dates are measured from. Without it the
// helper follows the evaluation date.
func WithTradeDate(d time.Time) Option {
	return func(o *options) { o.trade = utils.Truncate(d) }
}

// WithDiscountCurve discounts cashflows on an exogenous curve; the curve being bootstrapped
// then only projects forwards.
func WithDiscountCurve(h handle.Handle[termstructure.YieldCurve]) Option {
	return func(o *options) { o.discount = h }
}

// WithSpread adds a spread, as a decimal, to the floating leg of a swap.
func WithSpread(s float64) Option {
	return func(o *options) { o.spread = s }
}

// WithForwardStart delays the start of a swap by p after spot.
func WithForwardStart(p calendar.Period) Option {
	return func(o *options) { o.forwardStart = p }
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.settings = settings.Or(o.settings)
	return o
}

// helperDates is what a helper derives from its trade date.
type helperDates struct {
	earliest, pillar, latest time.Time
}

// base carries what every helper shares. Helpers embed a *base so that the base, not the
// embedding struct, is the object registered with quotes and settings.
type base struct {
	observer.Observable
	name     string
	quote    handle.Handle[*quote.Quote]
	settings *settings.Settings
	trade    time.Time
	rate     bool

	evaluated time.Time
	dates     helperDates
	datesErr  error

	schedule func(trade time.Time) (helperDates, error)
	implied  func(ts termstructure.Discounter) (float64, error)
	// watch lists further subjects the instrument depends on, such as exogenous curves.
	watch []observer.Subject
}

func newBase(name string, q handle.Handle[*quote.Quote], o options, rate bool) *base {
	return &base{name: name, quote: q, settings: o.settings, trade: o.trade, rate: rate}
}

// register computes the dates once and registers with the quote and, when the trade date
// floats, with the evaluation date.
func (b *base) register() error {
	if err := b.refresh(); err != nil {
		return err
	}
	observer.Watch(b, b.quote)
	if b.trade.IsZero() {
		observer.Watch(b, b.settings)
	}
	for _, s := range b.watch {
		observer.Watch(b, s)
	}
	return nil
}

func (b *base) tradeDate() time.Time {
	if !b.trade.IsZero() {
		return b.trade
	}
	return b.settings.EvaluationDate()
}

func (b *base) refresh() error {
	trade := b.tradeDate()
	d, err := b.schedule(trade)
	b.evaluated = trade
	b.datesErr = err
	if err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}
	b.dates = d
	return nil
}

// Update rebuilds the dates when the evaluation date moved. The notification pass then
// reaches the curves watching this helper.
func (b *base) Update() {
	if b.trade.IsZero() && !b.settings.EvaluationDate().Equal(b.evaluated) {
		_ = b.refresh()
	}
}

func (b *base) Quote() handle.Handle[*quote.Quote] { return b.quote }

func (b *base) QuoteValue() (float64, error) {
	q, err := b.quote.Current()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", b.name, err)
	}
	return q.Value()
}

func (b *base) EarliestDate() time.Time { return b.dates.earliest }
func (b *base) PillarDate() time.Time   { return b.dates.pillar }
func (b *base) LatestDate() time.Time   { return b.dates.latest }
func (b *base) QuotesRate() bool        { return b.rate }
func (b *base) String() string          { return b.name }

func (b *base) ImpliedQuote(ts termstructure.Discounter) (float64, error) {
	if b.datesErr != nil {
		return 0, fmt.Errorf("%s: %w", b.name, b.datesErr)
	}
	v, err := b.implied(ts)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", b.name, err)
	}
	return v, nil
}

func (b *base) QuoteError(ts termstructure.Discounter) (float64, error) {
	q, err := b.QuoteValue()
	if err != nil {
		return 0, err
	}
	v, err := b.ImpliedQuote(ts)
	if err != nil {
		return 0, err
	}
	return v - q, nil
}

// discounter resolves an optional exogenous discount curve, falling back to ts when none
// was given. A given but empty handle is an error.
func discounter(h handle.Handle[termstructure.YieldCurve], ts termstructure.Discounter) (termstructure.Discounter, error) {
	if h.Notifier() == nil {
		return ts, nil
	}
	return h.Current()
}
