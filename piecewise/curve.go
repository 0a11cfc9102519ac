// Package piecewise builds yield curves whose node values are solved so that a set of
// calibrating instruments reprice to their market quotes.
//
// A Curve watches its helpers, and through them every quote, exogenous curve and evaluation
// date they depend on. A notification only marks the curve dirty; the bootstrap runs again on
// the next query, starting from the previous solution.
package piecewise

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/daycount"
	"github.com/meenmo/ratecurve/handle"
	"github.com/meenmo/ratecurve/interpolation"
	"github.com/meenmo/ratecurve/metrics"
	"github.com/meenmo/ratecurve/observer"
	"github.com/meenmo/ratecurve/quote"
	"github.com/meenmo/ratecurve/rate"
	"github.com/meenmo/ratecurve/ratehelper"
	"github.com/meenmo/ratecurve/settings"
	"github.com/meenmo/ratecurve/termstructure"
	"github.com/meenmo/ratecurve/utils"
)

// Jump is a multiplicative step in the discount factor after Date, such as a year-end or
// central bank meeting effect.
type Jump struct {
	Date  time.Time
	Quote handle.Handle[*quote.Quote]
}

// Option configures a curve.
type Option func(*options)

type options struct {
	dc          daycount.Convention
	bootstrap   Bootstrap
	jumps       []Jump
	logger      *zap.Logger
	metrics     *metrics.Bootstrap
	settings    *settings.Settings
	extrapolate bool
}

// WithDayCounter sets the curve's time axis. The default is ACT/365F.
func WithDayCounter(dc daycount.Convention) Option {
	return func(o *options) { o.dc = dc }
}

// WithBootstrap selects the algorithm. The default is an IterativeBootstrap with the
// configured accuracy.
func WithBootstrap(b Bootstrap) Option {
	return func(o *options) { o.bootstrap = b }
}

func WithJumps(jumps ...Jump) Option {
	return func(o *options) { o.jumps = append(o.jumps, jumps...) }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithMetrics(m *metrics.Bootstrap) Option {
	return func(o *options) { o.metrics = m }
}

// WithSettings is the evaluation date a floating curve follows. The default is
// settings.Global().
func WithSettings(s *settings.Settings) Option {
	return func(o *options) { o.settings = s }
}

// WithExtrapolation allows queries past the last pillar without the per-call flag.
func WithExtrapolation() Option {
	return func(o *options) { o.extrapolate = true }
}

func collect(opts []Option) options {
	o := options{dc: daycount.Actual365Fixed}
	for _, opt := range opts {
		opt(&o)
	}
	if o.bootstrap == nil {
		o.bootstrap = IterativeBootstrap{}
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// Curve is a bootstrapped yield curve.
type Curve struct {
	observer.Observable
	termstructure.Extrapolator

	ref     termstructure.Reference
	dc      daycount.Convention
	trait   Trait
	method  interpolation.Method
	boot    Bootstrap
	helpers []ratehelper.RateHelper
	jumps   []Jump
	logger  *zap.Logger
	metrics *metrics.Bootstrap

	// frozen curves hold fixed nodes and never rebuild.
	frozen      bool
	dirty       bool
	calculating bool
	built       *snapshot
	stats       Stats
}

var _ termstructure.YieldCurve = (*Curve)(nil)

// New builds a curve with a fixed reference date.
func New(ref time.Time, helpers []ratehelper.RateHelper, trait Trait, m interpolation.Method, opts ...Option) (*Curve, error) {
	c, err := newCurve(termstructure.FixedReference(utils.Truncate(ref)), helpers, trait, m, collect(opts))
	if err != nil {
		return nil, fmt.Errorf("piecewise.New: %w", err)
	}
	return c, nil
}

// NewFloating builds a curve whose reference date is settlementDays business days after
// the evaluation date, and which rebuilds when the evaluation date moves.
func NewFloating(settlementDays int, cal calendar.CalendarID, helpers []ratehelper.RateHelper, trait Trait, m interpolation.Method, opts ...Option) (*Curve, error) {
	o := collect(opts)
	ref := termstructure.FloatingReference(settlementDays, cal, o.settings)
	c, err := newCurve(ref, helpers, trait, m, o)
	if err != nil {
		return nil, fmt.Errorf("piecewise.NewFloating: %w", err)
	}
	observer.Watch(c, ref.Settings())
	return c, nil
}

func newCurve(ref termstructure.Reference, helpers []ratehelper.RateHelper, trait Trait, m interpolation.Method, o options) (*Curve, error) {
	if len(helpers) == 0 {
		return nil, &termstructure.ConfigurationError{Reason: termstructure.ErrNoHelpers, Index: -1}
	}
	if err := checkCombination(trait, m, o.bootstrap); err != nil {
		return nil, err
	}
	c := &Curve{
		ref:     ref,
		dc:      o.dc,
		trait:   trait,
		method:  m,
		boot:    o.bootstrap,
		helpers: append([]ratehelper.RateHelper(nil), helpers...),
		jumps:   o.jumps,
		metrics: o.metrics,
		dirty:   true,
		logger: o.logger.With(
			zap.String("trait", trait.Name()),
			zap.String("interpolation", m.String()),
			zap.String("bootstrap", o.bootstrap.Name())),
	}
	c.EnableExtrapolation(o.extrapolate)
	if err := c.validate(ref.Date(), false); err != nil {
		return nil, err
	}
	for _, h := range c.helpers {
		observer.Watch(c, h)
	}
	for _, j := range c.jumps {
		observer.Watch(c, j.Quote)
	}
	return c, nil
}

func checkCombination(trait Trait, m interpolation.Method, b Bootstrap) error {
	if trait == nil {
		return &termstructure.ConfigurationError{Reason: termstructure.ErrUnsupportedCombination, Index: -1, Detail: "no trait"}
	}
	if !trait.Supports(m) {
		return &termstructure.ConfigurationError{
			Reason: termstructure.ErrUnsupportedCombination,
			Index:  -1,
			Detail: fmt.Sprintf("%s trait cannot use %s interpolation", trait.Name(), m),
		}
	}
	if b == nil {
		return nil
	}
	if err := b.validate(trait, m); err != nil {
		return &termstructure.ConfigurationError{Reason: termstructure.ErrUnsupportedCombination, Index: -1, Detail: err.Error()}
	}
	return nil
}

// validate sorts the helpers by pillar and checks them against ref. Unless strict, helpers
// whose quote has no value yet are accepted.
func (c *Curve) validate(ref time.Time, strict bool) error {
	sort.SliceStable(c.helpers, func(i, j int) bool {
		return c.helpers[i].PillarDate().Before(c.helpers[j].PillarDate())
	})
	for i, h := range c.helpers {
		pillar := h.PillarDate()
		if !pillar.After(ref) {
			return &termstructure.ConfigurationError{Reason: termstructure.ErrPillarBeforeReference, Index: i, Date: pillar, Detail: h.String()}
		}
		if earliest := h.EarliestDate(); earliest.Before(ref) {
			return &termstructure.ConfigurationError{
				Reason: termstructure.ErrPillarBeforeReference,
				Index:  i,
				Date:   earliest,
				Detail: fmt.Sprintf("%s starts before the reference date", h),
			}
		}
		if i > 0 && !pillar.After(c.helpers[i-1].PillarDate()) {
			return &termstructure.ConfigurationError{
				Reason: termstructure.ErrDuplicatePillar,
				Index:  i,
				Date:   pillar,
				Detail: fmt.Sprintf("%s and %s", c.helpers[i-1], h),
			}
		}
		v, err := h.QuoteValue()
		if err != nil {
			if strict {
				return fmt.Errorf("helper %d (%s): %w", i, h, err)
			}
			continue
		}
		if v < 0 && h.QuotesRate() && !c.trait.AllowsNegativeRates() {
			return &termstructure.ConfigurationError{
				Reason: termstructure.ErrNegativeRate,
				Index:  i,
				Date:   pillar,
				Detail: fmt.Sprintf("%s quoted at %g with the %s trait", h, v, c.trait.Name()),
			}
		}
	}
	return nil
}

// NewFromNodes builds a frozen curve directly from node values in the trait's units. The
// first date must be the reference date.
func NewFromNodes(ref time.Time, dates []time.Time, values []float64, trait Trait, m interpolation.Method, opts ...Option) (*Curve, error) {
	o := collect(opts)
	ref = utils.Truncate(ref)
	if len(dates) != len(values) {
		return nil, fmt.Errorf("piecewise.NewFromNodes: %d dates for %d values", len(dates), len(values))
	}
	if len(dates) < 2 {
		return nil, fmt.Errorf("piecewise.NewFromNodes: %w", &termstructure.ConfigurationError{Reason: termstructure.ErrNoHelpers, Index: -1, Detail: "at least two nodes are required"})
	}
	if err := checkCombination(trait, m, nil); err != nil {
		return nil, fmt.Errorf("piecewise.NewFromNodes: %w", err)
	}
	if !utils.Truncate(dates[0]).Equal(ref) {
		return nil, fmt.Errorf("piecewise.NewFromNodes: %w", &termstructure.ConfigurationError{
			Reason: termstructure.ErrPillarBeforeReference, Index: 0, Date: dates[0], Detail: "first node must be the reference date"})
	}
	s := &snapshot{
		ref:   ref,
		dc:    o.dc,
		dates: make([]time.Time, len(dates)),
		times: make([]float64, len(dates)),
		data:  append([]float64(nil), values...),
		valid: true,
	}
	for i, d := range dates {
		s.dates[i] = utils.Truncate(d)
		s.times[i] = o.dc.YearFraction(ref, s.dates[i])
		if i > 0 && !(s.times[i] > s.times[i-1]) {
			return nil, fmt.Errorf("piecewise.NewFromNodes: %w", &termstructure.ConfigurationError{Reason: termstructure.ErrDuplicatePillar, Index: i, Date: s.dates[i]})
		}
	}
	if err := s.interpolate(trait, m, len(dates)); err != nil {
		return nil, fmt.Errorf("piecewise.NewFromNodes: %w", err)
	}
	var err error
	if s.jumps, err = jumpNodes(o.jumps, ref, o.dc); err != nil {
		return nil, fmt.Errorf("piecewise.NewFromNodes: %w", err)
	}
	c := &Curve{
		ref:    termstructure.FixedReference(ref),
		dc:     o.dc,
		trait:  trait,
		method: m,
		boot:   o.bootstrap,
		logger: o.logger,
		frozen: true,
		built:  s,
	}
	c.EnableExtrapolation(o.extrapolate)
	return c, nil
}

func jumpNodes(jumps []Jump, ref time.Time, dc daycount.Convention) ([]jumpNode, error) {
	var nodes []jumpNode
	for _, j := range jumps {
		t := dc.YearFraction(ref, j.Date)
		if t <= 0 {
			continue
		}
		q, err := j.Quote.Current()
		if err != nil {
			return nil, fmt.Errorf("jump on %s: %w", j.Date.Format(utils.DateLayout), err)
		}
		v, err := q.Value()
		if err != nil {
			return nil, fmt.Errorf("jump on %s: %w", j.Date.Format(utils.DateLayout), err)
		}
		nodes = append(nodes, jumpNode{t: t, factor: v})
	}
	return nodes, nil
}

// Update marks the curve dirty. The next query rebuilds it.
func (c *Curve) Update() {
	if c.frozen {
		return
	}
	c.dirty = true
	c.metrics.ObserveInvalidation()
}

func (c *Curve) calculate() error {
	if c.frozen || !c.dirty {
		return nil
	}
	if c.calculating {
		return fmt.Errorf("piecewise: %w", termstructure.ErrCyclicDependency)
	}
	c.calculating = true
	err := c.rebuild()
	c.calculating = false
	if err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Recalculate rebuilds the curve now, even if nothing changed.
func (c *Curve) Recalculate() error {
	if c.frozen {
		return nil
	}
	c.dirty = true
	return c.calculate()
}

func (c *Curve) rebuild() error {
	ref := c.ref.Date()
	if err := c.validate(ref, true); err != nil {
		return err
	}
	n := len(c.helpers)
	s := &snapshot{
		ref:   ref,
		dc:    c.dc,
		dates: make([]time.Time, n+1),
		times: make([]float64, n+1),
		data:  make([]float64, n+1),
	}
	s.dates[0] = ref
	for i, h := range c.helpers {
		s.dates[i+1] = h.PillarDate()
		s.times[i+1] = c.dc.YearFraction(ref, s.dates[i+1])
		if !(s.times[i+1] > s.times[i]) {
			return &termstructure.ConfigurationError{
				Reason: termstructure.ErrDuplicatePillar,
				Index:  i,
				Date:   s.dates[i+1],
				Detail: fmt.Sprintf("%s has the same %s time as the previous pillar", h, c.dc),
			}
		}
	}
	if c.built != nil && len(c.built.data) == n+1 {
		copy(s.data, c.built.data)
		s.valid = true
	} else {
		for i := range s.data {
			s.data[i] = c.trait.InitialValue()
		}
	}
	var err error
	if s.jumps, err = jumpNodes(c.jumps, ref, c.dc); err != nil {
		return err
	}

	p := &problem{helpers: c.helpers, trait: c.trait, method: c.method, trial: s, logger: c.logger}
	stats, err := c.boot.run(p)
	c.metrics.ObserveRun(c.boot.Name(), stats.Passes, stats.Evaluations, err)
	if err != nil {
		return err
	}
	c.built = s
	c.stats = stats
	c.logger.Info("curve bootstrapped",
		zap.Time("reference", ref),
		zap.Int("pillars", n),
		zap.Int("passes", stats.Passes),
		zap.Int("evaluations", stats.Evaluations),
		zap.Bool("warm", stats.Warm),
		zap.Float64("max_error", stats.MaxError))
	return nil
}

func (c *Curve) ReferenceDate() time.Time { return c.ref.Date() }

func (c *Curve) DayCounter() daycount.Convention { return c.dc }

func (c *Curve) Trait() Trait { return c.trait }

func (c *Curve) Interpolation() interpolation.Method { return c.method }

// MaxDate is the last pillar.
func (c *Curve) MaxDate() (time.Time, error) {
	if err := c.calculate(); err != nil {
		return time.Time{}, err
	}
	return c.built.dates[len(c.built.dates)-1], nil
}

func (c *Curve) MaxTime() (float64, error) {
	if err := c.calculate(); err != nil {
		return 0, err
	}
	return c.built.times[len(c.built.times)-1], nil
}

func (c *Curve) TimeFromReference(d time.Time) float64 { return termstructure.Time(c, d) }

// DiscountTime returns the discount factor t years after the reference date. Past the last
// pillar the curve continues at the instantaneous forward of the last pillar.
func (c *Curve) DiscountTime(t float64, extrapolate bool) (float64, error) {
	if err := c.calculate(); err != nil {
		return 0, err
	}
	b := c.built
	if err := termstructure.CheckRange(t, b.times[len(b.times)-1], extrapolate, c.AllowsExtrapolation()); err != nil {
		return 0, err
	}
	return b.discountTime(math.Max(t, 0)), nil
}

func (c *Curve) Discount(d time.Time, extrapolate bool) (float64, error) {
	if err := c.calculate(); err != nil {
		return 0, err
	}
	v, err := c.DiscountTime(c.TimeFromReference(d), extrapolate)
	var xe *termstructure.ExtrapolationError
	if errors.As(err, &xe) {
		xe.Date = d
		xe.MaxDate = c.built.dates[len(c.built.dates)-1]
	}
	return v, err
}

func (c *Curve) ZeroRate(d time.Time, dc daycount.Convention, comp rate.Compounding, freq rate.Frequency, extrapolate bool) (rate.InterestRate, error) {
	return termstructure.ZeroRate(c, d, dc, comp, freq, extrapolate)
}

func (c *Curve) ForwardRate(d1, d2 time.Time, dc daycount.Convention, comp rate.Compounding, freq rate.Frequency, extrapolate bool) (rate.InterestRate, error) {
	return termstructure.ForwardRate(c, d1, d2, dc, comp, freq, extrapolate)
}

// Node is one solved pillar.
type Node struct {
	Date  time.Time
	Time  float64
	Value float64
}

// Nodes returns the reference node followed by one node per pillar, in the trait's units.
func (c *Curve) Nodes() ([]Node, error) {
	if err := c.calculate(); err != nil {
		return nil, err
	}
	b := c.built
	nodes := make([]Node, len(b.dates))
	for i := range nodes {
		nodes[i] = Node{Date: b.dates[i], Time: b.times[i], Value: b.data[i]}
	}
	return nodes, nil
}

func (c *Curve) Dates() ([]time.Time, error) {
	if err := c.calculate(); err != nil {
		return nil, err
	}
	return append([]time.Time(nil), c.built.dates...), nil
}

func (c *Curve) Times() ([]float64, error) {
	if err := c.calculate(); err != nil {
		return nil, err
	}
	return append([]float64(nil), c.built.times...), nil
}

func (c *Curve) Data() ([]float64, error) {
	if err := c.calculate(); err != nil {
		return nil, err
	}
	return append([]float64(nil), c.built.data...), nil
}

// Helpers returns the helpers in pillar order.
func (c *Curve) Helpers() []ratehelper.RateHelper {
	return append([]ratehelper.RateHelper(nil), c.helpers...)
}

// LastBootstrap describes the most recent successful rebuild.
func (c *Curve) LastBootstrap() Stats { return c.stats }

// Clone returns a frozen copy of the current curve. The copy watches nothing, so later
// market changes reach the original only.
func (c *Curve) Clone() (*Curve, error) {
	if err := c.calculate(); err != nil {
		return nil, err
	}
	clone := &Curve{
		Extrapolator: c.Extrapolator,
		ref:          termstructure.FixedReference(c.built.ref),
		dc:           c.dc,
		trait:        c.trait,
		method:       c.method,
		boot:         c.boot,
		logger:       c.logger,
		frozen:       true,
		built:        c.built.copy(),
		stats:        c.stats,
	}
	return clone, nil
}
