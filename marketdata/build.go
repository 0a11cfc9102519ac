package marketdata

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/meenmo/ratecurve/bond"
	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/daycount"
	"github.com/meenmo/ratecurve/handle"
	"github.com/meenmo/ratecurve/instruments/swaps"
	"github.com/meenmo/ratecurve/interpolation"
	"github.com/meenmo/ratecurve/metrics"
	"github.com/meenmo/ratecurve/piecewise"
	"github.com/meenmo/ratecurve/quote"
	"github.com/meenmo/ratecurve/ratehelper"
	"github.com/meenmo/ratecurve/settings"
	"github.com/meenmo/ratecurve/termstructure"
	"github.com/meenmo/ratecurve/utils"
)

const defaultSettlementDays = 2

// Market is a built definition: the quote book, the evaluation date every helper follows
// and the curves in definition order.
type Market struct {
	Settings *settings.Settings
	Book     *Book

	curves map[string]*piecewise.Curve
	order  []string
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	logger  *zap.Logger
	metrics *metrics.Bootstrap
}

// WithLogger is passed on to every curve.
func WithLogger(l *zap.Logger) Option {
	return func(o *buildOptions) { o.logger = l }
}

// WithMetrics is passed on to every curve.
func WithMetrics(m *metrics.Bootstrap) Option {
	return func(o *buildOptions) { o.metrics = m }
}

// Build creates the quotes, helpers and curves of f. Curves are not bootstrapped until they
// are first queried.
func Build(f *File, opts ...Option) (*Market, error) {
	o := buildOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("marketdata.Build: %w", err)
	}
	eval, err := utils.ParseDate(f.EvaluationDate)
	if err != nil {
		return nil, fmt.Errorf("marketdata.Build: evaluation_date: %w", err)
	}
	m := &Market{
		Settings: settings.New(),
		Book:     NewBook(),
		curves:   map[string]*piecewise.Curve{},
	}
	m.Settings.SetEvaluationDate(eval)

	for _, spec := range f.Curves {
		c, err := m.buildCurve(spec, o)
		if err != nil {
			return nil, fmt.Errorf("marketdata.Build: curve %q: %w", spec.Name, err)
		}
		m.curves[spec.Name] = c
		m.order = append(m.order, spec.Name)
		o.logger.Debug("curve defined",
			zap.String("curve", spec.Name),
			zap.Int("instruments", len(spec.Instruments)),
			zap.Time("reference", c.ReferenceDate()))
	}
	return m, nil
}

// Curve returns a curve by name.
func (m *Market) Curve(name string) (*piecewise.Curve, error) {
	c, ok := m.curves[name]
	if !ok {
		return nil, fmt.Errorf("Market.Curve: unknown curve %q (known: %s)", name, strings.Join(m.order, ", "))
	}
	return c, nil
}

// Names lists the curves in definition order.
func (m *Market) Names() []string {
	return append([]string(nil), m.order...)
}

func (m *Market) handle(name string) handle.Handle[termstructure.YieldCurve] {
	return handle.New[termstructure.YieldCurve](m.curves[name])
}

func (m *Market) buildCurve(spec CurveSpec, o buildOptions) (*piecewise.Curve, error) {
	trait, err := piecewise.ParseTrait(orDefault(spec.Trait, "discount"))
	if err != nil {
		return nil, err
	}
	method, err := interpolation.ParseMethod(orDefault(spec.Interpolation, "loglinear"))
	if err != nil {
		return nil, err
	}
	dc, err := daycount.Parse(orDefault(spec.DayCounter, string(daycount.Actual365Fixed)))
	if err != nil {
		return nil, err
	}
	cal, err := calendar.Parse(spec.Calendar)
	if err != nil {
		return nil, err
	}
	boot, err := spec.Bootstrap.build()
	if err != nil {
		return nil, err
	}
	settlementDays := defaultSettlementDays
	if spec.SettlementDays != nil {
		settlementDays = *spec.SettlementDays
	}

	var common []ratehelper.Option
	common = append(common, ratehelper.WithSettings(m.Settings))
	if spec.Discount != "" {
		common = append(common, ratehelper.WithDiscountCurve(m.handle(spec.Discount)))
	}
	helpers := make([]ratehelper.RateHelper, 0, len(spec.Instruments))
	for i, in := range spec.Instruments {
		h, err := m.helper(spec.Name, in, settlementDays, common)
		if err != nil {
			return nil, fmt.Errorf("instrument %d (%s %s): %w", i, in.Type, in.Tenor, err)
		}
		helpers = append(helpers, h)
	}

	opts := []piecewise.Option{
		piecewise.WithDayCounter(dc),
		piecewise.WithBootstrap(boot),
		piecewise.WithSettings(m.Settings),
		piecewise.WithLogger(o.logger.With(zap.String("curve", spec.Name))),
		piecewise.WithMetrics(o.metrics),
	}
	if spec.Extrapolate {
		opts = append(opts, piecewise.WithExtrapolation())
	}
	for _, j := range spec.Jumps {
		jump, err := m.jump(spec.Name, j)
		if err != nil {
			return nil, err
		}
		opts = append(opts, piecewise.WithJumps(jump))
	}

	if spec.Reference == "" {
		return piecewise.NewFloating(settlementDays, cal, helpers, trait, method, opts...)
	}
	ref, err := utils.ParseDate(spec.Reference)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	return piecewise.New(ref, helpers, trait, method, opts...)
}

func (b BootstrapSpec) build() (piecewise.Bootstrap, error) {
	switch strings.ToLower(orDefault(b.Algorithm, "iterative")) {
	case "iterative":
		return piecewise.IterativeBootstrap{Accuracy: b.Accuracy, MaxPasses: b.MaxPasses, MaxEvaluations: b.MaxEvaluations}, nil
	case "local":
		return piecewise.LocalBootstrap{Accuracy: b.Accuracy, MaxEvaluations: b.MaxEvaluations, Window: b.Window}, nil
	}
	return nil, fmt.Errorf("unknown bootstrap algorithm %q", b.Algorithm)
}

func (m *Market) jump(curve string, j JumpSpec) (piecewise.Jump, error) {
	d, err := utils.ParseDate(j.Date)
	if err != nil {
		return piecewise.Jump{}, fmt.Errorf("jump: %w", err)
	}
	name := orDefault(j.Name, curve+"/jump "+j.Date)
	q, err := m.Book.Add(name, Factor, j.Factor)
	if err != nil {
		return piecewise.Jump{}, err
	}
	return piecewise.Jump{Date: d, Quote: handle.New(q)}, nil
}

// helper builds one instrument. Quotes are converted from market units on the way in.
func (m *Market) helper(curve string, in InstrumentSpec, settlementDays int, common []ratehelper.Option) (ratehelper.RateHelper, error) {
	days := settlementDays
	if in.SettlementDays != nil {
		days = *in.SettlementDays
	}
	add := func(label string, kind Kind, value float64) (handle.Handle[*quote.Quote], error) {
		q, err := m.Book.Add(orDefault(in.Name, curve+"/"+label), kind, value)
		if err != nil {
			return handle.Handle[*quote.Quote]{}, err
		}
		return handle.New(q), nil
	}

	switch strings.ToLower(in.Type) {
	case "deposit":
		tenor, err := calendar.ParsePeriod(in.Tenor)
		if err != nil {
			return nil, err
		}
		index, err := swaps.Leg(in.Index)
		if err != nil {
			return nil, err
		}
		q, err := add(tenor.String()+" deposit", Rate, in.Quote/100)
		if err != nil {
			return nil, err
		}
		return ratehelper.NewDeposit(q, tenor, days, index, ratehelper.WithSettings(m.Settings))

	case "fra":
		index, err := swaps.Leg(in.Index)
		if err != nil {
			return nil, err
		}
		end := in.Start + int(index.PayFrequency)
		q, err := add(fmt.Sprintf("%dx%d FRA", in.Start, end), Rate, in.Quote/100)
		if err != nil {
			return nil, err
		}
		return ratehelper.NewFRA(q, in.Start, days, index, ratehelper.WithSettings(m.Settings))

	case "swap", "ois":
		tenor, err := calendar.ParsePeriod(in.Tenor)
		if err != nil {
			return nil, err
		}
		fixed, err := swaps.Leg(in.Fixed)
		if err != nil {
			return nil, err
		}
		float, err := swaps.Leg(in.Float)
		if err != nil {
			return nil, err
		}
		opts := append([]ratehelper.Option(nil), common...)
		label := tenor.String() + " " + strings.ToLower(in.Type)
		if in.ForwardStart != "" {
			fwd, err := calendar.ParsePeriod(in.ForwardStart)
			if err != nil {
				return nil, err
			}
			opts = append(opts, ratehelper.WithForwardStart(fwd))
			label = fwd.String() + "x" + label
		}
		if in.Spread != 0 {
			opts = append(opts, ratehelper.WithSpread(in.Spread*1e-4))
		}
		q, err := add(label, Rate, in.Quote/100)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(in.Type, "ois") {
			return ratehelper.NewOIS(q, tenor, days, fixed, float, opts...)
		}
		return ratehelper.NewSwap(q, tenor, days, fixed, float, opts...)

	case "basis":
		tenor, err := calendar.ParsePeriod(in.Tenor)
		if err != nil {
			return nil, err
		}
		baseLeg, err := swaps.Leg(in.Base)
		if err != nil {
			return nil, err
		}
		otherLeg, err := swaps.Leg(in.Other)
		if err != nil {
			return nil, err
		}
		q, err := add(tenor.String()+" basis", Spread, in.Quote*1e-4)
		if err != nil {
			return nil, err
		}
		return ratehelper.NewBasisSwap(q, tenor, days, baseLeg, otherLeg, m.handle(in.BaseCurve), common...)

	case "bond":
		issue, err := utils.ParseDate(in.Issue)
		if err != nil {
			return nil, err
		}
		maturity, err := utils.ParseDate(in.Maturity)
		if err != nil {
			return nil, err
		}
		leg, err := swaps.Leg(in.Leg)
		if err != nil {
			return nil, err
		}
		b, err := bond.NewFixedRateBond(issue, maturity, in.Coupon/100, leg, days)
		if err != nil {
			return nil, err
		}
		q, err := add(in.Maturity+" bond", Price, in.Quote)
		if err != nil {
			return nil, err
		}
		return ratehelper.NewBond(q, b, ratehelper.WithSettings(m.Settings))
	}
	return nil, fmt.Errorf("unknown instrument type %q", in.Type)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
