package ratehelper

import (
	"fmt"
	"time"

	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/handle"
	"github.com/meenmo/ratecurve/observer"
	"github.com/meenmo/ratecurve/quote"
	"github.com/meenmo/ratecurve/swap"
	"github.com/meenmo/ratecurve/swap/market"
	"github.com/meenmo/ratecurve/termstructure"
)

// Swap calibrates to a par fixed-vs-floating swap rate. The curve being built projects the
// floating leg; it also discounts unless WithDiscountCurve is given.
type Swap struct {
	*base
	tenor          calendar.Period
	settlementDays int
	fixedLeg       market.LegConvention
	floatLeg       market.LegConvention
	forwardStart   calendar.Period
	spread         float64
	discount       handle.Handle[termstructure.YieldCurve]
	swap           *swap.Vanilla
	overnight      bool
}

// NewSwap quotes a spot (or forward-start) par swap of the given tenor.
func NewSwap(q handle.Handle[*quote.Quote], tenor calendar.Period, settlementDays int, fixedLeg, floatLeg market.LegConvention, opts ...Option) (*Swap, error) {
	s, err := newSwap(q, tenor, settlementDays, fixedLeg, floatLeg, false, opts)
	if err != nil {
		return nil, fmt.Errorf("NewSwap: %w", err)
	}
	return s, nil
}

// NewOIS quotes a par overnight indexed swap. The overnight leg compounds daily; with a
// payment lag the pillar is the last payment date.
func NewOIS(q handle.Handle[*quote.Quote], tenor calendar.Period, settlementDays int, fixedLeg, overnightLeg market.LegConvention, opts ...Option) (*Swap, error) {
	if !market.IsOvernight(overnightLeg.ReferenceRate) {
		return nil, fmt.Errorf("NewOIS: %s is not an overnight index", overnightLeg.ReferenceRate)
	}
	s, err := newSwap(q, tenor, settlementDays, fixedLeg, overnightLeg, true, opts)
	if err != nil {
		return nil, fmt.Errorf("NewOIS: %w", err)
	}
	return s, nil
}

func newSwap(q handle.Handle[*quote.Quote], tenor calendar.Period, settlementDays int, fixedLeg, floatLeg market.LegConvention, overnight bool, opts []Option) (*Swap, error) {
	o := collect(opts)
	name := fmt.Sprintf("%s swap", tenor)
	if overnight {
		name = fmt.Sprintf("%s %s OIS", tenor, floatLeg.ReferenceRate)
	}
	if o.forwardStart.Length > 0 {
		name = fmt.Sprintf("%sx%s", o.forwardStart, name)
	}
	s := &Swap{
		base:           newBase(name, q, o, true),
		tenor:          tenor,
		settlementDays: settlementDays,
		fixedLeg:       fixedLeg,
		floatLeg:       floatLeg,
		forwardStart:   o.forwardStart,
		spread:         o.spread,
		discount:       o.discount,
		overnight:      overnight,
	}
	s.schedule = s.buildDates
	s.implied = s.fairRate
	if o.discount.Notifier() != nil {
		s.watch = append(s.watch, o.discount)
	}
	if err := s.register(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Swap) buildDates(trade time.Time) (helperDates, error) {
	eom := s.floatLeg.RollConvention == market.BackwardEOM
	_, effective, maturity := swap.SpotEffectiveMaturity(trade, s.floatLeg.Calendar, s.settlementDays, s.forwardStart, s.tenor, eom)
	var (
		v   *swap.Vanilla
		err error
	)
	if s.overnight {
		v, err = swap.NewOIS(effective, maturity, s.fixedLeg, s.floatLeg)
	} else {
		v, err = swap.NewVanilla(effective, maturity, s.fixedLeg, s.floatLeg)
	}
	if err != nil {
		return helperDates{}, err
	}
	v.Spread = s.spread
	s.swap = v
	latest := v.LatestDate()
	return helperDates{earliest: v.FloatSchedule()[0].StartDate, pillar: latest, latest: latest}, nil
}

func (s *Swap) fairRate(ts termstructure.Discounter) (float64, error) {
	disc, err := discounter(s.discount, ts)
	if err != nil {
		return 0, err
	}
	return s.swap.FairRate(ts, disc)
}

// Underlying is the swap built for the current trade date.
func (s *Swap) Underlying() *swap.Vanilla { return s.swap }

// BasisSwap calibrates a projection curve to a tenor basis spread. The base leg is projected
// on an exogenous curve and pays the quoted spread; the other leg is projected on the curve
// being built.
type BasisSwap struct {
	*base
	tenor          calendar.Period
	settlementDays int
	baseLeg        market.LegConvention
	otherLeg       market.LegConvention
	baseCurve      handle.Handle[termstructure.YieldCurve]
	discount       handle.Handle[termstructure.YieldCurve]
	swap           *swap.Basis
}

// NewBasisSwap quotes baseLeg + spread against otherLeg flat; the quote is a decimal spread.
func NewBasisSwap(q handle.Handle[*quote.Quote], tenor calendar.Period, settlementDays int, baseLeg, otherLeg market.LegConvention, baseCurve handle.Handle[termstructure.YieldCurve], opts ...Option) (*BasisSwap, error) {
	if baseCurve.Notifier() == nil {
		return nil, fmt.Errorf("NewBasisSwap: base leg projection curve is required")
	}
	o := collect(opts)
	b := &BasisSwap{
		base:           newBase(fmt.Sprintf("%s %s/%s basis", tenor, baseLeg.ReferenceRate, otherLeg.ReferenceRate), q, o, false),
		tenor:          tenor,
		settlementDays: settlementDays,
		baseLeg:        baseLeg,
		otherLeg:       otherLeg,
		baseCurve:      baseCurve,
		discount:       o.discount,
	}
	b.schedule = b.buildDates
	b.implied = b.fairSpread
	b.watch = []observer.Subject{baseCurve}
	if o.discount.Notifier() != nil {
		b.watch = append(b.watch, o.discount)
	}
	if err := b.register(); err != nil {
		return nil, fmt.Errorf("NewBasisSwap: %w", err)
	}
	return b, nil
}

func (b *BasisSwap) buildDates(trade time.Time) (helperDates, error) {
	eom := b.otherLeg.RollConvention == market.BackwardEOM
	_, effective, maturity := swap.SpotEffectiveMaturity(trade, b.otherLeg.Calendar, b.settlementDays, calendar.Period{}, b.tenor, eom)
	s, err := swap.NewBasis(effective, maturity, b.baseLeg, b.otherLeg)
	if err != nil {
		return helperDates{}, err
	}
	b.swap = s
	latest := s.LatestDate()
	return helperDates{earliest: effective, pillar: latest, latest: latest}, nil
}

func (b *BasisSwap) fairSpread(ts termstructure.Discounter) (float64, error) {
	baseProj, err := b.baseCurve.Current()
	if err != nil {
		return 0, err
	}
	disc, err := discounter(b.discount, ts)
	if err != nil {
		return 0, err
	}
	bp, err := b.swap.FairSpread(baseProj, ts, disc)
	if err != nil {
		return 0, err
	}
	return bp * 1e-4, nil
}
