package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/ratecurve/swap/market"
	"github.com/meenmo/ratecurve/termstructure"
)

// Vanilla is a fixed-vs-floating swap with its schedules generated once at construction.
// The floating leg may reference an IBOR or an overnight index; for an overnight index the
// period rate is the compounded overnight rate implied by the projection curve.
type Vanilla struct {
	Notional  float64
	FixedRate float64
	// Spread is added to every floating fixing, as a decimal.
	Spread   float64
	Position Position

	effective, maturity time.Time
	fixedLeg, floatLeg  market.LegConvention
	fixed, float        []SchedulePeriod
}

// NewVanilla generates both legs between effective and the unadjusted maturity.
func NewVanilla(effective, maturity time.Time, fixedLeg, floatLeg market.LegConvention) (*Vanilla, error) {
	if fixedLeg.LegType != market.LegFixed {
		return nil, fmt.Errorf("NewVanilla: first leg must be fixed, got %s", fixedLeg.LegType)
	}
	if floatLeg.LegType != market.LegFloating {
		return nil, fmt.Errorf("NewVanilla: second leg must be floating, got %s", floatLeg.LegType)
	}
	fixed, err := GenerateSchedule(effective, maturity, fixedLeg)
	if err != nil {
		return nil, fmt.Errorf("NewVanilla: fixed leg: %w", err)
	}
	float, err := GenerateSchedule(effective, maturity, floatLeg)
	if err != nil {
		return nil, fmt.Errorf("NewVanilla: floating leg: %w", err)
	}
	return &Vanilla{
		Notional:  1,
		Position:  PositionReceive,
		effective: effective,
		maturity:  maturity,
		fixedLeg:  fixedLeg,
		floatLeg:  floatLeg,
		fixed:     fixed,
		float:     float,
	}, nil
}

// NewOIS is a Vanilla whose floating leg compounds an overnight index.
func NewOIS(effective, maturity time.Time, fixedLeg, overnightLeg market.LegConvention) (*Vanilla, error) {
	if !market.IsOvernight(overnightLeg.ReferenceRate) {
		return nil, fmt.Errorf("NewOIS: %s is not an overnight index", overnightLeg.ReferenceRate)
	}
	return NewVanilla(effective, maturity, fixedLeg, overnightLeg)
}

func (s *Vanilla) EffectiveDate() time.Time        { return s.effective }
func (s *Vanilla) MaturityDate() time.Time         { return s.maturity }
func (s *Vanilla) FixedSchedule() []SchedulePeriod { return s.fixed }
func (s *Vanilla) FloatSchedule() []SchedulePeriod { return s.float }

// LatestDate is the last date either leg needs from a curve.
func (s *Vanilla) LatestDate() time.Time {
	last := s.fixed[len(s.fixed)-1].PayDate
	for _, d := range []time.Time{s.float[len(s.float)-1].PayDate, s.float[len(s.float)-1].EndDate} {
		if d.After(last) {
			last = d
		}
	}
	return last
}

// FixedAnnuity is the discounted sum of fixed accruals per unit notional.
func (s *Vanilla) FixedAnnuity(disc termstructure.Discounter) (float64, error) {
	return annuity(s.fixed, s.fixedLeg, disc)
}

// FloatLegPV is the discounted floating leg per unit notional, spread included.
func (s *Vanilla) FloatLegPV(proj, disc termstructure.Discounter) (float64, error) {
	pv, err := floatingPV(s.float, s.floatLeg, proj, disc)
	if err != nil {
		return 0, err
	}
	if s.Spread != 0 {
		a, err := annuity(s.float, s.floatLeg, disc)
		if err != nil {
			return 0, err
		}
		pv += s.Spread * a
	}
	return pv, nil
}

// FairRate is the fixed rate that sets the swap's NPV to zero.
func (s *Vanilla) FairRate(proj, disc termstructure.Discounter) (float64, error) {
	a, err := s.FixedAnnuity(disc)
	if err != nil {
		return 0, fmt.Errorf("FairRate: %w", err)
	}
	if a == 0 {
		return 0, fmt.Errorf("FairRate: %w", ErrZeroAnnuity)
	}
	f, err := s.FloatLegPV(proj, disc)
	if err != nil {
		return 0, fmt.Errorf("FairRate: %w", err)
	}
	return f / a, nil
}

// NPV values both legs for the holder; a receiver gets the fixed leg and pays floating.
func (s *Vanilla) NPV(proj, disc termstructure.Discounter) (PV, error) {
	a, err := s.FixedAnnuity(disc)
	if err != nil {
		return PV{}, fmt.Errorf("NPV: fixed leg: %w", err)
	}
	f, err := s.FloatLegPV(proj, disc)
	if err != nil {
		return PV{}, fmt.Errorf("NPV: floating leg: %w", err)
	}
	sign := 1.0
	if s.Position == PositionPay {
		sign = -1.0
	}
	out := PV{
		FixedLegPV: sign * s.Notional * s.FixedRate * a,
		FloatLegPV: -sign * s.Notional * f,
	}
	out.TotalPV = out.FixedLegPV + out.FloatLegPV
	return out, nil
}

// ForwardRates returns the projected simple forward of every floating period.
func (s *Vanilla) ForwardRates(proj termstructure.Discounter) ([]ForwardRate, error) {
	if isNilInterface(proj) {
		return nil, ErrNilCurve
	}
	out := make([]ForwardRate, 0, len(s.float))
	for _, p := range s.float {
		r, err := forwardRate(proj, p.StartDate, p.EndDate, s.floatLeg)
		if err != nil {
			return nil, fmt.Errorf("ForwardRates: %w", err)
		}
		out = append(out, ForwardRate{FixingDate: p.FixingDate, StartDate: p.StartDate, EndDate: p.EndDate, Rate: r})
	}
	return out, nil
}

func forwardRate(proj termstructure.Discounter, start, end time.Time, leg market.LegConvention) (float64, error) {
	alpha := leg.DayCount.YearFraction(start, end)
	if alpha == 0 {
		return 0, nil
	}
	dfStart, err := proj.Discount(start, false)
	if err != nil {
		return 0, err
	}
	dfEnd, err := proj.Discount(end, false)
	if err != nil {
		return 0, err
	}
	return (dfStart/dfEnd - 1.0) / alpha, nil
}

func annuity(periods []SchedulePeriod, leg market.LegConvention, disc termstructure.Discounter) (float64, error) {
	if isNilInterface(disc) {
		return 0, ErrNilCurve
	}
	if len(periods) == 0 {
		return 0, ErrEmptySchedule
	}
	total := 0.0
	for _, p := range periods {
		df, err := disc.Discount(p.PayDate, false)
		if err != nil {
			return 0, err
		}
		total += leg.DayCount.YearFraction(p.StartDate, p.EndDate) * df
	}
	return total, nil
}

func floatingPV(periods []SchedulePeriod, leg market.LegConvention, proj, disc termstructure.Discounter) (float64, error) {
	if isNilInterface(proj) || isNilInterface(disc) {
		return 0, ErrNilCurve
	}
	if len(periods) == 0 {
		return 0, ErrEmptySchedule
	}
	total := 0.0
	for _, p := range periods {
		fwd, err := forwardRate(proj, p.StartDate, p.EndDate, leg)
		if err != nil {
			return 0, err
		}
		df, err := disc.Discount(p.PayDate, false)
		if err != nil {
			return 0, err
		}
		total += fwd * leg.DayCount.YearFraction(p.StartDate, p.EndDate) * df
	}
	return total, nil
}
