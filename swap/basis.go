package swap

import (
	"fmt"
	"time"

	"github.com/meenmo/ratecurve/swap/market"
	"github.com/meenmo/ratecurve/termstructure"
)

// Basis is a float-vs-float tenor basis swap. The quoted spread is paid on the base leg:
// base index + spread against the other index flat.
type Basis struct {
	Notional float64
	// SpreadBP is the contractual spread on the base leg, in basis points.
	SpreadBP float64

	baseLeg, otherLeg market.LegConvention
	base, other       []SchedulePeriod
	effective         time.Time
	maturity          time.Time
}

// NewBasis generates both floating legs between effective and maturity.
func NewBasis(effective, maturity time.Time, baseLeg, otherLeg market.LegConvention) (*Basis, error) {
	if baseLeg.LegType != market.LegFloating || otherLeg.LegType != market.LegFloating {
		return nil, fmt.Errorf("NewBasis: both legs must be floating")
	}
	base, err := GenerateSchedule(effective, maturity, baseLeg)
	if err != nil {
		return nil, fmt.Errorf("NewBasis: base leg: %w", err)
	}
	other, err := GenerateSchedule(effective, maturity, otherLeg)
	if err != nil {
		return nil, fmt.Errorf("NewBasis: other leg: %w", err)
	}
	return &Basis{
		Notional:  1,
		baseLeg:   baseLeg,
		otherLeg:  otherLeg,
		base:      base,
		other:     other,
		effective: effective,
		maturity:  maturity,
	}, nil
}

// LatestDate is the last date either leg needs from a curve.
func (b *Basis) LatestDate() time.Time {
	last := b.base[len(b.base)-1].PayDate
	for _, p := range []SchedulePeriod{b.base[len(b.base)-1], b.other[len(b.other)-1]} {
		if p.EndDate.After(last) {
			last = p.EndDate
		}
		if p.PayDate.After(last) {
			last = p.PayDate
		}
	}
	return last
}

// FairSpread is the base-leg spread, in basis points, that equates both legs.
func (b *Basis) FairSpread(baseProj, otherProj, disc termstructure.Discounter) (float64, error) {
	a, err := annuity(b.base, b.baseLeg, disc)
	if err != nil {
		return 0, fmt.Errorf("FairSpread: %w", err)
	}
	if a == 0 {
		return 0, fmt.Errorf("FairSpread: %w", ErrZeroAnnuity)
	}
	pvBase, err := floatingPV(b.base, b.baseLeg, baseProj, disc)
	if err != nil {
		return 0, fmt.Errorf("FairSpread: base leg: %w", err)
	}
	pvOther, err := floatingPV(b.other, b.otherLeg, otherProj, disc)
	if err != nil {
		return 0, fmt.Errorf("FairSpread: other leg: %w", err)
	}
	return (pvOther - pvBase) / a * 1e4, nil
}

// NPV is the value to the receiver of the base leg plus spread.
func (b *Basis) NPV(baseProj, otherProj, disc termstructure.Discounter) (float64, error) {
	fair, err := b.FairSpread(baseProj, otherProj, disc)
	if err != nil {
		return 0, fmt.Errorf("NPV: %w", err)
	}
	a, err := annuity(b.base, b.baseLeg, disc)
	if err != nil {
		return 0, fmt.Errorf("NPV: %w", err)
	}
	return b.Notional * (b.SpreadBP - fair) * 1e-4 * a, nil
}
