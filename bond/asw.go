package bond

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/ratecurve/swap"
	"github.com/meenmo/ratecurve/swap/market"
	"github.com/meenmo/ratecurve/termstructure"
	"github.com/meenmo/ratecurve/utils"
)

var errZeroPV01 = errors.New("floating leg PV01 is zero")

// ASWInput is a par asset swap: the bond's flows against a floating leg running from
// settlement to the last flow, both discounted on DiscountCurve.
type ASWInput struct {
	SettlementDate time.Time
	DirtyPrice     float64
	// Notional scales the floating leg; it must be on the same basis as the flows and price.
	Notional  float64
	Cashflows []Cashflow
	// FloatLeg is what the spread is quoted over, e.g. EURIBOR6M or ESTR.
	FloatLeg      market.LegConvention
	DiscountCurve termstructure.Discounter
}

func (in ASWInput) validate() error {
	switch {
	case in.SettlementDate.IsZero():
		return errors.New("settlement date is required")
	case in.Notional <= 0:
		return fmt.Errorf("notional must be positive, got %g", in.Notional)
	case in.DiscountCurve == nil:
		return swap.ErrNilCurve
	case len(in.Cashflows) == 0:
		return errors.New("no cashflows")
	}
	return nil
}

type ASWResult struct {
	SpreadBP float64
	// PVBondRF is the bond's flows after settlement valued on the discount curve.
	PVBondRF float64
	// PV01 is the value of 1bp running on the floating leg.
	PV01 float64
}

// ComputeASWSpread solves for the floating spread that makes the package worth par:
//
//	ASW = (PV_bond^{rf} - P_dirty) / PV01
func ComputeASWSpread(in ASWInput) (ASWResult, error) {
	if err := in.validate(); err != nil {
		return ASWResult{}, fmt.Errorf("ComputeASWSpread: %w", err)
	}

	var (
		maturity = in.SettlementDate
		res      ASWResult
	)
	for _, cf := range in.Cashflows {
		if cf.Date.Before(in.SettlementDate) {
			continue
		}
		if cf.Date.After(maturity) {
			maturity = cf.Date
		}
		df, err := in.DiscountCurve.Discount(cf.Date, false)
		if err != nil {
			return ASWResult{}, fmt.Errorf("ComputeASWSpread: %w", err)
		}
		res.PVBondRF += cf.Amount() * df
	}
	if !maturity.After(in.SettlementDate) {
		return ASWResult{}, fmt.Errorf("ComputeASWSpread: no flow after settlement %s", in.SettlementDate.Format(utils.DateLayout))
	}

	periods, err := swap.GenerateSchedule(in.SettlementDate, maturity, in.FloatLeg)
	if err != nil {
		return ASWResult{}, fmt.Errorf("ComputeASWSpread: floating leg: %w", err)
	}
	for _, p := range periods {
		if p.PayDate.Before(in.SettlementDate) {
			continue
		}
		df, err := in.DiscountCurve.Discount(p.PayDate, false)
		if err != nil {
			return ASWResult{}, fmt.Errorf("ComputeASWSpread: %w", err)
		}
		res.PV01 += in.Notional * 1e-4 * in.FloatLeg.DayCount.YearFraction(p.StartDate, p.EndDate) * df
	}
	if res.PV01 == 0 {
		return ASWResult{}, fmt.Errorf("ComputeASWSpread: %w", errZeroPV01)
	}
	res.SpreadBP = (res.PVBondRF - in.DirtyPrice) / res.PV01
	return res, nil
}

// AssetSwapSpread is ComputeASWSpread for this bond at a clean price per 100 face.
func (b *FixedRateBond) AssetSwapSpread(clean float64, settle time.Time, floatLeg market.LegConvention, disc termstructure.Discounter) (ASWResult, error) {
	return ComputeASWSpread(ASWInput{
		SettlementDate: settle,
		DirtyPrice:     clean + b.AccruedAmount(settle),
		Notional:       Face,
		Cashflows:      b.Cashflows(),
		FloatLeg:       floatLeg,
		DiscountCurve:  disc,
	})
}
