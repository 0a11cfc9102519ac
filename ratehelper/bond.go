package ratehelper

import (
	"fmt"
	"time"

	"github.com/meenmo/ratecurve/bond"
	"github.com/meenmo/ratecurve/handle"
	"github.com/meenmo/ratecurve/quote"
	"github.com/meenmo/ratecurve/termstructure"
)

// Bond calibrates to the clean price, per 100 face, of a fixed-rate bond.
type Bond struct {
	*base
	bond   *bond.FixedRateBond
	settle time.Time
}

// NewBond quotes b at a clean price settling b.SettlementDays after the trade date.
func NewBond(price handle.Handle[*quote.Quote], b *bond.FixedRateBond, opts ...Option) (*Bond, error) {
	o := collect(opts)
	h := &Bond{
		base: newBase(fmt.Sprintf("bond %s", b.MaturityDate().Format("2006-01-02")), price, o, false),
		bond: b,
	}
	h.schedule = h.buildDates
	h.implied = h.cleanPrice
	if err := h.register(); err != nil {
		return nil, fmt.Errorf("NewBond: %w", err)
	}
	return h, nil
}

func (h *Bond) buildDates(trade time.Time) (helperDates, error) {
	h.settle = h.bond.SettlementDate(trade)
	last := h.bond.LastPaymentDate()
	if !last.After(h.settle) {
		return helperDates{}, fmt.Errorf("bond matured on %s, before settlement %s", last.Format("2006-01-02"), h.settle.Format("2006-01-02"))
	}
	return helperDates{earliest: h.settle, pillar: last, latest: last}, nil
}

func (h *Bond) cleanPrice(ts termstructure.Discounter) (float64, error) {
	return h.bond.CleanPrice(ts, h.settle)
}

// Bond returns the calibrating bond.
func (h *Bond) Bond() *bond.FixedRateBond { return h.bond }

// SettlementDate is the settlement the price is quoted for.
func (h *Bond) SettlementDate() time.Time { return h.settle }
