package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/meenmo/ratecurve/bond"
	"github.com/meenmo/ratecurve/calendar"
	"github.com/meenmo/ratecurve/instruments/swaps"
	"github.com/meenmo/ratecurve/marketdata"
	"github.com/meenmo/ratecurve/piecewise"
	"github.com/meenmo/ratecurve/swap"
	"github.com/meenmo/ratecurve/swap/market"
	"github.com/meenmo/ratecurve/utils"
)

type swapReport struct {
	Curve         string  `json:"curve"`
	Discount      string  `json:"discount"`
	EffectiveDate string  `json:"effective_date"`
	MaturityDate  string  `json:"maturity_date"`
	ParRatePct    float64 `json:"par_rate_pct"`
	FixedRatePct  float64 `json:"fixed_rate_pct"`
	Notional      float64 `json:"notional"`
	FixedLegPV    float64 `json:"fixed_leg_pv"`
	FloatingLegPV float64 `json:"floating_leg_pv"`
	TotalNPV      float64 `json:"total_npv"`
}

type basisReport struct {
	Base          string  `json:"base"`
	Other         string  `json:"other"`
	Discount      string  `json:"discount"`
	EffectiveDate string  `json:"effective_date"`
	MaturityDate  string  `json:"maturity_date"`
	FairSpreadBP  float64 `json:"fair_spread_bp"`
	SpreadBP      float64 `json:"spread_bp"`
	NPV           float64 `json:"npv"`
}

type aswReport struct {
	Curve          string  `json:"curve"`
	SettlementDate string  `json:"settlement_date"`
	MaturityDate   string  `json:"maturity_date"`
	CleanPrice     float64 `json:"clean_price"`
	DirtyPrice     float64 `json:"dirty_price"`
	YieldPct       float64 `json:"yield_pct"`
	ModelPrice     float64 `json:"model_clean_price"`
	PVRiskFree     float64 `json:"pv_risk_free"`
	PV01           float64 `json:"pv01"`
	ASWSpreadBP    float64 `json:"asw_spread_bp"`
}

// pricing holds the flags shared by every price subcommand.
type pricing struct {
	file           string
	asJSON         bool
	discount       string
	tenor          string
	forward        string
	settlementDays int
}

func (a *app) priceCmd() *cobra.Command {
	p := &pricing{}
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a swap, a basis swap or a bond asset swap off built curves",
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&p.file, "file", "f", "", "market definition (YAML)")
	pf.BoolVar(&p.asJSON, "json", false, "print JSON")
	pf.StringVar(&p.discount, "discount", "", "discounting curve (default the projection curve)")
	pf.IntVar(&p.settlementDays, "settlement-days", 2, "business days from the evaluation date to spot")
	cmd.AddCommand(a.priceSwapCmd(p), a.priceBasisCmd(p), a.priceASWCmd(p))
	return cmd
}

func (a *app) priceSwapCmd(p *pricing) *cobra.Command {
	var (
		curve, fixedName, floatName string
		fixedPct, notional          float64
		pay                         bool
	)
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Par rate and NPV of a fixed-vs-floating swap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.load(p.file)
			if err != nil {
				return err
			}
			fixedLeg, err := swaps.Leg(fixedName)
			if err != nil {
				return err
			}
			floatLeg, err := swaps.Leg(floatName)
			if err != nil {
				return err
			}
			proj, disc, discName, err := p.curves(m, curve)
			if err != nil {
				return err
			}
			effective, maturity, err := p.dates(m, floatLeg)
			if err != nil {
				return err
			}
			var s *swap.Vanilla
			if market.IsOvernight(floatLeg.ReferenceRate) {
				s, err = swap.NewOIS(effective, maturity, fixedLeg, floatLeg)
			} else {
				s, err = swap.NewVanilla(effective, maturity, fixedLeg, floatLeg)
			}
			if err != nil {
				return err
			}
			par, err := s.FairRate(proj, disc)
			if err != nil {
				return fmt.Errorf("par rate: %w", err)
			}
			s.Notional = notional
			s.FixedRate = par
			if cmd.Flags().Changed("rate") {
				s.FixedRate = fixedPct / 100
			}
			s.Position = swap.PositionReceive
			if pay {
				s.Position = swap.PositionPay
			}
			pv, err := s.NPV(proj, disc)
			if err != nil {
				return fmt.Errorf("npv: %w", err)
			}
			r := swapReport{
				Curve:         curve,
				Discount:      discName,
				EffectiveDate: effective.Format(utils.DateLayout),
				MaturityDate:  maturity.Format(utils.DateLayout),
				ParRatePct:    par * 100,
				FixedRatePct:  s.FixedRate * 100,
				Notional:      notional,
				FixedLegPV:    pv.FixedLegPV,
				FloatingLegPV: pv.FloatLegPV,
				TotalNPV:      pv.TotalPV,
			}
			if p.asJSON {
				return a.writeJSON(r)
			}
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "swap\t%s/%s on %s, discounted on %s\t\n", fixedName, floatName, curve, discName)
			fmt.Fprintf(w, "dates\t%s -> %s\t\n", r.EffectiveDate, r.MaturityDate)
			fmt.Fprintf(w, "par rate\t%.6f%%\t\n", r.ParRatePct)
			fmt.Fprintf(w, "fixed rate\t%.6f%%\t\n", r.FixedRatePct)
			fmt.Fprintf(w, "fixed leg PV\t%.2f\t\n", r.FixedLegPV)
			fmt.Fprintf(w, "floating leg PV\t%.2f\t\n", r.FloatingLegPV)
			fmt.Fprintf(w, "NPV\t%.2f\t\n", r.TotalNPV)
			return w.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVar(&curve, "curve", "", "projection curve")
	f.StringVar(&p.tenor, "tenor", "5Y", "swap tenor")
	f.StringVar(&p.forward, "forward", "", "forward start from spot, e.g. 1Y")
	f.StringVar(&fixedName, "fixed", "EUR-FIXED", "fixed leg preset")
	f.StringVar(&floatName, "float", "EURIBOR6M", "floating leg preset")
	f.Float64Var(&fixedPct, "rate", 0, "fixed rate in percent (default the par rate)")
	f.Float64Var(&notional, "notional", 1e6, "notional")
	f.BoolVar(&pay, "pay", false, "pay the fixed leg")
	_ = cmd.MarkFlagRequired("curve")
	return cmd
}

func (a *app) priceBasisCmd(p *pricing) *cobra.Command {
	var (
		baseCurve, otherCurve string
		baseName, otherName   string
		spreadBP, notional    float64
	)
	cmd := &cobra.Command{
		Use:   "basis",
		Short: "Fair spread of a floating-vs-floating basis swap, paid on the base leg",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.load(p.file)
			if err != nil {
				return err
			}
			baseLeg, err := swaps.Leg(baseName)
			if err != nil {
				return err
			}
			otherLeg, err := swaps.Leg(otherName)
			if err != nil {
				return err
			}
			baseProj, disc, discName, err := p.curves(m, baseCurve)
			if err != nil {
				return err
			}
			otherProj, err := m.Curve(otherCurve)
			if err != nil {
				return err
			}
			effective, maturity, err := p.dates(m, otherLeg)
			if err != nil {
				return err
			}
			b, err := swap.NewBasis(effective, maturity, baseLeg, otherLeg)
			if err != nil {
				return err
			}
			fair, err := b.FairSpread(baseProj, otherProj, disc)
			if err != nil {
				return fmt.Errorf("fair spread: %w", err)
			}
			b.Notional = notional
			b.SpreadBP = fair
			if cmd.Flags().Changed("spread") {
				b.SpreadBP = spreadBP
			}
			npv, err := b.NPV(baseProj, otherProj, disc)
			if err != nil {
				return err
			}
			r := basisReport{
				Base:          baseCurve,
				Other:         otherCurve,
				Discount:      discName,
				EffectiveDate: effective.Format(utils.DateLayout),
				MaturityDate:  maturity.Format(utils.DateLayout),
				FairSpreadBP:  fair,
				SpreadBP:      b.SpreadBP,
				NPV:           npv,
			}
			if p.asJSON {
				return a.writeJSON(r)
			}
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "basis\t%s on %s vs %s on %s, discounted on %s\t\n", baseName, baseCurve, otherName, otherCurve, discName)
			fmt.Fprintf(w, "dates\t%s -> %s\t\n", r.EffectiveDate, r.MaturityDate)
			fmt.Fprintf(w, "fair spread\t%.4f bp\t\n", r.FairSpreadBP)
			fmt.Fprintf(w, "NPV\t%.2f\t\n", r.NPV)
			return w.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVar(&baseCurve, "base", "", "projection curve of the base leg")
	f.StringVar(&otherCurve, "other", "", "projection curve of the other leg")
	f.StringVar(&baseName, "base-leg", "EURIBOR6M", "base leg preset")
	f.StringVar(&otherName, "other-leg", "EURIBOR3M", "other leg preset")
	f.StringVar(&p.tenor, "tenor", "5Y", "swap tenor")
	f.Float64Var(&spreadBP, "spread", 0, "contract spread in bp (default the fair spread)")
	f.Float64Var(&notional, "notional", 1e6, "notional")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("other")
	return cmd
}

func (a *app) priceASWCmd(p *pricing) *cobra.Command {
	var (
		curve, issue, maturity string
		bondLeg, floatName     string
		couponPct, clean       float64
	)
	cmd := &cobra.Command{
		Use:   "asw",
		Short: "Par asset swap spread and yield of a fixed-rate bond",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.load(p.file)
			if err != nil {
				return err
			}
			issueDate, err := utils.ParseDate(issue)
			if err != nil {
				return fmt.Errorf("--issue: %w", err)
			}
			maturityDate, err := utils.ParseDate(maturity)
			if err != nil {
				return fmt.Errorf("--maturity: %w", err)
			}
			leg, err := swaps.Leg(bondLeg)
			if err != nil {
				return err
			}
			floatLeg, err := swaps.Leg(floatName)
			if err != nil {
				return err
			}
			b, err := bond.NewFixedRateBond(issueDate, maturityDate, couponPct/100, leg, p.settlementDays)
			if err != nil {
				return err
			}
			_, disc, _, err := p.curves(m, curve)
			if err != nil {
				return err
			}
			settle := b.SettlementDate(m.Settings.EvaluationDate())
			model, err := b.CleanPrice(disc, settle)
			if err != nil {
				return fmt.Errorf("model price: %w", err)
			}
			if !cmd.Flags().Changed("price") {
				clean = model
			}
			dirty := clean + b.AccruedAmount(settle)
			y, err := b.Yield(clean, settle)
			if err != nil {
				return fmt.Errorf("yield: %w", err)
			}
			res, err := b.AssetSwapSpread(clean, settle, floatLeg, disc)
			if err != nil {
				return err
			}
			r := aswReport{
				Curve:          curve,
				SettlementDate: settle.Format(utils.DateLayout),
				MaturityDate:   maturityDate.Format(utils.DateLayout),
				CleanPrice:     clean,
				DirtyPrice:     dirty,
				YieldPct:       y * 100,
				ModelPrice:     model,
				PVRiskFree:     res.PVBondRF,
				PV01:           res.PV01,
				ASWSpreadBP:    res.SpreadBP,
			}
			if p.asJSON {
				return a.writeJSON(r)
			}
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "bond\t%.3f%% %s, settles %s on %s\t\n", couponPct, r.MaturityDate, r.SettlementDate, curve)
			fmt.Fprintf(w, "clean / dirty\t%.6f / %.6f\t\n", r.CleanPrice, r.DirtyPrice)
			fmt.Fprintf(w, "yield\t%.6f%%\t\n", r.YieldPct)
			fmt.Fprintf(w, "model clean\t%.6f\t\n", r.ModelPrice)
			fmt.Fprintf(w, "ASW spread\t%.4f bp over %s\t\n", r.ASWSpreadBP, floatName)
			return w.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVar(&curve, "curve", "", "discounting curve")
	f.StringVar(&issue, "issue", "", "issue date (YYYY-MM-DD)")
	f.StringVar(&maturity, "maturity", "", "maturity date (YYYY-MM-DD)")
	f.Float64Var(&couponPct, "coupon", 0, "annual coupon in percent")
	f.Float64Var(&clean, "price", 0, "clean price per 100 (default the model price)")
	f.StringVar(&bondLeg, "leg", "EUR-FIXED", "coupon leg preset")
	f.StringVar(&floatName, "float", "ESTR", "floating leg the spread is quoted over")
	for _, name := range []string{"curve", "issue", "maturity", "coupon"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// curves resolves the projection curve and the discounting curve, which defaults to it.
func (p *pricing) curves(m *marketdata.Market, name string) (proj, disc *piecewise.Curve, discName string, err error) {
	if proj, err = m.Curve(name); err != nil {
		return nil, nil, "", err
	}
	discName = name
	disc = proj
	if p.discount != "" {
		discName = p.discount
		if disc, err = m.Curve(p.discount); err != nil {
			return nil, nil, "", err
		}
	}
	return proj, disc, discName, nil
}

// dates follows the swap helpers: spot from the evaluation date on the floating leg's calendar.
func (p *pricing) dates(m *marketdata.Market, floatLeg market.LegConvention) (effective, maturity time.Time, err error) {
	tenor, err := calendar.ParsePeriod(p.tenor)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--tenor: %w", err)
	}
	var fwd calendar.Period
	if p.forward != "" {
		if fwd, err = calendar.ParsePeriod(p.forward); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--forward: %w", err)
		}
	}
	eom := floatLeg.RollConvention == market.BackwardEOM
	_, effective, maturity = swap.SpotEffectiveMaturity(m.Settings.EvaluationDate(), floatLeg.Calendar, p.settlementDays, fwd, tenor, eom)
	return effective, maturity, nil
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
