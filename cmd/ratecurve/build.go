package main

import (
	"fmt"
	"math"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/meenmo/ratecurve/daycount"
	"github.com/meenmo/ratecurve/piecewise"
	"github.com/meenmo/ratecurve/rate"
	"github.com/meenmo/ratecurve/utils"
)

type curveReport struct {
	Curve         string        `json:"curve"`
	Reference     string        `json:"reference"`
	Trait         string        `json:"trait"`
	Interpolation string        `json:"interpolation"`
	Algorithm     string        `json:"algorithm"`
	Passes        int           `json:"passes"`
	Evaluations   int           `json:"evaluations"`
	MaxError      float64       `json:"max_error"`
	Nodes         []pointReport `json:"nodes"`
	Points        []pointReport `json:"points,omitempty"`
}

type pointReport struct {
	Label    string   `json:"label,omitempty"`
	Date     string   `json:"date"`
	Time     float64  `json:"time"`
	Value    *float64 `json:"value,omitempty"`
	Discount float64  `json:"discount"`
	ZeroPct  float64  `json:"zero_pct"` // continuous ACT/365F, percent
}

func (a *app) buildCmd() *cobra.Command {
	var (
		file   string
		curves []string
		tenors []string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Bootstrap curves and print their pillars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.load(file)
			if err != nil {
				return err
			}
			names, built, err := selected(m, curves)
			if err != nil {
				return err
			}
			reports := make([]curveReport, len(built))
			for i, c := range built {
				if reports[i], err = report(names[i], c, tenors); err != nil {
					return fmt.Errorf("curve %q: %w", names[i], err)
				}
			}
			if asJSON {
				return a.writeJSON(reports)
			}
			printReports(a, reports)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "market definition (YAML)")
	cmd.Flags().StringSliceVar(&curves, "curve", nil, "curves to build (default all)")
	cmd.Flags().StringSliceVar(&tenors, "dates", nil, "extra tenors to report, e.g. 18M,12Y")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func report(name string, c *piecewise.Curve, tenors []string) (curveReport, error) {
	nodes, err := c.Nodes()
	if err != nil {
		return curveReport{}, err
	}
	stats := c.LastBootstrap()
	r := curveReport{
		Curve:         name,
		Reference:     c.ReferenceDate().Format(utils.DateLayout),
		Trait:         c.Trait().Name(),
		Interpolation: c.Interpolation().String(),
		Algorithm:     stats.Algorithm,
		Passes:        stats.Passes,
		Evaluations:   stats.Evaluations,
		MaxError:      stats.MaxError,
	}
	for _, n := range nodes {
		p, err := point(c, "", n.Date)
		if err != nil {
			return curveReport{}, err
		}
		v := n.Value
		p.Value = &v
		r.Nodes = append(r.Nodes, p)
	}
	dates, err := tenorDates(c.ReferenceDate(), tenors)
	if err != nil {
		return curveReport{}, err
	}
	for i, d := range dates {
		p, err := point(c, tenors[i], d)
		if err != nil {
			return curveReport{}, err
		}
		r.Points = append(r.Points, p)
	}
	return r, nil
}

func point(c *piecewise.Curve, label string, d time.Time) (pointReport, error) {
	df, err := c.Discount(d, true)
	if err != nil {
		return pointReport{}, err
	}
	z, err := c.ZeroRate(d, daycount.Actual365Fixed, rate.Continuous, rate.NoFrequency, true)
	if err != nil {
		return pointReport{}, err
	}
	return pointReport{
		Label:    label,
		Date:     d.Format(utils.DateLayout),
		Time:     c.TimeFromReference(d),
		Discount: df,
		ZeroPct:  z.Rate * 100,
	}, nil
}

func printReports(a *app, reports []curveReport) {
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}
		fmt.Fprintf(a.stdout, "%s  ref %s  %s/%s  %s: %d passes, %d evaluations, max error %.2e\n",
			r.Curve, r.Reference, r.Trait, r.Interpolation, r.Algorithm, r.Passes, r.Evaluations, r.MaxError)
		w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "date\ttime\tnode\tdiscount\tzero %\t")
		for _, p := range r.Nodes {
			fmt.Fprintf(w, "%s\t%.6f\t%.10f\t%.10f\t%.6f\t\n", p.Date, p.Time, *p.Value, p.Discount, p.ZeroPct)
		}
		for _, p := range r.Points {
			fmt.Fprintf(w, "%s %s\t%.6f\t\t%.10f\t%.6f\t\n", p.Label, p.Date, p.Time, p.Discount, p.ZeroPct)
		}
		_ = w.Flush()
	}
}

// bp converts a rate difference to basis points, keeping signed zero out of the output.
func bp(x float64) float64 {
	v := x * 1e4
	if math.Abs(v) < 5e-7 {
		return 0
	}
	return v
}
