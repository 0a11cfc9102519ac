package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/meenmo/ratecurve/daycount"
	"github.com/meenmo/ratecurve/observer"
	"github.com/meenmo/ratecurve/piecewise"
	"github.com/meenmo/ratecurve/rate"
)

// invalidations counts the notifications a curve receives.
type invalidations struct{ n int }

func (c *invalidations) Update() { c.n++ }

func (a *app) shockCmd() *cobra.Command {
	var (
		file   string
		name   string
		size   float64
		tenors []string
	)
	cmd := &cobra.Command{
		Use:   "shock",
		Short: "Bump one quote and show which curves rebuild and how their zero rates move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.load(file)
			if err != nil {
				return err
			}
			if _, ok := m.Book.Quote(name); !ok {
				return fmt.Errorf("unknown quote %q", name)
			}
			names, curves, err := selected(m, nil)
			if err != nil {
				return err
			}

			before := make([][]float64, len(curves))
			counters := make([]*invalidations, len(curves))
			for i, c := range curves {
				dates, err := tenorDates(c.ReferenceDate(), tenors)
				if err != nil {
					return err
				}
				if before[i], err = zeros(c, dates); err != nil {
					return fmt.Errorf("curve %q: %w", names[i], err)
				}
				counters[i] = &invalidations{}
				observer.Watch(counters[i], c)
			}

			was, now, err := m.Book.Bump(name, size)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s: %.10g -> %.10g\n", name, was, now)

			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
			header := "curve\tnotified\t"
			for _, t := range tenors {
				header += t + " bp\t"
			}
			fmt.Fprintln(w, header)
			for i, c := range curves {
				row := fmt.Sprintf("%s\t%d\t", names[i], counters[i].n)
				if counters[i].n > 0 {
					dates, _ := tenorDates(c.ReferenceDate(), tenors)
					after, err := zeros(c, dates)
					if err != nil {
						return fmt.Errorf("curve %q: %w", names[i], err)
					}
					for j := range after {
						row += fmt.Sprintf("%.4f\t", bp(after[j]-before[i][j]))
					}
				} else {
					for range tenors {
						row += "-\t"
					}
				}
				fmt.Fprintln(w, row)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "market definition (YAML)")
	cmd.Flags().StringVar(&name, "quote", "", "quote to bump, as named in the book")
	cmd.Flags().Float64Var(&size, "bp", 1, "bump size in basis points (hundredths of a point for prices)")
	cmd.Flags().StringSliceVar(&tenors, "dates", []string{"1Y", "2Y", "5Y", "10Y"}, "tenors to report")
	_ = cmd.MarkFlagRequired("quote")
	return cmd
}

func zeros(c *piecewise.Curve, dates []time.Time) ([]float64, error) {
	out := make([]float64, len(dates))
	for i, d := range dates {
		z, err := c.ZeroRate(d, daycount.Actual365Fixed, rate.Continuous, rate.NoFrequency, true)
		if err != nil {
			return nil, err
		}
		out[i] = z.Rate
	}
	return out, nil
}
