package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) repriceCmd() *cobra.Command {
	var (
		file      string
		curves    []string
		tolerance float64
	)
	cmd := &cobra.Command{
		Use:   "reprice",
		Short: "Check that every instrument reprices to its quote on its curve",
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
			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "curve\tinstrument\tpillar\tquote\timplied\terror\t")
			failed := 0
			for i, c := range built {
				for _, h := range c.Helpers() {
					q, err := h.QuoteValue()
					if err != nil {
						return fmt.Errorf("%s %s: %w", names[i], h, err)
					}
					implied, err := h.ImpliedQuote(c)
					if err != nil {
						return fmt.Errorf("%s %s: %w", names[i], h, err)
					}
					diff := implied - q
					mark := ""
					if math.Abs(diff) > tolerance {
						failed++
						mark = "  FAIL"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%.10f\t%.10f\t%.2e%s\t\n",
						names[i], h, h.PillarDate().Format("2006-01-02"), q, implied, diff, mark)
				}
			}
			_ = w.Flush()
			if failed > 0 {
				return &exitError{code: 1, msg: fmt.Sprintf("%d instruments off by more than %.1e", failed, tolerance)}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "market definition (YAML)")
	cmd.Flags().StringSliceVar(&curves, "curve", nil, "curves to check (default all)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-8, "largest accepted |implied - quote|")
	return cmd
}
