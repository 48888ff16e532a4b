package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seenimoa/fundlens/internal/calculator"
	"github.com/seenimoa/fundlens/pkg/models"
)

// --- Calculator Commands ---

var sipCmd = &cobra.Command{
	Use:     "sip",
	Short:   "Project a monthly SIP",
	Example: `  fundlens sip --amount 5000 --rate 12 --years 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProjection(cmd, "SIP projection", calculator.SIP, calculator.SIPSchedule)
	},
}

var lumpsumCmd = &cobra.Command{
	Use:     "lumpsum",
	Short:   "Project a one-time investment",
	Example: `  fundlens lumpsum --amount 100000 --rate 12 --years 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProjection(cmd, "Lumpsum projection", calculator.Lumpsum, calculator.LumpsumSchedule)
	},
}

func init() {
	for _, c := range []*cobra.Command{sipCmd, lumpsumCmd} {
		c.Flags().Float64("amount", 0, "amount in rupees (monthly for SIP)")
		c.Flags().Float64("rate", 12, "expected annual return (%)")
		c.Flags().Int("years", 10, "investment horizon in years")
		c.Flags().Float64("tax-rate", -1, "flat tax rate on gains as a fraction (default calculator.tax_rate)")
		_ = c.MarkFlagRequired("amount")
	}
}

func runProjection(
	cmd *cobra.Command,
	title string,
	project func(float64, float64, int) (models.Projection, error),
	schedule func(float64, float64, int) ([]models.YearValue, error),
) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	amount, _ := cmd.Flags().GetFloat64("amount")
	rate, _ := cmd.Flags().GetFloat64("rate")
	years, _ := cmd.Flags().GetInt("years")
	taxRate, _ := cmd.Flags().GetFloat64("tax-rate")
	if !cmd.Flags().Changed("tax-rate") {
		taxRate = cfg.Calculator.TaxRate
	}

	p, err := project(amount, rate, years)
	if err != nil {
		return err
	}
	pt, err := calculator.PostTax(p, taxRate)
	if err != nil {
		return err
	}
	rows, err := schedule(amount, rate, years)
	if err != nil {
		return err
	}

	if format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"projection": p,
			"postTax":    pt,
			"schedule":   rows,
		})
	}
	return writeProjection(cmd.OutOrStdout(),
		fmt.Sprintf("%s: %g at %g%% for %d years", title, amount, rate, years), p, pt, rows)
}
