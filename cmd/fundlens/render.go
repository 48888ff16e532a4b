package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/seenimoa/fundlens/internal/dataset"
	"github.com/seenimoa/fundlens/pkg/models"
	"github.com/seenimoa/fundlens/pkg/utils"
)

// Output formats for --format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	// numbers groups thousands for counts and AUM.
	numbers = message.NewPrinter(language.English)
)

func outputFormat(cmd *cobra.Command) (string, error) {
	f, _ := cmd.Flags().GetString("format")
	switch f = strings.ToLower(f); f {
	case formatTable, formatJSON, formatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or csv)", f)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// newTable returns a bordered table with styled headers.
func newTable(headers ...string) *table.Table {
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = headerStyle.Render(h)
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(styled...)
}

// writeFunds renders a fund list in the chosen format.
func writeFunds(w io.Writer, format string, funds []models.Fund) error {
	switch format {
	case formatJSON:
		if funds == nil {
			funds = []models.Fund{}
		}
		return writeJSON(w, funds)
	case formatCSV:
		return dataset.WriteCSV(w, funds)
	}

	if len(funds) == 0 {
		_, err := fmt.Fprintln(w, "No funds match.")
		return err
	}
	t := newTable("ID", "Scheme", "AMC", "Category", "NAV", "1Y", "3Y", "5Y", "Expense", "AUM (Cr)", "Risk")
	for _, f := range funds {
		t.Row(
			f.ID,
			f.SchemeName,
			f.AMC,
			categoryLabel(f),
			fmt.Sprintf("%.2f", f.NAV),
			utils.FormatReturn(f.Returns.OneYear),
			utils.FormatReturn(f.Returns.ThreeYear),
			utils.FormatReturn(f.Returns.FiveYear),
			fmt.Sprintf("%.2f%%", f.ExpenseRatio),
			numbers.Sprintf("%.0f", f.AUM),
			f.RiskRating.Label(),
		)
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", t.Render(), numbers.Sprintf("%d funds", len(funds)))
	return err
}

func categoryLabel(f models.Fund) string {
	if f.SubCategory == "" {
		return string(f.Category)
	}
	return string(f.Category) + " / " + f.SubCategory
}

// writeFundDetail renders one fund as a bordered card.
func writeFundDetail(w io.Writer, f models.Fund) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n\n", titleStyle.Render(f.SchemeName), f.AMC)

	rows := [][2]string{
		{"ID", f.ID},
		{"Scheme code", f.SchemeCode},
		{"Category", categoryLabel(f)},
		{"NAV", fmt.Sprintf("%.4f", f.NAV)},
		{"Returns 1Y / 3Y / 5Y", fmt.Sprintf("%s / %s / %s",
			utils.FormatReturn(f.Returns.OneYear),
			utils.FormatReturn(f.Returns.ThreeYear),
			utils.FormatReturn(f.Returns.FiveYear))},
		{"Expense ratio", fmt.Sprintf("%.2f%%", f.ExpenseRatio)},
		{"AUM", utils.FormatCrores(f.AUM) + " (" + string(f.AUMCategory) + ")"},
		{"Risk", fmt.Sprintf("%d - %s", f.RiskRating, f.RiskRating.Label())},
		{"Inception", inceptionLabel(f.InceptionDate)},
	}
	if f.FundManager != "" {
		rows = append(rows, [2]string{"Fund manager", f.FundManager})
	}
	if f.MinSIPAmount > 0 {
		rows = append(rows, [2]string{"Min SIP", utils.FormatINR(f.MinSIPAmount)})
	}
	if f.MinLumpsum > 0 {
		rows = append(rows, [2]string{"Min lumpsum", utils.FormatINR(f.MinLumpsum)})
	}
	if f.ExitLoad != "" {
		rows = append(rows, [2]string{"Exit load", f.ExitLoad})
	}
	for _, m := range []struct {
		name string
		v    *float64
	}{
		{"Std deviation", f.StandardDeviation},
		{"Sharpe ratio", f.SharpeRatio},
		{"Treynor ratio", f.TreynorRatio},
		{"Beta", f.Beta},
		{"Alpha", f.Alpha},
		{"CAGR", f.CAGR},
		{"Max drawdown", f.MaxDrawdown},
	} {
		if m.v != nil {
			rows = append(rows, [2]string{m.name, fmt.Sprintf("%.2f", *m.v)})
		}
	}

	for _, r := range rows {
		fmt.Fprintf(&sb, "%-22s %s\n", r[0]+":", r[1])
	}
	if !f.AUMCategoryConsistent() {
		fmt.Fprintf(&sb, "\n%s", warningStyle.Render(fmt.Sprintf(
			"AUM bucket %q does not match %s", f.AUMCategory, utils.FormatCrores(f.AUM))))
	}

	_, err := fmt.Fprintln(w, lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		Render(strings.TrimRight(sb.String(), "\n")))
	return err
}

// writeComparison renders funds side by side, one column per fund.
func writeComparison(w io.Writer, funds []models.Fund) error {
	headers := []string{"Metric"}
	for _, f := range funds {
		headers = append(headers, f.ID)
	}
	t := newTable(headers...)

	row := func(name string, cell func(f models.Fund) string) {
		cells := []string{name}
		for _, f := range funds {
			cells = append(cells, cell(f))
		}
		t.Row(cells...)
	}
	row("Scheme", func(f models.Fund) string { return f.SchemeName })
	row("AMC", func(f models.Fund) string { return f.AMC })
	row("Category", categoryLabel)
	row("NAV", func(f models.Fund) string { return fmt.Sprintf("%.2f", f.NAV) })
	row("1Y return", func(f models.Fund) string { return utils.FormatReturn(f.Returns.OneYear) })
	row("3Y return", func(f models.Fund) string { return utils.FormatReturn(f.Returns.ThreeYear) })
	row("5Y return", func(f models.Fund) string { return utils.FormatReturn(f.Returns.FiveYear) })
	row("Expense ratio", func(f models.Fund) string { return fmt.Sprintf("%.2f%%", f.ExpenseRatio) })
	row("AUM", func(f models.Fund) string { return utils.FormatCrores(f.AUM) })
	row("Risk", func(f models.Fund) string { return f.RiskRating.DisplayLabel() })
	row("Min SIP", func(f models.Fund) string { return amountOrDash(f.MinSIPAmount) })
	row("Exit load", func(f models.Fund) string { return orDash(f.ExitLoad) })
	row("Fund manager", func(f models.Fund) string { return orDash(f.FundManager) })

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func inceptionLabel(date string) string {
	if date == "" {
		return "-"
	}
	years := utils.YearsSince(date, utils.NowIST())
	if years == 1 {
		return date + " (1 year)"
	}
	return fmt.Sprintf("%s (%d years)", date, years)
}

func amountOrDash(v float64) string {
	if v <= 0 {
		return "-"
	}
	return utils.FormatINR(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// writeProjection renders a calculator result and its yearly schedule.
func writeProjection(w io.Writer, title string, p models.Projection, pt models.PostTax, schedule []models.YearValue) error {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintf(w, "  %-20s %s\n", "Total invested:", utils.FormatINR(p.TotalInvested))
	fmt.Fprintf(w, "  %-20s %s\n", "Estimated returns:", utils.FormatINR(p.EstimatedReturns))
	fmt.Fprintf(w, "  %-20s %s\n", "Maturity value:", utils.FormatINR(p.MaturityValue))
	fmt.Fprintf(w, "  %-20s %s\n", fmt.Sprintf("Tax (%g%%):", pt.TaxRate*100), utils.FormatINR(pt.Tax))
	fmt.Fprintf(w, "  %-20s %s\n", "Post-tax value:", utils.FormatINR(pt.PostTaxValue))

	t := newTable("Year", "Invested", "Value", "Gain")
	for _, y := range schedule {
		t.Row(
			fmt.Sprintf("%d", y.Year),
			utils.FormatINRCompact(y.Invested),
			utils.FormatINRCompact(y.Value),
			utils.FormatINRCompact(y.Value-y.Invested),
		)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
