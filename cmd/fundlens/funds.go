package main

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seenimoa/fundlens/internal/calculator"
	"github.com/seenimoa/fundlens/internal/repository"
	"github.com/seenimoa/fundlens/internal/screener"
	"github.com/seenimoa/fundlens/internal/synthetic"
	"github.com/seenimoa/fundlens/pkg/models"
	"github.com/seenimoa/fundlens/pkg/utils"
)

// filterFlags maps screener flags to their query-string keys so the CLI and
// the HTTP API share one parser.
var filterFlags = []struct {
	flag, key, usage string
}{
	{"category", "category", "category: Equity, Debt, Hybrid, Solution Oriented, Other"},
	{"sub-category", "subCategory", "sub-category, e.g. \"Large Cap\""},
	{"amc", "amc", "fund house, e.g. \"HDFC Mutual Fund\""},
	{"aum-category", "aumCategory", "AUM bucket: Small, Mid or Large"},
	{"search", "searchQuery", "case-insensitive search on scheme name and AMC"},
	{"ids", "fundIds", "comma-separated fund ids (overrides other filters)"},
	{"min-return-1y", "minReturn1Y", "minimum 1Y return (%)"},
	{"max-return-1y", "maxReturn1Y", "maximum 1Y return (%)"},
	{"min-return-3y", "minReturn3Y", "minimum 3Y return (%)"},
	{"max-return-3y", "maxReturn3Y", "maximum 3Y return (%)"},
	{"min-return-5y", "minReturn5Y", "minimum 5Y return (%)"},
	{"max-return-5y", "maxReturn5Y", "maximum 5Y return (%)"},
	{"min-expense", "minExpenseRatio", "minimum expense ratio (%)"},
	{"max-expense", "maxExpenseRatio", "maximum expense ratio (%)"},
	{"min-aum", "minAUM", "minimum AUM (crores)"},
	{"max-aum", "maxAUM", "maximum AUM (crores)"},
	{"min-sharpe", "minSharpeRatio", "minimum Sharpe ratio"},
	{"max-beta", "maxBeta", "maximum beta"},
	{"min-alpha", "minAlpha", "minimum alpha"},
	{"max-std-dev", "maxStandardDeviation", "maximum standard deviation"},
	{"max-risk", "maxRiskRating", "maximum risk rating (1-5)"},
}

// --- Funds Command ---

var fundsCmd = &cobra.Command{
	Use:   "funds",
	Short: "List and screen funds",
	Example: `  fundlens funds --category Equity --min-return-3y 15
  fundlens funds --screen tax-savers
  fundlens funds --amc "HDFC Mutual Fund" -o csv > hdfc.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		if list, _ := cmd.Flags().GetBool("list-screens"); list {
			return writeScreens(cmd, format)
		}

		var c models.Criteria
		if id, _ := cmd.Flags().GetString("screen"); id != "" {
			sc, err := screener.LookupScreen(id)
			if err != nil {
				return fmt.Errorf("%w: %q (see --list-screens)", err, id)
			}
			c = sc.Criteria
		} else {
			q := url.Values{}
			for _, f := range filterFlags {
				if cmd.Flags().Changed(f.flag) {
					v, _ := cmd.Flags().GetString(f.flag)
					q.Set(f.key, v)
				}
			}
			if c, err = screener.ParseQuery(q); err != nil {
				return err
			}
		}

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()
		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		funds, err := a.facade.ListFunds(ctx, c)
		if err != nil {
			return err
		}
		return writeFunds(cmd.OutOrStdout(), format, funds)
	},
}

func init() {
	for _, f := range filterFlags {
		fundsCmd.Flags().String(f.flag, "", f.usage)
	}
	fundsCmd.Flags().String("screen", "", "run a preset screen by id")
	fundsCmd.Flags().Bool("list-screens", false, "list the preset screens")
}

func writeScreens(cmd *cobra.Command, format string) error {
	screens := screener.Screens()
	if format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), screens)
	}
	t := newTable("ID", "Name", "Description", "Query")
	for _, s := range screens {
		t.Row(s.ID, s.Name, s.Description, screener.Encode(s.Criteria).Encode())
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return err
}

// --- Fund Command ---

var fundCmd = &cobra.Command{
	Use:   "fund [id]",
	Short: "Show one fund",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()
		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := a.facade.GetFund(ctx, args[0])
		if err != nil {
			return err
		}

		switch format {
		case formatJSON:
			return writeJSON(cmd.OutOrStdout(), f)
		case formatCSV:
			return writeFunds(cmd.OutOrStdout(), format, []models.Fund{*f})
		}
		return writeFundDetail(cmd.OutOrStdout(), *f)
	},
}

// --- Top Command ---

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank funds by trailing return",
	Example: `  fundlens top
  fundlens top --period 5Y --limit 5 --category Debt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		raw, _ := cmd.Flags().GetString("period")
		period, err := models.ParsePeriod(raw)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		category, _ := cmd.Flags().GetString("category")
		if category != "" && !models.Category(category).Valid() {
			return fmt.Errorf("unknown category %q", category)
		}

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()
		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		funds, err := a.facade.TopFunds(ctx, period, limit, models.Category(category))
		if err != nil {
			return err
		}
		return writeFunds(cmd.OutOrStdout(), format, funds)
	},
}

func init() {
	topCmd.Flags().String("period", string(models.Period1Y), "return period: 1Y, 3Y or 5Y")
	topCmd.Flags().Int("limit", repository.DefaultTopLimit, "number of funds")
	topCmd.Flags().String("category", "", "restrict to one category")
}

// --- AMCs Command ---

var amcsCmd = &cobra.Command{
	Use:   "amcs",
	Short: "List fund houses",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd.Context())
		defer cancel()
		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		amcs, err := a.facade.AMCs(ctx)
		if err != nil {
			return err
		}
		if format == formatJSON {
			return writeJSON(cmd.OutOrStdout(), amcs)
		}
		for _, name := range amcs {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

// --- Compare Command ---

var compareCmd = &cobra.Command{
	Use:   "compare [id...]",
	Short: "Compare funds side by side",
	Example: `  fundlens compare HDFC001 AXIS001 DSP002
  fundlens compare HDFC001,AXIS001`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		var ids []string
		for _, arg := range args {
			ids = append(ids, screener.SplitIDs(arg)...)
		}

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()
		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		funds, missing, err := a.facade.Compare(ctx, ids)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			fmt.Fprintf(os.Stderr, "Not found: %s\n", strings.Join(missing, ", "))
		}

		switch format {
		case formatJSON:
			return writeJSON(cmd.OutOrStdout(), map[string]any{"funds": funds, "missing": missing})
		case formatCSV:
			return writeFunds(cmd.OutOrStdout(), format, funds)
		}
		if len(funds) == 0 {
			return fmt.Errorf("none of the funds were found")
		}
		return writeComparison(cmd.OutOrStdout(), funds)
	},
}

// --- NAV Command ---

var navCmd = &cobra.Command{
	Use:   "nav [id]",
	Short: "Show an illustrative NAV history for a fund",
	Long: `Show a NAV history back-extrapolated from the fund's current NAV and 1Y
return with small random noise. The series is illustrative, not reported data.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		days, _ := cmd.Flags().GetInt("days")

		var rng *rand.Rand
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetUint64("seed")
			rng = rand.New(rand.NewPCG(seed, seed))
		}

		ctx, cancel := commandContext(cmd.Context())
		defer cancel()
		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := a.facade.GetFund(ctx, args[0])
		if err != nil {
			return err
		}
		points, err := calculator.NAVHistoryForFund(*f, days, utils.NowIST(), rng)
		if err != nil {
			return err
		}

		if format == formatJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"fund_id":   f.ID,
				"synthetic": true,
				"points":    points,
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n%s\n", titleStyle.Render(f.SchemeName), warningStyle.Render("Illustrative series, not reported NAVs"))
		t := newTable("Date", "NAV")
		for _, p := range points {
			t.Row(p.Date, fmt.Sprintf("%.4f", p.NAV))
		}
		fmt.Fprintln(out, t.Render())
		if vol, dd, ok := synthetic.FromSeries(points); ok {
			fmt.Fprintf(out, "Annualized volatility %.2f%%, max drawdown %.2f%%\n", vol, dd)
		}
		return nil
	},
}

func init() {
	navCmd.Flags().Int("days", 30, "number of days")
	navCmd.Flags().Uint64("seed", 0, "seed for a repeatable series")
}
