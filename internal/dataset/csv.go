package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/gosimple/slug"

	"github.com/seenimoa/fundlens/pkg/models"
)

// fundRow is the flat CSV layout of a fund. Optional numbers are kept as
// text so an empty cell stays absent instead of becoming zero.
type fundRow struct {
	ID                string  `csv:"id"`
	SchemeName        string  `csv:"scheme_name"`
	AMC               string  `csv:"amc"`
	SchemeCode        string  `csv:"scheme_code"`
	NAV               float64 `csv:"nav"`
	Category          string  `csv:"category"`
	SubCategory       string  `csv:"sub_category"`
	ExpenseRatio      float64 `csv:"expense_ratio"`
	AUM               float64 `csv:"aum"`
	AUMCategory       string  `csv:"aum_category"`
	Return1Y          float64 `csv:"return_1y"`
	Return3Y          float64 `csv:"return_3y"`
	Return5Y          float64 `csv:"return_5y"`
	RiskRating        int     `csv:"risk_rating"`
	InceptionDate     string  `csv:"inception_date"`
	FundManager       string  `csv:"fund_manager"`
	MinSIPAmount      string  `csv:"min_sip_amount"`
	MinLumpsum        string  `csv:"min_lumpsum"`
	ExitLoad          string  `csv:"exit_load"`
	StandardDeviation string  `csv:"standard_deviation"`
	SharpeRatio       string  `csv:"sharpe_ratio"`
	TreynorRatio      string  `csv:"treynor_ratio"`
	Beta              string  `csv:"beta"`
	Alpha             string  `csv:"alpha"`
	CAGR              string  `csv:"cagr"`
	MaxDrawdown       string  `csv:"max_drawdown"`
}

// ReadCSV decodes funds from CSV with a header row. A row without an id is
// given a slug of its scheme code, or of its scheme name. An empty
// aum_category is derived from aum.
func ReadCSV(r io.Reader) ([]models.Fund, error) {
	var rows []*fundRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("decoding fund csv: %w", err)
	}

	funds := make([]models.Fund, 0, len(rows))
	for i, row := range rows {
		f, err := row.fund()
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i+2, err)
		}
		funds = append(funds, f)
	}
	return funds, nil
}

// WriteCSV encodes funds as CSV with a header row.
func WriteCSV(w io.Writer, funds []models.Fund) error {
	rows := make([]*fundRow, len(funds))
	for i := range funds {
		rows[i] = newFundRow(&funds[i])
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("encoding fund csv: %w", err)
	}
	return nil
}

func (row *fundRow) fund() (models.Fund, error) {
	f := models.Fund{
		ID:            strings.TrimSpace(row.ID),
		SchemeName:    strings.TrimSpace(row.SchemeName),
		AMC:           strings.TrimSpace(row.AMC),
		SchemeCode:    strings.TrimSpace(row.SchemeCode),
		NAV:           row.NAV,
		Category:      models.Category(strings.TrimSpace(row.Category)),
		SubCategory:   strings.TrimSpace(row.SubCategory),
		ExpenseRatio:  row.ExpenseRatio,
		AUM:           row.AUM,
		AUMCategory:   models.AUMCategory(strings.TrimSpace(row.AUMCategory)),
		Returns:       models.Returns{OneYear: row.Return1Y, ThreeYear: row.Return3Y, FiveYear: row.Return5Y},
		RiskRating:    models.RiskRating(row.RiskRating),
		InceptionDate: strings.TrimSpace(row.InceptionDate),
		FundManager:   strings.TrimSpace(row.FundManager),
		ExitLoad:      strings.TrimSpace(row.ExitLoad),
	}
	if f.ID == "" {
		f.ID = fallbackID(f.SchemeCode, f.SchemeName)
	}
	if f.AUMCategory == "" {
		f.AUMCategory = models.AUMCategoryFor(f.AUM)
	}

	var err error
	if f.MinSIPAmount, err = optionalAmount(row.MinSIPAmount); err != nil {
		return f, fmt.Errorf("min_sip_amount: %w", err)
	}
	if f.MinLumpsum, err = optionalAmount(row.MinLumpsum); err != nil {
		return f, fmt.Errorf("min_lumpsum: %w", err)
	}

	optional := []struct {
		name string
		text string
		dst  **float64
	}{
		{"standard_deviation", row.StandardDeviation, &f.StandardDeviation},
		{"sharpe_ratio", row.SharpeRatio, &f.SharpeRatio},
		{"treynor_ratio", row.TreynorRatio, &f.TreynorRatio},
		{"beta", row.Beta, &f.Beta},
		{"alpha", row.Alpha, &f.Alpha},
		{"cagr", row.CAGR, &f.CAGR},
		{"max_drawdown", row.MaxDrawdown, &f.MaxDrawdown},
	}
	for _, o := range optional {
		if *o.dst, err = optionalNumber(o.text); err != nil {
			return f, fmt.Errorf("%s: %w", o.name, err)
		}
	}
	return f, nil
}

func newFundRow(f *models.Fund) *fundRow {
	return &fundRow{
		ID:                f.ID,
		SchemeName:        f.SchemeName,
		AMC:               f.AMC,
		SchemeCode:        f.SchemeCode,
		NAV:               f.NAV,
		Category:          string(f.Category),
		SubCategory:       f.SubCategory,
		ExpenseRatio:      f.ExpenseRatio,
		AUM:               f.AUM,
		AUMCategory:       string(f.AUMCategory),
		Return1Y:          f.Returns.OneYear,
		Return3Y:          f.Returns.ThreeYear,
		Return5Y:          f.Returns.FiveYear,
		RiskRating:        int(f.RiskRating),
		InceptionDate:     f.InceptionDate,
		FundManager:       f.FundManager,
		MinSIPAmount:      formatAmount(f.MinSIPAmount),
		MinLumpsum:        formatAmount(f.MinLumpsum),
		ExitLoad:          f.ExitLoad,
		StandardDeviation: formatOptional(f.StandardDeviation),
		SharpeRatio:       formatOptional(f.SharpeRatio),
		TreynorRatio:      formatOptional(f.TreynorRatio),
		Beta:              formatOptional(f.Beta),
		Alpha:             formatOptional(f.Alpha),
		CAGR:              formatOptional(f.CAGR),
		MaxDrawdown:       formatOptional(f.MaxDrawdown),
	}
}

// fallbackID derives an id for a record that has none.
func fallbackID(schemeCode, schemeName string) string {
	if schemeCode != "" {
		return slug.Make(schemeCode)
	}
	return slug.Make(schemeName)
}

func optionalNumber(s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := parseNumber(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalAmount(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return parseNumber(s)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var numberDecorations = strings.NewReplacer("₹", "", "%", "", ",", "", "Cr", "", "cr", "", "Rs.", "", "Rs", "")

// parseNumber reads a number that may carry currency, percent, thousands
// separator or crore decorations.
func parseNumber(s string) (float64, error) {
	clean := strings.TrimSpace(numberDecorations.Replace(s))
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
