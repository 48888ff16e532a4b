package dataset

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/fundlens/pkg/models"
)

// ReadHTMLTable extracts funds from a factsheet page. The page must hold a
// table.funds whose header cells name their column with data-field, using
// the same names as the CSV header. Body cells may carry ₹, %, thousands
// separators and Cr decorations.
func ReadHTMLTable(r io.Reader) ([]models.Fund, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing factsheet html: %w", err)
	}

	table := doc.Find("table.funds").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table.funds in document")
	}

	var fields []string
	table.Find("th").Each(func(_ int, th *goquery.Selection) {
		fields = append(fields, strings.TrimSpace(th.AttrOr("data-field", "")))
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("fund table has no header")
	}

	var funds []models.Fund
	var rowErr error
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return true
		}
		values := make(map[string]string, len(fields))
		cells.Each(func(j int, td *goquery.Selection) {
			if j < len(fields) && fields[j] != "" {
				values[fields[j]] = strings.TrimSpace(td.Text())
			}
		})
		f, err := rowFromCells(values)
		if err != nil {
			rowErr = fmt.Errorf("table row %d: %w", i, err)
			return false
		}
		funds = append(funds, f)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return funds, nil
}

func rowFromCells(v map[string]string) (models.Fund, error) {
	row := fundRow{
		ID:                v["id"],
		SchemeName:        v["scheme_name"],
		AMC:               v["amc"],
		SchemeCode:        v["scheme_code"],
		Category:          v["category"],
		SubCategory:       v["sub_category"],
		AUMCategory:       v["aum_category"],
		InceptionDate:     v["inception_date"],
		FundManager:       v["fund_manager"],
		MinSIPAmount:      v["min_sip_amount"],
		MinLumpsum:        v["min_lumpsum"],
		ExitLoad:          v["exit_load"],
		StandardDeviation: v["standard_deviation"],
		SharpeRatio:       v["sharpe_ratio"],
		TreynorRatio:      v["treynor_ratio"],
		Beta:              v["beta"],
		Alpha:             v["alpha"],
		CAGR:              v["cagr"],
		MaxDrawdown:       v["max_drawdown"],
	}

	required := []struct {
		name string
		dst  *float64
	}{
		{"nav", &row.NAV},
		{"expense_ratio", &row.ExpenseRatio},
		{"aum", &row.AUM},
		{"return_1y", &row.Return1Y},
		{"return_3y", &row.Return3Y},
		{"return_5y", &row.Return5Y},
	}
	for _, r := range required {
		text, ok := v[r.name]
		if !ok || text == "" {
			continue
		}
		n, err := parseNumber(text)
		if err != nil {
			return models.Fund{}, fmt.Errorf("%s: %w", r.name, err)
		}
		*r.dst = n
	}
	if text := v["risk_rating"]; text != "" {
		n, err := strconv.Atoi(text)
		if err != nil {
			return models.Fund{}, fmt.Errorf("risk_rating: invalid number %q", text)
		}
		row.RiskRating = n
	}
	return row.fund()
}
