package screener

import (
	"errors"

	"github.com/seenimoa/fundlens/pkg/models"
)

// ErrScreenNotFound is returned for an unknown preset id.
var ErrScreenNotFound = errors.New("screen not found")

// Screen is a named, ready-made set of criteria.
type Screen struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Criteria    models.Criteria `json:"criteria"`
}

var presets = []Screen{
	{
		ID:          "tax-savers",
		Name:        "Tax Savers",
		Description: "ELSS funds that qualify for deduction under Section 80C",
		Criteria:    models.Criteria{Category: models.CategoryEquity, SubCategory: "ELSS"},
	},
	{
		ID:          "long-term-compounders",
		Name:        "Long Term Compounders",
		Description: "Funds with at least 12% annualized return over 5 years",
		Criteria:    models.Criteria{Return5Y: models.Bounds{Min: models.Float(12)}},
	},
	{
		ID:          "bolder-bets",
		Name:        "Bolder Bets",
		Description: "Equity funds with at least 15% annualized return over 3 years",
		Criteria: models.Criteria{
			Category: models.CategoryEquity,
			Return3Y: models.Bounds{Min: models.Float(15)},
		},
	},
	{
		ID:          "efficient-equity",
		Name:        "Efficient Equity",
		Description: "Equity funds with an expense ratio of 1% or less",
		Criteria: models.Criteria{
			Category:     models.CategoryEquity,
			ExpenseRatio: models.Bounds{Max: models.Float(1.0)},
		},
	},
	{
		ID:          "value-picks",
		Name:        "Value Picks",
		Description: "Equity funds following a value investing style",
		Criteria:    models.Criteria{Category: models.CategoryEquity, SubCategory: "Value"},
	},
	{
		ID:          "consistent-performers",
		Name:        "Consistent Performers",
		Description: "Funds beating 15%, 12% and 10% over 1, 3 and 5 years",
		Criteria: models.Criteria{
			Return1Y: models.Bounds{Min: models.Float(15)},
			Return3Y: models.Bounds{Min: models.Float(12)},
			Return5Y: models.Bounds{Min: models.Float(10)},
		},
	},
}

// Screens returns copies of the preset screens in display order.
func Screens() []Screen {
	out := make([]Screen, len(presets))
	for i, s := range presets {
		out[i] = s.clone()
	}
	return out
}

// LookupScreen returns a copy of the preset with the given id.
func LookupScreen(id string) (Screen, error) {
	for _, s := range presets {
		if s.ID == id {
			return s.clone(), nil
		}
	}
	return Screen{}, ErrScreenNotFound
}

func (s Screen) clone() Screen {
	s.Criteria = s.Criteria.Clone()
	return s
}
