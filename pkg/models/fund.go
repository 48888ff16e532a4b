package models

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the broad SEBI scheme classification.
type Category string

const (
	CategoryEquity           Category = "Equity"
	CategoryDebt             Category = "Debt"
	CategoryHybrid           Category = "Hybrid"
	CategorySolutionOriented Category = "Solution Oriented"
	CategoryOther            Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryEquity,
	CategoryDebt,
	CategoryHybrid,
	CategorySolutionOriented,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// AUMCategory buckets a fund by assets under management.
type AUMCategory string

const (
	AUMSmall AUMCategory = "Small"
	AUMMid   AUMCategory = "Mid"
	AUMLarge AUMCategory = "Large"
)

// Valid reports whether a is Small, Mid or Large.
func (a AUMCategory) Valid() bool {
	return a == AUMSmall || a == AUMMid || a == AUMLarge
}

// AUM bucket thresholds, in crores.
const (
	SmallAUMLimit = 1000.0
	MidAUMLimit   = 10000.0
)

// AUMCategoryFor derives the bucket for an AUM value in crores.
func AUMCategoryFor(aum float64) AUMCategory {
	switch {
	case aum < SmallAUMLimit:
		return AUMSmall
	case aum < MidAUMLimit:
		return AUMMid
	default:
		return AUMLarge
	}
}

// RiskRating is the riskometer level, 1 (lowest) to 5 (highest).
type RiskRating int

// Valid reports whether r is within 1..5.
func (r RiskRating) Valid() bool {
	return r >= 1 && r <= 5
}

var riskLabels = map[RiskRating]string{
	1: "Low",
	2: "Moderate Low",
	3: "Moderate",
	4: "Moderate High",
	5: "High",
}

var riskDisplayLabels = map[RiskRating]string{
	1: "Very Low",
	2: "Low",
	3: "Moderate",
	4: "High",
	5: "Very High",
}

// Label returns the stored riskometer label.
func (r RiskRating) Label() string {
	if l, ok := riskLabels[r]; ok {
		return l
	}
	return "Unknown"
}

// DisplayLabel returns the label shown in comparison tables.
func (r RiskRating) DisplayLabel() string {
	if l, ok := riskDisplayLabels[r]; ok {
		return l
	}
	return "Unknown"
}

// Period is a trailing return horizon.
type Period string

const (
	Period1Y Period = "1Y"
	Period3Y Period = "3Y"
	Period5Y Period = "5Y"
)

// Periods lists the supported return horizons.
var Periods = []Period{Period1Y, Period3Y, Period5Y}

// ErrUnknownPeriod is returned for a period other than 1Y, 3Y or 5Y.
var ErrUnknownPeriod = errors.New("unknown return period")

// ParsePeriod validates a period string. Matching is case-insensitive.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case Period1Y, Period3Y, Period5Y:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// Returns holds annualized trailing returns in percent.
// All three keys are always present on the wire.
type Returns struct {
	OneYear   float64 `json:"1Y"`
	ThreeYear float64 `json:"3Y"`
	FiveYear  float64 `json:"5Y"`
}

// For returns the value for the given period.
func (r Returns) For(p Period) (float64, bool) {
	switch p {
	case Period1Y:
		return r.OneYear, true
	case Period3Y:
		return r.ThreeYear, true
	case Period5Y:
		return r.FiveYear, true
	}
	return 0, false
}

// Fund is one mutual fund scheme as listed in the catalog.
type Fund struct {
	ID           string      `json:"id"`
	SchemeName   string      `json:"scheme_name"`
	AMC          string      `json:"amc"` // Asset Management Company
	SchemeCode   string      `json:"scheme_code"`
	NAV          float64     `json:"nav"`
	Category     Category    `json:"category"`
	SubCategory  string      `json:"sub_category,omitempty"`
	ExpenseRatio float64     `json:"expense_ratio"` // percent per year
	AUM          float64     `json:"aum"`           // crores
	AUMCategory  AUMCategory `json:"aum_category"`
	Returns      Returns     `json:"returns"`
	RiskRating   RiskRating  `json:"risk_rating"`

	InceptionDate string  `json:"inception_date"` // YYYY-MM-DD
	FundManager   string  `json:"fund_manager,omitempty"`
	MinSIPAmount  float64 `json:"min_sip_amount,omitempty"`
	MinLumpsum    float64 `json:"min_lumpsum,omitempty"`
	ExitLoad      string  `json:"exit_load,omitempty"`

	// Extended metrics; nil when the source does not carry them.
	StandardDeviation *float64 `json:"standard_deviation,omitempty"`
	SharpeRatio       *float64 `json:"sharpe_ratio,omitempty"`
	TreynorRatio      *float64 `json:"treynor_ratio,omitempty"`
	Beta              *float64 `json:"beta,omitempty"`
	Alpha             *float64 `json:"alpha,omitempty"`
	CAGR              *float64 `json:"cagr,omitempty"`
	MaxDrawdown       *float64 `json:"max_drawdown,omitempty"`

	AMCProfile         *AMCProfile     `json:"amc_profile,omitempty"`
	FundManagerDetails *ManagerProfile `json:"fund_manager_details,omitempty"`
}

// AMCProfile describes the fund house.
type AMCProfile struct {
	Description  string  `json:"description,omitempty"`
	TotalSchemes int     `json:"total_schemes,omitempty"`
	TotalAUM     float64 `json:"total_aum,omitempty"` // crores
}

// ManagerProfile describes the fund manager.
type ManagerProfile struct {
	Name          string  `json:"name"`
	Qualification string  `json:"qualification,omitempty"`
	Experience    int     `json:"experience,omitempty"`  // years
	AUMManaged    float64 `json:"aum_managed,omitempty"` // crores
	Bio           string  `json:"bio,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
}

// ExtendedMetrics groups the risk-adjusted metrics of a fund.
type ExtendedMetrics struct {
	StandardDeviation float64 `json:"standard_deviation"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	TreynorRatio      float64 `json:"treynor_ratio"`
	Beta              float64 `json:"beta"`
	Alpha             float64 `json:"alpha"`
	MaxDrawdown       float64 `json:"max_drawdown"`
}

// FundValidationError lists every invariant a fund record breaks.
type FundValidationError struct {
	ID       string
	Problems []string
}

func (e *FundValidationError) Error() string {
	return fmt.Sprintf("invalid fund %q: %s", e.ID, strings.Join(e.Problems, "; "))
}

// Validate checks the record invariants. A disagreement between AUM and
// AUMCategory is not an error; see AUMCategoryConsistent.
func (f *Fund) Validate() error {
	var problems []string
	if strings.TrimSpace(f.ID) == "" {
		problems = append(problems, "id is empty")
	}
	if !f.Category.Valid() {
		problems = append(problems, fmt.Sprintf("unknown category %q", f.Category))
	}
	if !(f.NAV > 0) {
		problems = append(problems, "nav must be positive")
	}
	if !(f.ExpenseRatio >= 0) {
		problems = append(problems, "expense_ratio must not be negative")
	}
	if !(f.AUM > 0) {
		problems = append(problems, "aum must be positive")
	}
	if !f.AUMCategory.Valid() {
		problems = append(problems, fmt.Sprintf("unknown aum_category %q", f.AUMCategory))
	}
	if !f.RiskRating.Valid() {
		problems = append(problems, fmt.Sprintf("risk_rating %d outside 1..5", f.RiskRating))
	}
	if len(problems) > 0 {
		return &FundValidationError{ID: f.ID, Problems: problems}
	}
	return nil
}

// AUMCategoryConsistent reports whether AUMCategory matches the bucket
// derived from AUM.
func (f *Fund) AUMCategoryConsistent() bool {
	return AUMCategoryFor(f.AUM) == f.AUMCategory
}

// Metric returns the named extended metric, or nil when absent.
func (f *Fund) Metric(m Metric) *float64 {
	switch m {
	case MetricStandardDeviation:
		return f.StandardDeviation
	case MetricSharpeRatio:
		return f.SharpeRatio
	case MetricTreynorRatio:
		return f.TreynorRatio
	case MetricBeta:
		return f.Beta
	case MetricAlpha:
		return f.Alpha
	case MetricMaxDrawdown:
		return f.MaxDrawdown
	}
	return nil
}

// Metric names an extended metric.
type Metric string

const (
	MetricStandardDeviation Metric = "standard_deviation"
	MetricSharpeRatio       Metric = "sharpe_ratio"
	MetricTreynorRatio      Metric = "treynor_ratio"
	MetricBeta              Metric = "beta"
	MetricAlpha             Metric = "alpha"
	MetricMaxDrawdown       Metric = "max_drawdown"
)

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
