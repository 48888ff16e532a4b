package models

// Bounds is an inclusive numeric range. A nil end is unbounded.
type Bounds struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// IsZero reports whether neither end is set.
func (b Bounds) IsZero() bool {
	return b.Min == nil && b.Max == nil
}

// Contains reports whether v lies within the bounds. Comparisons against a
// NaN bound are false, so a NaN end excludes every value.
func (b Bounds) Contains(v float64) bool {
	if b.Min != nil && !(v >= *b.Min) {
		return false
	}
	if b.Max != nil && !(v <= *b.Max) {
		return false
	}
	return true
}

// Clone returns a copy of b that shares no pointers with it.
func (b Bounds) Clone() Bounds {
	var out Bounds
	if b.Min != nil {
		out.Min = Float(*b.Min)
	}
	if b.Max != nil {
		out.Max = Float(*b.Max)
	}
	return out
}

// Criteria is a screener query. Every field is optional and all set fields
// must hold for a fund to match. FundIDs, when set, overrides the rest.
type Criteria struct {
	Category    Category    `json:"category,omitempty"`
	SubCategory string      `json:"subCategory,omitempty"`
	AMC         string      `json:"amc,omitempty"`
	AUMCategory AUMCategory `json:"aumCategory,omitempty"`
	SearchQuery string      `json:"searchQuery,omitempty"`

	// FundIDs is a comma-separated list of fund ids.
	FundIDs string `json:"fundIds,omitempty"`

	Return1Y     Bounds `json:"return1Y"`
	Return3Y     Bounds `json:"return3Y"`
	Return5Y     Bounds `json:"return5Y"`
	ExpenseRatio Bounds `json:"expenseRatio"`
	AUM          Bounds `json:"aum"`

	StandardDeviation Bounds `json:"standardDeviation"`
	SharpeRatio       Bounds `json:"sharpeRatio"`
	TreynorRatio      Bounds `json:"treynorRatio"`
	Beta              Bounds `json:"beta"`
	Alpha             Bounds `json:"alpha"`

	MaxRiskRating RiskRating `json:"maxRiskRating,omitempty"`
}

// ReturnBounds returns the bounds for a return period.
func (c *Criteria) ReturnBounds(p Period) *Bounds {
	switch p {
	case Period1Y:
		return &c.Return1Y
	case Period3Y:
		return &c.Return3Y
	case Period5Y:
		return &c.Return5Y
	}
	return nil
}

// MetricBounds returns the bounds for an extended metric.
func (c *Criteria) MetricBounds(m Metric) *Bounds {
	switch m {
	case MetricStandardDeviation:
		return &c.StandardDeviation
	case MetricSharpeRatio:
		return &c.SharpeRatio
	case MetricTreynorRatio:
		return &c.TreynorRatio
	case MetricBeta:
		return &c.Beta
	case MetricAlpha:
		return &c.Alpha
	}
	return nil
}

// FilterMetrics lists the extended metrics that can be filtered on.
var FilterMetrics = []Metric{
	MetricStandardDeviation,
	MetricSharpeRatio,
	MetricTreynorRatio,
	MetricBeta,
	MetricAlpha,
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	if c.Category != "" || c.SubCategory != "" || c.AMC != "" || c.AUMCategory != "" ||
		c.SearchQuery != "" || c.FundIDs != "" || c.MaxRiskRating != 0 {
		return false
	}
	for _, b := range []Bounds{
		c.Return1Y, c.Return3Y, c.Return5Y, c.ExpenseRatio, c.AUM,
		c.StandardDeviation, c.SharpeRatio, c.TreynorRatio, c.Beta, c.Alpha,
	} {
		if !b.IsZero() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of c.
func (c Criteria) Clone() Criteria {
	out := c
	for _, b := range []*Bounds{
		&out.Return1Y, &out.Return3Y, &out.Return5Y, &out.ExpenseRatio, &out.AUM,
		&out.StandardDeviation, &out.SharpeRatio, &out.TreynorRatio, &out.Beta, &out.Alpha,
	} {
		*b = b.Clone()
	}
	return out
}
