package models

// Projection is the outcome of a SIP or lumpsum investment projection.
type Projection struct {
	TotalInvested    float64 `json:"totalInvested"`
	EstimatedReturns float64 `json:"estimatedReturns"`
	MaturityValue    float64 `json:"maturityValue"`
}

// PostTax is a projection after tax on the gain.
type PostTax struct {
	TaxRate      float64 `json:"taxRate"`
	Tax          float64 `json:"tax"`
	PostTaxValue float64 `json:"postTaxValue"`
}

// YearValue is one row of a year-by-year projection table.
type YearValue struct {
	Year     int     `json:"year"`
	Invested float64 `json:"invested"`
	Value    float64 `json:"value"`
}

// NAVPoint is one dated NAV observation.
type NAVPoint struct {
	Date string  `json:"date"` // YYYY-MM-DD
	NAV  float64 `json:"nav"`
}
