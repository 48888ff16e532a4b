package models

import "time"

// MarketStats is the catalog summary shown above the listing.
type MarketStats struct {
	TotalFunds      int     `json:"totalFunds"`
	AverageReturn1Y float64 `json:"averageReturn1Y"`
	TopGainer       *Fund   `json:"topGainer,omitempty"`
	CategoryCount   int     `json:"categoryCount"`
}

// MetricRange is the min, max and mean of one metric over the funds that
// carry it. Count is zero when no fund carries the metric.
type MetricRange struct {
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Avg   *float64 `json:"avg"`
	Count int      `json:"count"`
}

// MetricRanges maps each filterable metric to its range.
type MetricRanges map[Metric]MetricRange

// NewsArticle is a news item linked to a fund or its fund house.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	FundIDs     []string  `json:"fund_ids,omitempty"` // related funds
}
