// Package screener filters the fund catalog by user criteria.
package screener

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/seenimoa/fundlens/pkg/models"
)

// Apply returns the funds that satisfy every set criterion, in input order.
//
// When c.FundIDs is set it is the only criterion consulted: the result is
// every fund whose id is listed, in input order. Ids that match nothing are
// ignored. Empty criteria return funds unchanged.
func Apply(funds []models.Fund, c models.Criteria) []models.Fund {
	if c.FundIDs != "" {
		return selectIDs(funds, SplitIDs(c.FundIDs))
	}
	if c.IsZero() {
		return funds
	}

	m := newMatcher(c)
	out := make([]models.Fund, 0, len(funds))
	for i := range funds {
		if m.match(&funds[i]) {
			out = append(out, funds[i])
		}
	}
	return out
}

// Matches reports whether a single fund satisfies c.
func Matches(f models.Fund, c models.Criteria) bool {
	if c.FundIDs != "" {
		for _, id := range SplitIDs(c.FundIDs) {
			if id == f.ID {
				return true
			}
		}
		return false
	}
	return newMatcher(c).match(&f)
}

// SplitIDs parses a comma-separated id list, trimming blanks.
func SplitIDs(s string) []string {
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

func selectIDs(funds []models.Fund, ids []string) []models.Fund {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]models.Fund, 0, len(ids))
	for _, f := range funds {
		if _, ok := want[f.ID]; ok {
			out = append(out, f)
		}
	}
	return out
}

// matcher holds a criteria value with the search query folded once.
type matcher struct {
	c     models.Criteria
	query string
	fold  cases.Caser
}

func newMatcher(c models.Criteria) *matcher {
	m := &matcher{c: c, fold: cases.Fold()}
	if c.SearchQuery != "" {
		m.query = m.fold.String(c.SearchQuery)
	}
	return m
}

func (m *matcher) match(f *models.Fund) bool {
	c := &m.c

	if c.Category != "" && f.Category != c.Category {
		return false
	}
	if c.SubCategory != "" && f.SubCategory != c.SubCategory {
		return false
	}
	if c.AMC != "" && f.AMC != c.AMC {
		return false
	}
	if c.AUMCategory != "" && f.AUMCategory != c.AUMCategory {
		return false
	}
	if c.MaxRiskRating != 0 && f.RiskRating > c.MaxRiskRating {
		return false
	}

	if !c.Return1Y.Contains(f.Returns.OneYear) ||
		!c.Return3Y.Contains(f.Returns.ThreeYear) ||
		!c.Return5Y.Contains(f.Returns.FiveYear) ||
		!c.ExpenseRatio.Contains(f.ExpenseRatio) ||
		!c.AUM.Contains(f.AUM) {
		return false
	}

	for _, metric := range models.FilterMetrics {
		b := c.MetricBounds(metric)
		if b.IsZero() {
			continue
		}
		// A fund without the metric cannot satisfy a bound on it.
		v := f.Metric(metric)
		if v == nil || !b.Contains(*v) {
			return false
		}
	}

	if m.query != "" {
		if !strings.Contains(m.fold.String(f.SchemeName), m.query) &&
			!strings.Contains(m.fold.String(f.AMC), m.query) {
			return false
		}
	}
	return true
}
