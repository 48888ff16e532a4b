package screener

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/seenimoa/fundlens/pkg/models"
)

// ErrInvalidBound is returned when a numeric query parameter does not parse.
var ErrInvalidBound = errors.New("invalid numeric filter")

type boundParam struct {
	min, max string
	bounds   func(*models.Criteria) *models.Bounds
}

// boundParams lists the numeric query keys in canonical order.
var boundParams = []boundParam{
	{"minReturn1Y", "maxReturn1Y", func(c *models.Criteria) *models.Bounds { return &c.Return1Y }},
	{"minReturn3Y", "maxReturn3Y", func(c *models.Criteria) *models.Bounds { return &c.Return3Y }},
	{"minReturn5Y", "maxReturn5Y", func(c *models.Criteria) *models.Bounds { return &c.Return5Y }},
	{"minExpenseRatio", "maxExpenseRatio", func(c *models.Criteria) *models.Bounds { return &c.ExpenseRatio }},
	{"minAUM", "maxAUM", func(c *models.Criteria) *models.Bounds { return &c.AUM }},
	{"minStandardDeviation", "maxStandardDeviation", func(c *models.Criteria) *models.Bounds { return &c.StandardDeviation }},
	{"minSharpeRatio", "maxSharpeRatio", func(c *models.Criteria) *models.Bounds { return &c.SharpeRatio }},
	{"minTreynorRatio", "maxTreynorRatio", func(c *models.Criteria) *models.Bounds { return &c.TreynorRatio }},
	{"minBeta", "maxBeta", func(c *models.Criteria) *models.Bounds { return &c.Beta }},
	{"minAlpha", "maxAlpha", func(c *models.Criteria) *models.Bounds { return &c.Alpha }},
}

// ParseQuery reads criteria from query parameters.
//
// Fund ids may be sent as a comma list (fundIds=A,B) or as repeated id
// parameters (id=A&id=B); both end up in FundIDs. Empty values are treated
// as unset. A value that is not a number yields ErrInvalidBound.
func ParseQuery(v url.Values) (models.Criteria, error) {
	c := models.Criteria{
		Category:    models.Category(strings.TrimSpace(v.Get("category"))),
		SubCategory: strings.TrimSpace(v.Get("subCategory")),
		AMC:         strings.TrimSpace(v.Get("amc")),
		AUMCategory: models.AUMCategory(strings.TrimSpace(v.Get("aumCategory"))),
		SearchQuery: strings.TrimSpace(v.Get("searchQuery")),
	}

	var ids []string
	if s := v.Get("fundIds"); s != "" {
		ids = append(ids, s)
	}
	for _, id := range v["id"] {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	c.FundIDs = strings.Join(ids, ",")

	for _, p := range boundParams {
		b := p.bounds(&c)
		var err error
		if b.Min, err = parseFloat(v, p.min); err != nil {
			return models.Criteria{}, err
		}
		if b.Max, err = parseFloat(v, p.max); err != nil {
			return models.Criteria{}, err
		}
	}

	if s := strings.TrimSpace(v.Get("maxRiskRating")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || !models.RiskRating(n).Valid() {
			return models.Criteria{}, fmt.Errorf("%w: maxRiskRating=%q", ErrInvalidBound, s)
		}
		c.MaxRiskRating = models.RiskRating(n)
	}

	return c, nil
}

func parseFloat(v url.Values, key string) (*float64, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidBound, key, s)
	}
	return &f, nil
}

// Encode renders criteria as query parameters, the inverse of ParseQuery.
// Fund ids always use the comma-list form.
func Encode(c models.Criteria) url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("category", string(c.Category))
	set("subCategory", c.SubCategory)
	set("amc", c.AMC)
	set("aumCategory", string(c.AUMCategory))
	set("searchQuery", c.SearchQuery)
	set("fundIds", c.FundIDs)

	for _, p := range boundParams {
		b := p.bounds(&c)
		if b.Min != nil {
			v.Set(p.min, formatFloat(*b.Min))
		}
		if b.Max != nil {
			v.Set(p.max, formatFloat(*b.Max))
		}
	}
	if c.MaxRiskRating != 0 {
		v.Set("maxRiskRating", strconv.Itoa(int(c.MaxRiskRating)))
	}
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
