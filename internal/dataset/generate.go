package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/seenimoa/fundlens/pkg/models"
	"github.com/seenimoa/fundlens/pkg/utils"
)

var mockAMCs = []string{
	"HDFC Mutual Fund",
	"ICICI Prudential",
	"SBI Mutual Fund",
	"Axis Mutual Fund",
	"Aditya Birla Sun Life",
	"Kotak Mahindra",
	"Nippon India",
	"DSP",
	"UTI",
	"Franklin Templeton",
}

var mockSubCategories = map[models.Category][]string{
	models.CategoryEquity: {
		"Large Cap", "Mid Cap", "Small Cap", "Multi Cap",
		"ELSS", "Focused", "Dividend Yield", "Value",
	},
	models.CategoryDebt: {
		"Overnight", "Liquid", "Ultra Short Duration", "Low Duration",
		"Money Market", "Short Duration", "Corporate Bond",
	},
	models.CategoryHybrid: {
		"Conservative", "Balanced", "Aggressive",
		"Dynamic Asset Allocation", "Multi Asset Allocation",
	},
	models.CategorySolutionOriented: {"Retirement", "Children's Fund"},
}

var mockManagers = []string{
	"Prashant Jain",
	"Sankaran Naren",
	"Neelesh Surana",
	"R. Srinivasan",
	"Anoop Bhaskar",
	"Jinesh Gopani",
	"Mahesh Patil",
	"Rajeev Thakkar",
	"Sohini Andani",
	"Sailesh Raj Bhan",
}

// returnRange holds [lo, hi) for the 1Y, 3Y and 5Y returns.
type returnRange [3][2]float64

var mockReturns = map[models.Category]returnRange{
	models.CategoryEquity: {{-10, 30}, {5, 25}, {8, 20}},
	models.CategoryDebt:   {{3, 12}, {5, 10}, {6, 9}},
}

var defaultReturns = returnRange{{0, 20}, {5, 15}, {7, 12}}

// Generate builds count placeholder funds. The same seed always yields the
// same funds for a given day.
func Generate(count int, seed int64) []models.Fund {
	return GenerateAt(count, seed, utils.TodayIST())
}

// GenerateAt is Generate with inception dates counted back from now.
func GenerateAt(count int, seed int64, now time.Time) []models.Fund {
	if count <= 0 {
		return nil
	}
	g := &generator{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}

	funds := make([]models.Fund, count)
	for i := range funds {
		funds[i] = g.fund(i, now)
	}
	return funds
}

type generator struct {
	rng *rand.Rand
}

func (g *generator) between(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *generator) pick(list []string) string {
	return list[g.rng.IntN(len(list))]
}

func (g *generator) fund(i int, now time.Time) models.Fund {
	category := models.Categories[g.rng.IntN(len(models.Categories))]
	amc := g.pick(mockAMCs)

	sub := "Other"
	if subs, ok := mockSubCategories[category]; ok {
		sub = g.pick(subs)
	}

	rr, ok := mockReturns[category]
	if !ok {
		rr = defaultReturns
	}

	suffix := "Scheme"
	if category == models.CategoryEquity || category == models.CategoryDebt {
		suffix = "Fund"
	}

	aum := math.Round(100 + g.rng.Float64()*40000)

	f := models.Fund{
		ID:           fmt.Sprintf("FUND%d", 1000+i),
		SchemeName:   fmt.Sprintf("%s %s %s", amc, sub, suffix),
		AMC:          amc,
		SchemeCode:   strconv.Itoa(100000 + i),
		NAV:          round(g.between(10, 1000), 4),
		Category:     category,
		SubCategory:  sub,
		ExpenseRatio: round(g.between(0.1, 2.5), 2),
		AUM:          aum,
		AUMCategory:  models.AUMCategoryFor(aum),
		Returns: models.Returns{
			OneYear:   round(g.between(rr[0][0], rr[0][1]), 2),
			ThreeYear: round(g.between(rr[1][0], rr[1][1]), 2),
			FiveYear:  round(g.between(rr[2][0], rr[2][1]), 2),
		},
		RiskRating:    models.RiskRating(1 + g.rng.IntN(5)),
		InceptionDate: utils.FormatDateIST(now.AddDate(-g.rng.IntN(30), 0, 0)),
		FundManager:   g.pick(mockManagers),
		MinSIPAmount:  math.Round((500+g.rng.Float64()*4500)/100) * 100,
		MinLumpsum:    math.Round((1000+g.rng.Float64()*24000)/1000) * 1000,
		ExitLoad:      "Nil",
	}
	if g.rng.Float64() > 0.3 {
		pct := "0.5"
		if g.rng.Float64() > 0.5 {
			pct = "1"
		}
		f.ExitLoad = fmt.Sprintf("%s%% if redeemed within %d year(s)", pct, 1+g.rng.IntN(3))
	}
	return f
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
