// Package synthetic produces clearly labelled placeholder figures for
// fund attributes the catalog does not carry. Nothing produced here is
// persisted or fed back into the repository.
package synthetic

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/seenimoa/fundlens/pkg/models"
)

// Generator fills in missing fund attributes. Values already present on
// the fund are always returned unchanged.
type Generator interface {
	Metrics(f models.Fund, series []models.NAVPoint) MetricsReport
	AMCProfile(f models.Fund) ProfileReport[models.AMCProfile]
	ManagerProfile(f models.Fund) ProfileReport[models.ManagerProfile]
}

// MetricsReport is a fund's extended metrics with the names of the fields
// that were generated rather than reported.
type MetricsReport struct {
	models.ExtendedMetrics
	Synthetic bool            `json:"synthetic"`
	Generated []models.Metric `json:"generated,omitempty"`
}

// ProfileReport wraps a profile and flags whether any part was generated.
type ProfileReport[T any] struct {
	Profile   T    `json:"profile"`
	Synthetic bool `json:"synthetic"`
}

// span is a uniform range [lo, lo+width).
type span struct{ lo, width float64 }

var metricSpans = map[models.Metric]span{
	models.MetricStandardDeviation: {5, 10},
	models.MetricSharpeRatio:       {0.5, 1},
	models.MetricTreynorRatio:      {0.3, 1},
	models.MetricBeta:              {0.7, 0.6},
	models.MetricAlpha:             {-1, 4},
	models.MetricMaxDrawdown:       {10, 20},
}

var metricOrder = []models.Metric{
	models.MetricStandardDeviation,
	models.MetricSharpeRatio,
	models.MetricTreynorRatio,
	models.MetricBeta,
	models.MetricAlpha,
	models.MetricMaxDrawdown,
}

const (
	defaultQualification = "MBA, CFA"
	defaultExperience    = 10
)

// Demo is the random placeholder generator.
type Demo struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ Generator = (*Demo)(nil)

// NewDemo returns a demo generator. A nil rng seeds one from the runtime.
func NewDemo(rng *rand.Rand) *Demo {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Demo{rng: rng}
}

func (d *Demo) uniform(s span) float64 {
	d.mu.Lock()
	v := s.lo + d.rng.Float64()*s.width
	d.mu.Unlock()
	return v
}

func (d *Demo) intn(lo, width int) int {
	d.mu.Lock()
	v := lo + d.rng.IntN(width)
	d.mu.Unlock()
	return v
}

// Metrics returns the fund's extended metrics. Missing volatility and
// drawdown are derived from series when it has enough points; everything
// still missing is drawn from a plausible range.
func (d *Demo) Metrics(f models.Fund, series []models.NAVPoint) MetricsReport {
	var derived map[models.Metric]float64
	if sd, dd, ok := FromSeries(series); ok {
		derived = map[models.Metric]float64{
			models.MetricStandardDeviation: sd,
			models.MetricMaxDrawdown:       dd,
		}
	}

	var r MetricsReport
	values := make(map[models.Metric]float64, len(metricOrder))
	for _, m := range metricOrder {
		if v := f.Metric(m); v != nil {
			values[m] = *v
			continue
		}
		r.Generated = append(r.Generated, m)
		if v, ok := derived[m]; ok {
			values[m] = round2(v)
			continue
		}
		values[m] = round2(d.uniform(metricSpans[m]))
	}
	r.Synthetic = len(r.Generated) > 0
	r.ExtendedMetrics = models.ExtendedMetrics{
		StandardDeviation: values[models.MetricStandardDeviation],
		SharpeRatio:       values[models.MetricSharpeRatio],
		TreynorRatio:      values[models.MetricTreynorRatio],
		Beta:              values[models.MetricBeta],
		Alpha:             values[models.MetricAlpha],
		MaxDrawdown:       values[models.MetricMaxDrawdown],
	}
	return r
}

// AMCProfile returns the fund house profile, generating missing parts.
func (d *Demo) AMCProfile(f models.Fund) ProfileReport[models.AMCProfile] {
	var p models.AMCProfile
	if f.AMCProfile != nil {
		p = *f.AMCProfile
	}
	r := ProfileReport[models.AMCProfile]{}
	if p.Description == "" {
		p.Description = fmt.Sprintf("%s is one of the leading asset management companies in India, "+
			"known for professional fund management across asset classes.", f.AMC)
		r.Synthetic = true
	}
	if p.TotalSchemes == 0 {
		p.TotalSchemes = d.intn(50, 100)
		r.Synthetic = true
	}
	if p.TotalAUM == 0 {
		p.TotalAUM = float64(d.intn(50000, 1000000))
		r.Synthetic = true
	}
	r.Profile = p
	return r
}

// ManagerProfile returns the fund manager profile, generating missing parts.
func (d *Demo) ManagerProfile(f models.Fund) ProfileReport[models.ManagerProfile] {
	var p models.ManagerProfile
	if f.FundManagerDetails != nil {
		p = *f.FundManagerDetails
	}
	r := ProfileReport[models.ManagerProfile]{}
	if p.Name == "" {
		p.Name = f.FundManager
	}
	if p.Name == "" {
		p.Name = "Not specified"
	}
	if p.Qualification == "" {
		p.Qualification = defaultQualification
		r.Synthetic = true
	}
	if p.Experience == 0 {
		p.Experience = defaultExperience
		r.Synthetic = true
	}
	if p.AUMManaged == 0 {
		p.AUMManaged = float64(d.intn(5000, 50000))
		r.Synthetic = true
	}
	if p.Bio == "" {
		p.Bio = fmt.Sprintf("%s has %d years of experience in investment management with expertise in %s funds.",
			p.Name, p.Experience, strings.ToLower(string(f.Category)))
		r.Synthetic = true
	}
	r.Profile = p
	return r
}

// tradingDays annualizes daily volatility.
const tradingDays = 252

// FromSeries derives annualized volatility and maximum drawdown, both in
// percent, from a NAV series. It needs at least three points.
func FromSeries(points []models.NAVPoint) (volatility, maxDrawdown float64, ok bool) {
	if len(points) < 3 {
		return 0, 0, false
	}
	returns := make([]float64, 0, len(points)-1)
	peak := points[0].NAV
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1].NAV, points[i].NAV
		if prev <= 0 {
			return 0, 0, false
		}
		returns = append(returns, cur/prev-1)
		if cur > peak {
			peak = cur
		}
		if dd := (peak - cur) / peak; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	volatility = stat.StdDev(returns, nil) * math.Sqrt(tradingDays) * 100
	return volatility, maxDrawdown * 100, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
