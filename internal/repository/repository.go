// Package repository holds the immutable in-memory fund catalog served by
// fundlens. A Repository is built once from a dataset and is safe for
// concurrent readers without locking.
package repository

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/seenimoa/fundlens/pkg/models"
)

var (
	// ErrFundNotFound is returned when no fund carries the requested id.
	ErrFundNotFound = errors.New("fund not found")
	// ErrDuplicateID is returned when two funds share an id.
	ErrDuplicateID = errors.New("duplicate fund id")
)

// DefaultTopLimit is the ranking size used when the caller passes none.
const DefaultTopLimit = 10

// Repository is an immutable, ordered fund collection.
type Repository struct {
	funds    []models.Fund
	index    map[string]int
	amcs     []string
	source   string
	loadedAt time.Time
	log      zerolog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for load-time warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Repository) { r.log = l }
}

// WithSource labels where the funds came from.
func WithSource(name string) Option {
	return func(r *Repository) { r.source = name }
}

// WithLoadedAt overrides the load timestamp.
func WithLoadedAt(t time.Time) Option {
	return func(r *Repository) { r.loadedAt = t }
}

// New builds a repository from funds, keeping their order. Invalid funds
// and duplicate ids are rejected. An aum_category that disagrees with aum
// is logged and kept as given.
func New(funds []models.Fund, opts ...Option) (*Repository, error) {
	r := &Repository{
		funds:    make([]models.Fund, len(funds)),
		index:    make(map[string]int, len(funds)),
		loadedAt: time.Now(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	copy(r.funds, funds)

	seen := make(map[string]struct{})
	for i := range r.funds {
		f := &r.funds[i]
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("fund %d: %w", i, err)
		}
		if _, dup := r.index[f.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, f.ID)
		}
		r.index[f.ID] = i

		if !f.AUMCategoryConsistent() {
			r.log.Warn().
				Str("fund", f.ID).
				Float64("aum", f.AUM).
				Str("aum_category", string(f.AUMCategory)).
				Str("expected", string(models.AUMCategoryFor(f.AUM))).
				Msg("aum_category disagrees with aum")
		}
		if _, ok := seen[f.AMC]; !ok {
			seen[f.AMC] = struct{}{}
			r.amcs = append(r.amcs, f.AMC)
		}
	}
	sort.Strings(r.amcs)

	r.log.Debug().Int("funds", len(r.funds)).Str("source", r.source).Msg("repository loaded")
	return r, nil
}

// All returns every fund in dataset order. The slice is a copy.
func (r *Repository) All() []models.Fund {
	out := make([]models.Fund, len(r.funds))
	copy(out, r.funds)
	return out
}

// ByID returns the fund with the given id.
func (r *Repository) ByID(id string) (models.Fund, error) {
	i, ok := r.index[id]
	if !ok {
		return models.Fund{}, fmt.Errorf("%w: %s", ErrFundNotFound, id)
	}
	return r.funds[i], nil
}

// ByIDs returns the funds whose id is listed, in dataset order. Unknown
// ids are skipped.
func (r *Repository) ByIDs(ids []string) []models.Fund {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]models.Fund, 0, len(want))
	for _, f := range r.funds {
		if _, ok := want[f.ID]; ok {
			out = append(out, f)
		}
	}
	return out
}

// AMCs returns the distinct fund house names, sorted.
func (r *Repository) AMCs() []string {
	out := make([]string, len(r.amcs))
	copy(out, r.amcs)
	return out
}

// TopPerforming ranks funds by the return for period, highest first. Ties
// keep dataset order. A non-empty category restricts the ranking; limit <= 0
// means DefaultTopLimit.
func (r *Repository) TopPerforming(period models.Period, limit int, category models.Category) ([]models.Fund, error) {
	if _, ok := (models.Returns{}).For(period); !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownPeriod, period)
	}
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	ranked := make([]models.Fund, 0, len(r.funds))
	for _, f := range r.funds {
		if category != "" && f.Category != category {
			continue
		}
		ranked = append(ranked, f)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, _ := ranked[i].Returns.For(period)
		b, _ := ranked[j].Returns.For(period)
		return a > b
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Len is the number of funds.
func (r *Repository) Len() int { return len(r.funds) }

// LoadedAt is when the repository was built.
func (r *Repository) LoadedAt() time.Time { return r.loadedAt }

// Source labels where the funds came from.
func (r *Repository) Source() string { return r.source }

// Stats summarizes the catalog.
func (r *Repository) Stats() models.MarketStats {
	s := models.MarketStats{TotalFunds: len(r.funds)}
	if len(r.funds) == 0 {
		return s
	}

	oneYear := make([]float64, len(r.funds))
	categories := make(map[models.Category]struct{})
	top := 0
	for i, f := range r.funds {
		oneYear[i] = f.Returns.OneYear
		categories[f.Category] = struct{}{}
		if f.Returns.OneYear > r.funds[top].Returns.OneYear {
			top = i
		}
	}
	gainer := r.funds[top]
	s.TopGainer = &gainer
	s.AverageReturn1Y = stat.Mean(oneYear, nil)
	s.CategoryCount = len(categories)
	return s
}

// MetricStats returns min, max and mean of each filterable metric over the
// funds that report it.
func (r *Repository) MetricStats() models.MetricRanges {
	out := make(models.MetricRanges, len(models.FilterMetrics))
	for _, m := range models.FilterMetrics {
		var values []float64
		for i := range r.funds {
			if v := r.funds[i].Metric(m); v != nil {
				values = append(values, *v)
			}
		}
		out[m] = metricRange(values)
	}
	return out
}

func metricRange(values []float64) models.MetricRange {
	if len(values) == 0 {
		return models.MetricRange{}
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	avg := stat.Mean(values, nil)
	return models.MetricRange{Min: &lo, Max: &hi, Avg: &avg, Count: len(values)}
}
