package calculator

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/seenimoa/fundlens/pkg/models"
	"github.com/seenimoa/fundlens/pkg/utils"
)

var (
	// ErrInvalidDays is returned when fewer than one day is requested.
	ErrInvalidDays = errors.New("days must be at least 1")
	// ErrInvalidNAV is returned when the anchor NAV is not positive.
	ErrInvalidNAV = errors.New("nav must be positive")
)

// Noise band applied to each synthetic NAV point.
const (
	noiseLow   = 0.995
	noiseWidth = 0.01
)

// NAVHistory back-extrapolates a daily NAV series from the current NAV and
// the 1Y return. The series is oldest first, has exactly days points on
// consecutive calendar days, and ends on end. Each point carries ±0.5%
// uniform noise and is rounded to 4 decimals.
//
// The series is illustrative only. Pass a seeded rng for repeatable output;
// nil uses the global source.
func NAVHistory(nav, return1Y float64, days int, end time.Time, rng *rand.Rand) ([]models.NAVPoint, error) {
	if days < 1 {
		return nil, ErrInvalidDays
	}
	if !(nav > 0) || math.IsInf(nav, 1) {
		return nil, ErrInvalidNAV
	}
	if err := validRate(return1Y); err != nil {
		return nil, err
	}

	uniform := rand.Float64
	if rng != nil {
		uniform = rng.Float64
	}

	daily := math.Pow(1+return1Y/100, 1.0/365) - 1
	end = utils.StartOfDayIST(end)

	points := make([]models.NAVPoint, days)
	for i := 0; i < days; i++ {
		back := days - i - 1
		noise := noiseLow + uniform()*noiseWidth
		v := nav / math.Pow(1+daily, float64(back)) * noise
		if !finite(v) {
			return nil, ErrOutOfRange
		}
		points[i] = models.NAVPoint{
			Date: utils.FormatDateIST(end.AddDate(0, 0, -back)),
			NAV:  math.Round(v*1e4) / 1e4,
		}
	}
	return points, nil
}

// NAVHistoryForFund is NAVHistory anchored on a fund's NAV and 1Y return.
func NAVHistoryForFund(f models.Fund, days int, end time.Time, rng *rand.Rand) ([]models.NAVPoint, error) {
	return NAVHistory(f.NAV, f.Returns.OneYear, days, end, rng)
}
