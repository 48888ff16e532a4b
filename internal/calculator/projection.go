// Package calculator computes investment projections and synthetic NAV
// series from a fund's reported figures.
package calculator

import (
	"errors"
	"math"

	"github.com/seenimoa/fundlens/pkg/models"
)

// DefaultTaxRate is the flat rate applied to gains in the post-tax view.
// It is a demonstration figure, not a statement of Indian tax law.
const DefaultTaxRate = 0.10

var (
	// ErrInvalidYears is returned when the horizon is shorter than one year.
	ErrInvalidYears = errors.New("years must be at least 1")
	// ErrInvalidAmount is returned when the invested amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidTaxRate is returned for a tax rate outside 0..1.
	ErrInvalidTaxRate = errors.New("tax rate must be between 0 and 1")
	// ErrInvalidRate is returned for a return of -100% or less, or a
	// non-finite one.
	ErrInvalidRate = errors.New("rate must be a finite percentage above -100")
	// ErrOutOfRange is returned when a result does not fit in a float64.
	ErrOutOfRange = errors.New("result is out of range")
)

func validate(amount, annualPct float64, years int) error {
	if years < 1 {
		return ErrInvalidYears
	}
	if !(amount > 0) || math.IsInf(amount, 1) {
		return ErrInvalidAmount
	}
	return validRate(annualPct)
}

func validRate(annualPct float64) error {
	if !(annualPct > -100) || math.IsInf(annualPct, 1) {
		return ErrInvalidRate
	}
	return nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func checkProjection(p models.Projection) (models.Projection, error) {
	if !finite(p.TotalInvested, p.EstimatedReturns, p.MaturityValue) {
		return models.Projection{}, ErrOutOfRange
	}
	return p, nil
}

// monthlyRate converts an annual percentage into the equivalent compounded
// monthly rate.
func monthlyRate(annualPct float64) float64 {
	return math.Pow(1+annualPct/100, 1.0/12) - 1
}

// SIP projects a monthly systematic investment. Each contribution is made
// at the start of the month and compounds for that month.
func SIP(contribution, annualPct float64, years int) (models.Projection, error) {
	if err := validate(contribution, annualPct, years); err != nil {
		return models.Projection{}, err
	}
	balance := sipBalance(contribution, monthlyRate(annualPct), years*12)
	invested := contribution * float64(years*12)
	return checkProjection(models.Projection{
		TotalInvested:    invested,
		EstimatedReturns: balance - invested,
		MaturityValue:    balance,
	})
}

func sipBalance(contribution, rm float64, months int) float64 {
	var balance float64
	for i := 0; i < months; i++ {
		balance = (balance + contribution) * (1 + rm)
	}
	return balance
}

// Lumpsum projects a one-time investment compounded annually.
func Lumpsum(principal, annualPct float64, years int) (models.Projection, error) {
	if err := validate(principal, annualPct, years); err != nil {
		return models.Projection{}, err
	}
	final := principal * math.Pow(1+annualPct/100, float64(years))
	return checkProjection(models.Projection{
		TotalInvested:    principal,
		EstimatedReturns: final - principal,
		MaturityValue:    final,
	})
}

// PostTax applies a flat tax rate to the gain of p. A loss is not taxed.
func PostTax(p models.Projection, taxRate float64) (models.PostTax, error) {
	if !(taxRate >= 0 && taxRate <= 1) {
		return models.PostTax{}, ErrInvalidTaxRate
	}
	tax := math.Max(p.EstimatedReturns, 0) * taxRate
	if !finite(tax, p.MaturityValue-tax) {
		return models.PostTax{}, ErrOutOfRange
	}
	return models.PostTax{
		TaxRate:      taxRate,
		Tax:          tax,
		PostTaxValue: p.MaturityValue - tax,
	}, nil
}

// SIPSchedule returns invested amount and value at the end of each year.
func SIPSchedule(contribution, annualPct float64, years int) ([]models.YearValue, error) {
	if err := validate(contribution, annualPct, years); err != nil {
		return nil, err
	}
	rm := monthlyRate(annualPct)
	rows := make([]models.YearValue, 0, years)
	var balance float64
	for y := 1; y <= years; y++ {
		for m := 0; m < 12; m++ {
			balance = (balance + contribution) * (1 + rm)
		}
		if !finite(balance) {
			return nil, ErrOutOfRange
		}
		rows = append(rows, models.YearValue{
			Year:     y,
			Invested: contribution * float64(y*12),
			Value:    balance,
		})
	}
	return rows, nil
}

// LumpsumSchedule returns the value of a lumpsum at the end of each year.
func LumpsumSchedule(principal, annualPct float64, years int) ([]models.YearValue, error) {
	if err := validate(principal, annualPct, years); err != nil {
		return nil, err
	}
	rows := make([]models.YearValue, 0, years)
	value := principal
	for y := 1; y <= years; y++ {
		value *= 1 + annualPct/100
		if !finite(value) {
			return nil, ErrOutOfRange
		}
		rows = append(rows, models.YearValue{Year: y, Invested: principal, Value: value})
	}
	return rows, nil
}
