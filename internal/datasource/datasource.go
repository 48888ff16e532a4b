// Package datasource provides fund data access. A Facade serves each call
// from the remote fund API when one is configured and reachable, and from
// the local repository otherwise.
package datasource

import (
	"context"
	"fmt"

	"github.com/seenimoa/fundlens/internal/repository"
	"github.com/seenimoa/fundlens/pkg/models"
)

// FundSource defines the operations every fund source supports.
type FundSource interface {
	// Name returns the human-readable name of this source.
	Name() string

	// ListFunds returns the funds matching c.
	ListFunds(ctx context.Context, c models.Criteria) ([]models.Fund, error)

	// GetFund returns one fund, or ErrFundNotFound.
	GetFund(ctx context.Context, id string) (*models.Fund, error)

	// TopFunds ranks funds by the return for period, highest first.
	TopFunds(ctx context.Context, period models.Period, limit int, category models.Category) ([]models.Fund, error)

	// AMCs returns the distinct fund house names, sorted.
	AMCs(ctx context.Context) ([]string, error)
}

// --- Sentinel errors ---

// ErrFundNotFound is returned when no source knows the requested fund.
var ErrFundNotFound = repository.ErrFundNotFound

// ErrHTTP wraps a non-2xx response from the remote fund API.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Message    string // "message" or "detail" field of a JSON error body
	Body       string
}

func (e *ErrHTTP) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// Served names the side of the Facade that answered a call.
type Served string

const (
	ServedRemote Served = "remote"
	ServedLocal  Served = "local"
)
