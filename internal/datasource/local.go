package datasource

import (
	"context"

	"github.com/seenimoa/fundlens/internal/repository"
	"github.com/seenimoa/fundlens/internal/screener"
	"github.com/seenimoa/fundlens/pkg/models"
)

// Local serves funds from the in-memory repository.
type Local struct {
	repo *repository.Repository
}

var _ FundSource = (*Local)(nil)

// NewLocal creates a source over repo.
func NewLocal(repo *repository.Repository) *Local {
	return &Local{repo: repo}
}

// Name returns the data source name.
func (l *Local) Name() string { return "local:" + l.repo.Source() }

// Repository exposes the underlying repository.
func (l *Local) Repository() *repository.Repository { return l.repo }

// ListFunds applies c to the repository in dataset order.
func (l *Local) ListFunds(_ context.Context, c models.Criteria) ([]models.Fund, error) {
	return screener.Apply(l.repo.All(), c), nil
}

// GetFund returns one fund by id.
func (l *Local) GetFund(_ context.Context, id string) (*models.Fund, error) {
	f, err := l.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// TopFunds ranks the repository.
func (l *Local) TopFunds(_ context.Context, period models.Period, limit int, category models.Category) ([]models.Fund, error) {
	return l.repo.TopPerforming(period, limit, category)
}

// AMCs lists fund houses.
func (l *Local) AMCs(_ context.Context) ([]string, error) {
	return l.repo.AMCs(), nil
}
