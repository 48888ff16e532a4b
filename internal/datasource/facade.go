package datasource

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/fundlens/pkg/models"
)

// compareWorkers bounds concurrent lookups in Compare.
const compareWorkers = 8

// Facade is the single entry point for fund data. Every call is answered
// by exactly one side: the remote source when it succeeds, otherwise the
// local repository. Remote failures are logged and never surfaced.
type Facade struct {
	local  *Local
	remote FundSource
	log    zerolog.Logger
	served atomic.Value // Served
}

var _ FundSource = (*Facade)(nil)

// NewFacade creates a facade. remote may be nil, in which case every call
// is served locally.
func NewFacade(local *Local, remote FundSource, log zerolog.Logger) *Facade {
	f := &Facade{
		local:  local,
		remote: remote,
		log:    log.With().Str("component", "datasource").Logger(),
	}
	f.served.Store(ServedLocal)
	return f
}

// Name returns the data source name.
func (f *Facade) Name() string {
	if f.remote == nil {
		return f.local.Name()
	}
	return f.remote.Name() + " (fallback " + f.local.Name() + ")"
}

// Local returns the local side.
func (f *Facade) Local() *Local { return f.local }

// HasRemote reports whether a remote source is configured.
func (f *Facade) HasRemote() bool { return f.remote != nil }

// LastServed reports which side answered the most recent call.
func (f *Facade) LastServed() Served {
	return f.served.Load().(Served)
}

// call tries the remote side, then the local side.
func call[T any](f *Facade, op string, remote func(FundSource) (T, error), local func(*Local) (T, error)) (T, error) {
	if f.remote != nil {
		v, err := remote(f.remote)
		if err == nil {
			f.served.Store(ServedRemote)
			return v, nil
		}
		f.log.Warn().Err(err).Str("op", op).Str("remote", f.remote.Name()).
			Msg("remote fund source failed, serving local data")
	}
	f.served.Store(ServedLocal)
	return local(f.local)
}

// ListFunds returns the funds matching c.
func (f *Facade) ListFunds(ctx context.Context, c models.Criteria) ([]models.Fund, error) {
	return call(f, "list_funds",
		func(s FundSource) ([]models.Fund, error) { return s.ListFunds(ctx, c) },
		func(l *Local) ([]models.Fund, error) { return l.ListFunds(ctx, c) })
}

// GetFund returns one fund. ErrFundNotFound means neither side has it.
func (f *Facade) GetFund(ctx context.Context, id string) (*models.Fund, error) {
	return call(f, "get_fund",
		func(s FundSource) (*models.Fund, error) { return s.GetFund(ctx, id) },
		func(l *Local) (*models.Fund, error) { return l.GetFund(ctx, id) })
}

// TopFunds ranks funds by the return for period.
func (f *Facade) TopFunds(ctx context.Context, period models.Period, limit int, category models.Category) ([]models.Fund, error) {
	return call(f, "top_funds",
		func(s FundSource) ([]models.Fund, error) { return s.TopFunds(ctx, period, limit, category) },
		func(l *Local) ([]models.Fund, error) { return l.TopFunds(ctx, period, limit, category) })
}

// AMCs returns the distinct fund house names.
func (f *Facade) AMCs(ctx context.Context) ([]string, error) {
	return call(f, "amcs",
		func(s FundSource) ([]string, error) { return s.AMCs(ctx) },
		func(l *Local) ([]string, error) { return l.AMCs(ctx) })
}

// Compare looks up every id concurrently. It returns the funds found, in
// the order requested, and the ids nobody knows. Blank and repeated ids are
// dropped.
func (f *Facade) Compare(ctx context.Context, ids []string) ([]models.Fund, []string, error) {
	ids = uniqueIDs(ids)
	found := make([]*models.Fund, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(compareWorkers)
	for i, id := range ids {
		g.Go(func() error {
			fund, err := f.GetFund(gctx, id)
			if errors.Is(err, ErrFundNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("compare %s: %w", id, err)
			}
			found[i] = fund
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	funds := make([]models.Fund, 0, len(ids))
	for _, fund := range found {
		if fund != nil {
			funds = append(funds, *fund)
		}
	}
	missingIDs := []string{}
	for i, id := range ids {
		if found[i] == nil {
			missingIDs = append(missingIDs, id)
		}
	}
	return funds, missingIDs, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
