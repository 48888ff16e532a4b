package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seenimoa/fundlens/internal/config"
	"github.com/seenimoa/fundlens/internal/dataset"
	"github.com/seenimoa/fundlens/internal/datasource"
	"github.com/seenimoa/fundlens/internal/repository"
	"github.com/seenimoa/fundlens/internal/store"
	"github.com/seenimoa/fundlens/internal/synthetic"
)

// app holds the wired components shared by the commands.
type app struct {
	repo   *repository.Repository
	facade *datasource.Facade
	remote *datasource.Remote // nil unless remote.enabled
	news   *datasource.News   // nil unless news.enabled
	synth  synthetic.Generator
	store  *store.Store // nil unless the command or data source needs it
}

// newApp loads the local catalog and wires the data sources. withStore
// opens the snapshot store even when the data source does not need it.
func newApp(ctx context.Context, withStore bool) (*app, error) {
	a := &app{synth: synthetic.NewDemo(nil)}

	if withStore || cfg.Data.Source == config.SourceSQLite {
		st, err := openStore()
		if err != nil {
			return nil, err
		}
		a.store = st
	}

	funds, label, err := dataset.Load(ctx, cfg.Data, a.store)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load funds: %w", err)
	}

	opts := []repository.Option{
		repository.WithLogger(log),
		repository.WithSource(label),
	}
	if cfg.Data.Source == config.SourceSQLite {
		if run, err := a.store.LastRun(ctx); err == nil {
			opts = append(opts, repository.WithLoadedAt(run.FinishedAt))
		}
	}
	a.repo, err = repository.New(funds, opts...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load funds from %s: %w", label, err)
	}

	var remote datasource.FundSource
	if cfg.Remote.Enabled {
		a.remote = datasource.NewRemote(cfg.Remote)
		remote = a.remote
	}
	a.facade = datasource.NewFacade(datasource.NewLocal(a.repo), remote, log)

	if cfg.News.Enabled && len(cfg.News.Feeds) > 0 {
		a.news = datasource.NewNews(cfg.News, log)
	}

	log.Debug().
		Str("source", label).
		Int("funds", a.repo.Len()).
		Bool("remote", cfg.Remote.Enabled).
		Msg("Fund catalog loaded")
	return a, nil
}

// Close releases the snapshot store.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close snapshot store")
		}
	}
}

// openStore opens and migrates the snapshot store at sync.store_path.
func openStore() (*store.Store, error) {
	st, err := store.Open(cfg.Sync.StorePath)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// commandContext bounds one-shot commands that may reach the network.
func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := 60 * time.Second
	if cfg.Remote.TimeoutSec > 0 {
		timeout = time.Duration(cfg.Remote.TimeoutSec)*time.Second + 30*time.Second
	}
	return context.WithTimeout(parent, timeout)
}

// errNoRemote is returned by commands that need the remote fund API.
var errNoRemote = errors.New("remote fund API is disabled (set remote.enabled and remote.base_url)")
