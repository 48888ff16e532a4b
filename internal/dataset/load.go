package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/seenimoa/fundlens/internal/config"
	"github.com/seenimoa/fundlens/internal/store"
	"github.com/seenimoa/fundlens/pkg/models"
)

// Load returns the funds selected by cfg and a label naming their source.
// st is only consulted for the sqlite source and may be nil otherwise.
func Load(ctx context.Context, cfg config.DataConfig, st *store.Store) ([]models.Fund, string, error) {
	switch cfg.Source {
	case "", config.SourceCurated:
		funds, err := Curated()
		return funds, config.SourceCurated, err

	case config.SourceGenerated:
		return Generate(cfg.GenerateCount, cfg.Seed), config.SourceGenerated, nil

	case config.SourceCSV, config.SourceHTML:
		funds, err := ReadFile(cfg.Source, cfg.Path)
		return funds, cfg.Source + ":" + cfg.Path, err

	case config.SourceSQLite:
		if st == nil {
			return nil, "", fmt.Errorf("sqlite source requires a snapshot store")
		}
		funds, err := st.LoadFunds(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("loading snapshot from %s: %w", st.Path(), err)
		}
		return funds, config.SourceSQLite, nil
	}
	return nil, "", fmt.Errorf("unknown data source %q", cfg.Source)
}

// ReadFile imports funds from a csv or html file.
func ReadFile(kind, path string) ([]models.Fund, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	switch kind {
	case config.SourceCSV:
		return ReadCSV(f)
	case config.SourceHTML:
		return ReadHTMLTable(f)
	}
	return nil, fmt.Errorf("unsupported import format %q", kind)
}
