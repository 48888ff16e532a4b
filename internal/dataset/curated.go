// Package dataset provides the fund lists the local repository is built
// from: the curated list shipped with the binary, a seeded mock generator,
// CSV and HTML factsheet imports, and the snapshot store.
package dataset

import (
	_ "embed"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/seenimoa/fundlens/pkg/models"
)

//go:embed data/funds.json
var curatedJSON []byte

// Curated returns the curated Indian fund list in its published order.
func Curated() ([]models.Fund, error) {
	var funds []models.Fund
	if err := json.Unmarshal(curatedJSON, &funds); err != nil {
		return nil, fmt.Errorf("decoding curated funds: %w", err)
	}
	return funds, nil
}
