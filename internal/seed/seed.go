// Package seed holds the sample dataset written into an empty store.
package seed

import (
	_ "embed"
	"fmt"

	"github.com/roach88/tutorbook/internal/model"
)

//go:embed seed.json
var seedJSON []byte

// Aggregate returns a fresh copy of the sample dataset.
func Aggregate() (*model.Aggregate, error) {
	agg, err := model.Decode(seedJSON)
	if err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return agg, nil
}
