package datasource

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/gridview/pkg/model"
)

// DefaultSeed feeds the generated dataset's value column. Fixed so the
// default dataset is identical across runs.
const DefaultSeed = 1

// Generated is an in-memory provider backed by a synthetic dataset built
// once at construction. Names are sequential, values come from a seeded
// PRNG, and statuses follow the modulo rule in model.StatusFor, so the
// whole dataset is a pure function of (total, seed).
type Generated struct {
	records []model.Record
}

// NewGenerated builds a synthetic dataset of total records.
func NewGenerated(total int, seed int64) *Generated {
	if total < 0 {
		total = 0
	}
	rng := rand.New(rand.NewSource(seed))
	records := make([]model.Record, total)
	for i := range records {
		id := i + 1
		records[i] = model.Record{
			ID:     id,
			Name:   fmt.Sprintf("Item %d", id),
			Value:  rng.Intn(10000),
			Status: model.StatusFor(id),
		}
	}
	return &Generated{records: records}
}

// Total returns the dataset size.
func (g *Generated) Total() int {
	return len(g.records)
}

// Fetch returns the records in [offset, offset+limit), clamped to the
// dataset bounds. The returned slice aliases the backing dataset;
// records are immutable so sharing is safe.
func (g *Generated) Fetch(ctx context.Context, offset, limit int) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start, end := clampRange(offset, limit, len(g.records))
	return g.records[start:end], nil
}
