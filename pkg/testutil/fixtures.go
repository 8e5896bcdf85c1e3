// Package testutil provides deterministic record fixtures for tests.
// All fixtures produce identical output across runs so failures are
// reproducible.
package testutil

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/vanderheijden86/gridview/pkg/model"
)

// FixtureSeed feeds the value generator. Fixed so fixtures never drift
// between runs.
const FixtureSeed = 42

// Records returns n sequential records shaped exactly like a generated
// dataset: 1-based ids, "Item N" names, seeded pseudo-random values, and
// statuses derived from the id.
func Records(n int) []model.Record {
	rng := rand.New(rand.NewSource(FixtureSeed))
	out := make([]model.Record, n)
	for i := range out {
		id := i + 1
		out[i] = model.Record{
			ID:     id,
			Name:   fmt.Sprintf("Item %d", id),
			Value:  rng.Intn(10000),
			Status: model.StatusFor(id),
		}
	}
	return out
}

// Shuffled returns n fixture records in a seeded random order, for tests
// that must not depend on input ordering.
func Shuffled(n int, seed int64) []model.Record {
	out := Records(n)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// AssertRecordCount fails the test if the sequence length differs from
// expected.
func AssertRecordCount(t *testing.T, records []model.Record, expected int) {
	t.Helper()
	if len(records) != expected {
		t.Errorf("expected %d records, got %d", expected, len(records))
	}
}

// AssertSequentialIDs fails the test unless ids are 1-based and strictly
// sequential.
func AssertSequentialIDs(t *testing.T, records []model.Record) {
	t.Helper()
	for i, r := range records {
		if r.ID != i+1 {
			t.Errorf("record %d has id %d, want %d", i, r.ID, i+1)
			return
		}
	}
}
