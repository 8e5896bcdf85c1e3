// Package datasource provides record providers for gridview: the
// deterministic generated dataset plus SQLite and JSONL file readers.
// A provider owns the full dataset conceptually; the prefix loader asks
// it for contiguous chunks.
package datasource

import (
	"context"
	"errors"

	"github.com/vanderheijden86/gridview/pkg/model"
)

// ErrClosed is returned by Fetch after a provider has been closed.
var ErrClosed = errors.New("datasource: provider is closed")

// Provider is the injectable source of records. Implementations must
// return records with stable identity: fetching the same range twice
// yields the same records.
type Provider interface {
	// Total returns the full dataset size.
	Total() int
	// Fetch returns up to limit records starting at offset, in dataset
	// order. Out-of-range requests are clamped, never an error: an
	// offset at or past the end yields an empty slice.
	Fetch(ctx context.Context, offset, limit int) ([]model.Record, error)
}

// clampRange bounds [offset, offset+limit) to [0, total) and returns
// the effective start and end.
func clampRange(offset, limit, total int) (start, end int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	if limit < 0 {
		limit = 0
	}
	end = offset + limit
	if end > total {
		end = total
	}
	return offset, end
}
