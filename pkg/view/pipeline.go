package view

import (
	"strings"

	"github.com/vanderheijden86/gridview/pkg/model"
)

// Pipeline memoizes the derived sequence so that repeated queries within
// an update cycle reuse the previous result. The cache key is the input
// tuple (prefix length, sort key, direction, query); the loaded prefix
// only ever grows, so its length is a valid version stamp.
//
// Not safe for concurrent use; the UI event loop is the single caller.
type Pipeline struct {
	lastLen   int
	lastKey   SortKey
	lastDir   SortDirection
	lastQuery string
	cached    []model.Record
	valid     bool

	rebuilds uint64
}

// Derive applies sort then filter to records. Sort always runs first so
// filtering never disturbs the established order.
func (p *Pipeline) Derive(records []model.Record, key SortKey, dir SortDirection, query string) []model.Record {
	query = strings.ToLower(query)
	if p.valid && p.lastLen == len(records) && p.lastKey == key && p.lastDir == dir && p.lastQuery == query {
		return p.cached
	}

	sorted := Sort(records, key, dir)
	p.cached = Filter(sorted, query)
	p.lastLen = len(records)
	p.lastKey = key
	p.lastDir = dir
	p.lastQuery = query
	p.valid = true
	p.rebuilds++
	return p.cached
}

// Rebuilds returns how many times the pipeline actually recomputed.
func (p *Pipeline) Rebuilds() uint64 {
	return p.rebuilds
}

// Invalidate drops the cached sequence, forcing the next Derive to
// recompute. Needed when the backing dataset is swapped wholesale (live
// reload) without its length changing.
func (p *Pipeline) Invalidate() {
	p.valid = false
	p.cached = nil
}
