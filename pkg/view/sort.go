// Package view derives the filtered, ordered sequence the table renders
// from the loaded record prefix: stable sort by a column key, then a
// case-insensitive substring filter.
package view

import (
	"sort"

	"github.com/vanderheijden86/gridview/pkg/model"
)

// SortKey identifies the column a sequence is ordered by.
type SortKey int

const (
	SortKeyID    SortKey = iota // Record id (numeric)
	SortKeyName                 // Record name (lexicographic)
	SortKeyValue                // Record value (numeric)
	NumSortKeys                 // Sentinel: total number of sort keys
)

// String returns a human-readable label for the sort key.
func (k SortKey) String() string {
	switch k {
	case SortKeyID:
		return "ID"
	case SortKeyName:
		return "Name"
	case SortKeyValue:
		return "Value"
	default:
		return "Unknown"
	}
}

// DefaultDirection returns the natural sort direction for this key.
func (k SortKey) DefaultDirection() SortDirection {
	if k == SortKeyValue {
		return SortDescending // highest first for metrics
	}
	return SortAscending
}

// SortDirection represents ascending or descending sort order.
type SortDirection int

const (
	SortAscending  SortDirection = iota // ▲ ascending
	SortDescending                      // ▼ descending
)

// String returns a human-readable label for the sort direction.
func (d SortDirection) String() string {
	if d == SortAscending {
		return "Ascending"
	}
	return "Descending"
}

// Indicator returns the arrow indicator for the sort direction.
func (d SortDirection) Indicator() string {
	if d == SortAscending {
		return "▲"
	}
	return "▼"
}

// Toggle returns the opposite direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortAscending {
		return SortDescending
	}
	return SortAscending
}

// Sort returns a new sequence ordered by key and direction. The sort is
// stable: records with equal keys keep their relative input order. The
// input is never mutated.
func Sort(records []model.Record, key SortKey, dir SortDirection) []model.Record {
	out := make([]model.Record, len(records))
	copy(out, records)

	var less func(a, b model.Record) bool
	switch key {
	case SortKeyName:
		less = func(a, b model.Record) bool { return a.Name < b.Name }
	case SortKeyValue:
		less = func(a, b model.Record) bool { return a.Value < b.Value }
	default:
		less = func(a, b model.Record) bool { return a.ID < b.ID }
	}

	sort.SliceStable(out, func(i, j int) bool {
		if dir == SortDescending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}
