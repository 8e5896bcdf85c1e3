package view

import (
	"strconv"
	"strings"

	"github.com/vanderheijden86/gridview/pkg/model"
)

// Matches reports whether query is a substring of the record's id
// rendered as a string, its lower-cased name, or its lower-cased status.
// query must already be lower-cased.
func Matches(r model.Record, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strconv.Itoa(r.ID), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Name), query) {
		return true
	}
	return strings.Contains(strings.ToLower(string(r.Status)), query)
}

// Filter returns the subsequence of records matching query, preserving
// input order. The query is matched verbatim apart from lower-casing,
// so whitespace in it is significant. An empty query is a pass-through:
// the input slice is returned unchanged without copying.
func Filter(records []model.Record, query string) []model.Record {
	query = strings.ToLower(query)
	if query == "" {
		return records
	}
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if Matches(r, query) {
			out = append(out, r)
		}
	}
	return out
}
