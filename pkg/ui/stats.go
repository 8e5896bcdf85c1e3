package ui

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/gridview/pkg/model"
)

// Summary holds aggregate figures for the records currently in view.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Min    int
	Max    int
}

// Summarize computes value statistics over the visible result set.
// A nil or empty slice yields a zero Summary.
func Summarize(records []model.Record) Summary {
	if len(records) == 0 {
		return Summary{}
	}
	values := make([]float64, len(records))
	min, max := records[0].Value, records[0].Value
	for i, r := range records {
		values[i] = float64(r.Value)
		if r.Value < min {
			min = r.Value
		}
		if r.Value > max {
			max = r.Value
		}
	}
	mean := stat.Mean(values, nil)
	// Quantile needs sorted input.
	sort.Float64s(values)
	median := stat.Quantile(0.5, stat.Empirical, values, nil)
	return Summary{
		Count:  len(records),
		Mean:   mean,
		Median: median,
		Min:    min,
		Max:    max,
	}
}

// Render formats the summary as a single status line.
func (s Summary) Render() string {
	if s.Count == 0 {
		return StatsStyle.Render("no rows")
	}
	return StatsStyle.Render(fmt.Sprintf(
		"n=%s  mean=%.1f  median=%.1f  min=%d  max=%d",
		formatCount(s.Count), s.Mean, s.Median, s.Min, s.Max,
	))
}
