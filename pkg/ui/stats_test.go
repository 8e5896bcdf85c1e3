package ui

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/gridview/pkg/model"
)

func TestSummarize(t *testing.T) {
	records := []model.Record{
		{ID: 1, Name: "a", Value: 10, Status: model.StatusActive},
		{ID: 2, Name: "b", Value: 20, Status: model.StatusPending},
		{ID: 3, Name: "c", Value: 30, Status: model.StatusCompleted},
		{ID: 4, Name: "d", Value: 40, Status: model.StatusCompleted},
		{ID: 5, Name: "e", Value: 50, Status: model.StatusActive},
	}

	s := Summarize(records)
	if s.Count != 5 {
		t.Errorf("Count = %d, want 5", s.Count)
	}
	if s.Mean != 30 {
		t.Errorf("Mean = %v, want 30", s.Mean)
	}
	if s.Median != 30 {
		t.Errorf("Median = %v, want 30", s.Median)
	}
	if s.Min != 10 || s.Max != 50 {
		t.Errorf("Min/Max = %d/%d, want 10/50", s.Min, s.Max)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v, want zero", s)
	}
	if got := s.Render(); !strings.Contains(got, "no rows") {
		t.Errorf("empty render = %q", got)
	}
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	records := []model.Record{
		{ID: 1, Value: 50},
		{ID: 2, Value: 10},
	}
	Summarize(records)
	if records[0].Value != 50 || records[1].Value != 10 {
		t.Errorf("input mutated: %+v", records)
	}
}
