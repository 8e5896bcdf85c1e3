// Package model defines the core record types shared across gridview.
package model

// Status classifies a record's lifecycle stage. The set is closed:
// every record is exactly one of Active, Pending, or Completed.
type Status string

const (
	StatusActive    Status = "Active"
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPending, StatusCompleted:
		return true
	}
	return false
}

// StatusFor derives a record's status from its id: multiples of five are
// Active, remaining multiples of three are Pending, everything else is
// Completed. The rule is a pure function of the id so generated datasets
// are reproducible.
func StatusFor(id int) Status {
	switch {
	case id%5 == 0:
		return StatusActive
	case id%3 == 0:
		return StatusPending
	default:
		return StatusCompleted
	}
}

// Record is one row of the dataset. Records are created once by a
// provider and never mutated; downstream views hold references, not
// copies.
type Record struct {
	// ID is unique, stable, and 1-based sequential within a dataset.
	ID int `json:"id"`
	// Name is a display label for the record.
	Name string `json:"name"`
	// Value is a non-negative metric associated with the record.
	Value int `json:"value"`
	// Status is the record's lifecycle stage.
	Status Status `json:"status"`
}
