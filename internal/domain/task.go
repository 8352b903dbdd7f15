package domain

import "time"

// Priority levels a task can have.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Sentinel display values used when a task has no resolvable category.
const (
	NoCategoryName  = "No Category"
	NoCategoryColor = "#9ca3af"
)

// Task is the domain entity for a to-do item.
// Does not depend on Gin, Postgres or Redis.
//
// DueDate is a calendar date string ("2006-01-02") and DueTime a 24-hour
// "HH:MM" string; both are kept as stored, with no time zone conversion.
// CategoryName/CategoryColor are denormalized from the referenced Category
// at write time and always hold the sentinel pair when CategoryID is nil
// or points at a category that no longer exists.
type Task struct {
	ID            int64
	Title         string
	Completed     bool
	CategoryID    *int64
	CategoryName  string
	CategoryColor string
	Priority      string
	DueDate       *string
	DueTime       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Day returns the calendar day ("2006-01-02", UTC) a task belongs to:
// the due date when set, otherwise the day it was created.
func (t Task) Day() string {
	if t.DueDate != nil && *t.DueDate != "" {
		return *t.DueDate
	}
	return t.CreatedAt.UTC().Format("2006-01-02")
}
