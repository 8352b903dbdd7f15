package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

// NullableID distinguishes "field absent" from "field set to null" in a
// PATCH body: Set is false when the key was not present at all.
type NullableID struct {
	Set   bool
	Value *int64
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("must be a number or null")
	}
	n.Value = &v
	return nil
}

// NullableString is NullableID for string fields (due_date, due_time).
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("must be a string or null")
	}
	n.Value = &v
	return nil
}

type CreateTaskRequest struct {
	Title      string `json:"title" binding:"required"`
	CategoryID *int64 `json:"category_id"`
	Priority   string `json:"priority"`        // clamped to low/medium/high
	DueDate    string `json:"due_date"`        // "2006-01-02", dropped if unparseable
	DueTime    string `json:"due_time"`        // "HH:MM", dropped if malformed
}

// UpdateTaskRequest is a partial update; only keys present in the JSON body
// are applied. A null category_id/due_date/due_time clears that field.
type UpdateTaskRequest struct {
	Title      *string        `json:"title"`
	Completed  *bool          `json:"completed"`
	CategoryID NullableID     `json:"category_id"`
	Priority   *string        `json:"priority"`
	DueDate    NullableString `json:"due_date"`
	DueTime    NullableString `json:"due_time"`
}

// HasFields reports whether at least one updatable field was supplied.
func (r UpdateTaskRequest) HasFields() bool {
	return r.Title != nil || r.Completed != nil || r.CategoryID.Set ||
		r.Priority != nil || r.DueDate.Set || r.DueTime.Set
}

type TaskResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Completed     bool      `json:"completed"`
	CategoryID    *int64    `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	CategoryColor string    `json:"category_color"`
	Priority      string    `json:"priority"`
	DueDate       *string   `json:"due_date"`
	DueTime       *string   `json:"due_time"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type DeleteTaskResponse struct {
	Success bool `json:"success"`
}

type RepairTasksResponse struct {
	Success bool `json:"success"`
	Fixed   int  `json:"fixed"`
}
