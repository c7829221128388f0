package model

import "time"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentSkipped   AssignmentStatus = "skipped"
)

// TaskAssignment binds a catalog task to a household with a computed due
// date. Status is mutated later by the completion flow; rows are never
// deleted, only superseded.
type TaskAssignment struct {
	ID          int64            `json:"id"`
	HouseholdID int64            `json:"household_id"`
	TaskID      int64            `json:"task_id"`
	DueDate     time.Time        `json:"due_date"`
	Priority    Priority         `json:"priority"`
	Status      AssignmentStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
