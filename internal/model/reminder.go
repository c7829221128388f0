package model

import "time"

type DeliveryMethod string

const (
	DeliveryEmail DeliveryMethod = "email"
	DeliverySMS   DeliveryMethod = "sms"
)

type ReminderStatus string

const (
	ReminderPending ReminderStatus = "pending"
	ReminderSent    ReminderStatus = "sent"
	ReminderFailed  ReminderStatus = "failed"
)

// ReminderQueueEntry is one scheduled nudge for an assignment. TaskName
// and TaskDescription are snapshotted from the catalog at creation so
// later catalog edits do not rewrite reminders already queued.
type ReminderQueueEntry struct {
	ID              int64          `json:"id"`
	HouseholdID     int64          `json:"household_id"`
	TaskID          int64          `json:"task_id"`
	TaskName        string         `json:"task_name"`
	TaskDescription string         `json:"task_description"`
	DueDate         time.Time      `json:"due_date"`
	RunAt           time.Time      `json:"run_at"`
	Method          DeliveryMethod `json:"method"`
	Status          ReminderStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
}
