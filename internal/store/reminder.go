package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmorgan/upkeep/internal/model"
)

type ReminderStore struct {
	db *sql.DB
}

func NewReminderStore(db *sql.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

const reminderCols = `id, household_id, task_id, task_name, task_description, due_date, run_at, method, status, created_at`

func scanReminder(scanner interface{ Scan(...any) error }) (*model.ReminderQueueEntry, error) {
	var r model.ReminderQueueEntry
	err := scanner.Scan(
		&r.ID, &r.HouseholdID, &r.TaskID, &r.TaskName, &r.TaskDescription,
		&r.DueDate, &r.RunAt, &r.Method, &r.Status, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateBatch inserts a household's reminder entries in one transaction.
func (s *ReminderStore) CreateBatch(entries []model.ReminderQueueEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO reminder_queue (household_id, task_id, task_name, task_description, due_date, run_at, method, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range entries {
		_, err := stmt.Exec(
			r.HouseholdID, r.TaskID, r.TaskName, r.TaskDescription,
			r.DueDate.UTC(), r.RunAt.UTC(), r.Method, r.Status,
		)
		if err != nil {
			return fmt.Errorf("insert reminder: %w", err)
		}
	}
	return tx.Commit()
}

func (s *ReminderStore) ListByHousehold(householdID int64) ([]model.ReminderQueueEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+reminderCols+` FROM reminder_queue WHERE household_id = ? ORDER BY run_at ASC, id ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

// ListDue returns pending entries whose fire time has arrived. Consumed by
// the external sender.
func (s *ReminderStore) ListDue(now time.Time) ([]model.ReminderQueueEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+reminderCols+` FROM reminder_queue WHERE status = ? AND run_at <= ? ORDER BY run_at ASC`,
		model.ReminderPending, now.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	defer rows.Close()
	return collectReminders(rows)
}

func (s *ReminderStore) UpdateStatus(id int64, status model.ReminderStatus) error {
	_, err := s.db.Exec(`UPDATE reminder_queue SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update reminder status: %w", err)
	}
	return nil
}

func collectReminders(rows *sql.Rows) ([]model.ReminderQueueEntry, error) {
	var entries []model.ReminderQueueEntry
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		entries = append(entries, *r)
	}
	return entries, rows.Err()
}
