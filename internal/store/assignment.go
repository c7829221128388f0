package store

import (
	"database/sql"
	"fmt"

	"github.com/jmorgan/upkeep/internal/model"
)

type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

const assignmentCols = `id, household_id, task_id, due_date, priority, status, created_at, updated_at`

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.TaskAssignment, error) {
	var a model.TaskAssignment
	err := scanner.Scan(
		&a.ID, &a.HouseholdID, &a.TaskID, &a.DueDate, &a.Priority, &a.Status,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ExistsForHousehold reports whether any assignment, in any status, exists
// for the household. Generation is a one-shot per onboarding; any existing
// row means the schedule was already produced.
func (s *AssignmentStore) ExistsForHousehold(householdID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM task_assignments WHERE household_id = ?`, householdID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count assignments: %w", err)
	}
	return count > 0, nil
}

// CreateBatch inserts all assignments for a household in one transaction
// so a partially generated schedule is never visible.
func (s *AssignmentStore) CreateBatch(assignments []model.TaskAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO task_assignments (household_id, task_id, due_date, priority, status) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.Exec(a.HouseholdID, a.TaskID, a.DueDate.UTC(), a.Priority, a.Status); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	return tx.Commit()
}

func (s *AssignmentStore) ListByHousehold(householdID int64) ([]model.TaskAssignment, error) {
	rows, err := s.db.Query(
		`SELECT `+assignmentCols+` FROM task_assignments WHERE household_id = ? ORDER BY due_date ASC, id ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.TaskAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

func (s *AssignmentStore) GetByID(id int64) (*model.TaskAssignment, error) {
	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM task_assignments WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// UpdateStatus is called by the external completion flow.
func (s *AssignmentStore) UpdateStatus(id int64, status model.AssignmentStatus) error {
	_, err := s.db.Exec(
		`UPDATE task_assignments SET status = ?, updated_at = datetime('now') WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update assignment status: %w", err)
	}
	return nil
}
