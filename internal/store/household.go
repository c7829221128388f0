package store

import (
	"database/sql"
	"fmt"

	"github.com/jmorgan/upkeep/internal/model"
)

type HouseholdStore struct {
	db *sql.DB
}

func NewHouseholdStore(db *sql.DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

const householdCols = `id, name, email, phone, notify_pref, sms_opt_in, created_at, updated_at`

func scanHousehold(scanner interface{ Scan(...any) error }) (*model.Household, error) {
	var h model.Household
	var smsOptIn int
	err := scanner.Scan(&h.ID, &h.Name, &h.Email, &h.Phone, &h.NotifyPref, &smsOptIn, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	h.SMSOptIn = smsOptIn != 0
	return &h, nil
}

func (s *HouseholdStore) Create(name, email, phone string, pref model.NotifyPref, smsOptIn bool) (*model.Household, error) {
	result, err := s.db.Exec(
		`INSERT INTO households (name, email, phone, notify_pref, sms_opt_in) VALUES (?, ?, ?, ?, ?)`,
		name, email, phone, pref, boolToInt(smsOptIn),
	)
	if err != nil {
		return nil, fmt.Errorf("insert household: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *HouseholdStore) GetByID(id int64) (*model.Household, error) {
	row := s.db.QueryRow(`SELECT `+householdCols+` FROM households WHERE id = ?`, id)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return h, nil
}

func (s *HouseholdStore) List() ([]model.Household, error) {
	rows, err := s.db.Query(`SELECT ` + householdCols + ` FROM households ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	defer rows.Close()

	var households []model.Household
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan household: %w", err)
		}
		households = append(households, *h)
	}
	return households, rows.Err()
}

// SetNotifyPref updates the delivery preference and SMS opt-in for a household.
func (s *HouseholdStore) SetNotifyPref(id int64, pref model.NotifyPref, smsOptIn bool) error {
	_, err := s.db.Exec(
		`UPDATE households SET notify_pref = ?, sms_opt_in = ?, updated_at = datetime('now') WHERE id = ?`,
		pref, boolToInt(smsOptIn), id,
	)
	if err != nil {
		return fmt.Errorf("set notify pref: %w", err)
	}
	return nil
}
