package store

import (
	"database/sql"
	"fmt"

	"github.com/jmorgan/upkeep/internal/model"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileCols = `id, household_id, home_type, hvac_type, water_heater_type, roof_age_years, square_feet, created_at, updated_at`

func scanProfile(scanner interface{ Scan(...any) error }) (*model.HomeProfile, error) {
	var p model.HomeProfile
	err := scanner.Scan(
		&p.ID, &p.HouseholdID, &p.HomeType, &p.HVACType, &p.WaterHeaterType,
		&p.RoofAgeYears, &p.SquareFeet, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates or replaces the profile for a household. Onboarding owns
// these rows; this store exists so tests and the CLI can stage them.
func (s *ProfileStore) Upsert(p model.HomeProfile) (*model.HomeProfile, error) {
	_, err := s.db.Exec(
		`INSERT INTO home_profiles (household_id, home_type, hvac_type, water_heater_type, roof_age_years, square_feet)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(household_id) DO UPDATE SET
			home_type = excluded.home_type, hvac_type = excluded.hvac_type,
			water_heater_type = excluded.water_heater_type, roof_age_years = excluded.roof_age_years,
			square_feet = excluded.square_feet, updated_at = datetime('now')`,
		p.HouseholdID, p.HomeType, p.HVACType, p.WaterHeaterType, p.RoofAgeYears, p.SquareFeet,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return s.GetByHousehold(p.HouseholdID)
}

func (s *ProfileStore) GetByHousehold(householdID int64) (*model.HomeProfile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM home_profiles WHERE household_id = ?`, householdID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}
