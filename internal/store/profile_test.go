package store

import (
	"testing"

	"github.com/jmorgan/upkeep/internal/model"
)

func TestProfileUpsert(t *testing.T) {
	db := setupTestDB(t)
	s := NewProfileStore(db)
	h := seedHousehold(t, db)

	p, err := s.Upsert(model.HomeProfile{
		HouseholdID:  h.ID,
		HomeType:     model.HomeSingleFamily,
		HVACType:     "central_air",
		RoofAgeYears: 12,
		SquareFeet:   1800,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if p.ID == 0 || p.HomeType != model.HomeSingleFamily {
		t.Errorf("unexpected profile: %+v", p)
	}

	// A second upsert replaces the row instead of adding one.
	p2, err := s.Upsert(model.HomeProfile{
		HouseholdID: h.ID,
		HomeType:    model.HomeCondo,
		HVACType:    "none",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if p2.ID != p.ID {
		t.Errorf("upsert changed id: %d -> %d", p.ID, p2.ID)
	}
	if p2.HomeType != model.HomeCondo || p2.RoofAgeYears != 0 {
		t.Errorf("upsert did not replace fields: %+v", p2)
	}
}

func TestProfileGetMissing(t *testing.T) {
	db := setupTestDB(t)
	s := NewProfileStore(db)

	p, err := s.GetByHousehold(4242)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p != nil {
		t.Error("expected nil for missing profile")
	}
}
