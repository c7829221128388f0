package store

import (
	"database/sql"
	"testing"

	"github.com/jmorgan/upkeep/internal/database"
	"github.com/jmorgan/upkeep/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedHousehold(t *testing.T, db *sql.DB) *model.Household {
	t.Helper()

	h, err := NewHouseholdStore(db).Create("Morgan", "morgan@example.com", "+15551234567", model.NotifyBoth, true)
	if err != nil {
		t.Fatalf("failed to seed household: %v", err)
	}
	return h
}

func seedTask(t *testing.T, db *sql.DB, code string) *model.TaskDefinition {
	t.Helper()

	task, err := NewCatalogStore(db).GetByCode(code)
	if err != nil {
		t.Fatalf("failed to load task %s: %v", code, err)
	}
	if task == nil {
		t.Fatalf("seeded catalog missing task %s", code)
	}
	return task
}
