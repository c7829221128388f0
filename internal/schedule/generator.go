package schedule

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jmorgan/upkeep/internal/model"
	"github.com/jmorgan/upkeep/internal/store"
)

// Generator produces a household's maintenance schedule: one assignment
// per eligible catalog task, plus the reminder queue entries for each
// assignment.
type Generator struct {
	catalog     *store.CatalogStore
	profiles    *store.ProfileStore
	households  *store.HouseholdStore
	assignments *store.AssignmentStore
	reminders   *store.ReminderStore
}

func NewGenerator(cs *store.CatalogStore, ps *store.ProfileStore, hs *store.HouseholdStore, as *store.AssignmentStore, rs *store.ReminderStore) *Generator {
	return &Generator{
		catalog:     cs,
		profiles:    ps,
		households:  hs,
		assignments: as,
		reminders:   rs,
	}
}

// Generate builds and persists the schedule for a household. It runs
// exactly once per household: if any assignment already exists the call
// is a no-op returning the existing schedule. Assignments are written as
// one batch and returned sorted by ascending due date.
func (g *Generator) Generate(householdID int64, now time.Time) ([]model.TaskAssignment, error) {
	exists, err := g.assignments.ExistsForHousehold(householdID)
	if err != nil {
		return nil, fmt.Errorf("check existing assignments: %w", err)
	}
	if exists {
		slog.Info("assignments already generated, skipping", "household_id", householdID)
		return g.assignments.ListByHousehold(householdID)
	}

	household, err := g.households.GetByID(householdID)
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	if household == nil {
		return nil, fmt.Errorf("household %d not found", householdID)
	}

	profile, err := g.profiles.GetByHousehold(householdID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile == nil {
		slog.Warn("no home profile, using conservative defaults", "household_id", householdID)
	}

	tasks, err := g.catalog.List()
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	taskByID := make(map[int64]model.TaskDefinition, len(tasks))
	var batch []model.TaskAssignment
	for _, task := range tasks {
		taskByID[task.ID] = task

		decision := Evaluate(profile, task)
		if !decision.Eligible {
			continue
		}

		batch = append(batch, model.TaskAssignment{
			HouseholdID: householdID,
			TaskID:      task.ID,
			DueDate:     DueDate(now, decision.Rule, task),
			Priority:    decision.Priority,
			Status:      model.AssignmentPending,
		})
	}

	sort.Slice(batch, func(i, j int) bool {
		return batch[i].DueDate.Before(batch[j].DueDate)
	})

	if err := g.assignments.CreateBatch(batch); err != nil {
		return nil, fmt.Errorf("create assignments: %w", err)
	}

	// Re-read so the returned assignments carry row IDs.
	created, err := g.assignments.ListByHousehold(householdID)
	if err != nil {
		return nil, fmt.Errorf("list created assignments: %w", err)
	}

	// Reminders are built from the in-memory batch, not the re-read rows:
	// the batch due dates are still in the caller's location, so fire
	// times land on 14:00 local rather than 14:00 UTC.
	entries := BuildReminders(household, batch, taskByID, now)
	if err := g.reminders.CreateBatch(entries); err != nil {
		return nil, fmt.Errorf("create reminders: %w", err)
	}

	slog.Info("generated schedule",
		"household_id", householdID,
		"assignments", len(created),
		"reminders", len(entries),
	)
	return created, nil
}
