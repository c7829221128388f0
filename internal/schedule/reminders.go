package schedule

import (
	"time"

	"github.com/jmorgan/upkeep/internal/model"
)

// reminderHour is the fixed local hour reminders fire at.
const reminderHour = 14

// leadDays returns how many days before the due date each reminder for a
// priority fires. 0 means "on the due date".
func leadDays(priority model.Priority) []int {
	switch priority {
	case model.PriorityHigh:
		return []int{7, 3, 1, 0}
	case model.PriorityLow:
		return []int{3, 0}
	default:
		return []int{7, 1, 0}
	}
}

// reminderMethod derives the delivery method from the household's
// notification preference.
func reminderMethod(pref model.NotifyPref) model.DeliveryMethod {
	if pref == model.NotifySMSOnly {
		return model.DeliverySMS
	}
	return model.DeliveryEmail
}

// BuildReminders expands assignments into reminder queue entries. Task
// name and instructions are snapshotted from the catalog now, so the
// entries survive later catalog edits unchanged. Entries whose fire time
// is not strictly after now are discarded rather than queued in the past.
func BuildReminders(household *model.Household, assignments []model.TaskAssignment, tasks map[int64]model.TaskDefinition, now time.Time) []model.ReminderQueueEntry {
	pref := model.NotifyEmailOnly
	if household != nil {
		pref = household.NotifyPref
	}
	method := reminderMethod(pref)

	var entries []model.ReminderQueueEntry
	for _, a := range assignments {
		task, ok := tasks[a.TaskID]
		if !ok {
			continue
		}

		due := a.DueDate
		for _, lead := range leadDays(a.Priority) {
			runAt := time.Date(due.Year(), due.Month(), due.Day(), reminderHour, 0, 0, 0, due.Location()).
				AddDate(0, 0, -lead)
			if !runAt.After(now) {
				continue
			}

			entries = append(entries, model.ReminderQueueEntry{
				HouseholdID:     a.HouseholdID,
				TaskID:          a.TaskID,
				TaskName:        task.Name,
				TaskDescription: task.Instructions,
				DueDate:         due,
				RunAt:           runAt,
				Method:          method,
				Status:          model.ReminderPending,
			})
		}
	}
	return entries
}
