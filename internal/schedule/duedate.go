package schedule

import (
	"log/slog"
	"strings"
	"time"

	"github.com/jmorgan/upkeep/internal/model"
)

// RuleKind selects how a task's next due date is computed.
type RuleKind string

const (
	RuleFrequency RuleKind = "frequency"
	RuleSeasonal  RuleKind = "seasonal"
	RuleFixed     RuleKind = "fixed"
)

// Rule is a due-date computation: either an offset parsed from the
// catalog's frequency text, a fixed calendar anchor, or a fixed lead in
// days.
type Rule struct {
	Kind      RuleKind
	FixedDays int
}

const defaultOffsetDays = 30

// FrequencyDays parses the catalog's free-text base frequency into a day
// offset. Unrecognized text falls back to 30 days; that is a catalog data
// quality problem, so it is logged.
func FrequencyDays(frequency string) int {
	f := strings.ToLower(strings.TrimSpace(frequency))
	switch {
	case strings.Contains(f, "month"):
		return 30
	case strings.Contains(f, "quarter") || strings.Contains(f, "4x/year"):
		return 90
	case strings.Contains(f, "twice") || strings.Contains(f, "2x/year"):
		return 180
	case strings.Contains(f, "annual") || strings.Contains(f, "1x/year"):
		return 365
	case strings.Contains(f, "week"):
		return 7
	case f == "":
		return defaultOffsetDays
	default:
		slog.Warn("unrecognized frequency text", "frequency", frequency)
		return defaultOffsetDays
	}
}

// seasonalAnchor returns the fixed calendar anchor for a subtype. The
// second return is false for subtypes with no seasonal calendar.
func seasonalAnchor(subtype model.TaskSubtype) (time.Month, int, bool) {
	switch subtype {
	case model.SubtypeCooling:
		return time.May, 1, true
	case model.SubtypeHeating, model.SubtypeWinterize:
		return time.October, 1, true
	case model.SubtypeIrrigation:
		return time.March, 15, true
	case model.SubtypeGutter:
		return time.October, 15, true
	}
	return 0, 0, false
}

// DueDate computes the next due date for a task from a reference date.
// Results are normalized to midnight in the reference date's location,
// and anything invalid falls back to reference + 30 days rather than
// producing a bad assignment.
func DueDate(ref time.Time, rule Rule, task model.TaskDefinition) time.Time {
	var due time.Time

	switch rule.Kind {
	case RuleFixed:
		due = startOfDay(ref).AddDate(0, 0, rule.FixedDays)
	case RuleSeasonal:
		due = nextSeasonal(ref, task.Subtype)
	default:
		due = startOfDay(ref).AddDate(0, 0, FrequencyDays(task.Frequency))
	}

	if due.IsZero() || due.Before(startOfDay(ref)) {
		slog.Warn("invalid computed due date, using default offset", "task", task.Code, "rule", rule.Kind)
		due = startOfDay(ref).AddDate(0, 0, defaultOffsetDays)
	}
	return due
}

// nextSeasonal returns the subtype's anchor date this year, or next year
// when this year's anchor has already passed. Subtypes without a seasonal
// calendar get a flat 30-day offset.
func nextSeasonal(ref time.Time, subtype model.TaskSubtype) time.Time {
	month, day, ok := seasonalAnchor(subtype)
	if !ok {
		return startOfDay(ref).AddDate(0, 0, defaultOffsetDays)
	}

	anchor := time.Date(ref.Year(), month, day, 0, 0, 0, 0, ref.Location())
	if anchor.After(ref) {
		return anchor
	}
	return anchor.AddDate(1, 0, 0)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
