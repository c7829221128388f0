package schedule

import (
	"strings"

	"github.com/jmorgan/upkeep/internal/model"
)

// Decision is the outcome of evaluating one catalog task against one home
// profile: either not eligible, or eligible with a priority and due-date
// rule.
type Decision struct {
	Eligible bool
	Priority model.Priority
	Rule     Rule
}

func notEligible() Decision {
	return Decision{}
}

func eligible(priority model.Priority, rule Rule) Decision {
	return Decision{Eligible: true, Priority: priority, Rule: rule}
}

// Evaluate applies the eligibility and priority rules for a task. A nil
// or incomplete profile degrades conservatively: gated categories are
// skipped, nothing aborts.
func Evaluate(profile *model.HomeProfile, task model.TaskDefinition) Decision {
	if profile == nil {
		profile = &model.HomeProfile{}
	}

	switch task.Category {
	case model.CategoryHVAC:
		return evaluateHVAC(profile, task)
	case model.CategoryPlumbing:
		return evaluatePlumbing(task)
	case model.CategoryExterior:
		return evaluateExterior(profile, task)
	case model.CategorySeasonal:
		return eligible(model.PriorityHigh, Rule{Kind: RuleSeasonal})
	case model.CategoryAppliance:
		return evaluateAppliance(task)
	case model.CategorySafety:
		return eligible(model.PriorityHigh, Rule{Kind: RuleFixed, FixedDays: 7})
	default:
		return eligible(model.PriorityMedium, Rule{Kind: RuleFrequency})
	}
}

func hasHVAC(profile *model.HomeProfile) bool {
	hvac := strings.ToLower(strings.TrimSpace(profile.HVACType))
	return hvac != "" && hvac != "none"
}

func evaluateHVAC(profile *model.HomeProfile, task model.TaskDefinition) Decision {
	if !hasHVAC(profile) {
		return notEligible()
	}

	switch task.Subtype {
	case model.SubtypeFilter:
		return eligible(model.PriorityHigh, Rule{Kind: RuleFixed, FixedDays: 14})
	case model.SubtypeCooling, model.SubtypeHeating:
		return eligible(model.PriorityMedium, Rule{Kind: RuleSeasonal})
	default:
		return eligible(model.PriorityMedium, Rule{Kind: RuleFrequency})
	}
}

func evaluatePlumbing(task model.TaskDefinition) Decision {
	switch task.Subtype {
	case model.SubtypeLeak:
		return eligible(model.PriorityMedium, Rule{Kind: RuleFixed, FixedDays: 30})
	case model.SubtypeWaterHeater:
		return eligible(model.PriorityMedium, Rule{Kind: RuleFixed, FixedDays: 90})
	case model.SubtypeWinterize:
		return eligible(model.PriorityMedium, Rule{Kind: RuleSeasonal})
	default:
		return eligible(model.PriorityMedium, Rule{Kind: RuleFrequency})
	}
}

func evaluateExterior(profile *model.HomeProfile, task model.TaskDefinition) Decision {
	homeType := strings.ToLower(strings.TrimSpace(profile.HomeType))
	if homeType != model.HomeSingleFamily && homeType != model.HomeTownhouse {
		return notEligible()
	}

	switch task.Subtype {
	case model.SubtypeGutter:
		priority := model.PriorityMedium
		if profile.RoofAgeYears > 10 {
			priority = model.PriorityHigh
		}
		return eligible(priority, Rule{Kind: RuleSeasonal})
	case model.SubtypeIrrigation:
		return eligible(model.PriorityMedium, Rule{Kind: RuleSeasonal})
	default:
		return eligible(model.PriorityMedium, Rule{Kind: RuleFrequency})
	}
}

func evaluateAppliance(task model.TaskDefinition) Decision {
	if task.Subtype == model.SubtypeDryer {
		return eligible(model.PriorityHigh, Rule{Kind: RuleFixed, FixedDays: 90})
	}
	return eligible(model.PriorityMedium, Rule{Kind: RuleFrequency})
}
