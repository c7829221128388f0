package catalog

import (
	"strings"

	"github.com/jmorgan/upkeep/internal/model"
)

// Classify maps a task code to its scheduling subtype. It runs once, when
// a task enters the catalog; the stored subtype is what scheduling logic
// dispatches on afterwards. Matching is case-insensitive substring
// matching against the code.
func Classify(code string) model.TaskSubtype {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return model.SubtypeNone
	}

	// Ordered so longer keywords match before their substrings:
	// WINTERIZE before WINTER, WATER_HEATER before HEAT.
	for _, entry := range keywordMatches {
		if strings.Contains(c, entry.keyword) {
			return entry.subtype
		}
	}
	return model.SubtypeNone
}

type keywordEntry struct {
	keyword string
	subtype model.TaskSubtype
}

var keywordMatches = []keywordEntry{
	{"WINTERIZE", model.SubtypeWinterize},
	{"WATER_HEATER", model.SubtypeWaterHeater},
	{"SPRINKLER", model.SubtypeIrrigation},
	{"IRRIG", model.SubtypeIrrigation},
	{"FILTER", model.SubtypeFilter},
	{"GUTTER", model.SubtypeGutter},
	{"DRYER", model.SubtypeDryer},
	{"FLUSH", model.SubtypeWaterHeater},
	{"LEAK", model.SubtypeLeak},
	{"CONDENSER", model.SubtypeCooling},
	{"FURNACE", model.SubtypeHeating},
	{"FREEZE", model.SubtypeHeating},
	{"COOL", model.SubtypeCooling},
	{"SUMMER", model.SubtypeCooling},
	{"HEAT", model.SubtypeHeating},
	{"WINTER", model.SubtypeHeating},
	{"SPRING", model.SubtypeIrrigation},
	{"FALL", model.SubtypeGutter},
	{"ROOF", model.SubtypeGutter},
}
