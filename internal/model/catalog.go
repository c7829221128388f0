package model

import "time"

// Category groups catalog tasks for eligibility dispatch.
type Category string

const (
	CategoryHVAC      Category = "hvac"
	CategoryPlumbing  Category = "plumbing"
	CategoryExterior  Category = "exterior"
	CategorySeasonal  Category = "seasonal"
	CategoryAppliance Category = "appliance"
	CategorySafety    Category = "safety"
	CategoryOther     Category = "other"
)

// TaskSubtype refines a category into the specific rule a task follows.
// It is assigned once when the task enters the catalog; nothing at
// runtime inspects task codes.
type TaskSubtype string

const (
	SubtypeFilter      TaskSubtype = "filter"
	SubtypeCooling     TaskSubtype = "cooling"
	SubtypeHeating     TaskSubtype = "heating"
	SubtypeLeak        TaskSubtype = "leak"
	SubtypeWaterHeater TaskSubtype = "water_heater"
	SubtypeWinterize   TaskSubtype = "winterize"
	SubtypeGutter      TaskSubtype = "gutter"
	SubtypeIrrigation  TaskSubtype = "irrigation"
	SubtypeDryer       TaskSubtype = "dryer"
	SubtypeNone        TaskSubtype = "none"
)

// TaskDefinition is one row of the maintenance task catalog. The
// requires_* flags describe which home conditions a task applies to;
// they are declarative data owned by the catalog import.
type TaskDefinition struct {
	ID                 int64       `json:"id"`
	Code               string      `json:"code"`
	Name               string      `json:"name"`
	Category           Category    `json:"category"`
	Subtype            TaskSubtype `json:"subtype"`
	Frequency          string      `json:"frequency"`
	Instructions       string      `json:"instructions"`
	RequiresFreeze     bool        `json:"requires_freeze"`
	RequiresHurricane  bool        `json:"requires_hurricane"`
	RequiresWildfire   bool        `json:"requires_wildfire"`
	RequiresHardWater  bool        `json:"requires_hard_water"`
	RequiresSprinklers bool        `json:"requires_sprinklers"`
	ServiceRecommended bool        `json:"service_recommended"`
	DIYAllowed         bool        `json:"diy_allowed"`
	CreatedAt          time.Time   `json:"created_at"`
}
