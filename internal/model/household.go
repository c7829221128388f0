package model

import "time"

// NotifyPref selects which delivery channels a household accepts.
type NotifyPref string

const (
	NotifyEmailOnly NotifyPref = "email_only"
	NotifySMSOnly   NotifyPref = "sms_only"
	NotifyBoth      NotifyPref = "both"
)

type Household struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	NotifyPref NotifyPref `json:"notify_pref"`
	SMSOptIn   bool       `json:"sms_opt_in"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Home type values understood by the eligibility rules. Anything else is
// treated conservatively (no exterior tasks).
const (
	HomeSingleFamily = "single_family"
	HomeTownhouse    = "townhouse"
	HomeCondo        = "condo"
	HomeApartment    = "apartment"
	HomeOther        = "other"
)

// HomeProfile holds the physical attributes eligibility decisions need.
// Owned by onboarding; read-only here.
type HomeProfile struct {
	ID              int64     `json:"id"`
	HouseholdID     int64     `json:"household_id"`
	HomeType        string    `json:"home_type"`
	HVACType        string    `json:"hvac_type"`
	WaterHeaterType string    `json:"water_heater_type"`
	RoofAgeYears    int       `json:"roof_age_years"`
	SquareFeet      int       `json:"square_feet"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
