package model

import "time"

type Appliance struct {
	ID              int64     `json:"id"`
	HouseholdID     int64     `json:"household_id"`
	Name            string    `json:"name"`
	Active          bool      `json:"active"`
	WarrantyExpires time.Time `json:"warranty_expires"`
	CreatedAt       time.Time `json:"created_at"`
}

// WarrantyNoticeType identifies which expiration horizon a notification
// covers. The two types are independent: an appliance gets at most one
// record of each.
type WarrantyNoticeType string

const (
	Notice7Day WarrantyNoticeType = "7_day"
	Notice3Day WarrantyNoticeType = "3_day"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationPartial NotificationStatus = "partial"
	NotificationFailed  NotificationStatus = "failed"
)

// WarrantyNotification is the claim row for one (appliance, horizon)
// pair. It is inserted with status pending before any send is attempted
// and updated in place as channels complete. pending -> sent|partial|failed,
// terminal once written.
type WarrantyNotification struct {
	ID          int64              `json:"id"`
	ApplianceID int64              `json:"appliance_id"`
	HouseholdID int64              `json:"household_id"`
	NoticeType  WarrantyNoticeType `json:"notice_type"`
	Method      NotifyPref         `json:"method"`
	EmailSent   bool               `json:"email_sent"`
	EmailSentAt *time.Time         `json:"email_sent_at"`
	SMSSent     bool               `json:"sms_sent"`
	SMSSentAt   *time.Time         `json:"sms_sent_at"`
	Status      NotificationStatus `json:"status"`
	Error       string             `json:"error"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
