package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmorgan/upkeep/internal/model"
)

// ErrAlreadyClaimed is returned when a claim row for the same
// (appliance, notice type) pair already exists. Callers treat it as
// "being handled elsewhere", not a failure.
var ErrAlreadyClaimed = errors.New("warranty notification already claimed")

type WarrantyStore struct {
	db *sql.DB
}

func NewWarrantyStore(db *sql.DB) *WarrantyStore {
	return &WarrantyStore{db: db}
}

// --- Appliance methods ---

const applianceCols = `id, household_id, name, active, warranty_expires, created_at`

func scanAppliance(scanner interface{ Scan(...any) error }) (*model.Appliance, error) {
	var a model.Appliance
	var active int
	err := scanner.Scan(&a.ID, &a.HouseholdID, &a.Name, &active, &a.WarrantyExpires, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Active = active != 0
	return &a, nil
}

func (s *WarrantyStore) CreateAppliance(householdID int64, name string, active bool, warrantyExpires time.Time) (*model.Appliance, error) {
	result, err := s.db.Exec(
		`INSERT INTO appliances (household_id, name, active, warranty_expires) VALUES (?, ?, ?, ?)`,
		householdID, name, boolToInt(active), warrantyExpires.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert appliance: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetAppliance(id)
}

func (s *WarrantyStore) GetAppliance(id int64) (*model.Appliance, error) {
	row := s.db.QueryRow(`SELECT `+applianceCols+` FROM appliances WHERE id = ?`, id)
	a, err := scanAppliance(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get appliance: %w", err)
	}
	return a, nil
}

// ExpiringCandidate pairs an appliance in the expiration window with its
// household's contact details.
type ExpiringCandidate struct {
	Appliance model.Appliance
	Household model.Household
}

// ListExpiringUnnotified returns active appliances whose warranty expires
// in [windowStart, windowEnd) and that have no notification record of the
// given type. The LEFT JOIN / IS NULL filter is the anti-duplicate guard
// across scanner runs.
func (s *WarrantyStore) ListExpiringUnnotified(noticeType model.WarrantyNoticeType, windowStart, windowEnd time.Time) ([]ExpiringCandidate, error) {
	rows, err := s.db.Query(
		`SELECT a.id, a.household_id, a.name, a.active, a.warranty_expires, a.created_at,
			h.id, h.name, h.email, h.phone, h.notify_pref, h.sms_opt_in, h.created_at, h.updated_at
		 FROM appliances a
		 JOIN households h ON h.id = a.household_id
		 LEFT JOIN warranty_notifications n
			ON n.appliance_id = a.id AND n.notice_type = ?
		 WHERE a.active = 1
			AND a.warranty_expires >= ?
			AND a.warranty_expires < ?
			AND n.id IS NULL
		 ORDER BY a.id ASC`,
		noticeType, windowStart.UTC(), windowEnd.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list expiring appliances: %w", err)
	}
	defer rows.Close()

	var candidates []ExpiringCandidate
	for rows.Next() {
		var c ExpiringCandidate
		var active, smsOptIn int
		err := rows.Scan(
			&c.Appliance.ID, &c.Appliance.HouseholdID, &c.Appliance.Name, &active,
			&c.Appliance.WarrantyExpires, &c.Appliance.CreatedAt,
			&c.Household.ID, &c.Household.Name, &c.Household.Email, &c.Household.Phone,
			&c.Household.NotifyPref, &smsOptIn, &c.Household.CreatedAt, &c.Household.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan expiring appliance: %w", err)
		}
		c.Appliance.Active = active != 0
		c.Household.SMSOptIn = smsOptIn != 0
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// --- Notification record methods ---

const notificationCols = `id, appliance_id, household_id, notice_type, method,
	email_sent, email_sent_at, sms_sent, sms_sent_at, status, error, created_at, updated_at`

func scanNotification(scanner interface{ Scan(...any) error }) (*model.WarrantyNotification, error) {
	var n model.WarrantyNotification
	var emailSent, smsSent int
	var emailAt, smsAt sql.NullTime
	err := scanner.Scan(
		&n.ID, &n.ApplianceID, &n.HouseholdID, &n.NoticeType, &n.Method,
		&emailSent, &emailAt, &smsSent, &smsAt, &n.Status, &n.Error,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.EmailSent = emailSent != 0
	n.SMSSent = smsSent != 0
	if emailAt.Valid {
		n.EmailSentAt = &emailAt.Time
	}
	if smsAt.Valid {
		n.SMSSentAt = &smsAt.Time
	}
	return &n, nil
}

// Claim inserts the pending record that reserves an (appliance, notice
// type) pair before any send is attempted. The unique constraint makes
// the insert atomic: a concurrent run that lost the race gets
// ErrAlreadyClaimed instead of proceeding to send duplicates.
func (s *WarrantyStore) Claim(applianceID, householdID int64, noticeType model.WarrantyNoticeType, method model.NotifyPref) (*model.WarrantyNotification, error) {
	result, err := s.db.Exec(
		`INSERT INTO warranty_notifications (appliance_id, household_id, notice_type, method, status)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(appliance_id, notice_type) DO NOTHING`,
		applianceID, householdID, noticeType, method, model.NotificationPending,
	)
	if err != nil {
		return nil, fmt.Errorf("claim warranty notification: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrAlreadyClaimed
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetNotificationByID(id)
}

func (s *WarrantyStore) GetNotificationByID(id int64) (*model.WarrantyNotification, error) {
	row := s.db.QueryRow(`SELECT `+notificationCols+` FROM warranty_notifications WHERE id = ?`, id)
	n, err := scanNotification(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get warranty notification: %w", err)
	}
	return n, nil
}

func (s *WarrantyStore) GetNotification(applianceID int64, noticeType model.WarrantyNoticeType) (*model.WarrantyNotification, error) {
	row := s.db.QueryRow(
		`SELECT `+notificationCols+` FROM warranty_notifications WHERE appliance_id = ? AND notice_type = ?`,
		applianceID, noticeType,
	)
	n, err := scanNotification(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get warranty notification: %w", err)
	}
	return n, nil
}

// MarkChannelSent records a single channel's success as it completes.
func (s *WarrantyStore) MarkChannelSent(id int64, method model.DeliveryMethod, at time.Time) error {
	var query string
	switch method {
	case model.DeliverySMS:
		query = `UPDATE warranty_notifications SET sms_sent = 1, sms_sent_at = ?, updated_at = datetime('now') WHERE id = ?`
	default:
		query = `UPDATE warranty_notifications SET email_sent = 1, email_sent_at = ?, updated_at = datetime('now') WHERE id = ?`
	}
	if _, err := s.db.Exec(query, at.UTC(), id); err != nil {
		return fmt.Errorf("mark channel sent: %w", err)
	}
	return nil
}

// Finalize writes the terminal aggregate status and accumulated error text.
func (s *WarrantyStore) Finalize(id int64, status model.NotificationStatus, errText string) error {
	_, err := s.db.Exec(
		`UPDATE warranty_notifications SET status = ?, error = ?, updated_at = datetime('now') WHERE id = ?`,
		status, errText, id,
	)
	if err != nil {
		return fmt.Errorf("finalize warranty notification: %w", err)
	}
	return nil
}

// ListNotificationsByHousehold returns the audit trail for a household.
func (s *WarrantyStore) ListNotificationsByHousehold(householdID int64) ([]model.WarrantyNotification, error) {
	rows, err := s.db.Query(
		`SELECT `+notificationCols+` FROM warranty_notifications WHERE household_id = ? ORDER BY created_at DESC, id DESC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list warranty notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.WarrantyNotification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warranty notification: %w", err)
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}
