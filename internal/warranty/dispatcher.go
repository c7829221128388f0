package warranty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmorgan/upkeep/internal/model"
	"github.com/jmorgan/upkeep/internal/store"
)

// Mailer is the email transport boundary.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// Texter is the SMS transport boundary.
type Texter interface {
	Send(ctx context.Context, phone, message string) error
}

// Candidate is one appliance entering a notification window, paired with
// the household to notify.
type Candidate struct {
	Appliance  model.Appliance
	Household  model.Household
	DaysLeft   int
	NoticeType model.WarrantyNoticeType
}

// DispatchResult is the per-candidate accounting value folded into the
// scanner's batch report.
type DispatchResult struct {
	Processed bool
	Skipped   bool
	EmailSent bool
	SMSSent   bool
	Failed    bool
}

// Dispatcher sends warranty-expiration notices through the household's
// eligible channels and records an auditable, idempotent outcome.
type Dispatcher struct {
	warranties *store.WarrantyStore
	mailer     Mailer
	texter     Texter
	now        func() time.Time
}

func NewDispatcher(ws *store.WarrantyStore, mailer Mailer, texter Texter) *Dispatcher {
	return &Dispatcher{
		warranties: ws,
		mailer:     mailer,
		texter:     texter,
		now:        time.Now,
	}
}

// Dispatch handles one candidate. The claim row is inserted before any
// send; channels are attempted independently; the aggregate status is
// sent, partial, or failed. Errors never propagate past the candidate.
func (d *Dispatcher) Dispatch(ctx context.Context, c Candidate) DispatchResult {
	wantEmail := c.Household.NotifyPref == model.NotifyEmailOnly || c.Household.NotifyPref == model.NotifyBoth
	wantSMS := (c.Household.NotifyPref == model.NotifySMSOnly || c.Household.NotifyPref == model.NotifyBoth) &&
		c.Household.SMSOptIn && c.Household.Phone != ""

	record, err := d.warranties.Claim(c.Appliance.ID, c.Household.ID, c.NoticeType, c.Household.NotifyPref)
	if errors.Is(err, store.ErrAlreadyClaimed) {
		slog.Debug("warranty notification already claimed",
			"appliance_id", c.Appliance.ID, "notice_type", c.NoticeType)
		return DispatchResult{Skipped: true}
	}
	if err != nil {
		slog.Error("claim warranty notification", "appliance_id", c.Appliance.ID, "error", err)
		return DispatchResult{Processed: true, Failed: true}
	}

	var result DispatchResult
	result.Processed = true

	var errTexts []string
	attempted, succeeded := 0, 0
	persistFailed := false

	if wantEmail {
		attempted++
		if err := d.sendEmail(ctx, c); err != nil {
			errTexts = append(errTexts, fmt.Sprintf("email: %v", err))
		} else {
			succeeded++
			result.EmailSent = true
			if err := d.warranties.MarkChannelSent(record.ID, model.DeliveryEmail, d.now()); err != nil {
				slog.Error("mark email sent", "notification_id", record.ID, "error", err)
				persistFailed = true
			}
		}
	}

	if wantSMS {
		attempted++
		if err := d.texter.Send(ctx, c.Household.Phone, smsBody(c)); err != nil {
			errTexts = append(errTexts, fmt.Sprintf("sms: %v", err))
		} else {
			succeeded++
			result.SMSSent = true
			if err := d.warranties.MarkChannelSent(record.ID, model.DeliverySMS, d.now()); err != nil {
				slog.Error("mark sms sent", "notification_id", record.ID, "error", err)
				persistFailed = true
			}
		}
	}

	if attempted == 0 {
		errTexts = append(errTexts, "no eligible delivery channels")
	}

	status := model.NotificationFailed
	switch {
	case succeeded == attempted && attempted > 0 && len(errTexts) == 0:
		status = model.NotificationSent
	case succeeded > 0:
		status = model.NotificationPartial
	}
	result.Failed = status == model.NotificationFailed

	// A record we cannot update is as bad as a send we could not make:
	// the row is stuck in the wrong state, so the run must surface it.
	if err := d.warranties.Finalize(record.ID, status, strings.Join(errTexts, "; ")); err != nil {
		slog.Error("finalize warranty notification", "notification_id", record.ID, "error", err)
		persistFailed = true
	}
	if persistFailed {
		result.Failed = true
	}

	return result
}

func (d *Dispatcher) sendEmail(ctx context.Context, c Candidate) error {
	if c.Household.Email == "" {
		return fmt.Errorf("no email address on file")
	}
	subject, html, text := emailBody(c)
	return d.mailer.Send(ctx, c.Household.Email, subject, html, text)
}

func emailBody(c Candidate) (subject, html, text string) {
	expires := c.Appliance.WarrantyExpires.Format("January 2, 2006")
	subject = fmt.Sprintf("Warranty for your %s expires in %d days", c.Appliance.Name, c.DaysLeft)
	text = fmt.Sprintf(
		"The warranty on your %s expires on %s (%d days from now).\n\nIf anything seems off with it, now is the time to schedule a service call while the repair is still covered.",
		c.Appliance.Name, expires, c.DaysLeft,
	)
	html = fmt.Sprintf(
		`<p>The warranty on your <strong>%s</strong> expires on %s (%d days from now).</p><p>If anything seems off with it, now is the time to schedule a service call while the repair is still covered.</p>`,
		c.Appliance.Name, expires, c.DaysLeft,
	)
	return subject, html, text
}

func smsBody(c Candidate) string {
	return fmt.Sprintf(
		"Upkeep: the warranty on your %s expires in %d days (%s). Schedule covered repairs now.",
		c.Appliance.Name, c.DaysLeft, c.Appliance.WarrantyExpires.Format("Jan 2"),
	)
}
