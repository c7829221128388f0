package warranty

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmorgan/upkeep/internal/database"
	"github.com/jmorgan/upkeep/internal/model"
	"github.com/jmorgan/upkeep/internal/store"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

type fakeTexter struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (t *fakeTexter) Send(ctx context.Context, phone, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, phone)
	return nil
}

type warrantyFixture struct {
	db         *sql.DB
	warranties *store.WarrantyStore
	households *store.HouseholdStore
	mailer     *fakeMailer
	texter     *fakeTexter
	dispatcher *Dispatcher
}

func setupWarranty(t *testing.T) *warrantyFixture {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &warrantyFixture{
		db:         db,
		warranties: store.NewWarrantyStore(db),
		households: store.NewHouseholdStore(db),
		mailer:     &fakeMailer{},
		texter:     &fakeTexter{},
	}
	f.dispatcher = NewDispatcher(f.warranties, f.mailer, f.texter)
	return f
}

func (f *warrantyFixture) candidate(t *testing.T, pref model.NotifyPref, smsOptIn bool, phone string) Candidate {
	t.Helper()

	h, err := f.households.Create("Morgan", "morgan@example.com", phone, pref, smsOptIn)
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	a, err := f.warranties.CreateAppliance(h.ID, "Dishwasher", true, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("create appliance: %v", err)
	}
	return Candidate{Appliance: *a, Household: *h, DaysLeft: 7, NoticeType: model.Notice7Day}
}

func TestDispatchBothChannels(t *testing.T) {
	f := setupWarranty(t)
	c := f.candidate(t, model.NotifyBoth, true, "+15551234567")

	result := f.dispatcher.Dispatch(context.Background(), c)
	if !result.Processed || !result.EmailSent || !result.SMSSent || result.Failed || result.Skipped {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(f.mailer.sent) != 1 || len(f.texter.sent) != 1 {
		t.Errorf("sends: email %d sms %d, want 1 each", len(f.mailer.sent), len(f.texter.sent))
	}

	n, err := f.warranties.GetNotification(c.Appliance.ID, model.Notice7Day)
	if err != nil || n == nil {
		t.Fatalf("get notification: %v", err)
	}
	if n.Status != model.NotificationSent {
		t.Errorf("status = %q, want sent", n.Status)
	}
	if !n.EmailSent || !n.SMSSent || n.EmailSentAt == nil || n.SMSSentAt == nil {
		t.Errorf("channel flags not recorded: %+v", n)
	}
	if n.Error != "" {
		t.Errorf("error = %q, want empty", n.Error)
	}
}

func TestDispatchEmailOnly(t *testing.T) {
	f := setupWarranty(t)
	c := f.candidate(t, model.NotifyEmailOnly, true, "+15551234567")

	result := f.dispatcher.Dispatch(context.Background(), c)
	if !result.EmailSent || result.SMSSent {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(f.texter.sent) != 0 {
		t.Error("sms should not be attempted for email_only")
	}
}

// SMS requires both opt-in and a phone number on top of the preference.
func TestDispatchSMSGates(t *testing.T) {
	f := setupWarranty(t)

	noOptIn := f.candidate(t, model.NotifyBoth, false, "+15551234567")
	result := f.dispatcher.Dispatch(context.Background(), noOptIn)
	if result.SMSSent {
		t.Error("sms sent without opt-in")
	}
	if !result.EmailSent {
		t.Error("email should still send")
	}

	noPhone := f.candidate(t, model.NotifyBoth, true, "")
	result = f.dispatcher.Dispatch(context.Background(), noPhone)
	if result.SMSSent {
		t.Error("sms sent without a phone number")
	}
}

func TestDispatchPartialFailure(t *testing.T) {
	f := setupWarranty(t)
	f.texter.err = errors.New("carrier rejected")
	c := f.candidate(t, model.NotifyBoth, true, "+15551234567")

	result := f.dispatcher.Dispatch(context.Background(), c)
	if !result.EmailSent || result.SMSSent || result.Failed {
		t.Errorf("unexpected result: %+v", result)
	}

	n, err := f.warranties.GetNotification(c.Appliance.ID, model.Notice7Day)
	if err != nil || n == nil {
		t.Fatalf("get notification: %v", err)
	}
	if n.Status != model.NotificationPartial {
		t.Errorf("status = %q, want partial", n.Status)
	}
	if !strings.Contains(n.Error, "sms: carrier rejected") {
		t.Errorf("error = %q, want sms failure text", n.Error)
	}
}

func TestDispatchAllChannelsFail(t *testing.T) {
	f := setupWarranty(t)
	f.mailer.err = errors.New("smtp down")
	f.texter.err = errors.New("carrier rejected")
	c := f.candidate(t, model.NotifyBoth, true, "+15551234567")

	result := f.dispatcher.Dispatch(context.Background(), c)
	if !result.Failed || result.EmailSent || result.SMSSent {
		t.Errorf("unexpected result: %+v", result)
	}

	n, err := f.warranties.GetNotification(c.Appliance.ID, model.Notice7Day)
	if err != nil || n == nil {
		t.Fatalf("get notification: %v", err)
	}
	if n.Status != model.NotificationFailed {
		t.Errorf("status = %q, want failed", n.Status)
	}
	// Both channel errors land in one record, joined.
	if !strings.Contains(n.Error, "email: smtp down") || !strings.Contains(n.Error, "sms: carrier rejected") {
		t.Errorf("error = %q, want both failure texts", n.Error)
	}
	if !strings.Contains(n.Error, "; ") {
		t.Errorf("error = %q, want semicolon-joined texts", n.Error)
	}
}

func TestDispatchNoEligibleChannels(t *testing.T) {
	f := setupWarranty(t)
	// sms_only preference without opt-in leaves nothing to attempt.
	c := f.candidate(t, model.NotifySMSOnly, false, "+15551234567")

	result := f.dispatcher.Dispatch(context.Background(), c)
	if !result.Failed {
		t.Errorf("unexpected result: %+v", result)
	}

	n, err := f.warranties.GetNotification(c.Appliance.ID, model.Notice7Day)
	if err != nil || n == nil {
		t.Fatalf("get notification: %v", err)
	}
	if n.Status != model.NotificationFailed {
		t.Errorf("status = %q, want failed", n.Status)
	}
	if n.Error != "no eligible delivery channels" {
		t.Errorf("error = %q", n.Error)
	}
}

// A send that works but cannot be recorded is still a failed dispatch:
// the claim row is stuck in pending, and the report must say so.
func TestDispatchFinalizeFailureCounts(t *testing.T) {
	f := setupWarranty(t)
	c := f.candidate(t, model.NotifyEmailOnly, false, "")

	// Only Finalize touches the status column, so this trips on the
	// terminal write and nothing else.
	_, err := f.db.Exec(`CREATE TRIGGER finalize_guard BEFORE UPDATE OF status ON warranty_notifications
		BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	result := f.dispatcher.Dispatch(context.Background(), c)
	if !result.EmailSent {
		t.Error("email send itself should have succeeded")
	}
	if !result.Failed {
		t.Error("unrecorded outcome should be reported as failed")
	}

	n, err := f.warranties.GetNotification(c.Appliance.ID, model.Notice7Day)
	if err != nil || n == nil {
		t.Fatalf("get notification: %v", err)
	}
	if n.Status != model.NotificationPending {
		t.Errorf("status = %q, want pending after blocked finalize", n.Status)
	}
}

// An existing claim row short-circuits the whole dispatch.
func TestDispatchSkipsClaimed(t *testing.T) {
	f := setupWarranty(t)
	c := f.candidate(t, model.NotifyBoth, true, "+15551234567")

	if result := f.dispatcher.Dispatch(context.Background(), c); !result.Processed {
		t.Fatalf("first dispatch: %+v", result)
	}

	result := f.dispatcher.Dispatch(context.Background(), c)
	if !result.Skipped || result.Processed || result.EmailSent || result.SMSSent {
		t.Errorf("second dispatch: %+v", result)
	}
	if len(f.mailer.sent) != 1 {
		t.Errorf("mailer called %d times, want 1", len(f.mailer.sent))
	}
}
