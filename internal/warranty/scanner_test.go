package warranty

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmorgan/upkeep/internal/model"
)

func setupScanner(t *testing.T, now time.Time) (*warrantyFixture, *Scanner) {
	t.Helper()

	f := setupWarranty(t)
	s := NewScanner(f.warranties, f.dispatcher)
	s.now = func() time.Time { return now }
	return f, s
}

func TestScanSevenDayWindow(t *testing.T) {
	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	f, s := setupScanner(t, now)

	h, err := f.households.Create("Morgan", "morgan@example.com", "+15551234567", model.NotifyBoth, true)
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	a, err := f.warranties.CreateAppliance(h.ID, "Dishwasher", true, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("create appliance: %v", err)
	}
	// Outside both windows on this date.
	if _, err := f.warranties.CreateAppliance(h.ID, "Fridge", true, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("create appliance: %v", err)
	}

	report, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if report.RunID == "" {
		t.Error("expected a run id")
	}
	if report.Processed != 1 || report.EmailsSent != 1 || report.SMSSent != 1 || report.Errors != 0 || report.Skipped != 0 {
		t.Errorf("unexpected report: %+v", report)
	}

	n, err := f.warranties.GetNotification(a.ID, model.Notice7Day)
	if err != nil || n == nil {
		t.Fatalf("get notification: %v", err)
	}
	if n.Status != model.NotificationSent {
		t.Errorf("status = %q, want sent", n.Status)
	}
}

// Re-running the scan does not re-notify: the candidate query already
// excludes claimed pairs.
func TestScanIdempotentRepeat(t *testing.T) {
	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	f, s := setupScanner(t, now)

	h, err := f.households.Create("Morgan", "morgan@example.com", "", model.NotifyEmailOnly, false)
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	if _, err := f.warranties.CreateAppliance(h.ID, "Dishwasher", true, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("create appliance: %v", err)
	}

	first, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("first scan: %v", err)
	}
	if first.Processed != 1 || first.EmailsSent != 1 {
		t.Fatalf("first report: %+v", first)
	}

	second, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if second.Processed != 0 || second.EmailsSent != 0 {
		t.Errorf("second report should be empty: %+v", second)
	}
	if len(f.mailer.sent) != 1 {
		t.Errorf("mailer called %d times across runs, want 1", len(f.mailer.sent))
	}
}

// The 3-day horizon is a separate notification even for an appliance
// already notified at 7 days.
func TestScanBothHorizonsIndependent(t *testing.T) {
	f, s := setupScanner(t, time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC))

	h, err := f.households.Create("Morgan", "morgan@example.com", "", model.NotifyEmailOnly, false)
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	a, err := f.warranties.CreateAppliance(h.ID, "Dishwasher", true, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("create appliance: %v", err)
	}

	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("7-day scan: %v", err)
	}

	s.now = func() time.Time { return time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC) }
	report, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("3-day scan: %v", err)
	}
	if report.Processed != 1 || report.EmailsSent != 1 {
		t.Errorf("3-day report: %+v", report)
	}

	for _, noticeType := range []model.WarrantyNoticeType{model.Notice7Day, model.Notice3Day} {
		n, err := f.warranties.GetNotification(a.ID, noticeType)
		if err != nil {
			t.Fatalf("get %s notification: %v", noticeType, err)
		}
		if n == nil {
			t.Errorf("missing %s notification", noticeType)
		}
	}
}

func TestScanEmptyWindow(t *testing.T) {
	_, s := setupScanner(t, time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC))

	report, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if report.Processed != 0 || report.Errors != 0 {
		t.Errorf("empty scan report: %+v", report)
	}
}

func TestScanCountsFailures(t *testing.T) {
	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	f, s := setupScanner(t, now)
	f.mailer.err = errors.New("smtp down")

	h, err := f.households.Create("Morgan", "morgan@example.com", "", model.NotifyEmailOnly, false)
	if err != nil {
		t.Fatalf("create household: %v", err)
	}
	if _, err := f.warranties.CreateAppliance(h.ID, "Dishwasher", true, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("create appliance: %v", err)
	}

	report, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if report.Processed != 1 || report.Errors != 1 || report.EmailsSent != 0 {
		t.Errorf("failure report: %+v", report)
	}
}
