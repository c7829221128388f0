package warranty

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jmorgan/upkeep/internal/model"
	"github.com/jmorgan/upkeep/internal/store"
)

// horizons are the fixed day-count thresholds before expiration at which
// warranty notices fire. Each horizon produces an independent
// notification type.
var horizons = []struct {
	days       int
	noticeType model.WarrantyNoticeType
}{
	{7, model.Notice7Day},
	{3, model.Notice3Day},
}

// Report is the batch accounting returned to the scanner's caller.
type Report struct {
	RunID      string
	Processed  int
	EmailsSent int
	SMSSent    int
	Errors     int
	Skipped    int
}

// Scanner finds appliances entering a notification window that have not
// yet been notified for that window, and hands each to the dispatcher.
type Scanner struct {
	warranties *store.WarrantyStore
	dispatcher *Dispatcher
	// maxInFlight bounds concurrent candidate processing within a run.
	maxInFlight int
	now         func() time.Time
}

func NewScanner(ws *store.WarrantyStore, dispatcher *Dispatcher) *Scanner {
	return &Scanner{
		warranties:  ws,
		dispatcher:  dispatcher,
		maxInFlight: 4,
		now:         time.Now,
	}
}

// Scan runs one pass over both horizons. Candidate selection excludes
// appliances that already have a notification record for the horizon, so
// repeated runs (same day or consecutive days) cannot re-notify. Per-item
// failures are folded into the report, never aborting the run.
func (s *Scanner) Scan(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	today := startOfDay(s.now())

	var candidates []Candidate
	for _, h := range horizons {
		windowStart := today.AddDate(0, 0, h.days)
		windowEnd := windowStart.AddDate(0, 0, 1)

		matches, err := s.warranties.ListExpiringUnnotified(h.noticeType, windowStart, windowEnd)
		if err != nil {
			return report, fmt.Errorf("list %s candidates: %w", h.noticeType, err)
		}

		for _, m := range matches {
			candidates = append(candidates, Candidate{
				Appliance:  m.Appliance,
				Household:  m.Household,
				DaysLeft:   h.days,
				NoticeType: h.noticeType,
			})
		}
	}

	if len(candidates) == 0 {
		slog.Debug("warranty scan found no candidates", "run_id", report.RunID)
		return report, nil
	}

	results := make(chan DispatchResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxInFlight)
	for _, c := range candidates {
		g.Go(func() error {
			results <- s.dispatcher.Dispatch(gctx, c)
			return nil
		})
	}
	// Workers never return errors; outcomes flow through the channel.
	_ = g.Wait()
	close(results)

	for r := range results {
		if r.Skipped {
			report.Skipped++
			continue
		}
		if r.Processed {
			report.Processed++
		}
		if r.EmailSent {
			report.EmailsSent++
		}
		if r.SMSSent {
			report.SMSSent++
		}
		if r.Failed {
			report.Errors++
		}
	}

	slog.Info("warranty scan complete",
		"run_id", report.RunID,
		"processed", report.Processed,
		"emails_sent", report.EmailsSent,
		"sms_sent", report.SMSSent,
		"errors", report.Errors,
		"skipped", report.Skipped,
	)
	return report, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
