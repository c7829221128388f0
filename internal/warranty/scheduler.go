package warranty

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler fires the warranty scanner once a day at a fixed hour.
type Scheduler struct {
	mu       sync.RWMutex
	scanner  *Scanner
	hour     int
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewScheduler creates a scheduler that scans daily at the given local hour.
func NewScheduler(scanner *Scanner, hour int) *Scheduler {
	return &Scheduler{
		scanner:  scanner,
		hour:     hour,
		interval: 60 * time.Second,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := time.Now()
	if now.Hour() != s.hour || now.Minute() != 0 {
		return
	}

	if _, err := s.scanner.Scan(ctx); err != nil {
		slog.Error("scheduled warranty scan failed", "error", err)
	}
}
