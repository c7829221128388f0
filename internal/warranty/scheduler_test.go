package warranty

import (
	"context"
	"testing"
	"time"
)

func TestSchedulerStartStop(t *testing.T) {
	f := setupWarranty(t)
	scanner := NewScanner(f.warranties, f.dispatcher)

	s := NewScheduler(scanner, 8)
	s.Start(context.Background())

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	f := setupWarranty(t)
	s := NewScheduler(NewScanner(f.warranties, f.dispatcher), 8)

	// Must not panic or block.
	s.Stop()
}
