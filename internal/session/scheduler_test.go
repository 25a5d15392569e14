package session

import (
	"testing"
	"time"
)

func TestChannelSchedulerDelivers(t *testing.T) {
	s := NewChannelScheduler()
	calls := 0
	stop := s.Every(5*time.Millisecond, func() { calls++ })
	defer stop()

	for i := 0; i < 3; i++ {
		select {
		case fn := <-s.Fired():
			fn()
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for tick %d", i)
		}
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestChannelSchedulerStopIsIdempotent(t *testing.T) {
	s := NewChannelScheduler()
	stop := s.Every(time.Millisecond, func() {})
	stop()
	stop()
}

func TestChannelSchedulerDrivesEngine(t *testing.T) {
	s := NewChannelScheduler()
	settings := wordsSettings(15)
	e := New(settings, Options{
		Supplier:  &stubSupplier{words: []string{"go"}},
		Scheduler: s,
	})
	defer e.Close()
	e.HandleKey("g")

	select {
	case fn := <-s.Fired():
		fn()
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for tick")
	}
	if got := e.State().TimeRemaining; got != 14 {
		t.Fatalf("expected 14s remaining, got %d", got)
	}
}
