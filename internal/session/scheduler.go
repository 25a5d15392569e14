package session

import (
	"sync"
	"time"
)

// Scheduler runs fn every interval until the returned stop function is
// called. Implementations must deliver fn on the goroutine that owns the
// engine; stop must be safe to call more than once.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// ChannelScheduler hands due callbacks to its owner over a channel, so the
// owner's event loop runs them alongside keystrokes.
type ChannelScheduler struct {
	fired chan func()
}

// NewChannelScheduler returns a scheduler with an unbuffered delivery channel.
func NewChannelScheduler() *ChannelScheduler {
	return &ChannelScheduler{fired: make(chan func())}
}

// Fired delivers callbacks that are due. The owner must run each one.
func (s *ChannelScheduler) Fired() <-chan func() {
	return s.fired
}

// Every implements Scheduler.
func (s *ChannelScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case s.fired <- fn:
				case <-done:
					return
				}
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
