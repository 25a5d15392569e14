package session

import (
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

type stubSupplier struct {
	words   []string
	extends int
}

func (s *stubSupplier) Generate(model.TestMode, int) []string {
	return append([]string(nil), s.words...)
}

func (s *stubSupplier) Extend(existing []string, _ model.TestMode) []string {
	s.extends++
	out := append([]string(nil), existing...)
	return append(out, "more", "words")
}

type manualHandle struct {
	fn      func()
	stopped bool
}

type manualScheduler struct {
	handles []*manualHandle
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) func() {
	h := &manualHandle{fn: fn}
	s.handles = append(s.handles, h)
	return func() { h.stopped = true }
}

// tick fires every live handle once.
func (s *manualScheduler) tick() {
	for _, h := range s.handles {
		if !h.stopped {
			h.fn()
		}
	}
}

// fireAll fires every handle ever created, as a late timer callback would.
func (s *manualScheduler) fireAll() {
	for _, h := range s.handles {
		h.fn()
	}
}

func (s *manualScheduler) live() int {
	n := 0
	for _, h := range s.handles {
		if !h.stopped {
			n++
		}
	}
	return n
}

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type countingBest struct {
	MemoryBest
	saves []int
}

func (b *countingBest) SaveBestWPM(wpm int) {
	b.saves = append(b.saves, wpm)
	b.MemoryBest.SaveBestWPM(wpm)
}

type panickingBest struct{}

func (panickingBest) LoadBestWPM() float64 { return 0 }

func (panickingBest) SaveBestWPM(int) { panic("disk on fire") }

type harness struct {
	engine   *Engine
	supplier *stubSupplier
	sched    *manualScheduler
	clock    *fakeClock
	best     *countingBest
}

func newHarness(settings model.Settings, words ...string) *harness {
	h := &harness{
		supplier: &stubSupplier{words: words},
		sched:    &manualScheduler{},
		clock:    newFakeClock(),
		best:     &countingBest{},
	}
	h.engine = New(settings, Options{
		Supplier:  h.supplier,
		Best:      h.best,
		Scheduler: h.sched,
		Now:       h.clock.now,
	})
	return h
}

func (h *harness) typeString(s string) {
	for _, r := range s {
		h.engine.HandleKey(string(r))
	}
}

func wordsSettings(duration int) model.Settings {
	s := model.DefaultSettings()
	s.TestDuration = duration
	return s
}
