package session

import (
	"testing"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

func TestNewEngineIsIdle(t *testing.T) {
	h := newHarness(wordsSettings(60), "hello", "world")
	st := h.engine.State()
	if h.engine.Phase() != PhaseIdle {
		t.Fatalf("expected idle, got %s", h.engine.Phase())
	}
	if st.TimeRemaining != 60 {
		t.Fatalf("expected 60s remaining, got %d", st.TimeRemaining)
	}
	if st.IsStarted || st.IsFinished || !st.StartTime.IsZero() {
		t.Fatalf("unexpected initial state: %+v", st)
	}
	if _, ok := h.engine.Results(); ok {
		t.Fatalf("expected no results before finishing")
	}
	if h.engine.TimerActive() {
		t.Fatalf("timer must not run while idle")
	}
}

func TestZeroSettingsUseDefaults(t *testing.T) {
	e := New(model.Settings{}, Options{Supplier: &stubSupplier{words: []string{"a"}}})
	if got := e.Settings(); got.TestMode != model.ModeWords || got.TestDuration != 30 {
		t.Fatalf("expected default words/30s, got %+v", got)
	}
	if e.State().TimeRemaining != 30 {
		t.Fatalf("expected 30s remaining, got %d", e.State().TimeRemaining)
	}
}

func TestTypeWordAndSpace(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello", "world", "again")
	h.typeString("hello ")

	st := h.engine.State()
	if st.CurrentWordIndex != 1 || st.CurrentCharIndex != 0 {
		t.Fatalf("expected word 1 char 0, got word %d char %d", st.CurrentWordIndex, st.CurrentCharIndex)
	}
	if st.CorrectChars != 5 || st.Errors != 0 || st.TotalChars != 5 {
		t.Fatalf("unexpected counters: %+v", st)
	}
	if st.TypedText != "hello " {
		t.Fatalf("unexpected typed text %q", st.TypedText)
	}
}

func TestMistypedCharacter(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello", "world")
	h.typeString("hxllo")

	st := h.engine.State()
	if st.CorrectChars != 4 || st.Errors != 1 || st.TotalChars != 5 {
		t.Fatalf("expected 4 correct, 1 error, 5 total; got %+v", st)
	}
}

func TestFirstPrintableKeyStartsTest(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello", "world")
	start := h.clock.now()

	h.engine.HandleKey("Backspace")
	h.engine.HandleKey(" ")
	h.engine.HandleKey("Shift")
	if h.engine.Phase() != PhaseIdle {
		t.Fatalf("non-printable keys must not start the test")
	}

	h.engine.HandleKey("h")
	st := h.engine.State()
	if h.engine.Phase() != PhaseRunning || !st.StartTime.Equal(start) {
		t.Fatalf("expected running since %v, got %s at %v", start, h.engine.Phase(), st.StartTime)
	}
	if !h.engine.TimerActive() || h.sched.live() != 1 {
		t.Fatalf("expected exactly one live timer, got %d", h.sched.live())
	}
	if st.CorrectChars != 1 {
		t.Fatalf("first key must also be processed")
	}
}

func TestBackspaceAtWordBoundaryIsNoop(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello", "world")
	h.typeString("hello ")
	before := h.engine.State()

	h.engine.HandleKey("Backspace")
	if after := h.engine.State(); after != before {
		t.Fatalf("backspace at boundary changed state:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestBackspaceWithinWord(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello", "world")
	h.typeString("hex")
	h.engine.HandleKey("Backspace")

	st := h.engine.State()
	if st.TypedText != "he" || st.CurrentCharIndex != 2 {
		t.Fatalf("expected typed 'he' at index 2, got %q at %d", st.TypedText, st.CurrentCharIndex)
	}
	if st.TotalChars != 3 || st.Errors != 1 {
		t.Fatalf("backspace must not undo counters: %+v", st)
	}
}

func TestBackspaceRemovesWholeRune(t *testing.T) {
	h := newHarness(wordsSettings(30), "café")
	h.typeString("café")
	h.engine.HandleKey("Backspace")

	st := h.engine.State()
	if st.TypedText != "caf" || st.CurrentCharIndex != 3 {
		t.Fatalf("expected 'caf' at 3, got %q at %d", st.TypedText, st.CurrentCharIndex)
	}
}

func TestSpaceOnEmptyWordIsNoop(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello", "world")
	h.typeString("hello ")
	before := h.engine.State()

	h.engine.HandleKey(" ")
	if after := h.engine.State(); after != before {
		t.Fatalf("space on empty word changed state")
	}
}

func TestExtraCharactersAreErrors(t *testing.T) {
	h := newHarness(wordsSettings(30), "hi", "there")
	h.typeString("hiyyyy")

	st := h.engine.State()
	if st.CurrentCharIndex != 6 {
		t.Fatalf("expected char index to keep growing to 6, got %d", st.CurrentCharIndex)
	}
	if st.CorrectChars != 2 || st.Errors != 4 {
		t.Fatalf("expected extras to count as errors: %+v", st)
	}
}

func TestUnknownTokensAreIgnored(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello")
	h.typeString("he")
	before := h.engine.State()

	for _, token := range []string{"Tab", "Enter", "Shift", "", "ab", "\n", "\x00"} {
		h.engine.HandleKey(token)
	}
	if after := h.engine.State(); after != before {
		t.Fatalf("ignored tokens changed state")
	}
}

func TestExtendOncePerExhaustion(t *testing.T) {
	h := newHarness(wordsSettings(30), "a", "b")
	h.typeString("a ")
	if h.supplier.extends != 0 {
		t.Fatalf("extend called before the last word")
	}
	before := len(h.engine.Words())

	h.typeString("b ")
	if h.supplier.extends != 1 {
		t.Fatalf("expected one extend, got %d", h.supplier.extends)
	}
	after := len(h.engine.Words())
	if after <= before {
		t.Fatalf("expected word list to grow, %d -> %d", before, after)
	}
	if h.engine.State().CurrentWordIndex != 2 || h.engine.Words()[2] != "more" {
		t.Fatalf("expected to advance onto appended text")
	}

	h.typeString("more ")
	if h.supplier.extends != 1 {
		t.Fatalf("extend must not run while words remain, got %d calls", h.supplier.extends)
	}
}

func TestTimerCountsDownAndFinishes(t *testing.T) {
	h := newHarness(wordsSettings(15), "hello", "world")
	h.typeString("hello")

	for i := 0; i < 14; i++ {
		h.clock.advance(time.Second)
		h.sched.tick()
	}
	if st := h.engine.State(); st.TimeRemaining != 1 || st.IsFinished {
		t.Fatalf("expected 1s left and running, got %+v", st)
	}

	h.clock.advance(time.Second)
	h.sched.tick()
	st := h.engine.State()
	if !st.IsFinished || st.TimeRemaining != 0 {
		t.Fatalf("expected finished at 0, got %+v", st)
	}
	if h.engine.TimerActive() || h.sched.live() != 0 {
		t.Fatalf("timer must be cancelled on finish")
	}
	res, ok := h.engine.Results()
	if !ok {
		t.Fatalf("expected results")
	}
	if res.TimeTaken != 15 || res.WPM != 4 || res.Accuracy != 100 {
		t.Fatalf("unexpected results: %+v", res)
	}
	if len(h.best.saves) != 1 || h.best.saves[0] != 4 {
		t.Fatalf("expected one best save of 4, got %v", h.best.saves)
	}
	if !st.EndTime.Equal(h.clock.now()) {
		t.Fatalf("expected end time at finish")
	}
}

func TestFinishedIgnoresKeys(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello", "world")
	h.typeString("he")
	h.engine.Stop()
	before := h.engine.State()

	h.typeString("llo wor")
	h.engine.HandleKey("Backspace")
	h.sched.fireAll()
	h.engine.Stop()

	if after := h.engine.State(); after != before {
		t.Fatalf("finished state changed")
	}
	if len(h.best.saves) != 1 {
		t.Fatalf("expected exactly one best save, got %d", len(h.best.saves))
	}
}

func TestStaleTickAfterResetIsDropped(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello")
	h.typeString("h")
	h.engine.Reset()
	h.engine.HandleKey("h")
	h.engine.Reset()

	h.sched.fireAll()
	st := h.engine.State()
	if st.TimeRemaining != 30 || st.IsStarted {
		t.Fatalf("stale ticks mutated a fresh test: %+v", st)
	}
}

func TestOnlyCurrentHandleTicks(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello")
	h.typeString("h")
	h.engine.Reset()
	h.typeString("h")

	h.sched.fireAll()
	if got := h.engine.State().TimeRemaining; got != 29 {
		t.Fatalf("expected exactly one effective tick, got %d remaining", got)
	}
}

func TestZenModeHasNoTimer(t *testing.T) {
	s := model.DefaultSettings()
	s.TestMode = model.ModeZen
	h := newHarness(s, "Stay", "calm")
	h.typeString("Stay")
	if h.engine.TimerActive() {
		t.Fatalf("zen mode must not start a countdown")
	}
	h.clock.advance(90 * time.Second)
	h.sched.fireAll()
	if h.engine.Phase() != PhaseRunning {
		t.Fatalf("zen runs until stopped")
	}

	h.engine.Stop()
	res, ok := h.engine.Results()
	if !ok || res.TimeTaken != 90 {
		t.Fatalf("expected 90s zen result, got %+v", res)
	}
}

func TestStopBeforeStartUsesDuration(t *testing.T) {
	h := newHarness(wordsSettings(60), "hello")
	h.engine.Stop()
	res, ok := h.engine.Results()
	if !ok {
		t.Fatalf("expected results")
	}
	if res.TimeTaken != 60 || res.WPM != 0 || res.Accuracy != 100 {
		t.Fatalf("unexpected results: %+v", res)
	}
}

func TestApplySettingsResets(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello", "world")
	h.typeString("hel")

	s := h.engine.Settings()
	s.ShowTimer = false
	h.engine.ApplySettings(s)
	if h.engine.State().TotalChars != 3 {
		t.Fatalf("presentation-only change must not reset")
	}

	s.TestDuration = 60
	h.engine.ApplySettings(s)
	st := h.engine.State()
	if st.IsStarted || st.TotalChars != 0 || st.TypedText != "" || st.TimeRemaining != 60 {
		t.Fatalf("expected full reset, got %+v", st)
	}
	if h.engine.TimerActive() {
		t.Fatalf("reset must cancel the timer")
	}
	if _, ok := h.engine.Results(); ok {
		t.Fatalf("reset must clear results")
	}
}

func TestResetClearsResults(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello")
	h.typeString("hello")
	h.engine.Stop()
	h.engine.Reset()
	if _, ok := h.engine.Results(); ok {
		t.Fatalf("expected results cleared")
	}
	if h.engine.Phase() != PhaseIdle {
		t.Fatalf("expected idle after reset")
	}
}

func TestBestStorePanicIsIsolated(t *testing.T) {
	e := New(wordsSettings(30), Options{
		Supplier: &stubSupplier{words: []string{"a"}},
		Best:     panickingBest{},
	})
	e.HandleKey("a")
	e.Stop()
	if e.Phase() != PhaseFinished {
		t.Fatalf("expected finished despite store failure")
	}
}

func TestCloseCancelsTimer(t *testing.T) {
	h := newHarness(wordsSettings(30), "hello")
	h.typeString("h")
	h.engine.Close()
	if h.sched.live() != 0 {
		t.Fatalf("close must stop the timer")
	}
}
