// Package session implements the typing test state machine.
//
// An Engine moves through three phases: Idle until the first printable key,
// Running while the countdown (or zen session) is live, and Finished once the
// timer expires or Stop is called. Finished is terminal until Reset. The
// engine is a synchronous reducer: it is not safe for concurrent use, and
// timer callbacks are expected on the same goroutine as key presses (see
// ChannelScheduler).
package session

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/stats"
)

// InitialWords is the size of the word sequence requested on reset.
const InitialWords = 100

const tickInterval = time.Second

// Phase is the lifecycle position of a test.
type Phase int

// Phases of a test.
const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Supplier provides target words.
type Supplier interface {
	Generate(mode model.TestMode, count int) []string
	Extend(existing []string, mode model.TestMode) []string
}

// Options wires an Engine to its collaborators. Supplier is required.
type Options struct {
	Supplier Supplier
	// Best receives the result of every finished test. Defaults to an
	// in-memory store.
	Best BestStore
	// Scheduler drives the countdown. With no scheduler the engine never
	// ticks and timed tests only end through Stop.
	Scheduler Scheduler
	Now       func() time.Time
	Logger    *slog.Logger
}

type timerHandle struct {
	stop func()
	// gen identifies the live handle; callbacks from older handles are dropped.
	gen uint64
}

// Engine owns the state of one typing test at a time.
type Engine struct {
	settings model.Settings
	supplier Supplier
	best     BestStore
	sched    Scheduler
	now      func() time.Time
	logger   *slog.Logger

	state   model.TestState
	words   []string
	results *model.TestResults
	timer   timerHandle
}

// New returns an engine in the Idle phase with a fresh word sequence.
func New(settings model.Settings, opts Options) *Engine {
	e := &Engine{
		settings: settings.WithDefaults(),
		supplier: opts.Supplier,
		best:     opts.Best,
		sched:    opts.Scheduler,
		now:      opts.Now,
		logger:   opts.Logger,
	}
	if e.best == nil {
		e.best = NewMemoryBest(0)
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.Reset()
	return e
}

// Reset discards the current test and returns to Idle with new text.
func (e *Engine) Reset() {
	e.cancelTimer()
	e.words = e.supplier.Generate(e.settings.TestMode, InitialWords)
	e.state = model.TestState{TimeRemaining: e.settings.TestDuration}
	e.results = nil
}

// ApplySettings adopts s. A change of mode or duration resets the test.
func (e *Engine) ApplySettings(s model.Settings) {
	s = s.WithDefaults()
	prev := e.settings
	e.settings = s
	if prev.TestMode != s.TestMode || prev.TestDuration != s.TestDuration {
		e.Reset()
	}
}

// HandleKey classifies a raw key token and applies it.
func (e *Engine) HandleKey(token string) {
	e.Press(ParseKey(token))
}

// Press applies one keystroke. Keys are ignored once the test is finished;
// the first printable key starts the test.
func (e *Engine) Press(k Key) {
	if e.state.IsFinished || k.Kind == KeyIgnored {
		return
	}
	if !e.state.IsStarted {
		// Space and Backspace are no-ops on an empty word, so only a
		// printable key can start the test.
		if k.Kind != KeyPrintable {
			return
		}
		e.start()
	}
	switch k.Kind {
	case KeyBackspace:
		e.backspace()
	case KeySpace:
		e.space()
	case KeyPrintable:
		e.typeRune(k.Char)
	}
}

// Stop finishes the test now. It is the only way to end a zen test.
func (e *Engine) Stop() {
	if e.state.IsFinished {
		return
	}
	e.finish()
}

// Close releases the timer. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.cancelTimer()
}

// State returns a snapshot of the test state.
func (e *Engine) State() model.TestState {
	return e.state
}

// Words returns a copy of the target word sequence.
func (e *Engine) Words() []string {
	return slices.Clone(e.words)
}

// Results returns the results of a finished test.
func (e *Engine) Results() (model.TestResults, bool) {
	if e.results == nil {
		return model.TestResults{}, false
	}
	return *e.results, true
}

// Settings returns the active settings.
func (e *Engine) Settings() model.Settings {
	return e.settings
}

// Phase reports where the test is in its lifecycle.
func (e *Engine) Phase() Phase {
	switch {
	case e.state.IsFinished:
		return PhaseFinished
	case e.state.IsStarted:
		return PhaseRunning
	default:
		return PhaseIdle
	}
}

// TimerActive reports whether a countdown handle is outstanding.
func (e *Engine) TimerActive() bool {
	return e.timer.stop != nil
}

func (e *Engine) String() string {
	return fmt.Sprintf("session{%s mode=%s word=%d char=%d}",
		e.Phase(), e.settings.TestMode, e.state.CurrentWordIndex, e.state.CurrentCharIndex)
}

func (e *Engine) start() {
	e.state.IsStarted = true
	e.state.StartTime = e.now()
	e.startTimer()
}

func (e *Engine) backspace() {
	if e.state.CurrentCharIndex == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(e.state.TypedText)
	e.state.TypedText = e.state.TypedText[:len(e.state.TypedText)-size]
	e.state.CurrentCharIndex--
}

func (e *Engine) space() {
	if e.state.CurrentCharIndex == 0 {
		return
	}
	if e.state.CurrentWordIndex >= len(e.words)-1 {
		e.words = e.supplier.Extend(e.words, e.settings.TestMode)
	}
	e.state.CurrentWordIndex++
	e.state.CurrentCharIndex = 0
	e.state.TypedText += " "
}

func (e *Engine) typeRune(r rune) {
	correct := false
	if e.state.CurrentWordIndex < len(e.words) {
		target := []rune(e.words[e.state.CurrentWordIndex])
		correct = e.state.CurrentCharIndex < len(target) && target[e.state.CurrentCharIndex] == r
	}
	e.state.TypedText += string(r)
	e.state.TotalChars++
	if correct {
		e.state.CorrectChars++
	} else {
		e.state.Errors++
	}
	e.state.CurrentCharIndex++
}

func (e *Engine) startTimer() {
	e.cancelTimer()
	if e.sched == nil || !e.settings.Timed() {
		return
	}
	gen := e.timer.gen
	e.timer.stop = e.sched.Every(tickInterval, func() { e.tick(gen) })
}

func (e *Engine) cancelTimer() {
	if e.timer.stop != nil {
		e.timer.stop()
		e.timer.stop = nil
	}
	e.timer.gen++
}

func (e *Engine) tick(gen uint64) {
	if gen != e.timer.gen || e.Phase() != PhaseRunning || !e.settings.Timed() {
		return
	}
	e.state.TimeRemaining--
	if e.state.TimeRemaining <= 0 {
		e.state.TimeRemaining = 0
		e.finish()
	}
}

func (e *Engine) finish() {
	e.cancelTimer()
	now := e.now()
	elapsed := float64(e.settings.TestDuration)
	if e.state.IsStarted {
		elapsed = now.Sub(e.state.StartTime).Seconds()
	}
	results := stats.BuildResults(e.state.CorrectChars, e.state.TotalChars, elapsed)
	e.results = &results
	e.state.IsFinished = true
	e.state.EndTime = now
	e.saveBest(results.WPM)
}

func (e *Engine) saveBest(wpm int) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("best score store panicked", "wpm", wpm, "panic", r)
		}
	}()
	e.best.SaveBestWPM(wpm)
}
