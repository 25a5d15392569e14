// Package model defines shared data structures.
package model

import "time"

// TestMode selects where the target text comes from.
type TestMode string

// Supported test modes.
const (
	ModeWords  TestMode = "words"
	ModeQuotes TestMode = "quotes"
	ModeZen    TestMode = "zen"
)

// Modes lists the test modes in display order.
var Modes = []TestMode{ModeWords, ModeQuotes, ModeZen}

// Durations lists the supported test durations in seconds.
var Durations = []int{15, 30, 60, 120}

// Themes lists the supported colour themes.
var Themes = []string{"dark", "light", "neon"}

// FontStyles lists the supported font styles.
var FontStyles = []string{"sans", "mono", "handwriting"}

// Settings is the user configuration for a test. Changing the mode or the
// duration starts a new test.
type Settings struct {
	Theme        string `validate:"oneof=dark light neon"`
	FontStyle    string `validate:"oneof=sans mono handwriting"`
	SoundEnabled bool
	ShowTimer    bool
	TestDuration int      `validate:"oneof=15 30 60 120"`
	TestMode     TestMode `validate:"oneof=words quotes zen"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Theme:        "dark",
		FontStyle:    "mono",
		SoundEnabled: false,
		ShowTimer:    true,
		TestDuration: 30,
		TestMode:     ModeWords,
	}
}

// WithDefaults fills unset fields from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.Theme == "" {
		s.Theme = d.Theme
	}
	if s.FontStyle == "" {
		s.FontStyle = d.FontStyle
	}
	if s.TestDuration <= 0 {
		s.TestDuration = d.TestDuration
	}
	if s.TestMode == "" {
		s.TestMode = d.TestMode
	}
	return s
}

// Timed reports whether the test counts down.
func (s Settings) Timed() bool {
	return s.TestMode != ModeZen
}

// TestState is the live state of a typing test.
type TestState struct {
	IsStarted        bool
	IsFinished       bool
	CurrentWordIndex int
	CurrentCharIndex int
	TypedText        string
	Errors           int
	CorrectChars     int
	TotalChars       int
	// StartTime and EndTime are zero until set.
	StartTime     time.Time
	EndTime       time.Time
	TimeRemaining int
}

// TestResults summarises a completed test.
type TestResults struct {
	WPM            int
	Accuracy       int
	CorrectChars   int
	IncorrectChars int
	TotalChars     int
	// TimeTaken is in seconds.
	TimeTaken float64
}

// CharStatus classifies a rendered character.
type CharStatus int

const (
	// CharPending is a target character not typed yet.
	CharPending CharStatus = iota
	// CharCorrect matches the target.
	CharCorrect
	// CharIncorrect differs from the target.
	CharIncorrect
	// CharExtra was typed past the end of the target word.
	CharExtra
	// CharMissed belongs to a finished word but was never typed.
	CharMissed
)

// String returns the lowercase name of the status.
func (s CharStatus) String() string {
	switch s {
	case CharPending:
		return "pending"
	case CharCorrect:
		return "correct"
	case CharIncorrect:
		return "incorrect"
	case CharExtra:
		return "extra"
	case CharMissed:
		return "missed"
	default:
		return "unknown"
	}
}

// ResultRecord is a finished test as kept in history.
type ResultRecord struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Mode      TestMode
	Duration  int
	Results   TestResults
}

// CharStats stores per-character tallies for one test.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// CharAggregate aggregates character tallies across tests.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}

// HistoryFilter selects stored results.
type HistoryFilter struct {
	Mode  TestMode
	Since *time.Time
	Last  int
}
