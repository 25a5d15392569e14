package web

import (
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/session"
)

// EventType names a client event.
type EventType string

// Client events.
const (
	EventKey      EventType = "key"
	EventReset    EventType = "reset"
	EventStop     EventType = "stop"
	EventSettings EventType = "settings"
	EventHello    EventType = "hello"
)

// ClientMsg is one frame sent by the browser.
type ClientMsg struct {
	Event    EventType    `json:"e" validate:"required,oneof=key reset stop settings hello"`
	Key      string       `json:"k" validate:"required_if=Event key,max=16"`
	Settings *SettingsMsg `json:"s" validate:"required_if=Event settings"`
	// Best is the best score the browser has kept locally.
	Best *float64 `json:"b" validate:"omitempty,gte=0,lte=1000"`
}

// SettingsMsg is the wire form of model.Settings.
type SettingsMsg struct {
	Mode      string `json:"mode" validate:"omitempty,oneof=words quotes zen"`
	Duration  int    `json:"duration" validate:"omitempty,oneof=15 30 60 120"`
	ShowTimer bool   `json:"showTimer"`
	Theme     string `json:"theme" validate:"omitempty,oneof=dark light neon"`
	Font      string `json:"font" validate:"omitempty,oneof=sans mono handwriting"`
	Sound     bool   `json:"sound"`
}

func (m SettingsMsg) toModel() model.Settings {
	return model.Settings{
		Theme:        m.Theme,
		FontStyle:    m.Font,
		SoundEnabled: m.Sound,
		ShowTimer:    m.ShowTimer,
		TestDuration: m.Duration,
		TestMode:     model.TestMode(m.Mode),
	}.WithDefaults()
}

func settingsMsg(s model.Settings) SettingsMsg {
	return SettingsMsg{
		Mode:      string(s.TestMode),
		Duration:  s.TestDuration,
		ShowTimer: s.ShowTimer,
		Theme:     s.Theme,
		Font:      s.FontStyle,
		Sound:     s.SoundEnabled,
	}
}

// Snapshot is the server's reply to every event and timer tick.
type Snapshot struct {
	Phase    string       `json:"phase"`
	State    StateView    `json:"state"`
	Words    []WordMsg    `json:"words"`
	Results  *ResultsView `json:"results,omitempty"`
	Best     float64      `json:"best"`
	Settings SettingsMsg  `json:"settings"`
	Err      string       `json:"err,omitempty"`
}

// StateView is the wire form of model.TestState.
type StateView struct {
	WordIndex     int `json:"word"`
	CharIndex     int `json:"char"`
	Errors        int `json:"errors"`
	CorrectChars  int `json:"correct"`
	TotalChars    int `json:"total"`
	TimeRemaining int `json:"remaining"`
	LiveWPM       int `json:"wpm"`
}

// ResultsView is the wire form of model.TestResults.
type ResultsView struct {
	WPM            int     `json:"wpm"`
	Accuracy       int     `json:"accuracy"`
	CorrectChars   int     `json:"correct"`
	IncorrectChars int     `json:"incorrect"`
	TotalChars     int     `json:"total"`
	TimeTaken      float64 `json:"time"`
}

// WordMsg is one projected word.
type WordMsg struct {
	Index  int       `json:"i"`
	Kind   string    `json:"k"`
	Chars  []CharMsg `json:"c"`
	Cursor int       `json:"cur"`
}

// CharMsg is one projected character.
type CharMsg struct {
	Char   string `json:"ch"`
	Status string `json:"s"`
}

func wordMsgs(views []session.WordView) []WordMsg {
	out := make([]WordMsg, 0, len(views))
	for _, v := range views {
		chars := make([]CharMsg, 0, len(v.Chars))
		for _, c := range v.Chars {
			chars = append(chars, CharMsg{Char: string(c.Char), Status: c.Status.String()})
		}
		out = append(out, WordMsg{Index: v.Index, Kind: wordKindName(v.Kind), Chars: chars, Cursor: v.Cursor})
	}
	return out
}

func wordKindName(k session.WordKind) string {
	switch k {
	case session.WordPast:
		return "past"
	case session.WordCurrent:
		return "current"
	default:
		return "future"
	}
}
