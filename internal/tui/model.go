// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesprint/internal/config"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/session"
	"github.com/verte-zerg/typesprint/internal/store"
)

const (
	// visibleWords caps how many words are rendered at once.
	visibleWords = 30
	trailWords   = 5
	storeTimeout = 2 * time.Second
)

// Options configures the typing UI.
type Options struct {
	Settings model.Settings
	Supplier session.Supplier
	// Store records finished tests and the best score. Nil keeps the best
	// score in memory and skips history.
	Store *store.Store
	// ConfigPath is where settings changes are persisted. Empty disables it.
	ConfigPath string
	Logger     *slog.Logger
	Now        func() time.Time
}

type tickMsg struct {
	fn func()
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	engine     *session.Engine
	sched      *session.ChannelScheduler
	best       session.BestStore
	store      *store.Store
	configPath string
	logger     *slog.Logger
	now        func() time.Time

	keys  keyMap
	help  help.Model
	theme theme

	width  int
	height int

	bestWPM  float64
	newBest  bool
	recorded bool
}

// NewModel constructs a typing TUI model.
func NewModel(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	var best session.BestStore = session.NewMemoryBest(0)
	if opts.Store != nil {
		best = store.NewBestGateway(opts.Store, opts.Logger)
	}
	m := &Model{
		sched:      session.NewChannelScheduler(),
		best:       best,
		store:      opts.Store,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		now:        opts.Now,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
	m.engine = session.New(opts.Settings, session.Options{
		Supplier:  opts.Supplier,
		Best:      best,
		Scheduler: m.sched,
		Now:       opts.Now,
		Logger:    opts.Logger,
	})
	m.theme = themeFor(m.engine.Settings().Theme)
	m.bestWPM = best.LoadBestWPM()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return waitForTick(m.sched)
}

// waitForTick blocks until the engine's timer is due. Exactly one is
// outstanding at a time; it is re-armed after every tick.
func waitForTick(sched *session.ChannelScheduler) tea.Cmd {
	return func() tea.Msg {
		return tickMsg{fn: <-sched.Fired()}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		msg.fn()
		m.afterChange()
		return m, waitForTick(m.sched)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Restart):
		m.engine.Reset()
		m.recorded = false
		return m, nil
	case key.Matches(msg, m.keys.Stop):
		m.engine.Stop()
	case key.Matches(msg, m.keys.Mode):
		s := m.engine.Settings()
		s.TestMode = next(model.Modes, s.TestMode)
		m.applySettings(s)
	case key.Matches(msg, m.keys.Duration):
		s := m.engine.Settings()
		s.TestDuration = next(model.Durations, s.TestDuration)
		m.applySettings(s)
	case key.Matches(msg, m.keys.Theme):
		s := m.engine.Settings()
		s.Theme = next(model.Themes, s.Theme)
		m.applySettings(s)
	default:
		switch msg.Type {
		case tea.KeyBackspace:
			m.engine.Press(session.Backspace)
		case tea.KeySpace:
			m.engine.Press(session.Space)
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				m.engine.HandleKey(string(r))
			}
		default:
			return m, nil
		}
	}
	m.afterChange()
	return m, nil
}

// next returns the element after cur in values, wrapping around.
func next[T comparable](values []T, cur T) T {
	i := slices.Index(values, cur)
	return values[(i+1)%len(values)]
}

func (m *Model) applySettings(s model.Settings) {
	prev := m.engine.Settings()
	m.engine.ApplySettings(s)
	if m.engine.Phase() == session.PhaseIdle {
		m.recorded = false
	}
	m.theme = themeFor(s.Theme)
	if s == prev || m.configPath == "" {
		return
	}
	if err := config.SaveSettings(m.configPath, s); err != nil {
		m.logger.Error("failed to save settings", "error", err)
	}
}

// afterChange records a test the first time it is seen finished.
func (m *Model) afterChange() {
	if m.engine.Phase() != session.PhaseFinished || m.recorded {
		return
	}
	m.recorded = true
	prev := m.bestWPM
	m.bestWPM = m.best.LoadBestWPM()
	m.newBest = m.bestWPM > prev
	m.recordResult()
}

func (m *Model) recordResult() {
	st := m.engine.State()
	res, ok := m.engine.Results()
	if m.store == nil || !ok || !st.IsStarted {
		return
	}
	settings := m.engine.Settings()
	rec := model.ResultRecord{
		StartedAt: st.StartTime,
		EndedAt:   st.EndTime,
		Mode:      settings.TestMode,
		Duration:  settings.TestDuration,
		Results:   res,
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	id, err := m.store.InsertResult(ctx, rec, session.CharTally(m.engine.Words(), st))
	if err != nil {
		m.logger.Error("failed to save result", "error", err)
		return
	}
	m.logger.Debug("result saved", "id", id, "wpm", res.WPM, "accuracy", res.Accuracy)
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{m.renderHeader()}
	if res, ok := m.engine.Results(); ok {
		sections = append(sections, m.renderResults(res))
	} else {
		if line := m.renderStatus(); line != "" {
			sections = append(sections, line)
		}
		sections = append(sections, m.renderWords())
	}
	content := strings.Join(sections, "\n\n")
	footer := m.theme.footer.Render(m.help.View(m.keys))
	if m.width == 0 || m.height < 3 {
		return content + "\n\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderHeader() string {
	s := m.engine.Settings()
	segments := []string{
		m.theme.accent.Render("typesprint"),
		m.theme.header.Render(string(s.TestMode)),
	}
	if s.Timed() {
		segments = append(segments, m.theme.header.Render(fmt.Sprintf("%ds", s.TestDuration)))
	}
	segments = append(segments, m.theme.header.Render(fmt.Sprintf("best %.0f wpm", m.bestWPM)))
	return strings.Join(segments, m.theme.footer.Render("  ·  "))
}

// renderStatus shows the countdown and live speed, or a hint before start.
func (m *Model) renderStatus() string {
	st := m.engine.State()
	s := m.engine.Settings()
	if m.engine.Phase() == session.PhaseIdle {
		return m.theme.footer.Render("start typing to begin")
	}
	segments := []string{}
	if s.ShowTimer && s.Timed() {
		segments = append(segments, m.theme.accent.Render(fmt.Sprintf("%d", st.TimeRemaining)))
	}
	segments = append(segments, m.theme.header.Render(fmt.Sprintf("%d wpm", session.LiveWPM(st, m.now()))))
	return strings.Join(segments, "  ")
}

func (m *Model) renderWords() string {
	views := session.ProjectWindow(m.engine.Words(), m.engine.State(), trailWords, visibleWords)
	runes := buildStyledRunes(views, m.theme)
	width := m.contentWidth()
	if width == 0 {
		return renderStyledRunes(runes)
	}
	return lipgloss.NewStyle().Width(width).Render(wrapStyledRunes(runes, width))
}

func (m *Model) renderResults(res model.TestResults) string {
	cards := []string{
		m.metricCard("WPM", fmt.Sprintf("%d", res.WPM)),
		m.metricCard("Accuracy", fmt.Sprintf("%d%%", res.Accuracy)),
		m.metricCard("Correct", fmt.Sprintf("%d", res.CorrectChars)),
		m.metricCard("Incorrect", fmt.Sprintf("%d", res.IncorrectChars)),
		m.metricCard("Total", fmt.Sprintf("%d", res.TotalChars)),
		m.metricCard("Time", fmt.Sprintf("%.1fs", res.TimeTaken)),
	}
	title := m.theme.header.Render("Test complete")
	if m.newBest {
		title = m.theme.accent.Render("New best!")
	}
	if m.width > 0 && m.width < 80 {
		return title + "\n" + strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, title, row1, row2)
}

func (m *Model) metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", m.theme.cardTitle.Render(label), m.theme.cardValue.Render(value))
	return m.theme.card.Render(content)
}
