// Package statsui provides the Bubble Tea history viewer.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/stats"
	"github.com/verte-zerg/typesprint/internal/store"
)

const (
	tabOverview = iota
	tabChars
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

var curveWindows = []int{1, 5, 10, 20, 50}

// Model implements the Bubble Tea stats UI.
type Model struct {
	store  *store.Store
	filter model.HistoryFilter
	window int

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	charTable table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, filter model.HistoryFilter, window int) *Model {
	m := &Model{
		store:     st,
		filter:    filter,
		window:    window,
		tabs:      []string{"Overview", "Characters"},
		overview:  viewport.New(0, 0),
		charTable: table.New(table.WithColumns(charColumns()), table.WithStyles(charTableStyles())),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h", "right", "l", "tab":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			if m.activeTab == tabChars {
				m.charTable.Focus()
			} else {
				m.charTable.Blur()
			}
			return m, nil
		case "=":
			m.window = stepWindow(m.window, 1)
			m.refreshReport()
			return m, nil
		case "-":
			m.window = stepWindow(m.window, -1)
			m.refreshReport()
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabChars {
			m.charTable, cmd = m.charTable.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.renderTabs() + "\n" + headerStyle.Render(m.filterSummary())
	var body string
	switch {
	case m.errMsg != "":
		body = errorStyle.Render(m.errMsg)
	case m.activeTab == tabChars:
		if len(m.report.CharAggsWindow) == 0 {
			body = "No character stats found."
		} else {
			body = m.charTable.View()
		}
	default:
		body = m.overview.View()
	}
	footer := headerStyle.Render("Nav: left/right  Scroll: up/down  Window: -/=  Reload: r  Quit: q")
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) filterSummary() string {
	mode := string(m.filter.Mode)
	if mode == "" {
		mode = "any"
	}
	since := "any"
	if m.filter.Since != nil {
		since = m.filter.Since.Format("2006-01-02")
	}
	last := "all"
	if m.filter.Last > 0 {
		last = fmt.Sprintf("%d", m.filter.Last)
	}
	return fmt.Sprintf("Filter: mode=%s  since=%s  last=%s  window=%d", mode, since, last, m.window)
}

func (m *Model) bodyHeight() int {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	return max(1, m.height-tabsHeight-2)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.overview.Width = m.width
	m.overview.Height = m.bodyHeight()
	m.charTable.SetWidth(m.width)
	m.charTable.SetHeight(m.bodyHeight())
	m.renderOverview()
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.filter, m.window)
	if err != nil {
		m.errMsg = fmt.Sprintf("Failed to load stats: %v", err)
		return
	}
	m.errMsg = ""
	m.report = report
	m.charTable.SetRows(charRows(report.CharAggsWindow))
	m.renderOverview()
}

func (m *Model) renderOverview() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report.Records, m.window, width))
}

func renderOverview(records []model.ResultRecord, window, width int) string {
	if len(records) == 0 {
		return "No results found."
	}
	var buf bytes.Buffer
	if err := stats.RenderCurves(&buf, records, window, max(10, width-20)); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(renderSummaryCards(records, width)+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(records []model.ResultRecord, width int) string {
	var totalWPM, totalAcc float64
	best := 0
	for _, r := range records {
		totalWPM += float64(r.Results.WPM)
		totalAcc += float64(r.Results.Accuracy)
		best = max(best, r.Results.WPM)
	}
	count := float64(len(records))
	cards := []string{
		metricCard("Tests", fmt.Sprintf("%d", len(records))),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", totalWPM/count)),
		metricCard("Best WPM", fmt.Sprintf("%d", best)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", totalAcc/count)),
	}
	if width < 60 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func charColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 7},
		{Title: "Accuracy", Width: 9},
		{Title: "Correct", Width: 7},
		{Title: "Incorrect", Width: 9},
		{Title: "Total", Width: 6},
	}
}

func charRows(aggs []model.CharAggregate) []table.Row {
	sorted := stats.WeakestChars(aggs)
	rows := make([]table.Row, 0, len(sorted))
	for _, agg := range sorted {
		total := agg.Correct + agg.Incorrect
		rows = append(rows, table.Row{
			agg.Char,
			fmt.Sprintf("%d%%", stats.Accuracy(agg.Correct, total)),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
			fmt.Sprintf("%d", total),
		})
	}
	return rows
}

func charTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// stepWindow moves to the neighbouring preset curve window.
func stepWindow(current, delta int) int {
	idx := 0
	for i, w := range curveWindows {
		if w <= current {
			idx = i
		}
	}
	idx = max(0, min(len(curveWindows)-1, idx+delta))
	return curveWindows[idx]
}
