package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "typesprint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, wpm := range []int{40, 55} {
		rec := model.ResultRecord{
			StartedAt: start.Add(time.Duration(i) * time.Hour),
			EndedAt:   start.Add(time.Duration(i)*time.Hour + 30*time.Second),
			Mode:      model.ModeWords,
			Duration:  30,
			Results:   model.TestResults{WPM: wpm, Accuracy: 90, TimeTaken: 30},
		}
		chars := []model.CharStats{{Char: "q", Correct: 1, Incorrect: 3}, {Char: "e", Correct: 9, Incorrect: 1}}
		if _, err := st.InsertResult(context.Background(), rec, chars); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return st
}

func TestOverviewShowsSummary(t *testing.T) {
	m := NewModel(seededStore(t), model.HistoryFilter{}, 5)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	out := m.View()
	for _, want := range []string{"Overview", "Tests", "Best WPM", "55", "Curves (window 5)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestCharactersTabListsWeakestFirst(t *testing.T) {
	m := NewModel(seededStore(t), model.HistoryFilter{}, 5)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	out := m.View()
	q := strings.Index(out, "25%")
	e := strings.Index(out, "90%")
	if q < 0 || e < 0 || q > e {
		t.Fatalf("expected q (25%%) before e (90%%):\n%s", out)
	}
}

func TestEmptyHistory(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "typesprint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	m := NewModel(st, model.HistoryFilter{}, 5)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if out := m.View(); !strings.Contains(out, "No results found.") {
		t.Fatalf("expected empty message, got:\n%s", out)
	}
}

func TestStepWindow(t *testing.T) {
	cases := []struct {
		current, delta, want int
	}{
		{20, 1, 50},
		{20, -1, 10},
		{50, 1, 50},
		{1, -1, 1},
		{7, 1, 10},
	}
	for _, tc := range cases {
		if got := stepWindow(tc.current, tc.delta); got != tc.want {
			t.Fatalf("stepWindow(%d, %d): expected %d, got %d", tc.current, tc.delta, tc.want, got)
		}
	}
}
