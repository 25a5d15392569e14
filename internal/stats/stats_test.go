package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/typesprint/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparklineFlat(t *testing.T) {
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("expected flat sparkline, got %q", got)
	}
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("expected min and max glyphs, got %q", got)
	}
}

func TestResample(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	got := Resample(values, 3)
	if len(got) != 3 || got[0] != 1 || got[1] != 3 || got[2] != 5 {
		t.Fatalf("unexpected resample: %v", got)
	}
	if len(Resample(values, 10)) != 6 {
		t.Fatalf("expected short input to be returned unchanged")
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	records := []model.ResultRecord{
		{Results: model.TestResults{WPM: 40, Accuracy: 90, TimeTaken: 30}},
		{Results: model.TestResults{WPM: 60, Accuracy: 100, TimeTaken: 45}},
	}
	if err := RenderSummary(&buf, records); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Tests: 2", "Avg WPM: 50.0", "Best WPM: 60", "Avg Accuracy: 95.0%", "Time typing: 1m15s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCharTableWeakestFirst(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.CharAggregate{
		{Char: "a", Correct: 10, Incorrect: 0},
		{Char: "q", Correct: 1, Incorrect: 1},
		{Char: "e", Correct: 9, Incorrect: 1},
	}
	if err := RenderCharTable(&buf, aggs, 2); err != nil {
		t.Fatalf("render table: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title, header and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[2], "q") || !strings.HasPrefix(lines[3], "e") {
		t.Fatalf("unexpected row order:\n%s", buf.String())
	}
}
