package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "typesprint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Minute)
		rec := model.ResultRecord{
			StartedAt: start,
			EndedAt:   start.Add(30 * time.Second),
			Mode:      model.ModeWords,
			Duration:  30,
			Results:   BuildResults(100, 110, 30),
		}
		chars := []model.CharStats{
			{Char: "a", Correct: 5, Incorrect: 0},
			{Char: "b", Correct: 4, Incorrect: 1},
		}
		id, err := st.InsertResult(ctx, rec, chars)
		if err != nil {
			t.Fatalf("insert result: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.HistoryFilter{Mode: model.ModeWords, Last: 2}, 1)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(report.Records))
	}
	if report.Records[0].ID != ids[1] || report.Records[1].ID != ids[2] {
		t.Fatalf("unexpected record ids: %+v", report.Records)
	}
	if len(report.WindowResultIDs) != 1 || report.WindowResultIDs[0] != ids[2] {
		t.Fatalf("unexpected window ids: %v", report.WindowResultIDs)
	}
	for _, agg := range report.CharAggsAll {
		if agg.Char == "b" && agg.Incorrect != 2 {
			t.Fatalf("expected 2 incorrect b across two results, got %d", agg.Incorrect)
		}
	}
	if len(report.CharAggsWindow) != 2 {
		t.Fatalf("expected window aggregates for 2 chars, got %d", len(report.CharAggsWindow))
	}
}
