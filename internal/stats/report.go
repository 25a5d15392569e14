package stats

import (
	"context"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/store"
)

// Report contains precomputed data for history rendering.
type Report struct {
	Records         []model.ResultRecord
	WindowResultIDs []string
	CharAggsAll     []model.CharAggregate
	CharAggsWindow  []model.CharAggregate
}

// BuildReport loads stored results and their character tallies. The window
// selects the most recent results used for the weak-character table.
func BuildReport(ctx context.Context, st *store.Store, filter model.HistoryFilter, window int) (Report, error) {
	records, err := st.ListResults(ctx, filter)
	if err != nil {
		return Report{}, err
	}

	windowIDs := lastResultIDs(records, window)
	charAggsAll, err := st.ListCharAggregates(ctx, resultIDs(records))
	if err != nil {
		return Report{}, err
	}
	charAggsWindow, err := st.ListCharAggregates(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Records:         records,
		WindowResultIDs: windowIDs,
		CharAggsAll:     charAggsAll,
		CharAggsWindow:  charAggsWindow,
	}, nil
}

func resultIDs(records []model.ResultRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

func lastResultIDs(records []model.ResultRecord, window int) []string {
	if window <= 0 || len(records) <= window {
		return resultIDs(records)
	}
	return resultIDs(records[len(records)-window:])
}
