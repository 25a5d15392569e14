// Package stats contains metric calculations and history reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/typesprint/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(min(i+1, window))
		out[i] = sum / den
	}
	return out
}

// Resample stretches or squeezes values to width points by nearest sample.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	step := float64(len(values)) / float64(width)
	for i := range out {
		idx := int(float64(i) * step)
		if idx >= len(values) {
			idx = len(values) - 1
		}
		out[i] = values[idx]
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		b.WriteByte(sparkChars[max(0, min(idx, last))])
	}
	return b.String()
}

// RenderSummary prints aggregate figures for stored results.
func RenderSummary(w io.Writer, records []model.ResultRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	var totalWPM, totalAcc, totalTime float64
	best := 0
	for _, r := range records {
		totalWPM += float64(r.Results.WPM)
		totalAcc += float64(r.Results.Accuracy)
		totalTime += r.Results.TimeTaken
		best = max(best, r.Results.WPM)
	}
	count := float64(len(records))
	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %d", len(records)),
		fmt.Sprintf("Avg WPM: %.1f", totalWPM/count),
		fmt.Sprintf("Best WPM: %d", best),
		fmt.Sprintf("Avg Accuracy: %.1f%%", totalAcc/count),
		fmt.Sprintf("Time typing: %s", formatSeconds(totalTime)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints smoothed WPM and accuracy sparklines at most width wide.
func RenderCurves(w io.Writer, records []model.ResultRecord, window, width int) error {
	if len(records) == 0 {
		return nil
	}
	wpms := make([]float64, len(records))
	accs := make([]float64, len(records))
	for i, r := range records {
		wpms[i] = float64(r.Results.WPM)
		accs[i] = float64(r.Results.Accuracy)
	}
	wpms = Resample(MovingAverage(wpms, window), width)
	accs = Resample(MovingAverage(accs, window), width)
	if _, err := fmt.Fprintf(w, "Curves (window %d)\n", window); err != nil {
		return err
	}
	rows := [][]string{
		{"WPM", Sparkline(wpms), rangeLabel(wpms)},
		{"Accuracy", Sparkline(accs), rangeLabel(accs)},
	}
	for _, line := range formatTable(nil, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCharTable prints per-character aggregates, weakest first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate, limit int) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	sorted := WeakestChars(aggs)
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	if _, err := fmt.Fprintln(w, "Weakest Characters"); err != nil {
		return err
	}
	headers := []string{"Char", "Accuracy", "Correct", "Incorrect"}
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, []string{
			agg.Char,
			fmt.Sprintf("%d%%", Accuracy(agg.Correct, agg.Correct+agg.Incorrect)),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WeakestChars orders aggregates by ascending accuracy, then by character.
func WeakestChars(aggs []model.CharAggregate) []model.CharAggregate {
	out := make([]model.CharAggregate, len(aggs))
	copy(out, aggs)
	sort.Slice(out, func(i, j int) bool {
		ai := charAccuracy(out[i])
		aj := charAccuracy(out[j])
		if ai == aj {
			return out[i].Char < out[j].Char
		}
		return ai < aj
	})
	return out
}

func charAccuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}

func rangeLabel(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return fmt.Sprintf("%.0f..%.0f", lo, hi)
}

func formatSeconds(total float64) string {
	secs := int(math.Round(total))
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}
