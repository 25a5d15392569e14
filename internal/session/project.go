package session

import (
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/stats"
)

// WordKind places a word relative to the cursor.
type WordKind int

// Word kinds.
const (
	WordPast WordKind = iota
	WordCurrent
	WordFuture
)

// CharView is one rendered character. Char is what the user typed for typed
// positions and the target otherwise; Expected is the target rune, or 0 for
// extra characters.
type CharView struct {
	Char     rune
	Expected rune
	Status   model.CharStatus
}

// WordView is the rendering of one target word.
type WordView struct {
	Index  int
	Target string
	Kind   WordKind
	Chars  []CharView
	// Cursor is the caret position within Chars for the live current word,
	// -1 otherwise.
	Cursor int
}

// Project reconciles typed text against the target words. It reads only
// TypedText and the indices in st, so it can be recomputed at any time.
// A positive limit caps the number of words returned.
func Project(words []string, st model.TestState, limit int) []WordView {
	n := len(words)
	if limit > 0 && limit < n {
		n = limit
	}
	typed := strings.Split(st.TypedText, " ")
	views := make([]WordView, 0, n)
	for i := 0; i < n; i++ {
		view := WordView{Index: i, Target: words[i], Cursor: -1}
		switch {
		case i < st.CurrentWordIndex:
			view.Kind = WordPast
		case i == st.CurrentWordIndex:
			view.Kind = WordCurrent
		default:
			view.Kind = WordFuture
		}
		typedWord := ""
		if view.Kind != WordFuture && i < len(typed) {
			typedWord = typed[i]
		}
		view.Chars = classifyWord([]rune(words[i]), []rune(typedWord), view.Kind)
		if view.Kind == WordCurrent && !st.IsFinished {
			view.Cursor = len([]rune(typedWord))
		}
		views = append(views, view)
	}
	return views
}

// ProjectWindow projects at most limit words, starting up to before words
// behind the cursor. Indices in the result stay absolute.
func ProjectWindow(words []string, st model.TestState, before, limit int) []WordView {
	start := max(0, st.CurrentWordIndex-before)
	views := Project(words, st, start+limit)
	if start >= len(views) {
		return nil
	}
	return views[start:]
}

func classifyWord(target, typed []rune, kind WordKind) []CharView {
	out := make([]CharView, 0, max(len(target), len(typed)))
	for j, r := range typed {
		switch {
		case j >= len(target):
			out = append(out, CharView{Char: r, Status: model.CharExtra})
		case r == target[j]:
			out = append(out, CharView{Char: r, Expected: target[j], Status: model.CharCorrect})
		default:
			out = append(out, CharView{Char: r, Expected: target[j], Status: model.CharIncorrect})
		}
	}
	rest := model.CharPending
	if kind == WordPast {
		rest = model.CharMissed
	}
	for j := len(typed); j < len(target); j++ {
		out = append(out, CharView{Char: target[j], Expected: target[j], Status: rest})
	}
	return out
}

// CharTally counts correct and incorrect attempts per target character over
// the words typed so far, ordered by character.
func CharTally(words []string, st model.TestState) []model.CharStats {
	limit := min(st.CurrentWordIndex+1, len(words))
	tally := map[rune]*model.CharStats{}
	for _, view := range Project(words, st, limit) {
		for _, c := range view.Chars {
			if c.Status != model.CharCorrect && c.Status != model.CharIncorrect {
				continue
			}
			entry, ok := tally[c.Expected]
			if !ok {
				entry = &model.CharStats{Char: string(c.Expected)}
				tally[c.Expected] = entry
			}
			if c.Status == model.CharCorrect {
				entry.Correct++
			} else {
				entry.Incorrect++
			}
		}
	}
	out := make([]model.CharStats, 0, len(tally))
	for _, entry := range tally {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}

// LiveWPM is the running speed of a test at now.
func LiveWPM(st model.TestState, now time.Time) int {
	if !st.IsStarted {
		return 0
	}
	end := now
	if st.IsFinished {
		end = st.EndTime
	}
	return stats.WPM(st.CorrectChars, end.Sub(st.StartTime).Seconds())
}
