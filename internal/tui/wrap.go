package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/session"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes renders projected words as a flat run of styled cells,
// one space between words. The cursor underlines the next cell to type.
func buildStyledRunes(views []session.WordView, th theme) []styledRune {
	out := make([]styledRune, 0, len(views)*6)
	for i, v := range views {
		for j, c := range v.Chars {
			style := charStyle(c.Status, v.Kind, th)
			if j == v.Cursor {
				style = style.Underline(true)
			}
			out = append(out, styledRune{
				s:     style.Render(string(c.Char)),
				width: runewidth.RuneWidth(c.Char),
			})
		}
		if i == len(views)-1 {
			break
		}
		space := th.pending
		if v.Cursor == len(v.Chars) {
			space = space.Underline(true)
		}
		out = append(out, styledRune{s: space.Render(" "), width: 1, isSpace: true})
	}
	return out
}

func charStyle(status model.CharStatus, kind session.WordKind, th theme) lipgloss.Style {
	switch status {
	case model.CharCorrect:
		return th.correct
	case model.CharIncorrect:
		return th.incorrect
	case model.CharExtra:
		return th.extra
	case model.CharMissed:
		return th.missed
	}
	if kind == session.WordCurrent {
		return th.current
	}
	return th.pending
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
