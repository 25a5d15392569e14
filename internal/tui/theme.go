package tui

import "github.com/charmbracelet/lipgloss"

// palette is the set of colours a theme assigns.
type palette struct {
	text      string
	muted     string
	faint     string
	accent    string
	incorrect string
	extra     string
	border    string
}

var palettes = map[string]palette{
	"dark": {
		text:      "#F0F0F0",
		muted:     "#8C8C8C",
		faint:     "#6E6E6E",
		accent:    "#C89A3A",
		incorrect: "#FF4D4F",
		extra:     "#B5532F",
		border:    "#4A4A4A",
	},
	"light": {
		text:      "#1F1F1F",
		muted:     "#8C8C8C",
		faint:     "#A6A6A6",
		accent:    "#9A6B00",
		incorrect: "#D4380D",
		extra:     "#AD4E00",
		border:    "#BFBFBF",
	},
	"neon": {
		text:      "#E6FFFB",
		muted:     "#7F5AF0",
		faint:     "#5A4E8C",
		accent:    "#2CB67D",
		incorrect: "#FF2E88",
		extra:     "#FF8906",
		border:    "#7F5AF0",
	},
}

// theme holds the styles the typing view renders with.
type theme struct {
	correct   lipgloss.Style
	incorrect lipgloss.Style
	extra     lipgloss.Style
	missed    lipgloss.Style
	pending   lipgloss.Style
	current   lipgloss.Style
	header    lipgloss.Style
	accent    lipgloss.Style
	footer    lipgloss.Style
	card      lipgloss.Style
	cardTitle lipgloss.Style
	cardValue lipgloss.Style
}

func themeFor(name string) theme {
	p, ok := palettes[name]
	if !ok {
		p = palettes["dark"]
	}
	return theme{
		correct:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
		incorrect: lipgloss.NewStyle().Foreground(lipgloss.Color(p.incorrect)),
		extra:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.extra)).Underline(true),
		missed:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.incorrect)).Faint(true),
		pending:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		current:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		accent:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)).Bold(true),
		footer:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.faint)),
		card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(p.border)),
		cardTitle: lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		cardValue: lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)).Bold(true),
	}
}
