package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Restart  key.Binding
	Stop     key.Binding
	Mode     key.Binding
	Duration key.Binding
	Theme    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Restart: key.NewBinding(
			key.WithKeys("tab", "esc"),
			key.WithHelp("tab", "restart"),
		),
		Stop: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "stop"),
		),
		Mode: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "mode"),
		),
		Duration: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "time"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Stop, k.Mode, k.Duration, k.Theme, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
