package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Front key.Binding
	Back  key.Binding
	Reset key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Front, k.Back, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Front, k.Back}, {k.Reset, k.Help, k.Quit}}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Front: key.NewBinding(
			key.WithKeys("f", "up", "0"),
			key.WithHelp("f/↑", "place front"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "down", "1"),
			key.WithHelp("b/↓", "place back"),
		),
		Reset: key.NewBinding(
			key.WithKeys("n", "r"),
			key.WithHelp("n", "new episode"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
