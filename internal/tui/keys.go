package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the clock's key bindings
type KeyMap struct {
	PressLeft  key.Binding
	PressRight key.Binding
	Switch     key.Binding
	Pause      key.Binding
	Reset      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings. Each player gets a cluster
// of keys on their own half of the keyboard.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PressLeft: key.NewBinding(
			key.WithKeys("a", "z", "left"),
			key.WithHelp("a/z/←", "left press"),
		),
		PressRight: key.NewBinding(
			key.WithKeys("l", "m", "right"),
			key.WithHelp("l/m/→", "right press"),
		),
		Switch: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "switch"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PressLeft, k.PressRight, k.Pause, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PressLeft, k.PressRight, k.Switch},
		{k.Pause, k.Reset},
		{k.Help, k.Quit},
	}
}
