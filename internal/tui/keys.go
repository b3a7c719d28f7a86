package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
	Help     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Icons    key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Quit, k.Help},
		{k.Enter, k.Back, k.Icons},
	}
}

// bind builds a binding whose help label is its first key
func bind(desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], desc))
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab:      bind("switch tab", "tab"),
		ShiftTab: bind("switch tab", "shift+tab"),
		Quit:     bind("quit", "q", "ctrl+c"),
		Help:     bind("more keys", "?"),
		Enter:    bind("choose", "enter"),
		Back:     bind("back", "esc"),
		Icons:    bind("pick icon", "ctrl+o"),
		Confirm:  bind("delete", "y"),
		Cancel:   bind("keep", "n", "esc"),
	}
}
