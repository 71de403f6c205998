package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the progress view shortcuts
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "cancel"),
		),
	}
}

// HelpBar renders the single-line key hint
func (k KeyMap) HelpBar() string {
	h := k.Quit.Help()
	return HelpStyle.Render(HelpKey.Render(h.Key) + " " + h.Desc)
}
