package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	search  key.Binding
	create  key.Binding
	confirm key.Binding
	back    key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		search: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "search"),
		),
		create: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "create playlist"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.search, k.create, k.confirm},
		{k.back, k.restart, k.quit},
	}
}
