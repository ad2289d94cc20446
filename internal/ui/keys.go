package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/courtside/internal/search"
)

// keyMap defines all keyboard bindings for the application.
// Printable keys are left to the query input, so every action sits on a
// control or function key.
type keyMap struct {
	// Result list
	Up     key.Binding
	Down   key.Binding
	Commit key.Binding
	Clear  key.Binding

	// Actions
	Copy          key.Binding
	ToggleSortKey key.Binding
	CycleTheme    key.Binding
	Reload        key.Binding

	// Global
	Help key.Binding
	Quit key.Binding

	// Load failure screen
	Retry key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/ctrl+p", "Previous result"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/ctrl+n", "Next result"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Select"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear"),
		),

		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "Copy article URL"),
		),
		ToggleSortKey: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Toggle sort keys"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Cycle theme"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Reload roster"),
		),

		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "Help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),

		Retry: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "Retry"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Commit, k.Clear, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Commit, k.Clear},
		{k.Copy, k.ToggleSortKey, k.CycleTheme, k.Reload},
		{k.Help, k.Quit},
	}
}

// navKey maps a key press onto the navigation reducer's keys.
func (k keyMap) navKey(msg tea.KeyMsg) search.Key {
	switch {
	case key.Matches(msg, k.Up):
		return search.KeyUp
	case key.Matches(msg, k.Down):
		return search.KeyDown
	case key.Matches(msg, k.Commit):
		return search.KeyEnter
	case key.Matches(msg, k.Clear):
		return search.KeyEscape
	default:
		return search.KeyNone
	}
}
