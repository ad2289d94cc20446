package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// reloadMsg asks the model to fetch the roster again.
type reloadMsg struct{}

// loadErrorModal is the full-screen retry prompt shown when the roster
// could not be fetched.
type loadErrorModal struct {
	err error
}

func (m loadErrorModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}
	if key.Matches(keyMsg, keys.Retry) || key.Matches(keyMsg, keys.Reload) {
		return m, func() tea.Msg { return reloadMsg{} }, true
	}
	return m, nil, false
}

func (m loadErrorModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	modalWidth := min(max(width-8, 30), 72)

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Could not load players"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(styles.MutedText.Width(modalWidth - 6).Render(m.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.WarningText.Render("r") + styles.Text.Render(" retry   "))
	b.WriteString(styles.WarningText.Render("ctrl+c") + styles.Text.Render(" quit"))

	return placeModal(theme, width, height, modalWidth, theme.Danger, b.String())
}

// placeModal centers a bordered box on a blank screen.
func placeModal(theme Theme, width, height, modalWidth int, border, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(1, 2).
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
