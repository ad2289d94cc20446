package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/five82/courtside/internal/search"
)

// renderHeader renders the status bar: roster size, search activity and the
// cursor position within the results.
func (m Model) renderHeader(st search.State) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("courtside", styles.Logo)}

	switch {
	case st.FirstLoading:
		parts = append(parts,
			m.spinner.View()+bg.Space()+bg.Render("Loading roster...", styles.WarningText.Bold(true)))
	case !st.Loaded:
		parts = append(parts, bg.Render("Roster unavailable", styles.DangerText))
	default:
		parts = append(parts,
			bg.Render(fmt.Sprintf("%d", st.Total), styles.Text)+bg.Space()+
				bg.Render("players", styles.MutedText))
	}

	if st.Loading {
		parts = append(parts, m.spinner.View()+bg.Space()+bg.Render("Searching", styles.InfoText))
	} else if m.resultsVisible(st) {
		parts = append(parts,
			bg.Render(fmt.Sprintf("%d/%d", st.SelectedIndex+1, len(st.Results)), styles.AccentText))
	}

	if m.flash != "" && !compact {
		parts = append(parts, bg.Render(m.flash, styles.SuccessText))
	}

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderInput() string {
	return truncate(m.input.View(), m.width)
}

func (m Model) renderRule() string {
	return m.theme.Styles().FaintText.Render(strings.Repeat("─", max(m.width, 0)))
}

// renderDetail describes the focused entity: its title, sort key and article
// address.
func (m Model) renderDetail(st search.State) string {
	styles := m.theme.Styles()

	entity, ok := m.focused(st)
	if !ok {
		return styles.FaintText.Render("No selection")
	}

	label := "Preview"
	if st.Selected != nil && st.Selected.ID == entity.ID {
		label = "Selected"
	}

	line := styles.AccentText.Render(label) + " " + styles.Text.Bold(true).Render(entity.Title)
	if key := strings.TrimSpace(entity.SortKey); key != "" && m.width >= LayoutCompactWidth {
		line += styles.FaintText.Render(" · " + key)
	}
	if url := m.articleURL(entity.Title); url != "" {
		remaining := m.width - ansi.StringWidth(line) - 3
		if remaining > 10 {
			line += styles.FaintText.Render(" · ") + styles.InfoText.Render(truncateMiddle(url, remaining))
		}
	}
	return truncate(line, m.width)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(m.help.View(m.keys))
}
