package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/courtside/internal/search"
)

const cursorGlyph = "› "

// renderResults renders exactly listRows lines: the visible window of
// results, or a single status line.
func (m Model) renderResults(st search.State) []string {
	styles := m.theme.Styles()
	rows := listRows(m.height)
	lines := make([]string, 0, rows)

	needle := strings.TrimSpace(st.Query)
	switch {
	case st.FirstLoading:
		lines = append(lines, m.spinner.View()+" "+styles.MutedText.Render("Loading players..."))
	case !st.Loaded:
		lines = append(lines, styles.DangerText.Render("Roster unavailable.")+" "+
			styles.MutedText.Render("Press ctrl+r to retry."))
	case st.Loading:
		lines = append(lines, m.spinner.View()+" "+styles.MutedText.Render("Searching..."))
	case utf8.RuneCountInString(needle) < m.minQuery:
		lines = append(lines, styles.FaintText.Render(minQueryHint(m.minQuery)))
	case len(st.Results) == 0:
		lines = append(lines, styles.MutedText.Render("No players found"))
	default:
		start := listWindow(st.SelectedIndex, len(st.Results), rows)
		end := min(start+rows, len(st.Results))
		for i := start; i < end; i++ {
			lines = append(lines, m.renderRow(st.Results[i], needle, i == st.SelectedIndex))
		}
	}

	for len(lines) < rows {
		lines = append(lines, "")
	}
	return lines
}

// renderRow renders one result with every query occurrence highlighted.
// The cursor row is painted with the selection background end to end.
func (m Model) renderRow(e search.Entity, needle string, cursor bool) string {
	styles := m.theme.Styles()
	paint := func(text string, style lipgloss.Style) string { return style.Render(text) }
	pad := func(n int) string { return strings.Repeat(" ", max(n, 0)) }
	if cursor {
		styles = styles.WithBackground(m.theme.SelectionBg)
		styles.Text = styles.Selected
		bg := NewBgStyle(m.theme.SelectionBg)
		paint = bg.Render
		pad = bg.Spaces
	}

	glyph := pad(ansi.StringWidth(cursorGlyph))
	if cursor {
		glyph = paint(strings.TrimSpace(cursorGlyph), styles.AccentText.Bold(true)) + pad(1)
	}

	width := max(m.width, 1)
	titleWidth := width - ansi.StringWidth(cursorGlyph)
	var sortKey string
	if m.showSortKey && width >= LayoutCompactWidth {
		titleWidth -= SortKeyColumnWidth + 1
		if key := strings.TrimSpace(e.SortKey); key != "" {
			sortKey = paint(truncate(key, SortKeyColumnWidth), styles.FaintText)
		}
	}

	var title strings.Builder
	for _, seg := range search.Split(e.Title, needle) {
		style := styles.Text
		if seg.Match {
			style = styles.MatchText
		}
		title.WriteString(paint(seg.Text, style))
	}

	line := truncate(title.String(), titleWidth)
	line = glyph + line + pad(titleWidth-ansi.StringWidth(line))
	if sortKey != "" {
		line += pad(1) + sortKey
	}
	if cursor {
		line += pad(width - ansi.StringWidth(line))
	}
	return line
}

func minQueryHint(n int) string {
	if n == 1 {
		return "Type to search."
	}
	return fmt.Sprintf("Type at least %d characters to search.", n)
}
