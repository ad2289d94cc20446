package ui

// Screen rows, top to bottom: header, query input, rule, result list,
// detail line, footer.
const (
	headerRow = 0
	inputRow  = 1
	ruleRow   = 2
	listTop   = 3

	// chromeRows is everything except the result list.
	chromeRows = 5
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops
	// secondary fields.
	LayoutCompactWidth = 60

	// SortKeyColumnWidth is the width reserved for sort keys when shown.
	SortKeyColumnWidth = 28

	// MinListRows is the smallest result window rendered.
	MinListRows = 1
)

// listRows returns how many result rows fit in a terminal of height h.
func listRows(h int) int {
	return max(h-chromeRows, MinListRows)
}

// listWindow returns the first visible result for a window of rows rows that
// keeps index visible.
func listWindow(index, total, rows int) int {
	if rows <= 0 || total <= rows || index < rows {
		return 0
	}
	return min(index-rows+1, total-rows)
}
