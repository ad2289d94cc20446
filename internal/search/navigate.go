package search

// Key is a navigation key as seen by the result list.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyEnter
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "escape"
	default:
		return "none"
	}
}

// Navigation is the outcome of a key press against a result list.
type Navigation struct {
	Index    int
	Selected *Entity
	Commit   bool
	Cancel   bool
	// Handled keys must not reach the text input.
	Handled bool
}

// Navigate is a pure reducer over (key, results, selectedIndex). Up and Down
// wrap around; Enter commits the highlighted entity; Escape cancels.
func Navigate(key Key, results []Entity, selectedIndex int) Navigation {
	n := len(results)
	idx := selectedIndex
	if idx < 0 || idx >= n {
		idx = 0
	}

	switch key {
	case KeyDown:
		if n == 0 {
			return Navigation{Handled: true}
		}
		return Navigation{Index: (idx + 1) % n, Handled: true}
	case KeyUp:
		if n == 0 {
			return Navigation{Handled: true}
		}
		return Navigation{Index: (idx - 1 + n) % n, Handled: true}
	case KeyEnter:
		if selectedIndex < 0 || selectedIndex >= n {
			return Navigation{Index: idx, Handled: true}
		}
		selected := results[selectedIndex]
		return Navigation{Index: selectedIndex, Selected: &selected, Commit: true, Handled: true}
	case KeyEscape:
		return Navigation{Cancel: true, Handled: true}
	default:
		return Navigation{Index: idx}
	}
}
