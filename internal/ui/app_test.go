package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/courtside/internal/prefs"
	"github.com/five82/courtside/internal/search"
	"github.com/five82/courtside/internal/search/searchtest"
)

const cycle = search.DefaultDebounce + search.DefaultLatency

func roster() []search.Entity {
	return []search.Entity{
		{ID: 1, Title: "Fabio Fognini", SortKey: "Fognini, Fabio", Kind: search.KindPage},
		{ID: 2, Title: "Flavio Cobolli", SortKey: "Cobolli, Flavio", Kind: search.KindPage},
		{ID: 3, Title: "Jannik Sinner", SortKey: "Sinner, Jannik", Kind: search.KindPage},
		{ID: 4, Title: "Jasmine Paolini", SortKey: "Paolini, Jasmine", Kind: search.KindPage},
	}
}

func staticSource(entities []search.Entity) search.Source {
	return search.SourceFunc(func(context.Context) ([]search.Entity, error) {
		return entities, nil
	})
}

func articleURL(title string) string {
	return "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(title, " ", "_")
}

type harness struct {
	t     *testing.T
	m     Model
	clock *searchtest.ManualClock
}

func newHarness(t *testing.T, src search.Source, tweak ...func(*Options)) *harness {
	t.Helper()
	clock := searchtest.NewManualClock()
	opts := Options{
		Source:     src,
		Clock:      clock,
		ArticleURL: articleURL,
		Clipboard:  func(string) error { return nil },
	}
	for _, f := range tweak {
		f(&opts)
	}
	h := &harness{t: t, m: New(opts), clock: clock}
	h.send(tea.WindowSizeMsg{Width: 80, Height: 20})
	return h
}

// send delivers msg and returns the command Update produced.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	model, ok := next.(Model)
	require.True(h.t, ok, "Update returned %T", next)
	h.m = model
	return cmd
}

func (h *harness) load() {
	h.t.Helper()
	h.send(h.m.startLoad()())
}

func (h *harness) typeText(s string) {
	h.t.Helper()
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) press(k tea.KeyType) tea.Cmd {
	h.t.Helper()
	return h.send(tea.KeyMsg{Type: k})
}

func (h *harness) click(y int) {
	h.t.Helper()
	h.send(tea.MouseMsg{X: 4, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func (h *harness) screen() string {
	return ansi.Strip(h.m.View())
}

func (h *harness) state() search.State {
	return h.m.controller.State()
}

func TestModel_TypingSearchesAfterDebounceAndLatency(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	assert.Contains(t, h.screen(), "4 players")
	assert.Contains(t, h.screen(), "Type at least 2 characters to search.")

	h.typeText("io")
	assert.Equal(t, "io", h.m.input.Value())
	assert.True(t, h.state().Loading)
	assert.Contains(t, h.screen(), "Searching...")

	h.clock.Advance(cycle)
	screen := h.screen()
	assert.Contains(t, screen, "› Fabio Fognini")
	assert.Contains(t, screen, "  Flavio Cobolli")
	assert.Contains(t, screen, "1/2")
	assert.Contains(t, screen, "Preview Fabio Fognini")
	assert.NotContains(t, screen, "Jannik Sinner")
}

func TestModel_HighlightsEveryOccurrence(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	h.typeText("ni")
	h.clock.Advance(cycle)

	row := h.m.renderRow(roster()[0], "ni", false)
	assert.Equal(t, "Fabio Fognini", strings.TrimSpace(ansi.Strip(row)))

	var matched []string
	for _, seg := range search.Split("Fabio Fognini", "ni") {
		if seg.Match {
			matched = append(matched, seg.Text)
		}
	}
	assert.Equal(t, []string{"ni", "ni"}, matched)
}

func TestModel_ArrowKeysWrapAndPreview(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	h.typeText("io")
	h.clock.Advance(cycle)

	h.press(tea.KeyDown)
	assert.Contains(t, h.screen(), "› Flavio Cobolli")
	assert.Contains(t, h.screen(), "2/2")
	assert.Contains(t, h.screen(), "Preview Flavio Cobolli")
	assert.Equal(t, "io", h.m.input.Value(), "moving the cursor leaves the query alone")

	h.press(tea.KeyDown)
	assert.Contains(t, h.screen(), "› Fabio Fognini")

	h.press(tea.KeyUp)
	assert.Contains(t, h.screen(), "› Flavio Cobolli")

	h.press(tea.KeyCtrlP)
	assert.Contains(t, h.screen(), "› Fabio Fognini")
}

func TestModel_EnterCommitsWithoutNewSearch(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	h.typeText("io")
	h.clock.Advance(cycle)
	h.press(tea.KeyDown)

	h.press(tea.KeyEnter)

	st := h.state()
	assert.Equal(t, "Flavio Cobolli", h.m.input.Value())
	assert.Equal(t, "Flavio Cobolli", st.Query)
	require.NotNil(t, st.Selected)
	assert.Equal(t, int64(2), st.Selected.ID)
	assert.False(t, st.ProgrammaticSelection, "the write-back consumed the flag")
	assert.False(t, st.Loading)
	assert.Zero(t, h.clock.Pending())
	assert.Contains(t, h.screen(), "Selected Flavio Cobolli")

	h.typeText("x")
	assert.True(t, h.state().Loading, "typing after a commit searches again")
}

func TestModel_EnterOnIdenticalQueryConsumesFlag(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	h.typeText("Jannik Sinner")
	h.clock.Advance(cycle)
	require.Len(t, h.state().Results, 1)

	h.press(tea.KeyEnter)
	st := h.state()
	assert.False(t, st.ProgrammaticSelection)
	assert.False(t, st.Loading)

	h.send(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.True(t, h.state().Loading)
}

func TestModel_EscapeClearsEverything(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	h.typeText("ni")
	h.clock.Advance(cycle)
	h.press(tea.KeyDown)
	h.press(tea.KeyDown)
	h.press(tea.KeyEnter)
	require.NotNil(t, h.state().Selected)

	h.press(tea.KeyEsc)

	st := h.state()
	assert.Empty(t, h.m.input.Value())
	assert.Empty(t, st.Results)
	assert.Zero(t, st.SelectedIndex)
	assert.Nil(t, st.Selected)
	assert.Contains(t, h.screen(), "No selection")
}

func TestModel_NoResults(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	h.typeText("zz")
	h.clock.Advance(cycle)
	assert.Contains(t, h.screen(), "No players found")

	h.press(tea.KeyEnter)
	assert.Nil(t, h.state().Selected)
}

func TestModel_NavigationIgnoredWhileSearching(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	h.typeText("fo")
	h.clock.Advance(cycle)
	h.typeText("g")
	require.True(t, h.state().Loading)

	h.press(tea.KeyEnter)
	assert.Nil(t, h.state().Selected, "hidden rows cannot be committed")
	assert.Equal(t, "fog", h.m.input.Value())
}

func TestModel_ClickCommitsRow(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	h.typeText("io")
	h.clock.Advance(cycle)

	h.click(listTop + 1)

	st := h.state()
	require.NotNil(t, st.Selected)
	assert.Equal(t, "Flavio Cobolli", st.Selected.Title)
	assert.Equal(t, 1, st.SelectedIndex)
	assert.Equal(t, "Flavio Cobolli", h.m.input.Value())
	assert.False(t, st.Loading)

	h.click(listTop + 5)
	assert.Equal(t, "Flavio Cobolli", h.state().Selected.Title, "clicks below the list are ignored")
}

func TestModel_ScrollWindowFollowsCursor(t *testing.T) {
	var players []search.Entity
	for i := 1; i <= 30; i++ {
		players = append(players, search.Entity{ID: int64(i), Title: fmt.Sprintf("Player %02d", i), Kind: search.KindPage})
	}
	h := newHarness(t, staticSource(players))
	h.send(tea.WindowSizeMsg{Width: 80, Height: 10})
	h.load()
	h.typeText("pl")
	h.clock.Advance(cycle)

	h.press(tea.KeyUp)
	screen := h.screen()
	assert.Contains(t, screen, "› Player 30")
	assert.Contains(t, screen, "30/30")
	assert.NotContains(t, screen, "Player 01")

	h.click(listTop)
	assert.Equal(t, "Player 26", h.state().Selected.Title)
}

func TestModel_InputInertUntilLoaded(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	cmd := h.m.startLoad()
	assert.Contains(t, h.screen(), "Loading roster...")

	h.typeText("fo")
	assert.Empty(t, h.m.input.Value())

	h.send(cmd())
	h.typeText("fo")
	assert.Equal(t, "fo", h.m.input.Value())
}

func TestModel_LoadFailureShowsRetry(t *testing.T) {
	calls := 0
	src := search.SourceFunc(func(context.Context) ([]search.Entity, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("fetch Category:Italian_male_tennis_players: api /w/api.php returned status 503")
		}
		return roster(), nil
	})
	h := newHarness(t, src)
	h.load()

	screen := h.screen()
	assert.Contains(t, screen, "Could not load players")
	assert.Contains(t, screen, "returned status 503")

	h.typeText("x")
	assert.Empty(t, h.m.input.Value(), "keys go to the retry prompt")

	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	reload := h.send(cmd())
	require.NotNil(t, reload)
	h.send(reload())

	assert.Equal(t, 2, calls)
	assert.NotContains(t, h.screen(), "Could not load players")
	assert.Contains(t, h.screen(), "4 players")
}

func TestModel_ReloadKeepsQuery(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	h.typeText("sin")
	h.clock.Advance(cycle)

	cmd := h.press(tea.KeyCtrlR)
	require.NotNil(t, cmd)
	h.send(cmd())

	assert.Equal(t, "sin", h.m.input.Value())
	h.clock.Advance(cycle)
	assert.Contains(t, h.screen(), "› Jannik Sinner")
}

func TestModel_ThemeAndSortKeyPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	h := newHarness(t, staticSource(roster()), func(o *Options) { o.PrefsPath = path })
	h.load()
	h.typeText("io")
	h.clock.Advance(cycle)
	assert.NotContains(t, h.screen(), "Fognini, Fabio  ")

	h.press(tea.KeyCtrlT)
	assert.Equal(t, "Kanagawa", h.m.theme.Name)

	h.press(tea.KeyCtrlS)
	assert.Contains(t, h.screen(), "Cobolli, Flavio")

	p, err := prefs.Load(path)
	require.NoError(t, err)
	assert.Equal(t, prefs.Prefs{Theme: "Kanagawa", ShowSortKey: true}, p)
}

func TestModel_CopyWritesArticleURL(t *testing.T) {
	var copied string
	h := newHarness(t, staticSource(roster()), func(o *Options) {
		o.Clipboard = func(s string) error { copied = s; return nil }
	})
	h.load()
	assert.Nil(t, h.press(tea.KeyCtrlY), "nothing to copy yet")

	h.typeText("sin")
	h.clock.Advance(cycle)
	cmd := h.press(tea.KeyCtrlY)
	require.NotNil(t, cmd)
	h.send(cmd())

	assert.Equal(t, "https://en.wikipedia.org/wiki/Jannik_Sinner", copied)
	assert.Equal(t, "Copied https://en.wikipedia.org/wiki/Jannik_Sinner", h.m.flash)

	h.typeText("n")
	assert.Empty(t, h.m.flash)
}

func TestModel_CopyFailureIsReported(t *testing.T) {
	h := newHarness(t, staticSource(roster()), func(o *Options) {
		o.Clipboard = func(string) error { return errors.New("no clipboard") }
	})
	h.load()
	h.typeText("sin")
	h.clock.Advance(cycle)
	h.send(h.press(tea.KeyCtrlY)())
	assert.Equal(t, "Copy failed", h.m.flash)
}

func TestModel_HelpOverlay(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()

	h.press(tea.KeyF1)
	assert.Contains(t, h.screen(), "Keyboard Shortcuts")
	assert.Contains(t, h.screen(), "Copy article URL")

	h.typeText("a")
	assert.NotContains(t, h.screen(), "Keyboard Shortcuts")
	assert.Empty(t, h.m.input.Value(), "the closing key is swallowed")
}

func TestModel_QuitAndClose(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	h.typeText("fo")
	require.Equal(t, 1, h.clock.Pending())

	cmd := h.press(tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	h.m.Close()
	assert.Zero(t, h.clock.Pending())
}

func TestModel_ViewBeforeSize(t *testing.T) {
	m := New(Options{Source: staticSource(roster()), Clock: searchtest.NewManualClock()})
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_ViewFitsHeight(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	h.typeText("ni")
	h.clock.Advance(cycle)
	assert.Len(t, strings.Split(h.m.View(), "\n"), 20)
}

func TestLoopClockDrivesModel(t *testing.T) {
	m := New(Options{Source: staticSource(roster()), Search: search.Options{
		Debounce: time.Millisecond,
		Latency:  time.Millisecond,
	}})
	t.Cleanup(m.Close)
	require.NotNil(t, m.loop)

	next, _ := m.Update(m.startLoad()())
	m = next.(Model)
	for _, r := range "io" {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}

	for i := 0; i < 2; i++ {
		msg := m.loop.wait()()
		next, _ = m.Update(msg)
		m = next.(Model)
	}
	assert.Len(t, m.controller.State().Results, 2)
}

func TestModel_ViewRowsFollowLayout(t *testing.T) {
	h := newHarness(t, staticSource(roster()))
	h.load()
	h.typeText("io")
	h.clock.Advance(cycle)

	lines := strings.Split(h.screen(), "\n")
	require.Len(t, lines, 20)
	assert.Contains(t, lines[headerRow], "courtside")
	assert.Contains(t, lines[inputRow], "› io")
	assert.Equal(t, strings.Repeat("─", 80), lines[ruleRow])
	assert.Contains(t, lines[listTop], "› Fabio Fognini")
	assert.Contains(t, lines[listTop+1], "Flavio Cobolli")
	assert.Contains(t, lines[listTop+listRows(20)], "Preview Fabio Fognini")
}
