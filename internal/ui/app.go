package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/five82/courtside/internal/prefs"
	"github.com/five82/courtside/internal/search"
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Source  search.Source
	Search  search.Options
	// Clock defaults to wall-clock timers delivered through the update loop.
	Clock       search.Clock
	Logger      *log.Logger
	ThemeName   string
	ShowSortKey bool
	// PrefsPath is where theme and sort-key toggles are saved. Empty
	// disables saving.
	PrefsPath  string
	ArticleURL func(title string) string
	Clipboard  func(text string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	logger     *log.Logger
	controller *search.Controller
	loop       *loopClock // nil when a clock was injected
	articleURL func(string) string
	clipboard  func(string) error
	prefsPath  string
	minQuery   int

	// Widgets
	keys    keyMap
	input   textinput.Model
	spinner spinner.Model
	help    help.Model

	// UI state
	theme       Theme
	showSortKey bool
	width       int
	height      int
	ready       bool
	modal       Modal
	flash       string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	clock := opts.Clock
	var loop *loopClock
	if clock == nil {
		loop = newLoopClock()
		clock = loop
	}

	searchOpts := opts.Search
	if searchOpts.Logger == nil {
		searchOpts.Logger = logger.WithPrefix("search")
	}
	minQuery := searchOpts.MinQueryLength
	if minQuery < 1 {
		minQuery = search.MinQueryLength
	}
	maxQuery := searchOpts.MaxQueryLength
	if maxQuery < minQuery {
		maxQuery = search.MaxQueryLength
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	articleURL := opts.ArticleURL
	if articleURL == nil {
		articleURL = func(string) string { return "" }
	}
	writeClipboard := opts.Clipboard
	if writeClipboard == nil {
		writeClipboard = clipboard.WriteAll
	}

	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "Search players"
	input.CharLimit = maxQuery
	input.Focus()

	m := Model{
		ctx:         ctx,
		logger:      logger,
		controller:  search.NewController(opts.Source, clock, searchOpts),
		loop:        loop,
		articleURL:  articleURL,
		clipboard:   writeClipboard,
		prefsPath:   strings.TrimSpace(opts.PrefsPath),
		minQuery:    minQuery,
		keys:        DefaultKeyMap(),
		input:       input,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:        help.New(),
		theme:       GetTheme(themeName),
		showSortKey: opts.ShowSortKey,
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.spinner.Tick,
		m.startLoad(),
	}
	if m.loop != nil {
		cmds = append(cmds, m.loop.wait())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case loadedMsg:
		return m.handleLoaded(msg)

	case reloadMsg:
		return m, m.startLoad()

	case timerFiredMsg:
		if m.loop == nil {
			return m, nil
		}
		m.loop.fire(msg.id)
		return m, m.loop.wait()

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard write failed", "err", msg.err)
			m.flash = "Copy failed"
		} else {
			m.flash = "Copied " + msg.text
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and other input housekeeping.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	st := m.controller.State()
	lines := make([]string, listTop, m.height)
	lines[headerRow] = m.renderHeader(st)
	lines[inputRow] = m.renderInput()
	lines[ruleRow] = m.renderRule()
	lines = append(lines, m.renderResults(st)...)
	lines = append(lines,
		m.renderDetail(st),
		m.renderFooter(),
	)
	return strings.Join(lines, "\n")
}

// Close stops pending search timers.
func (m Model) Close() {
	m.controller.Close()
	if m.loop != nil {
		m.loop.Close()
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	st := m.controller.State()

	switch {
	case key.Matches(msg, m.keys.Help):
		m.modal = helpModal{}
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSortKey):
		m.showSortKey = !m.showSortKey
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd(st)

	case key.Matches(msg, m.keys.Reload):
		if st.FirstLoading {
			return m, nil
		}
		return m, m.startLoad()
	}

	// The query is inert until a roster is loaded.
	if !st.Loaded {
		return m, nil
	}

	if k := m.keys.navKey(msg); k != search.KeyNone {
		// Rows hidden behind the searching indicator cannot be picked.
		results := st.Results
		if !m.resultsVisible(st) {
			results = nil
		}
		nav := search.Navigate(k, results, st.SelectedIndex)
		if nav.Handled {
			m.applyNavigation(nav)
			return m, nil
		}
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != prev {
		m.flash = ""
		m.controller.QueryChanged(value)
	}
	return m, cmd
}

// handleMouse selects a clicked row and scrolls the cursor with the wheel.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	st := m.controller.State()
	if !m.resultsVisible(st) {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.applyNavigation(search.Navigate(search.KeyUp, st.Results, st.SelectedIndex))
	case tea.MouseButtonWheelDown:
		m.applyNavigation(search.Navigate(search.KeyDown, st.Results, st.SelectedIndex))
	case tea.MouseButtonLeft:
		idx, ok := m.rowAt(msg.Y, st)
		if !ok {
			return m, nil
		}
		if query, ok := m.controller.Commit(idx); ok {
			m.setQuery(query)
		}
	}
	return m, nil
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	m.controller.FinishLoad(msg.entities, msg.err)
	if msg.err != nil {
		m.modal = loadErrorModal{err: msg.err}
		return m, nil
	}
	if _, ok := m.modal.(loadErrorModal); ok {
		m.modal = nil
	}
	m.logger.Info("roster ready", "players", m.controller.State().Total, "took", msg.took.Round(time.Millisecond))
	return m, nil
}

// applyNavigation hands a reducer outcome to the controller and mirrors any
// rewritten query into the input.
func (m *Model) applyNavigation(nav search.Navigation) {
	query, rewritten := m.controller.Apply(nav)
	if rewritten {
		m.setQuery(query)
	}
}

// setQuery writes a query back into the input. The write-back is reported as
// a query change like any other so the controller consumes the selection
// flag even when the text did not change.
func (m *Model) setQuery(query string) {
	m.flash = ""
	m.input.SetValue(query)
	m.input.CursorEnd()
	m.controller.QueryChanged(query)
}

// resultsVisible reports whether the result rows are on screen.
func (m Model) resultsVisible(st search.State) bool {
	return st.Loaded && !st.Loading && len(st.Results) > 0
}

// rowAt maps a screen row to a result index.
func (m Model) rowAt(y int, st search.State) (int, bool) {
	rows := listRows(m.height)
	row := y - listTop
	if row < 0 || row >= rows {
		return 0, false
	}
	idx := listWindow(st.SelectedIndex, len(st.Results), rows) + row
	if idx >= len(st.Results) {
		return 0, false
	}
	return idx, true
}

// focused returns the entity the detail line describes: the row under the
// cursor while results are shown, otherwise the committed selection.
func (m Model) focused(st search.State) (search.Entity, bool) {
	if m.resultsVisible(st) {
		return st.Highlighted()
	}
	if st.Selected != nil {
		return *st.Selected, true
	}
	return search.Entity{}, false
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.input.PromptStyle = styles.AccentText
	m.input.TextStyle = styles.Text
	m.input.PlaceholderStyle = styles.FaintText
	m.input.Cursor.Style = styles.AccentText
	m.spinner.Style = styles.AccentText
	m.help.Styles.ShortKey = styles.WarningText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.FullKey = styles.WarningText
	m.help.Styles.FullDesc = styles.MutedText
	m.help.Styles.FullSeparator = styles.FaintText
	m.help.Styles.Ellipsis = styles.FaintText
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, ShowSortKey: m.showSortKey}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", "path", m.prefsPath, "err", err)
	}
}

// Messages

type loadedMsg struct {
	entities []search.Entity
	err      error
	took     time.Duration
}

type copiedMsg struct {
	text string
	err  error
}

// Commands

// startLoad marks the roster fetch as in flight and returns the command
// running it.
func (m Model) startLoad() tea.Cmd {
	fetch := m.controller.BeginLoad()
	ctx := m.ctx
	return func() tea.Msg {
		started := time.Now()
		entities, err := fetch(ctx)
		return loadedMsg{entities: entities, err: err, took: time.Since(started)}
	}
}

func (m Model) copyCmd(st search.State) tea.Cmd {
	entity, ok := m.focused(st)
	if !ok {
		return nil
	}
	text := m.articleURL(entity.Title)
	if text == "" {
		text = entity.Title
	}
	write := m.clipboard
	return func() tea.Msg {
		return copiedMsg{text: text, err: write(text)}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
