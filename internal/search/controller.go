package search

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Default timings for a search cycle.
const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultLatency  = 500 * time.Millisecond
)

// Phase is the controller's position in a search cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseSearching
)

func (p Phase) String() string {
	switch p {
	case PhaseDebouncing:
		return "debouncing"
	case PhaseSearching:
		return "searching"
	default:
		return "idle"
	}
}

// Options tune a Controller. Zero values use the defaults.
type Options struct {
	Debounce       time.Duration
	Latency        time.Duration
	MinQueryLength int
	MaxQueryLength int
	CacheSize      int
	Logger         *log.Logger
}

// State is a read-only view of the controller for rendering.
type State struct {
	Query                 string
	Phase                 Phase
	Loading               bool
	FirstLoading          bool
	Loaded                bool
	LoadErr               error
	Results               []Entity
	SelectedIndex         int
	Selected              *Entity
	ProgrammaticSelection bool
	Total                 int
}

// Highlighted returns the entity under the cursor, if any.
func (s State) Highlighted() (Entity, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Results) {
		return Entity{}, false
	}
	return s.Results[s.SelectedIndex], true
}

// cycle is one debounce+latency run. Only the controller's current cycle may
// apply results.
type cycle struct {
	timer Timer
}

// Controller is the debounced search state machine. It is not safe for
// concurrent use: every method, including timer callbacks, must run on one
// event loop.
type Controller struct {
	source Source
	clock  Clock
	opts   Options
	logger *log.Logger

	matcher *Matcher
	loaded  bool
	loading bool // initial fetch in flight
	loadErr error

	query         string
	phase         Phase
	results       []Entity
	selectedIndex int
	selected      *Entity
	programmatic  bool
	current       *cycle
	closed        bool
}

// NewController builds a controller over source, scheduling timers on clock.
func NewController(source Source, clock Clock, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Latency < 0 {
		opts.Latency = 0
	}
	if opts.Latency == 0 {
		opts.Latency = DefaultLatency
	}
	if opts.MinQueryLength < 1 {
		opts.MinQueryLength = MinQueryLength
	}
	if opts.MaxQueryLength < opts.MinQueryLength {
		opts.MaxQueryLength = MaxQueryLength
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		source: source,
		clock:  clock,
		opts:   opts,
		logger: logger,
	}
}

// BeginLoad marks the initial fetch as in flight and returns the fetch to run
// off the event loop. Pass its result to FinishLoad.
func (c *Controller) BeginLoad() func(ctx context.Context) ([]Entity, error) {
	c.loading = true
	c.loadErr = nil
	source := c.source
	return func(ctx context.Context) ([]Entity, error) {
		if source == nil {
			return nil, errNoSource
		}
		return source.All(ctx)
	}
}

// FinishLoad applies the outcome of a fetch started with BeginLoad. A
// successful load replaces the collection and resets the search state.
func (c *Controller) FinishLoad(entities []Entity, err error) {
	c.loading = false
	if err != nil {
		c.loadErr = err
		c.logger.Error("load failed", "err", err)
		return
	}
	c.loadErr = nil
	c.loaded = true
	c.matcher = NewMatcher(entities, c.opts.MinQueryLength, c.opts.CacheSize)
	c.resetQuery()
	c.selected = nil
	c.programmatic = false
	c.logger.Info("collection loaded", "entities", c.matcher.Len())
	if c.query != "" {
		c.QueryChanged(c.query)
	}
}

// Load runs BeginLoad and FinishLoad back to back.
func (c *Controller) Load(ctx context.Context) error {
	fetch := c.BeginLoad()
	entities, err := fetch(ctx)
	c.FinishLoad(entities, err)
	return err
}

// QueryChanged reacts to a new query text, whether typed or written back by
// a commit.
func (c *Controller) QueryChanged(text string) {
	if c.closed {
		return
	}
	text = clampRunes(text, c.opts.MaxQueryLength)
	c.query = text

	if text == "" {
		c.programmatic = false
		c.resetQuery()
		return
	}

	if c.programmatic {
		// The query was rewritten by a commit; no search for this change.
		c.programmatic = false
		c.cancel()
		return
	}

	if len([]rune(strings.TrimSpace(text))) < c.opts.MinQueryLength {
		c.cancel()
		c.results = nil
		c.selectedIndex = 0
		return
	}

	c.start()
}

// Apply performs the mutations requested by a Navigation. It returns the
// query the input must show and whether it was rewritten.
func (c *Controller) Apply(nav Navigation) (string, bool) {
	switch {
	case nav.Cancel:
		c.Clear()
		return "", true
	case nav.Commit:
		if q, ok := c.Commit(nav.Index); ok {
			return q, true
		}
		return c.query, false
	case nav.Handled:
		if nav.Index >= 0 && nav.Index < len(c.results) {
			c.selectedIndex = nav.Index
		}
	}
	return c.query, false
}

// Commit selects results[index] as if it was clicked or entered. The query
// becomes the entity title and the next QueryChanged is treated as
// programmatic.
func (c *Controller) Commit(index int) (string, bool) {
	if c.closed || index < 0 || index >= len(c.results) {
		return c.query, false
	}
	entity := c.results[index]
	c.programmatic = true
	c.selectedIndex = index
	c.selected = &entity
	c.query = entity.Title
	c.logger.Debug("selection committed", "id", entity.ID, "title", entity.Title)
	return entity.Title, true
}

// Clear empties the query, results and selection.
func (c *Controller) Clear() {
	c.programmatic = false
	c.query = ""
	c.selected = nil
	c.resetQuery()
}

// Close cancels pending timers. Later events are ignored.
func (c *Controller) Close() {
	c.cancel()
	c.closed = true
}

// State returns a snapshot for rendering.
func (c *Controller) State() State {
	st := State{
		Query:                 c.query,
		Phase:                 c.phase,
		Loading:               c.phase != PhaseIdle,
		FirstLoading:          c.loading,
		Loaded:                c.loaded,
		LoadErr:               c.loadErr,
		Results:               cloneEntities(c.results),
		SelectedIndex:         c.selectedIndex,
		ProgrammaticSelection: c.programmatic,
		Total:                 c.matcher.Len(),
	}
	if c.selected != nil {
		sel := *c.selected
		st.Selected = &sel
	}
	return st
}

func (c *Controller) start() {
	c.cancel()
	cyc := &cycle{}
	c.current = cyc
	c.phase = PhaseDebouncing
	cyc.timer = c.clock.AfterFunc(c.opts.Debounce, func() { c.debounceElapsed(cyc) })
}

func (c *Controller) debounceElapsed(cyc *cycle) {
	if c.current != cyc || c.closed {
		return
	}
	c.phase = PhaseSearching
	cyc.timer = c.clock.AfterFunc(c.opts.Latency, func() { c.delayElapsed(cyc) })
}

func (c *Controller) delayElapsed(cyc *cycle) {
	if c.current != cyc || c.closed {
		return
	}
	c.current = nil
	c.phase = PhaseIdle
	c.results = c.matcher.Match(c.query)
	c.selectedIndex = 0
	c.logger.Debug("search applied", "query", c.query, "results", len(c.results))
}

// cancel stops the in-flight cycle, if any, and drops the loading flag.
func (c *Controller) cancel() {
	if c.current != nil {
		if c.current.timer != nil {
			c.current.timer.Stop()
		}
		c.current = nil
	}
	c.phase = PhaseIdle
}

func (c *Controller) resetQuery() {
	c.cancel()
	c.results = nil
	c.selectedIndex = 0
}

func clampRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
