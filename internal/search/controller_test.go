package search_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/courtside/internal/search"
	"github.com/five82/courtside/internal/search/searchtest"
)

const fullCycle = search.DefaultDebounce + search.DefaultLatency

func roster() []search.Entity {
	return []search.Entity{
		{ID: 10, Title: "Fabio Fognini", SortKey: "Fognini, Fabio", Kind: search.KindPage},
		{ID: 11, Title: "Flavio Cobolli", SortKey: "Cobolli, Flavio", Kind: search.KindPage},
		{ID: 12, Title: "Jannik Sinner", SortKey: "Sinner, Jannik", Kind: search.KindPage},
		{ID: 13, Title: "Jasmine Paolini", SortKey: "Paolini, Jasmine", Kind: search.KindPage},
	}
}

// countingSource records how often it was asked for the collection.
type countingSource struct {
	entities []search.Entity
	err      error
	calls    int
}

func (s *countingSource) All(context.Context) ([]search.Entity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.entities, nil
}

func newLoaded(t *testing.T) (*search.Controller, *searchtest.ManualClock) {
	t.Helper()
	clock := searchtest.NewManualClock()
	c := search.NewController(&countingSource{entities: roster()}, clock, search.Options{})
	require.NoError(t, c.Load(context.Background()))
	return c, clock
}

func titles(entities []search.Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Title)
	}
	return out
}

func TestController_SearchAfterDebounceAndLatency(t *testing.T) {
	c, clock := newLoaded(t)

	c.QueryChanged("io")
	st := c.State()
	assert.True(t, st.Loading, "loading must be raised immediately")
	assert.Equal(t, search.PhaseDebouncing, st.Phase)
	assert.Empty(t, st.Results)

	clock.Advance(search.DefaultDebounce)
	st = c.State()
	assert.True(t, st.Loading)
	assert.Equal(t, search.PhaseSearching, st.Phase)
	assert.Empty(t, st.Results, "results wait for the latency window")

	clock.Advance(search.DefaultLatency - time.Millisecond)
	assert.Empty(t, c.State().Results)

	clock.Advance(time.Millisecond)
	st = c.State()
	assert.False(t, st.Loading)
	assert.Equal(t, search.PhaseIdle, st.Phase)
	assert.Equal(t, []string{"Fabio Fognini", "Flavio Cobolli"}, titles(st.Results))
	assert.Zero(t, st.SelectedIndex)
	assert.Zero(t, clock.Pending())
}

func TestController_RapidTypingAppliesOnlyLastQuery(t *testing.T) {
	c, clock := newLoaded(t)

	applied := 0
	var seen []string
	observe := func() {
		st := c.State()
		if !st.Loading && st.Query != "" && len(st.Results) > 0 {
			applied++
			seen = append(seen, st.Query)
		}
	}

	for _, q := range []string{"F", "Fo", "Fog"} {
		c.QueryChanged(q)
		clock.Advance(100 * time.Millisecond)
		observe()
	}
	assert.Equal(t, 1, clock.Pending(), "only one cycle may be live")

	clock.Advance(fullCycle)
	observe()

	assert.Equal(t, 1, applied)
	assert.Equal(t, []string{"Fog"}, seen)
	assert.Equal(t, []string{"Fabio Fognini"}, titles(c.State().Results))
}

func TestController_NewQueryDuringLatencyDropsStaleResults(t *testing.T) {
	c, clock := newLoaded(t)

	c.QueryChanged("fo")
	clock.Advance(search.DefaultDebounce + 100*time.Millisecond)
	require.Equal(t, search.PhaseSearching, c.State().Phase)

	c.QueryChanged("sinner")
	clock.Advance(search.DefaultLatency)
	assert.Empty(t, c.State().Results, "the superseded cycle must not apply")
	assert.True(t, c.State().Loading)

	clock.Advance(fullCycle)
	assert.Equal(t, []string{"Jannik Sinner"}, titles(c.State().Results))
}

func TestController_EmptyQueryClearsImmediately(t *testing.T) {
	c, clock := newLoaded(t)

	c.QueryChanged("io")
	clock.Advance(fullCycle)
	_, ok := c.Commit(1)
	require.True(t, ok)
	c.QueryChanged("Flavio Cobolli")

	c.QueryChanged("jan")
	require.True(t, c.State().Loading)

	c.QueryChanged("")
	st := c.State()
	assert.Empty(t, st.Results)
	assert.False(t, st.Loading)
	assert.Equal(t, search.PhaseIdle, st.Phase)
	require.NotNil(t, st.Selected, "clearing by typing keeps the committed selection")
	assert.Equal(t, "Flavio Cobolli", st.Selected.Title)
	assert.Zero(t, clock.Pending())
}

func TestController_ShortQueryForcesEmptyAndNotLoading(t *testing.T) {
	c, clock := newLoaded(t)

	c.QueryChanged("fo")
	clock.Advance(fullCycle)
	require.NotEmpty(t, c.State().Results)

	c.QueryChanged("f ")
	st := c.State()
	assert.Empty(t, st.Results)
	assert.False(t, st.Loading)
	assert.Zero(t, clock.Pending())

	clock.Advance(fullCycle)
	assert.Empty(t, c.State().Results)
}

func TestController_CommitSuppressesResearchOnce(t *testing.T) {
	c, clock := newLoaded(t)

	c.QueryChanged("io")
	clock.Advance(fullCycle)

	nav := search.Navigate(search.KeyDown, c.State().Results, c.State().SelectedIndex)
	_, changed := c.Apply(nav)
	assert.False(t, changed)
	assert.Equal(t, 1, c.State().SelectedIndex)

	nav = search.Navigate(search.KeyEnter, c.State().Results, c.State().SelectedIndex)
	query, changed := c.Apply(nav)
	require.True(t, changed)
	assert.Equal(t, "Flavio Cobolli", query)

	st := c.State()
	assert.True(t, st.ProgrammaticSelection)
	require.NotNil(t, st.Selected)
	assert.Equal(t, int64(11), st.Selected.ID)

	c.QueryChanged(query)
	st = c.State()
	assert.False(t, st.ProgrammaticSelection, "flag is consumed by the resulting change")
	assert.False(t, st.Loading, "a commit must not start a search cycle")
	assert.Zero(t, clock.Pending())
	assert.Equal(t, []string{"Fabio Fognini", "Flavio Cobolli"}, titles(st.Results))

	c.QueryChanged("Flavio Cobollix")
	assert.True(t, c.State().Loading, "the next typed change searches again")
}

func TestController_CommitCancelsPendingCycle(t *testing.T) {
	c, clock := newLoaded(t)

	c.QueryChanged("fo")
	clock.Advance(fullCycle)
	c.QueryChanged("fog")
	require.True(t, c.State().Loading)

	q, ok := c.Commit(0)
	require.True(t, ok)
	c.QueryChanged(q)

	assert.False(t, c.State().Loading)
	assert.Zero(t, clock.Pending())
}

func TestController_CommitOutOfRange(t *testing.T) {
	c, _ := newLoaded(t)
	_, ok := c.Commit(0)
	assert.False(t, ok)
	assert.False(t, c.State().ProgrammaticSelection)
}

func TestController_EscapeResetsEverything(t *testing.T) {
	c, clock := newLoaded(t)

	c.QueryChanged("ni")
	clock.Advance(fullCycle)
	require.Len(t, c.State().Results, 3)
	for i := 0; i < 2; i++ {
		c.Apply(search.Navigate(search.KeyDown, c.State().Results, c.State().SelectedIndex))
	}
	require.Equal(t, 2, c.State().SelectedIndex)
	_, _ = c.Commit(2)

	query, changed := c.Apply(search.Navigate(search.KeyEscape, c.State().Results, 2))
	assert.True(t, changed)
	assert.Empty(t, query)

	st := c.State()
	assert.Empty(t, st.Query)
	assert.Empty(t, st.Results)
	assert.Zero(t, st.SelectedIndex)
	assert.Nil(t, st.Selected)
	assert.False(t, st.ProgrammaticSelection)
}

func TestController_CloseCancelsTimers(t *testing.T) {
	c, clock := newLoaded(t)

	c.QueryChanged("fo")
	c.Close()
	assert.Zero(t, clock.Pending())

	clock.Advance(fullCycle)
	assert.Empty(t, c.State().Results)

	c.QueryChanged("sinner")
	assert.Zero(t, clock.Pending(), "a closed controller ignores input")
}

func TestController_QueryIsCappedAtMaxLength(t *testing.T) {
	c, _ := newLoaded(t)
	long := make([]rune, search.MaxQueryLength+20)
	for i := range long {
		long[i] = 'à'
	}
	c.QueryChanged(string(long))
	assert.Len(t, []rune(c.State().Query), search.MaxQueryLength)
}

func TestController_CustomTimings(t *testing.T) {
	clock := searchtest.NewManualClock()
	c := search.NewController(&countingSource{entities: roster()}, clock, search.Options{
		Debounce:       50 * time.Millisecond,
		Latency:        10 * time.Millisecond,
		MinQueryLength: 3,
	})
	require.NoError(t, c.Load(context.Background()))

	c.QueryChanged("fo")
	assert.False(t, c.State().Loading)

	c.QueryChanged("fog")
	clock.Advance(60 * time.Millisecond)
	assert.Equal(t, []string{"Fabio Fognini"}, titles(c.State().Results))
}

func TestController_LoadLifecycle(t *testing.T) {
	clock := searchtest.NewManualClock()
	src := &countingSource{err: errors.New("boom")}
	c := search.NewController(src, clock, search.Options{})

	fetch := c.BeginLoad()
	assert.True(t, c.State().FirstLoading)
	_, err := fetch(context.Background())
	c.FinishLoad(nil, err)

	st := c.State()
	assert.False(t, st.FirstLoading)
	assert.False(t, st.Loaded)
	require.Error(t, st.LoadErr)
	assert.Zero(t, st.Total)

	src.err = nil
	src.entities = roster()
	require.NoError(t, c.Load(context.Background()))
	st = c.State()
	assert.NoError(t, st.LoadErr)
	assert.True(t, st.Loaded)
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, src.calls)
}

func TestController_ReloadKeepsTypedQuery(t *testing.T) {
	c, clock := newLoaded(t)
	c.QueryChanged("sin")
	clock.Advance(fullCycle)
	_, _ = c.Commit(0)

	require.NoError(t, c.Load(context.Background()))
	st := c.State()
	assert.Nil(t, st.Selected)
	assert.True(t, st.Loading, "the current query is searched again against the new collection")

	clock.Advance(fullCycle)
	assert.Equal(t, []string{"Jannik Sinner"}, titles(c.State().Results))
}

func TestController_NoSource(t *testing.T) {
	c := search.NewController(nil, searchtest.NewManualClock(), search.Options{})
	assert.Error(t, c.Load(context.Background()))
}

func TestController_StateIsACopy(t *testing.T) {
	c, clock := newLoaded(t)
	c.QueryChanged("fo")
	clock.Advance(fullCycle)

	st := c.State()
	st.Results[0].Title = "changed"
	assert.Equal(t, "Fabio Fognini", c.State().Results[0].Title)
}
