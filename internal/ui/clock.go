package ui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/courtside/internal/search"
)

// timerFiredMsg carries a fired loopClock timer into Update.
type timerFiredMsg struct {
	id uint64
}

// loopClock is a search.Clock whose callbacks run inside the Bubble Tea
// update loop. Wall-clock timers only post the timer id on a channel; the
// callback itself is invoked from Update when the matching timerFiredMsg
// arrives, so the search controller never sees concurrent calls.
type loopClock struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]*loopTimer
	fired   chan uint64
	done    chan struct{}
	once    sync.Once
}

type loopTimer struct {
	clock *loopClock
	id    uint64
	timer *time.Timer
	f     func()
}

func newLoopClock() *loopClock {
	return &loopClock{
		pending: make(map[uint64]*loopTimer),
		fired:   make(chan uint64, 8),
		done:    make(chan struct{}),
	}
}

var _ search.Clock = (*loopClock)(nil)

// AfterFunc schedules f to run on the update loop after d.
func (c *loopClock) AfterFunc(d time.Duration, f func()) search.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	t := &loopTimer{clock: c, id: c.nextID, f: f}
	c.pending[t.id] = t
	t.timer = time.AfterFunc(d, func() {
		select {
		case c.fired <- t.id:
		case <-c.done:
		}
	})
	return t
}

// Stop cancels the timer. A firing already queued on the channel is dropped
// when it reaches the loop.
func (t *loopTimer) Stop() bool {
	t.clock.mu.Lock()
	_, live := t.clock.pending[t.id]
	delete(t.clock.pending, t.id)
	t.clock.mu.Unlock()
	t.timer.Stop()
	return live
}

// wait blocks until a timer fires. It must be re-issued after every
// timerFiredMsg.
func (c *loopClock) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case id := <-c.fired:
			return timerFiredMsg{id: id}
		case <-c.done:
			return nil
		}
	}
}

// fire runs the callback for id if the timer is still live.
func (c *loopClock) fire(id uint64) {
	c.mu.Lock()
	t, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()
	if ok {
		t.f()
	}
}

// Close stops every pending timer and releases waiters.
func (c *loopClock) Close() {
	c.once.Do(func() {
		c.mu.Lock()
		for id, t := range c.pending {
			t.timer.Stop()
			delete(c.pending, id)
		}
		c.mu.Unlock()
		close(c.done)
	})
}
