// Package searchtest provides deterministic helpers for driving a
// search.Controller in tests.
package searchtest

import (
	"cmp"
	"slices"
	"time"

	"github.com/five82/courtside/internal/search"
)

// ManualClock is a search.Clock whose time only moves on Advance. Callbacks
// run synchronously on the goroutine calling Advance.
type ManualClock struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	due     time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

var _ search.Clock = (*ManualClock)(nil)

// NewManualClock returns a clock at time zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) search.Timer {
	c.seq++
	t := &manualTimer{due: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward by d, firing every timer that falls due in
// order. Timers scheduled by callbacks fire too if they fall inside the window.
func (c *ManualClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		next := c.nextDue(target)
		if next == nil {
			break
		}
		c.now = next.due
		next.fired = true
		next.f()
	}
	c.now = target
}

// Elapsed reports how far the clock has advanced.
func (c *ManualClock) Elapsed() time.Duration {
	return c.now
}

// Pending reports how many timers are still waiting to fire.
func (c *ManualClock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (c *ManualClock) nextDue(limit time.Duration) *manualTimer {
	var live []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	c.timers = live
	if len(live) == 0 {
		return nil
	}
	slices.SortStableFunc(live, func(a, b *manualTimer) int {
		if c := cmp.Compare(a.due, b.due); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	if live[0].due > limit {
		return nil
	}
	return live[0]
}

// Stop implements search.Timer.
func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
