package search

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports false when the
	// timer already fired or was stopped.
	Stop() bool
}

// Clock schedules callbacks. Implementations must run f on the same event
// loop that drives the Controller.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}
