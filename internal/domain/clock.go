package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze the calendar date via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for the response date. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Today returns the current UTC date as YYYY-MM-DD.
func Today() string {
	return clock.Now().UTC().Format("2006-01-02")
}
