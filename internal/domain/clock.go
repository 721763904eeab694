package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by Today. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Today returns the current calendar date in the town's time zone.
func Today() time.Time {
	return DateOf(clock.Now().In(TownZone))
}

// DateOf strips the time of day, keeping the calendar date as written in t's
// location. The result is midnight UTC so dates compare with Equal/Before.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Now returns the current instant from the package clock.
func Now() time.Time {
	return clock.Now()
}
