package domain

import "github.com/jonboulle/clockwork"

// clock is the package-level time source used to stamp tables, swappable in
// tests for deterministic GeneratedAt values.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
