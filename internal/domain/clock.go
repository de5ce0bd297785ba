package domain

import "github.com/jonboulle/clockwork"

// clock stamps DistanceResult.ComputedAt. Tests swap in a fake via SetClock.
var clock = clockwork.NewRealClock()

// SetClock replaces the result time source. Pass nil to restore real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
