package service

import "time"

// Clock supplies "now" to the services. It is injected so scheduling
// logic can be tested against fixed instants; every operation samples
// the clock exactly once.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock backed by the system time.
type RealClock struct{}

// Now returns the current wall-clock time.
func (RealClock) Now() time.Time { return time.Now() }
