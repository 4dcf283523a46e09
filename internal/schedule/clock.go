package schedule

import "time"

// Clock supplies the current time. Injecting it keeps the trigger math
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// systemClock reads the real wall clock.
type systemClock struct{}

// Now returns the current local time.
func (systemClock) Now() time.Time {
	return time.Now()
}

// System returns the wall-clock Clock used outside tests.
//
//nolint:ireturn // Callers depend on the interface.
func System() Clock {
	return systemClock{}
}
