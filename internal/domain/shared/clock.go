package shared

import "time"

// Clock supplies the current time. All timestamping, order number generation
// and return-window checks go through a Clock so tests can control time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now
type SystemClock struct{}

// Now returns the current system time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock is a Clock frozen at a specific instant, for tests
type FixedClock struct {
	Instant time.Time
}

// Now returns the frozen instant
func (c FixedClock) Now() time.Time {
	return c.Instant
}
