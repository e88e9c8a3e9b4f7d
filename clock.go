package d7r

import "time"

// Clock abstracts time measurement so that the timing combinator can be
// tested deterministically. Production code uses [RealClock]; tests may
// substitute a fake implementation to control observed elapsed time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Since returns the duration elapsed since t.
	Since(t time.Time) time.Duration
}

// RealClock is a zero-value [Clock] backed by the real [time] package.
// It is safe for concurrent use because it holds no mutable state.
type RealClock struct{}

// Now returns the current wall-clock time via [time.Now].
func (RealClock) Now() time.Time { return time.Now() }

// Since returns the time elapsed since t via [time.Since]. The underlying
// measurement uses Go's monotonic clock reading, so results are
// non-decreasing even across wall-clock adjustments.
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }
