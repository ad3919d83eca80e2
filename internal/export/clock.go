package export

import "time"

// Clock abstracts time.Now() so the printed timestamp of a document is
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
