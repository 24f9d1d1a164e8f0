package utils

import "time"

const layoutDateTime = "2006-01-02 15:04:05"

// Clock lets services and stores take the current time from tests.
type Clock func() time.Time

// Now returns the clock's time, falling back to the wall clock.
func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}

// FormatDateTime renders "YYYY-MM-DD HH:MM:SS".
func FormatDateTime(t time.Time) string {
	return t.Format(layoutDateTime)
}
