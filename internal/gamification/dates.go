package gamification

import (
	"time"
)

// DateOnly truncates a timestamp to its calendar date at midnight UTC.
// All streak and scheduling math operates on these normalized dates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day gap from a to b (negative when b is
// before a).
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
