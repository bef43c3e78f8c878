package gamification

import (
	"time"
)

// StreakState mirrors the persisted StudyStreak row. LastStudyDate is
// the zero time when the user has no prior activity.
type StreakState struct {
	Current       int
	Longest       int
	LastStudyDate time.Time
}

// NextStreak applies one activity (a session logged or a review
// completed) dated activityDate to the current state.
//
//	no prior record  -> current = 1
//	same day         -> unchanged (repeat activity is idempotent)
//	next day         -> current + 1
//	gap > 1 day      -> current = 1 (streak broken)
//	backdated (<0)   -> no-op; a backfilled earlier date must not reset
//	                    a live streak
//
// Longest is raised to match whenever a transition applies. The second
// return reports whether the state changed and needs a write-back.
func NextStreak(state StreakState, activityDate time.Time) (StreakState, bool) {
	activity := DateOnly(activityDate)

	if state.LastStudyDate.IsZero() {
		next := StreakState{Current: 1, Longest: state.Longest, LastStudyDate: activity}
		if next.Longest < next.Current {
			next.Longest = next.Current
		}
		return next, true
	}

	gap := DaysBetween(state.LastStudyDate, activity)
	switch {
	case gap < 0:
		return state, false
	case gap == 0:
		// Same-day repeat. Nothing moves, but longest is still
		// reconciled in case an older row predates that rule.
		next := state
		if next.Longest < next.Current {
			next.Longest = next.Current
		}
		return next, next != state
	case gap == 1:
		next := StreakState{Current: state.Current + 1, Longest: state.Longest, LastStudyDate: activity}
		if next.Longest < next.Current {
			next.Longest = next.Current
		}
		return next, true
	default:
		next := StreakState{Current: 1, Longest: state.Longest, LastStudyDate: activity}
		if next.Longest < next.Current {
			next.Longest = next.Current
		}
		return next, true
	}
}
