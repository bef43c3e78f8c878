package gamification

import (
	"math"
	"time"
)

const (
	// Accuracy below this schedules the short review interval.
	goodAccuracyThreshold = 60.0

	shortReviewInterval = 5  // days
	longReviewInterval  = 15 // days

	sessionBasePoints = 10
	reviewPointsValue = 15
	badgePointsValue  = 50
)

// ReviewDueDate schedules the single follow-up review for a session.
// Accuracy of exactly 60% counts as the good branch (15 days out).
func ReviewDueDate(sessionDate time.Time, accuracyPercentage float64) time.Time {
	days := longReviewInterval
	if accuracyPercentage < goodAccuracyThreshold {
		days = shortReviewInterval
	}
	return DateOnly(sessionDate).AddDate(0, 0, days)
}

// SessionPoints is a flat base plus an accuracy bonus: 10 at 0% up to 20
// at 100%.
func SessionPoints(accuracyPercentage float64) int {
	return sessionBasePoints + int(math.Floor(accuracyPercentage/10))
}

// ReviewPoints is awarded once per completed review.
func ReviewPoints() int {
	return reviewPointsValue
}

// BadgePoints is awarded once per newly granted badge.
func BadgePoints() int {
	return badgePointsValue
}

// Accuracy derives the stored percentage from raw counts.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
