package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PointsSource string

const (
	PointsSourceStudySession PointsSource = "study_session"
	PointsSourceReview       PointsSource = "review"
	PointsSourceBadge        PointsSource = "badge"
	PointsSourceStreak       PointsSource = "streak"
)

// PointsHistory is an append-only ledger. The sum of deltas should match
// UserPoints.Points; the two writes are not atomic, so the ledger is a
// reconciliation aid rather than a guarantee.
type PointsHistory struct {
	gorm.Model
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID    `gorm:"index;not null;column:user_id" json:"user_id"`
	Points      int          `gorm:"not null;column:points" json:"points"`
	Source      PointsSource `gorm:"not null;column:source" json:"source"`
	SourceID    *uuid.UUID   `gorm:"column:source_id" json:"source_id"`
	Description string       `gorm:"column:description" json:"description"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (PointsHistory) TableName() string {
	return "points_history"
}
