package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduledReview is created exactly once per study session and never
// re-created. Completion and rescheduling mutate the existing row.
type ScheduledReview struct {
	gorm.Model
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"index;not null;column:user_id" json:"user_id"`
	StudySessionID uuid.UUID  `gorm:"index;not null;column:study_session_id" json:"study_session_id"`
	Theme          string     `gorm:"index;not null;column:theme" json:"theme"`
	ReviewDate     time.Time  `gorm:"type:date;not null;column:review_date" json:"review_date"`
	IsCompleted    bool       `gorm:"not null;default:false;column:is_completed" json:"is_completed"`
	WasRescheduled bool       `gorm:"not null;default:false;column:was_rescheduled" json:"was_rescheduled"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (ScheduledReview) TableName() string {
	return "scheduled_review"
}
