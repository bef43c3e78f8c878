package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudyStreak tracks consecutive-day activity. LastStudyDate is nil
// until the first qualifying activity.
type StudyStreak struct {
	gorm.Model
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"uniqueIndex;not null;column:user_id" json:"user_id"`
	CurrentStreak int        `gorm:"not null;default:0;column:current_streak" json:"current_streak"`
	LongestStreak int        `gorm:"not null;default:0;column:longest_streak" json:"longest_streak"`
	LastStudyDate *time.Time `gorm:"type:date;column:last_study_date" json:"last_study_date"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (StudyStreak) TableName() string {
	return "study_streak"
}
