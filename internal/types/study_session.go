package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudySession is immutable once written: there is no per-session update
// or delete, only bulk deletion of a whole theme.
type StudySession struct {
	gorm.Model
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"index;not null;column:user_id" json:"user_id"`
	Theme              string    `gorm:"index;not null;column:theme" json:"theme"`
	Content            string    `gorm:"column:content" json:"content"`
	TotalQuestions     int       `gorm:"not null;column:total_questions" json:"total_questions"`
	CorrectQuestions   int       `gorm:"not null;column:correct_questions" json:"correct_questions"`
	AccuracyPercentage float64   `gorm:"not null;column:accuracy_percentage" json:"accuracy_percentage"`
	SessionDate        time.Time `gorm:"type:date;not null;column:session_date" json:"session_date"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}

func (StudySession) TableName() string {
	return "study_session"
}
