package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContentType string

const (
	ContentTypeNote ContentType = "note"
	ContentTypeLink ContentType = "link"
	ContentTypePDF  ContentType = "pdf"
)

func (ct ContentType) Valid() bool {
	switch ct {
	case ContentTypeNote, ContentTypeLink, ContentTypePDF:
		return true
	}
	return false
}

// StudyContent has a lifecycle independent from sessions and reviews:
// deleting a theme's sessions leaves its content in place.
type StudyContent struct {
	gorm.Model
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID   `gorm:"index;not null;column:user_id" json:"user_id"`
	Theme       string      `gorm:"index;not null;column:theme" json:"theme"`
	ContentType ContentType `gorm:"not null;column:content_type" json:"content_type"`
	Title       string      `gorm:"not null;column:title" json:"title"`
	Content     *string     `gorm:"column:content" json:"content"`
	FilePath    *string     `gorm:"column:file_path" json:"file_path"`
	FileName    *string     `gorm:"column:file_name" json:"file_name"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

func (StudyContent) TableName() string {
	return "study_content"
}
