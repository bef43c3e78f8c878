package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserPoints is a single running total per user, created lazily with
// points=0 and only ever incremented.
type UserPoints struct {
	gorm.Model
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex;not null;column:user_id" json:"user_id"`
	Points    int       `gorm:"not null;default:0;column:points" json:"points"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserPoints) TableName() string {
	return "user_points"
}
