package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBadge rows are unique per (user_id, badge_type); a duplicate-insert
// error from the database is the race guard for concurrent grants.
type UserBadge struct {
	gorm.Model
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"not null;column:user_id;uniqueIndex:idx_user_badge_type" json:"user_id"`
	BadgeType string         `gorm:"not null;column:badge_type;uniqueIndex:idx_user_badge_type" json:"badge_type"`
	EarnedAt  time.Time      `gorm:"not null;column:earned_at" json:"earned_at"`
	Metadata  datatypes.JSON `gorm:"column:metadata" json:"metadata"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (UserBadge) TableName() string {
	return "user_badge"
}
