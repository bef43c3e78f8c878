package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type UserBadgeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, badge *types.UserBadge) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserBadge, error)
	TypesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]bool, error)
}

type userBadgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserBadgeRepo(db *gorm.DB, baseLog *logger.Logger) UserBadgeRepo {
	return &userBadgeRepo{db: db, log: baseLog.With("repo", "UserBadgeRepo")}
}

func (br *userBadgeRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return br.db
}

// Create surfaces gorm.ErrDuplicatedKey when the (user_id, badge_type) pair
// already exists; callers treat that as an already-granted badge.
func (br *userBadgeRepo) Create(ctx context.Context, tx *gorm.DB, badge *types.UserBadge) error {
	return br.conn(tx).WithContext(ctx).Create(badge).Error
}

func (br *userBadgeRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserBadge, error) {
	var badges []*types.UserBadge
	if err := br.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

func (br *userBadgeRepo) TypesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]bool, error) {
	var rows []string
	if err := br.conn(tx).WithContext(ctx).
		Model(&types.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_type", &rows).Error; err != nil {
		return nil, err
	}
	earned := make(map[string]bool, len(rows))
	for _, t := range rows {
		earned[t] = true
	}
	return earned, nil
}
