package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type ScheduledReviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, review *types.ScheduledReview) error
	GetByID(ctx context.Context, tx *gorm.DB, userID, reviewID uuid.UUID) (*types.ScheduledReview, error)
	ListPendingByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ScheduledReview, error)
	CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, completedAt time.Time) error
	Reschedule(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, newDate time.Time) error
	DeleteByUserTheme(ctx context.Context, tx *gorm.DB, userID uuid.UUID, theme string) error
}

type scheduledReviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduledReviewRepo(db *gorm.DB, baseLog *logger.Logger) ScheduledReviewRepo {
	return &scheduledReviewRepo{db: db, log: baseLog.With("repo", "ScheduledReviewRepo")}
}

func (rr *scheduledReviewRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return rr.db
}

func (rr *scheduledReviewRepo) Create(ctx context.Context, tx *gorm.DB, review *types.ScheduledReview) error {
	return rr.conn(tx).WithContext(ctx).Create(review).Error
}

func (rr *scheduledReviewRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, reviewID uuid.UUID) (*types.ScheduledReview, error) {
	var review types.ScheduledReview
	if err := rr.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", reviewID, userID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (rr *scheduledReviewRepo) ListPendingByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ScheduledReview, error) {
	var reviews []*types.ScheduledReview
	if err := rr.conn(tx).WithContext(ctx).
		Where("user_id = ? AND is_completed = ?", userID, false).
		Order("review_date ASC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (rr *scheduledReviewRepo) CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	if err := rr.conn(tx).WithContext(ctx).
		Model(&types.ScheduledReview{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (rr *scheduledReviewRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, completedAt time.Time) error {
	return rr.conn(tx).WithContext(ctx).
		Model(&types.ScheduledReview{}).
		Where("id = ?", reviewID).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": completedAt,
			"updated_at":   completedAt,
		}).Error
}

func (rr *scheduledReviewRepo) Reschedule(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, newDate time.Time) error {
	return rr.conn(tx).WithContext(ctx).
		Model(&types.ScheduledReview{}).
		Where("id = ?", reviewID).
		Updates(map[string]interface{}{
			"review_date":     newDate,
			"was_rescheduled": true,
			"updated_at":      time.Now(),
		}).Error
}

func (rr *scheduledReviewRepo) DeleteByUserTheme(ctx context.Context, tx *gorm.DB, userID uuid.UUID, theme string) error {
	return rr.conn(tx).WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND theme = ?", userID, theme).
		Delete(&types.ScheduledReview{}).Error
}
