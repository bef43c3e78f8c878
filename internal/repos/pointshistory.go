package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type PointsHistoryRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *types.PointsHistory) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PointsHistory, error)
	SumByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type pointsHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPointsHistoryRepo(db *gorm.DB, baseLog *logger.Logger) PointsHistoryRepo {
	return &pointsHistoryRepo{db: db, log: baseLog.With("repo", "PointsHistoryRepo")}
}

func (hr *pointsHistoryRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return hr.db
}

func (hr *pointsHistoryRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.PointsHistory) error {
	return hr.conn(tx).WithContext(ctx).Create(entry).Error
}

func (hr *pointsHistoryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.PointsHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []*types.PointsHistory
	if err := hr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumByUser totals the ledger deltas. The result should reconcile with
// UserPoints.Points; the writes are not atomic so drift is possible.
func (hr *pointsHistoryRepo) SumByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var sum *int64
	if err := hr.conn(tx).WithContext(ctx).
		Model(&types.PointsHistory{}).
		Where("user_id = ?", userID).
		Select("SUM(points)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
