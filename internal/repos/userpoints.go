package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type UserPointsRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserPoints, error)
	Create(ctx context.Context, tx *gorm.DB, points *types.UserPoints) error
	// AddPoints is additive at the storage layer (points = points + delta)
	// so concurrent awards cannot lose an update.
	AddPoints(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error
}

type userPointsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserPointsRepo(db *gorm.DB, baseLog *logger.Logger) UserPointsRepo {
	return &userPointsRepo{db: db, log: baseLog.With("repo", "UserPointsRepo")}
}

func (pr *userPointsRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return pr.db
}

func (pr *userPointsRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserPoints, error) {
	var points types.UserPoints
	if err := pr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		First(&points).Error; err != nil {
		return nil, err
	}
	return &points, nil
}

func (pr *userPointsRepo) Create(ctx context.Context, tx *gorm.DB, points *types.UserPoints) error {
	return pr.conn(tx).WithContext(ctx).Create(points).Error
}

func (pr *userPointsRepo) AddPoints(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	row := &types.UserPoints{
		ID:     uuid.New(),
		UserID: userID,
		Points: delta,
	}
	return pr.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"points": gorm.Expr("user_points.points + ?", delta),
			}),
		}).
		Create(row).Error
}
