package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type StudyStreakRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StudyStreak, error)
	Create(ctx context.Context, tx *gorm.DB, streak *types.StudyStreak) error
	Upsert(ctx context.Context, tx *gorm.DB, streak *types.StudyStreak) error
}

type studyStreakRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyStreakRepo(db *gorm.DB, baseLog *logger.Logger) StudyStreakRepo {
	return &studyStreakRepo{db: db, log: baseLog.With("repo", "StudyStreakRepo")}
}

func (sr *studyStreakRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return sr.db
}

func (sr *studyStreakRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StudyStreak, error) {
	var streak types.StudyStreak
	if err := sr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		First(&streak).Error; err != nil {
		return nil, err
	}
	return &streak, nil
}

func (sr *studyStreakRepo) Create(ctx context.Context, tx *gorm.DB, streak *types.StudyStreak) error {
	return sr.conn(tx).WithContext(ctx).Create(streak).Error
}

// Upsert is keyed on user_id. Concurrent writers are last-writer-wins; the
// streak row is per-user state, not an append ledger.
func (sr *studyStreakRepo) Upsert(ctx context.Context, tx *gorm.DB, streak *types.StudyStreak) error {
	return sr.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"current_streak", "longest_streak", "last_study_date", "updated_at"}),
		}).
		Create(streak).Error
}
