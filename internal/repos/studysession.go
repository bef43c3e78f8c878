package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type StudySessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.StudySession) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudySession, error)
	ListByUserTheme(ctx context.Context, tx *gorm.DB, userID uuid.UUID, theme string) ([]*types.StudySession, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	CountDistinctThemes(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	HasPerfectSession(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error)
	DeleteByUserTheme(ctx context.Context, tx *gorm.DB, userID uuid.UUID, theme string) error
}

type studySessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
	return &studySessionRepo{db: db, log: baseLog.With("repo", "StudySessionRepo")}
}

func (sr *studySessionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return sr.db
}

func (sr *studySessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.StudySession) error {
	return sr.conn(tx).WithContext(ctx).Create(session).Error
}

func (sr *studySessionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudySession, error) {
	var sessions []*types.StudySession
	if err := sr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("session_date DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (sr *studySessionRepo) ListByUserTheme(ctx context.Context, tx *gorm.DB, userID uuid.UUID, theme string) ([]*types.StudySession, error) {
	var sessions []*types.StudySession
	if err := sr.conn(tx).WithContext(ctx).
		Where("user_id = ? AND theme = ?", userID, theme).
		Order("session_date DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (sr *studySessionRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	if err := sr.conn(tx).WithContext(ctx).
		Model(&types.StudySession{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (sr *studySessionRepo) CountDistinctThemes(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	if err := sr.conn(tx).WithContext(ctx).
		Model(&types.StudySession{}).
		Where("user_id = ?", userID).
		Distinct("theme").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (sr *studySessionRepo) HasPerfectSession(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (bool, error) {
	var count int64
	if err := sr.conn(tx).WithContext(ctx).
		Model(&types.StudySession{}).
		Where("user_id = ? AND accuracy_percentage >= ?", userID, 100.0).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sr *studySessionRepo) DeleteByUserTheme(ctx context.Context, tx *gorm.DB, userID uuid.UUID, theme string) error {
	return sr.conn(tx).WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND theme = ?", userID, theme).
		Delete(&types.StudySession{}).Error
}
