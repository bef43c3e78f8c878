package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type StudyContentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, content *types.StudyContent) error
	GetByID(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) (*types.StudyContent, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudyContent, error)
	ListByUserTheme(ctx context.Context, tx *gorm.DB, userID uuid.UUID, theme string) ([]*types.StudyContent, error)
	Update(ctx context.Context, tx *gorm.DB, content *types.StudyContent) error
	Delete(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) error
}

type studyContentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyContentRepo(db *gorm.DB, baseLog *logger.Logger) StudyContentRepo {
	return &studyContentRepo{db: db, log: baseLog.With("repo", "StudyContentRepo")}
}

func (cr *studyContentRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cr.db
}

func (cr *studyContentRepo) Create(ctx context.Context, tx *gorm.DB, content *types.StudyContent) error {
	return cr.conn(tx).WithContext(ctx).Create(content).Error
}

func (cr *studyContentRepo) GetByID(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) (*types.StudyContent, error) {
	var content types.StudyContent
	if err := cr.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", contentID, userID).
		First(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (cr *studyContentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StudyContent, error) {
	var items []*types.StudyContent
	if err := cr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (cr *studyContentRepo) ListByUserTheme(ctx context.Context, tx *gorm.DB, userID uuid.UUID, theme string) ([]*types.StudyContent, error) {
	var items []*types.StudyContent
	if err := cr.conn(tx).WithContext(ctx).
		Where("user_id = ? AND theme = ?", userID, theme).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (cr *studyContentRepo) Update(ctx context.Context, tx *gorm.DB, content *types.StudyContent) error {
	return cr.conn(tx).WithContext(ctx).Save(content).Error
}

func (cr *studyContentRepo) Delete(ctx context.Context, tx *gorm.DB, userID, contentID uuid.UUID) error {
	return cr.conn(tx).WithContext(ctx).
		Where("id = ? AND user_id = ?", contentID, userID).
		Unscoped().
		Delete(&types.StudyContent{}).Error
}
