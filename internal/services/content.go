package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/normalization"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/requestdata"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type CreateContentInput struct {
	Theme       string
	ContentType types.ContentType
	Title       string
	Content     string
	FileName    string
	File        io.Reader
}

type UpdateContentInput struct {
	Title   *string
	Content *string
}

type ContentService interface {
	CreateContent(ctx context.Context, input CreateContentInput) (*types.StudyContent, error)
	ListContent(ctx context.Context) ([]*types.StudyContent, error)
	ListContentByTheme(ctx context.Context, theme string) ([]*types.StudyContent, error)
	UpdateContent(ctx context.Context, contentID uuid.UUID, input UpdateContentInput) (*types.StudyContent, error)
	DeleteContent(ctx context.Context, contentID uuid.UUID) error
	FileURL(ctx context.Context, contentID uuid.UUID) (string, error)
}

type contentService struct {
	db            *gorm.DB
	log           *logger.Logger
	contentRepo   repos.StudyContentRepo
	bucketService BucketService
}

func NewContentService(
	db *gorm.DB,
	log *logger.Logger,
	contentRepo repos.StudyContentRepo,
	bucketService BucketService,
) ContentService {
	return &contentService{
		db:            db,
		log:           log.With("service", "ContentService"),
		contentRepo:   contentRepo,
		bucketService: bucketService,
	}
}

func (cs *contentService) userID(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return uuid.Nil, fmt.Errorf("no request data found in context")
	}
	return rd.UserID, nil
}

func (cs *contentService) CreateContent(ctx context.Context, input CreateContentInput) (*types.StudyContent, error) {
	userID, err := cs.userID(ctx)
	if err != nil {
		return nil, err
	}

	theme := normalization.TrimInputString(input.Theme)
	title := normalization.TrimInputString(input.Title)
	if theme == "" {
		return nil, fmt.Errorf("theme is required")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !input.ContentType.Valid() {
		return nil, fmt.Errorf("invalid content type %q", input.ContentType)
	}

	content := &types.StudyContent{
		ID:          uuid.New(),
		UserID:      userID,
		Theme:       theme,
		ContentType: input.ContentType,
		Title:       title,
	}

	switch input.ContentType {
	case types.ContentTypeNote:
		body := strings.TrimSpace(input.Content)
		if body == "" {
			return nil, fmt.Errorf("a note requires a body")
		}
		content.Content = &body
	case types.ContentTypeLink:
		link := strings.TrimSpace(input.Content)
		if link == "" {
			return nil, fmt.Errorf("a link requires a URL")
		}
		if _, err := url.ParseRequestURI(link); err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		content.Content = &link
	case types.ContentTypePDF:
		if input.File == nil {
			return nil, fmt.Errorf("a pdf requires a file upload")
		}
		fileName := strings.TrimSpace(input.FileName)
		ext := strings.ToLower(filepath.Ext(fileName))
		if ext == "" {
			ext = ".pdf"
		}
		key := fmt.Sprintf("study_content/%s/%d%s", userID.String(), time.Now().UnixNano(), ext)
		if err := cs.bucketService.UploadFile(ctx, key, input.File, "application/pdf"); err != nil {
			return nil, fmt.Errorf("failed to upload file: %w", err)
		}
		content.FilePath = &key
		if fileName != "" {
			content.FileName = &fileName
		}
	}

	if err := cs.contentRepo.Create(ctx, nil, content); err != nil {
		// The record is the source of truth; an orphaned blob is cleaned
		// up here rather than left dangling.
		if content.FilePath != nil {
			if dErr := cs.bucketService.DeleteFile(ctx, *content.FilePath); dErr != nil {
				cs.log.Warn("failed to delete orphaned blob (ignored)", "key", *content.FilePath, "error", dErr)
			}
		}
		return nil, fmt.Errorf("failed to create study content: %w", err)
	}
	return content, nil
}

func (cs *contentService) ListContent(ctx context.Context) ([]*types.StudyContent, error) {
	userID, err := cs.userID(ctx)
	if err != nil {
		return nil, err
	}
	return cs.contentRepo.ListByUser(ctx, nil, userID)
}

func (cs *contentService) ListContentByTheme(ctx context.Context, theme string) ([]*types.StudyContent, error) {
	userID, err := cs.userID(ctx)
	if err != nil {
		return nil, err
	}
	theme = normalization.TrimInputString(theme)
	if theme == "" {
		return nil, fmt.Errorf("theme is required")
	}
	return cs.contentRepo.ListByUserTheme(ctx, nil, userID, theme)
}

// UpdateContent only touches title and body; type, theme and file
// reference are fixed at creation.
func (cs *contentService) UpdateContent(ctx context.Context, contentID uuid.UUID, input UpdateContentInput) (*types.StudyContent, error) {
	userID, err := cs.userID(ctx)
	if err != nil {
		return nil, err
	}
	content, err := cs.contentRepo.GetByID(ctx, nil, userID, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load study content: %w", err)
	}

	if input.Title != nil {
		title := normalization.TrimInputString(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		content.Title = title
	}
	if input.Content != nil {
		if content.ContentType == types.ContentTypePDF {
			return nil, fmt.Errorf("a pdf's body cannot be edited")
		}
		body := strings.TrimSpace(*input.Content)
		if body == "" {
			return nil, fmt.Errorf("content cannot be empty")
		}
		content.Content = &body
	}

	if err := cs.contentRepo.Update(ctx, nil, content); err != nil {
		return nil, fmt.Errorf("failed to update study content: %w", err)
	}
	return content, nil
}

// DeleteContent removes the blob first, best-effort, then the record.
// A failed blob delete never blocks record deletion.
func (cs *contentService) DeleteContent(ctx context.Context, contentID uuid.UUID) error {
	userID, err := cs.userID(ctx)
	if err != nil {
		return err
	}
	content, err := cs.contentRepo.GetByID(ctx, nil, userID, contentID)
	if err != nil {
		return fmt.Errorf("failed to load study content: %w", err)
	}

	if content.FilePath != nil {
		if dErr := cs.bucketService.DeleteFile(ctx, *content.FilePath); dErr != nil {
			cs.log.Warn("failed to delete content blob (ignored)", "key", *content.FilePath, "error", dErr)
		}
	}

	if err := cs.contentRepo.Delete(ctx, nil, userID, content.ID); err != nil {
		return fmt.Errorf("failed to delete study content: %w", err)
	}
	return nil
}

func (cs *contentService) FileURL(ctx context.Context, contentID uuid.UUID) (string, error) {
	userID, err := cs.userID(ctx)
	if err != nil {
		return "", err
	}
	content, err := cs.contentRepo.GetByID(ctx, nil, userID, contentID)
	if err != nil {
		return "", fmt.Errorf("failed to load study content: %w", err)
	}
	if content.FilePath == nil {
		return "", fmt.Errorf("content has no stored file")
	}
	url, err := cs.bucketService.SignedURL(*content.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to sign file URL: %w", err)
	}
	return url, nil
}
