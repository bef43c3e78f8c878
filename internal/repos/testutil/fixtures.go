package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/gamification"
	"github.com/studyloop/studyloop-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, theme string, total, correct int, day time.Time) *types.StudySession {
	tb.Helper()
	s := &types.StudySession{
		ID:                 uuid.New(),
		UserID:             userID,
		Theme:              theme,
		TotalQuestions:     total,
		CorrectQuestions:   correct,
		AccuracyPercentage: gamification.Accuracy(correct, total),
		SessionDate:        gamification.DateOnly(day),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedReview(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, sessionID uuid.UUID, theme string, due time.Time) *types.ScheduledReview {
	tb.Helper()
	r := &types.ScheduledReview{
		ID:             uuid.New(),
		UserID:         userID,
		StudySessionID: sessionID,
		Theme:          theme,
		ReviewDate:     gamification.DateOnly(due),
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed review: %v", err)
	}
	return r
}

func SeedContent(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, theme string, ct types.ContentType, title string) *types.StudyContent {
	tb.Helper()
	c := &types.StudyContent{
		ID:          uuid.New(),
		UserID:      userID,
		Theme:       theme,
		ContentType: ct,
		Title:       title,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed content: %v", err)
	}
	return c
}

func PtrString(v string) *string { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
