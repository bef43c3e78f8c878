package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/gamification"
	"github.com/studyloop/studyloop-backend/internal/repos/testutil"
	"github.com/studyloop/studyloop-backend/internal/types"
)

func TestStudyStreakRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewStudyStreakRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "streak@example.com")

	if _, err := repo.GetByUserID(ctx, tx, user.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByUserID before create: err=%v", err)
	}

	day1 := gamification.DateOnly(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err := repo.Upsert(ctx, tx, &types.StudyStreak{
		ID:            uuid.New(),
		UserID:        user.ID,
		CurrentStreak: 1,
		LongestStreak: 1,
		LastStudyDate: testutil.PtrTime(day1),
	}); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}

	day2 := day1.AddDate(0, 0, 1)
	if err := repo.Upsert(ctx, tx, &types.StudyStreak{
		ID:            uuid.New(),
		UserID:        user.ID,
		CurrentStreak: 2,
		LongestStreak: 2,
		LastStudyDate: testutil.PtrTime(day2),
	}); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}

	got, err := repo.GetByUserID(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	// The second upsert updates the existing row rather than inserting.
	if got.CurrentStreak != 2 || got.LongestStreak != 2 {
		t.Fatalf("streak = %d/%d, want 2/2", got.CurrentStreak, got.LongestStreak)
	}
	if got.LastStudyDate == nil || !got.LastStudyDate.Equal(day2) {
		t.Fatalf("LastStudyDate = %v, want %v", got.LastStudyDate, day2)
	}

	var n int64
	if err := tx.WithContext(ctx).Model(&types.StudyStreak{}).Where("user_id = ?", user.ID).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("streak row count: err=%v n=%d", err, n)
	}
}
