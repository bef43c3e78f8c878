package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/repos/testutil"
	"github.com/studyloop/studyloop-backend/internal/types"
)

func TestUserBadgeRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewUserBadgeRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "badges@example.com")

	earned := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.Create(ctx, tx, &types.UserBadge{
		ID:        uuid.New(),
		UserID:    user.ID,
		BadgeType: "first_session",
		EarnedAt:  earned,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, tx, &types.UserBadge{
		ID:        uuid.New(),
		UserID:    user.ID,
		BadgeType: "perfect_session",
		EarnedAt:  earned.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Create second: %v", err)
	}

	// Same badge type again hits the unique index.
	err := repo.Create(ctx, tx, &types.UserBadge{
		ID:        uuid.New(),
		UserID:    user.ID,
		BadgeType: "first_session",
		EarnedAt:  earned.Add(2 * time.Hour),
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate Create: err=%v, want gorm.ErrDuplicatedKey", err)
	}

	badges, err := repo.ListByUser(ctx, tx, user.ID)
	if err != nil || len(badges) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(badges))
	}
	if badges[0].BadgeType != "perfect_session" {
		t.Fatalf("ListByUser order: first=%q", badges[0].BadgeType)
	}

	types2, err := repo.TypesByUser(ctx, tx, user.ID)
	if err != nil || len(types2) != 2 || !types2["first_session"] || !types2["perfect_session"] {
		t.Fatalf("TypesByUser: err=%v map=%v", err, types2)
	}
}
