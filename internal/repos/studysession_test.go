package repos

import (
	"context"
	"testing"
	"time"

	"github.com/studyloop/studyloop-backend/internal/repos/testutil"
)

func TestStudySessionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewStudySessionRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "sessions@example.com")
	other := testutil.SeedUser(t, ctx, tx, "sessions-other@example.com")

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s1 := testutil.SeedSession(t, ctx, tx, user.ID, "biology", 20, 16, day)
	testutil.SeedSession(t, ctx, tx, user.ID, "biology", 10, 5, day.AddDate(0, 0, 1))
	testutil.SeedSession(t, ctx, tx, user.ID, "chemistry", 10, 10, day.AddDate(0, 0, 2))
	testutil.SeedSession(t, ctx, tx, other.ID, "biology", 10, 8, day)

	if s1.AccuracyPercentage != 80 {
		t.Fatalf("seed accuracy = %v, want 80", s1.AccuracyPercentage)
	}

	rows, err := repo.ListByUser(ctx, tx, user.ID)
	if err != nil || len(rows) != 3 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}
	// Newest first.
	if rows[0].Theme != "chemistry" {
		t.Fatalf("ListByUser order: first theme = %q", rows[0].Theme)
	}

	rows, err = repo.ListByUserTheme(ctx, tx, user.ID, "biology")
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByUserTheme: err=%v len=%d", err, len(rows))
	}
	for _, r := range rows {
		if r.Theme != "biology" {
			t.Fatalf("ListByUserTheme leaked theme %q", r.Theme)
		}
	}

	if n, err := repo.CountByUser(ctx, tx, user.ID); err != nil || n != 3 {
		t.Fatalf("CountByUser: err=%v n=%d", err, n)
	}
	if n, err := repo.CountDistinctThemes(ctx, tx, user.ID); err != nil || n != 2 {
		t.Fatalf("CountDistinctThemes: err=%v n=%d", err, n)
	}
	if ok, err := repo.HasPerfectSession(ctx, tx, user.ID); err != nil || !ok {
		t.Fatalf("HasPerfectSession: err=%v ok=%v", err, ok)
	}
	if ok, err := repo.HasPerfectSession(ctx, tx, other.ID); err != nil || ok {
		t.Fatalf("HasPerfectSession other user: err=%v ok=%v", err, ok)
	}

	if err := repo.DeleteByUserTheme(ctx, tx, user.ID, "biology"); err != nil {
		t.Fatalf("DeleteByUserTheme: %v", err)
	}
	if n, err := repo.CountByUser(ctx, tx, user.ID); err != nil || n != 1 {
		t.Fatalf("after delete CountByUser: err=%v n=%d", err, n)
	}
	// Other users keep their rows.
	if n, err := repo.CountByUser(ctx, tx, other.ID); err != nil || n != 1 {
		t.Fatalf("other user CountByUser: err=%v n=%d", err, n)
	}
}
