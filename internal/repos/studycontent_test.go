package repos

import (
	"context"
	"testing"

	"github.com/studyloop/studyloop-backend/internal/repos/testutil"
	"github.com/studyloop/studyloop-backend/internal/types"
)

func TestStudyContentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewStudyContentRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "content@example.com")
	other := testutil.SeedUser(t, ctx, tx, "content-other@example.com")

	note := testutil.SeedContent(t, ctx, tx, user.ID, "biology", types.ContentTypeNote, "Cell structure notes")
	link := testutil.SeedContent(t, ctx, tx, user.ID, "chemistry", types.ContentTypeLink, "Khan Academy")
	testutil.SeedContent(t, ctx, tx, other.ID, "biology", types.ContentTypeNote, "Someone else's notes")

	got, err := repo.GetByID(ctx, tx, user.ID, note.ID)
	if err != nil || got.Title != "Cell structure notes" {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if _, err := repo.GetByID(ctx, tx, other.ID, note.ID); err == nil {
		t.Fatalf("GetByID with wrong owner should fail")
	}

	items, err := repo.ListByUser(ctx, tx, user.ID)
	if err != nil || len(items) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(items))
	}

	items, err = repo.ListByUserTheme(ctx, tx, user.ID, "biology")
	if err != nil || len(items) != 1 || items[0].ID != note.ID {
		t.Fatalf("ListByUserTheme: err=%v len=%d", err, len(items))
	}

	link.Title = "Khan Academy: stoichiometry"
	link.Content = testutil.PtrString("https://khanacademy.org/chemistry")
	if err := repo.Update(ctx, tx, link); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, user.ID, link.ID)
	if err != nil || got.Title != "Khan Academy: stoichiometry" || got.Content == nil {
		t.Fatalf("after Update: got=%+v err=%v", got, err)
	}

	if err := repo.Delete(ctx, tx, user.ID, note.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, user.ID, note.ID); err == nil {
		t.Fatalf("GetByID after Delete should fail")
	}
	// Deleting content never touches other users.
	items, err = repo.ListByUser(ctx, tx, other.ID)
	if err != nil || len(items) != 1 {
		t.Fatalf("other user ListByUser: err=%v len=%d", err, len(items))
	}
}
