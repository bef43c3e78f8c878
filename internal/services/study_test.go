package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/studyloop/studyloop-backend/internal/gamification"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/repos/testutil"
	"github.com/studyloop/studyloop-backend/internal/requestdata"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type pointsCall struct {
	delta       int
	source      types.PointsSource
	description string
}

// fakeGamification lets the orchestration tests control which side
// effects fail without touching storage.
type fakeGamification struct {
	addPointsErr error
	streakErr    error
	badgeErr     error
	statsErr     error
	statsGrants  []gamification.BadgeType

	pointsCalls   []pointsCall
	streakDates   []time.Time
	badgeAttempts []gamification.BadgeType
}

func (f *fakeGamification) GetPoints(ctx context.Context) (*types.UserPoints, error)   { return nil, nil }
func (f *fakeGamification) GetStreak(ctx context.Context) (*types.StudyStreak, error)  { return nil, nil }
func (f *fakeGamification) Badges(ctx context.Context) ([]*types.UserBadge, error)     { return nil, nil }
func (f *fakeGamification) Catalog() []gamification.BadgeDefinition                    { return gamification.Catalog }
func (f *fakeGamification) History(ctx context.Context, limit int) ([]*types.PointsHistory, error) {
	return nil, nil
}
func (f *fakeGamification) Summary(ctx context.Context, historyLimit int) (*GamificationSummary, error) {
	return nil, nil
}

func (f *fakeGamification) AddPoints(ctx context.Context, userID uuid.UUID, delta int, source types.PointsSource, sourceID *uuid.UUID, description string) error {
	if f.addPointsErr != nil {
		return f.addPointsErr
	}
	f.pointsCalls = append(f.pointsCalls, pointsCall{delta: delta, source: source, description: description})
	return nil
}

func (f *fakeGamification) UpdateStreak(ctx context.Context, userID uuid.UUID, activityDate time.Time) (*types.StudyStreak, bool, error) {
	if f.streakErr != nil {
		return nil, false, f.streakErr
	}
	f.streakDates = append(f.streakDates, gamification.DateOnly(activityDate))
	return &types.StudyStreak{UserID: userID, CurrentStreak: 1}, true, nil
}

func (f *fakeGamification) CheckAndAwardBadge(ctx context.Context, userID uuid.UUID, badgeType gamification.BadgeType, metadata datatypes.JSON) (bool, error) {
	if f.badgeErr != nil {
		return false, f.badgeErr
	}
	f.badgeAttempts = append(f.badgeAttempts, badgeType)
	return true, nil
}

func (f *fakeGamification) CheckBadgesForStats(ctx context.Context, userID uuid.UUID, stats gamification.Stats) ([]gamification.BadgeType, []error) {
	return f.statsGrants, nil
}

func (f *fakeGamification) StatsForUser(ctx context.Context, userID uuid.UUID) (gamification.Stats, error) {
	if f.statsErr != nil {
		return gamification.Stats{}, f.statsErr
	}
	return gamification.Stats{}, nil
}

func studyTestService(t *testing.T, fake *fakeGamification) (StudyService, repos.StudySessionRepo, repos.ScheduledReviewRepo, context.Context) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	sessionRepo := repos.NewStudySessionRepo(db, log)
	reviewRepo := repos.NewScheduledReviewRepo(db, log)
	svc := NewStudyService(db, log, sessionRepo, reviewRepo, fake)

	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: uuid.New()})
	return svc, sessionRepo, reviewRepo, ctx
}

func TestCreateSessionValidation(t *testing.T) {
	svc, _, _, ctx := studyTestService(t, &fakeGamification{})

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		input CreateSessionInput
	}{
		{"empty theme", CreateSessionInput{Theme: "  ", TotalQuestions: 10, CorrectQuestions: 5, SessionDate: day}},
		{"zero total", CreateSessionInput{Theme: "biology", TotalQuestions: 0, CorrectQuestions: 0, SessionDate: day}},
		{"negative correct", CreateSessionInput{Theme: "biology", TotalQuestions: 10, CorrectQuestions: -1, SessionDate: day}},
		{"correct over total", CreateSessionInput{Theme: "biology", TotalQuestions: 10, CorrectQuestions: 11, SessionDate: day}},
		{"future date", CreateSessionInput{Theme: "biology", TotalQuestions: 10, CorrectQuestions: 5, SessionDate: time.Now().UTC().AddDate(0, 0, 2)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.CreateSession(ctx, tc.input); err == nil {
				t.Fatalf("CreateSession accepted invalid input")
			}
		})
	}

	// No identity, no write.
	if _, _, err := svc.CreateSession(context.Background(), CreateSessionInput{Theme: "biology", TotalQuestions: 10, CorrectQuestions: 5, SessionDate: day}); err == nil {
		t.Fatalf("CreateSession without request data should fail")
	}
}

func TestCreateSessionOrchestration(t *testing.T) {
	fake := &fakeGamification{statsGrants: []gamification.BadgeType{gamification.BadgeFirstSession}}
	svc, _, reviewRepo, ctx := studyTestService(t, fake)

	day := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
	session, effects, err := svc.CreateSession(ctx, CreateSessionInput{
		Theme:            "biology",
		Content:          "cell structure quiz",
		TotalQuestions:   20,
		CorrectQuestions: 16,
		SessionDate:      day,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.AccuracyPercentage != 80 {
		t.Fatalf("accuracy = %v, want 80", session.AccuracyPercentage)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !session.SessionDate.Equal(want) {
		t.Fatalf("session date = %v, want %v", session.SessionDate, want)
	}

	// 80% accuracy schedules the long interval.
	pending, err := reviewRepo.ListPendingByUser(ctx, nil, session.UserID)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending reviews: err=%v len=%d", err, len(pending))
	}
	if want := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC); !pending[0].ReviewDate.Equal(want) {
		t.Fatalf("review date = %v, want %v", pending[0].ReviewDate, want)
	}
	if pending[0].StudySessionID != session.ID {
		t.Fatalf("review references session %s, want %s", pending[0].StudySessionID, session.ID)
	}

	if effects.PointsAwarded != 18 {
		t.Fatalf("points awarded = %d, want 18", effects.PointsAwarded)
	}
	if !effects.StreakUpdated {
		t.Fatalf("streak should have been updated")
	}
	if len(effects.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", effects.Failures)
	}
	if len(effects.NewBadges) != 1 || effects.NewBadges[0] != gamification.BadgeFirstSession {
		t.Fatalf("new badges = %v", effects.NewBadges)
	}

	if len(fake.pointsCalls) != 1 || fake.pointsCalls[0].source != types.PointsSourceStudySession {
		t.Fatalf("points calls = %+v", fake.pointsCalls)
	}
	if len(fake.streakDates) != 1 || !fake.streakDates[0].Equal(session.SessionDate) {
		t.Fatalf("streak activity dates = %v", fake.streakDates)
	}
	// 80% is not a perfect session.
	if len(fake.badgeAttempts) != 0 {
		t.Fatalf("badge attempts = %v", fake.badgeAttempts)
	}
}

func TestCreateSessionPerfectAccuracy(t *testing.T) {
	fake := &fakeGamification{}
	svc, _, reviewRepo, ctx := studyTestService(t, fake)

	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	session, _, err := svc.CreateSession(ctx, CreateSessionInput{
		Theme:            "chemistry",
		TotalQuestions:   10,
		CorrectQuestions: 10,
		SessionDate:      day,
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if len(fake.badgeAttempts) != 1 || fake.badgeAttempts[0] != gamification.BadgePerfectSession {
		t.Fatalf("badge attempts = %v, want perfect_session", fake.badgeAttempts)
	}

	// 100% accuracy still gets the long interval.
	pending, err := reviewRepo.ListPendingByUser(ctx, nil, session.UserID)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending reviews: err=%v len=%d", err, len(pending))
	}
	if want := day.AddDate(0, 0, 15); !pending[0].ReviewDate.Equal(want) {
		t.Fatalf("review date = %v, want %v", pending[0].ReviewDate, want)
	}
}

func TestCreateSessionSideEffectFailuresSwallowed(t *testing.T) {
	fake := &fakeGamification{
		addPointsErr: errors.New("points backend down"),
		streakErr:    errors.New("streak backend down"),
		statsErr:     errors.New("stats backend down"),
	}
	svc, sessionRepo, _, ctx := studyTestService(t, fake)

	session, effects, err := svc.CreateSession(ctx, CreateSessionInput{
		Theme:            "biology",
		TotalQuestions:   10,
		CorrectQuestions: 5,
		SessionDate:      time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateSession must survive side-effect failures: %v", err)
	}

	// The primary write landed regardless.
	if n, cErr := sessionRepo.CountByUser(ctx, nil, session.UserID); cErr != nil || n != 1 {
		t.Fatalf("CountByUser: err=%v n=%d", cErr, n)
	}

	if effects.PointsAwarded != 0 || effects.StreakUpdated {
		t.Fatalf("effects should reflect the failures: %+v", effects)
	}
	if len(effects.Failures) != 3 {
		t.Fatalf("failures = %v, want 3", effects.Failures)
	}
}

func TestCompleteReview(t *testing.T) {
	fake := &fakeGamification{}
	svc, _, reviewRepo, ctx := studyTestService(t, fake)

	session, _, err := svc.CreateSession(ctx, CreateSessionInput{
		Theme:            "biology",
		TotalQuestions:   10,
		CorrectQuestions: 4,
		SessionDate:      time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	pending, err := reviewRepo.ListPendingByUser(ctx, nil, session.UserID)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending reviews: err=%v len=%d", err, len(pending))
	}
	fake.pointsCalls = nil
	fake.streakDates = nil

	review, effects, err := svc.CompleteReview(ctx, pending[0].ID)
	if err != nil {
		t.Fatalf("CompleteReview: %v", err)
	}
	if !review.IsCompleted || review.CompletedAt == nil {
		t.Fatalf("review not marked completed: %+v", review)
	}
	if effects.PointsAwarded != 15 {
		t.Fatalf("points awarded = %d, want 15", effects.PointsAwarded)
	}
	if len(fake.pointsCalls) != 1 || fake.pointsCalls[0].source != types.PointsSourceReview {
		t.Fatalf("points calls = %+v", fake.pointsCalls)
	}
	// Completion counts as engagement today, not on the session date.
	today := gamification.DateOnly(time.Now().UTC())
	if len(fake.streakDates) != 1 || !fake.streakDates[0].Equal(today) {
		t.Fatalf("streak activity dates = %v, want %v", fake.streakDates, today)
	}

	if _, _, err := svc.CompleteReview(ctx, pending[0].ID); err == nil {
		t.Fatalf("completing twice should fail")
	}
}

func TestRescheduleReview(t *testing.T) {
	fake := &fakeGamification{}
	svc, _, reviewRepo, ctx := studyTestService(t, fake)

	session, _, err := svc.CreateSession(ctx, CreateSessionInput{
		Theme:            "physics",
		TotalQuestions:   10,
		CorrectQuestions: 8,
		SessionDate:      time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	pending, err := reviewRepo.ListPendingByUser(ctx, nil, session.UserID)
	if err != nil || len(pending) != 1 {
		t.Fatalf("pending reviews: err=%v len=%d", err, len(pending))
	}
	fake.pointsCalls = nil

	newDate := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	review, err := svc.RescheduleReview(ctx, pending[0].ID, newDate)
	if err != nil {
		t.Fatalf("RescheduleReview: %v", err)
	}
	if !review.WasRescheduled {
		t.Fatalf("was_rescheduled not set")
	}
	if want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC); !review.ReviewDate.Equal(want) {
		t.Fatalf("review date = %v, want %v", review.ReviewDate, want)
	}
	// No gamification side effects on reschedule.
	if len(fake.pointsCalls) != 0 {
		t.Fatalf("points calls on reschedule: %+v", fake.pointsCalls)
	}
}

func TestDeleteTheme(t *testing.T) {
	fake := &fakeGamification{}
	svc, sessionRepo, reviewRepo, ctx := studyTestService(t, fake)

	for _, theme := range []string{"biology", "biology", "chemistry"} {
		if _, _, err := svc.CreateSession(ctx, CreateSessionInput{
			Theme:            theme,
			TotalQuestions:   10,
			CorrectQuestions: 7,
			SessionDate:      time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
	}
	userID := requestdata.GetRequestData(ctx).UserID

	// Study content has its own lifecycle; deleting a theme's sessions
	// and reviews must leave it alone.
	db := testutil.DB(t)
	contentRepo := repos.NewStudyContentRepo(db, testutil.Logger(t))
	testutil.SeedContent(t, ctx, db, userID, "biology", types.ContentTypeNote, "Cell structure notes")

	if err := svc.DeleteTheme(ctx, "biology"); err != nil {
		t.Fatalf("DeleteTheme: %v", err)
	}

	if n, err := sessionRepo.CountByUser(ctx, nil, userID); err != nil || n != 1 {
		t.Fatalf("sessions after delete: err=%v n=%d", err, n)
	}
	pending, err := reviewRepo.ListPendingByUser(ctx, nil, userID)
	if err != nil || len(pending) != 1 || pending[0].Theme != "chemistry" {
		t.Fatalf("reviews after delete: err=%v len=%d", err, len(pending))
	}
	kept, err := contentRepo.ListByUserTheme(ctx, nil, userID, "biology")
	if err != nil || len(kept) != 1 {
		t.Fatalf("content after delete: err=%v len=%d", err, len(kept))
	}
	if kept[0].Title != "Cell structure notes" {
		t.Fatalf("content title = %q", kept[0].Title)
	}
}
