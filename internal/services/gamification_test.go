package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studyloop/studyloop-backend/internal/gamification"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/repos/testutil"
	"github.com/studyloop/studyloop-backend/internal/requestdata"
	"github.com/studyloop/studyloop-backend/internal/types"
)

func gamificationTestService(t *testing.T) (GamificationService, repos.StudySessionRepo, context.Context, uuid.UUID) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	sessionRepo := repos.NewStudySessionRepo(db, log)
	svc := NewGamificationService(
		db, log,
		repos.NewUserPointsRepo(db, log),
		repos.NewPointsHistoryRepo(db, log),
		repos.NewStudyStreakRepo(db, log),
		repos.NewUserBadgeRepo(db, log),
		sessionRepo,
		repos.NewScheduledReviewRepo(db, log),
		nil, nil,
	)
	userID := uuid.New()
	ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
	return svc, sessionRepo, ctx, userID
}

func TestGetPointsLazyCreate(t *testing.T) {
	svc, _, ctx, userID := gamificationTestService(t)

	points, err := svc.GetPoints(ctx)
	if err != nil {
		t.Fatalf("GetPoints: %v", err)
	}
	if points.Points != 0 || points.UserID != userID {
		t.Fatalf("lazy row: %+v", points)
	}

	// Second read returns the same row, no duplicate.
	again, err := svc.GetPoints(ctx)
	if err != nil || again.ID != points.ID {
		t.Fatalf("GetPoints second read: err=%v id=%v want %v", err, again.ID, points.ID)
	}

	if _, err := svc.GetPoints(context.Background()); err == nil {
		t.Fatalf("GetPoints without request data should fail")
	}
}

func TestAddPointsUpdatesTotalAndLedger(t *testing.T) {
	svc, _, ctx, userID := gamificationTestService(t)

	sid := uuid.New()
	if err := svc.AddPoints(ctx, userID, 18, types.PointsSourceStudySession, &sid, "Study session: biology"); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if err := svc.AddPoints(ctx, userID, 15, types.PointsSourceReview, nil, "Review completed: biology"); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}

	points, err := svc.GetPoints(ctx)
	if err != nil || points.Points != 33 {
		t.Fatalf("total: err=%v points=%+v", err, points)
	}

	history, err := svc.History(ctx, 10)
	if err != nil || len(history) != 2 {
		t.Fatalf("History: err=%v len=%d", err, len(history))
	}
	var sum int
	for _, h := range history {
		sum += h.Points
	}
	if sum != points.Points {
		t.Fatalf("ledger sum %d != total %d", sum, points.Points)
	}
}

func TestUpdateStreakTransitions(t *testing.T) {
	svc, _, ctx, userID := gamificationTestService(t)

	day1 := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	streak, changed, err := svc.UpdateStreak(ctx, userID, day1)
	if err != nil || !changed || streak.CurrentStreak != 1 {
		t.Fatalf("first activity: err=%v changed=%v streak=%+v", err, changed, streak)
	}

	// Same day again is a no-op.
	_, changed, err = svc.UpdateStreak(ctx, userID, day1.Add(10*time.Hour))
	if err != nil || changed {
		t.Fatalf("same-day activity: err=%v changed=%v", err, changed)
	}

	streak, changed, err = svc.UpdateStreak(ctx, userID, day1.AddDate(0, 0, 1))
	if err != nil || !changed || streak.CurrentStreak != 2 || streak.LongestStreak != 2 {
		t.Fatalf("next-day activity: err=%v streak=%+v", err, streak)
	}

	// A gap resets current but longest survives.
	streak, _, err = svc.UpdateStreak(ctx, userID, day1.AddDate(0, 0, 5))
	if err != nil || streak.CurrentStreak != 1 || streak.LongestStreak != 2 {
		t.Fatalf("after gap: err=%v streak=%+v", err, streak)
	}

	// Backdated activity never resets a live streak.
	_, changed, err = svc.UpdateStreak(ctx, userID, day1)
	if err != nil || changed {
		t.Fatalf("backdated activity: err=%v changed=%v", err, changed)
	}
}

func TestCheckAndAwardBadge(t *testing.T) {
	svc, _, ctx, userID := gamificationTestService(t)

	granted, err := svc.CheckAndAwardBadge(ctx, userID, gamification.BadgeFirstSession, nil)
	if err != nil || !granted {
		t.Fatalf("first grant: err=%v granted=%v", err, granted)
	}

	// Re-granting is benign, not an error.
	granted, err = svc.CheckAndAwardBadge(ctx, userID, gamification.BadgeFirstSession, nil)
	if err != nil || granted {
		t.Fatalf("second grant: err=%v granted=%v", err, granted)
	}

	if _, err := svc.CheckAndAwardBadge(ctx, userID, "made_up_badge", nil); err == nil {
		t.Fatalf("unknown badge type should fail")
	}

	// The grant credited its bonus points.
	points, err := svc.GetPoints(ctx)
	if err != nil || points.Points != 50 {
		t.Fatalf("badge points: err=%v points=%+v", err, points)
	}

	badges, err := svc.Badges(ctx)
	if err != nil || len(badges) != 1 || badges[0].BadgeType != string(gamification.BadgeFirstSession) {
		t.Fatalf("Badges: err=%v badges=%+v", err, badges)
	}
}

func TestStatsAndBadgeEvaluation(t *testing.T) {
	svc, sessionRepo, ctx, userID := gamificationTestService(t)

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	session := &types.StudySession{
		ID:                 uuid.New(),
		UserID:             userID,
		Theme:              "biology",
		TotalQuestions:     10,
		CorrectQuestions:   10,
		AccuracyPercentage: 100,
		SessionDate:        day,
	}
	if err := sessionRepo.Create(ctx, nil, session); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	stats, err := svc.StatsForUser(ctx, userID)
	if err != nil {
		t.Fatalf("StatsForUser: %v", err)
	}
	if stats.TotalSessions != 1 || stats.TotalThemes != 1 || !stats.HasPerfectSession {
		t.Fatalf("stats = %+v", stats)
	}

	granted, failures := svc.CheckBadgesForStats(ctx, userID, stats)
	if len(failures) != 0 {
		t.Fatalf("failures: %v", failures)
	}
	// first_session and perfect_session both qualify.
	if len(granted) != 2 {
		t.Fatalf("granted = %v", granted)
	}

	// Re-running with the same stats grants nothing new.
	granted, failures = svc.CheckBadgesForStats(ctx, userID, stats)
	if len(granted) != 0 || len(failures) != 0 {
		t.Fatalf("second run: granted=%v failures=%v", granted, failures)
	}
}

func TestSummary(t *testing.T) {
	svc, _, ctx, userID := gamificationTestService(t)

	if err := svc.AddPoints(ctx, userID, 18, types.PointsSourceStudySession, nil, "Study session: biology"); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if _, _, err := svc.UpdateStreak(ctx, userID, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("UpdateStreak: %v", err)
	}

	summary, err := svc.Summary(ctx, 20)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Points == nil || summary.Points.Points != 18 {
		t.Fatalf("summary points: %+v", summary.Points)
	}
	if summary.Streak == nil || summary.Streak.CurrentStreak != 1 {
		t.Fatalf("summary streak: %+v", summary.Streak)
	}
	if len(summary.RecentHistory) != 1 {
		t.Fatalf("summary history: %+v", summary.RecentHistory)
	}
}
