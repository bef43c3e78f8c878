package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/gamification"
	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/normalization"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/requestdata"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type CreateSessionInput struct {
	Theme            string    `json:"theme"`
	Content          string    `json:"content"`
	TotalQuestions   int       `json:"total_questions"`
	CorrectQuestions int       `json:"correct_questions"`
	SessionDate      time.Time `json:"session_date"`
}

// SideEffects reports what the best-effort gamification chain managed to
// do after a primary write. Failures are collected here and logged, never
// returned from the operation itself.
type SideEffects struct {
	PointsAwarded int                      `json:"points_awarded"`
	StreakUpdated bool                     `json:"streak_updated"`
	NewBadges     []gamification.BadgeType `json:"new_badges"`
	Failures      []error                  `json:"-"`
}

type StudyService interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*types.StudySession, *SideEffects, error)
	ListSessions(ctx context.Context) ([]*types.StudySession, error)
	ThemeHistory(ctx context.Context, theme string) ([]*types.StudySession, error)
	CompleteReview(ctx context.Context, reviewID uuid.UUID) (*types.ScheduledReview, *SideEffects, error)
	RescheduleReview(ctx context.Context, reviewID uuid.UUID, newDate time.Time) (*types.ScheduledReview, error)
	ListPendingReviews(ctx context.Context) ([]*types.ScheduledReview, error)
	DeleteTheme(ctx context.Context, theme string) error
}

type studyService struct {
	db           *gorm.DB
	log          *logger.Logger
	sessionRepo  repos.StudySessionRepo
	reviewRepo   repos.ScheduledReviewRepo
	gamification GamificationService
}

func NewStudyService(
	db *gorm.DB,
	log *logger.Logger,
	sessionRepo repos.StudySessionRepo,
	reviewRepo repos.ScheduledReviewRepo,
	gamificationService GamificationService,
) StudyService {
	return &studyService{
		db:           db,
		log:          log.With("service", "StudyService"),
		sessionRepo:  sessionRepo,
		reviewRepo:   reviewRepo,
		gamification: gamificationService,
	}
}

func (ss *studyService) userID(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return uuid.Nil, fmt.Errorf("no request data found in context")
	}
	return rd.UserID, nil
}

// CreateSession writes the session and its single scheduled review in one
// transaction, then runs the gamification chain. Only the transaction
// error propagates; everything after is best-effort.
func (ss *studyService) CreateSession(ctx context.Context, input CreateSessionInput) (*types.StudySession, *SideEffects, error) {
	userID, err := ss.userID(ctx)
	if err != nil {
		return nil, nil, err
	}

	theme := normalization.TrimInputString(input.Theme)
	if theme == "" {
		return nil, nil, fmt.Errorf("theme is required")
	}
	if input.TotalQuestions <= 0 {
		return nil, nil, fmt.Errorf("total questions must be positive")
	}
	if input.CorrectQuestions < 0 || input.CorrectQuestions > input.TotalQuestions {
		return nil, nil, fmt.Errorf("correct questions must be between 0 and total questions")
	}
	sessionDate := gamification.DateOnly(input.SessionDate)
	if sessionDate.IsZero() {
		sessionDate = gamification.DateOnly(time.Now().UTC())
	}
	if sessionDate.After(gamification.DateOnly(time.Now().UTC())) {
		return nil, nil, fmt.Errorf("session date cannot be in the future")
	}

	accuracy := gamification.Accuracy(input.CorrectQuestions, input.TotalQuestions)
	session := &types.StudySession{
		ID:                 uuid.New(),
		UserID:             userID,
		Theme:              theme,
		Content:            input.Content,
		TotalQuestions:     input.TotalQuestions,
		CorrectQuestions:   input.CorrectQuestions,
		AccuracyPercentage: accuracy,
		SessionDate:        sessionDate,
	}
	review := &types.ScheduledReview{
		ID:             uuid.New(),
		UserID:         userID,
		StudySessionID: session.ID,
		Theme:          theme,
		ReviewDate:     gamification.ReviewDueDate(sessionDate, accuracy),
	}

	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ss.sessionRepo.Create(ctx, tx, session); err != nil {
			return fmt.Errorf("failed to create study session: %w", err)
		}
		if err := ss.reviewRepo.Create(ctx, tx, review); err != nil {
			return fmt.Errorf("failed to create scheduled review: %w", err)
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}

	effects := ss.runSessionEffects(ctx, userID, session)
	return session, effects, nil
}

func (ss *studyService) runSessionEffects(ctx context.Context, userID uuid.UUID, session *types.StudySession) *SideEffects {
	effects := &SideEffects{}

	points := gamification.SessionPoints(session.AccuracyPercentage)
	if err := ss.gamification.AddPoints(ctx, userID, points, types.PointsSourceStudySession, &session.ID, "Study session: "+session.Theme); err != nil {
		effects.Failures = append(effects.Failures, err)
	} else {
		effects.PointsAwarded += points
	}

	if _, changed, err := ss.gamification.UpdateStreak(ctx, userID, session.SessionDate); err != nil {
		effects.Failures = append(effects.Failures, err)
	} else {
		effects.StreakUpdated = changed
	}

	if session.AccuracyPercentage >= 100 {
		granted, err := ss.gamification.CheckAndAwardBadge(ctx, userID, gamification.BadgePerfectSession, nil)
		if err != nil {
			effects.Failures = append(effects.Failures, err)
		} else if granted {
			effects.NewBadges = append(effects.NewBadges, gamification.BadgePerfectSession)
		}
	}

	ss.runBadgeEvaluation(ctx, userID, effects)
	ss.logFailures(effects, "session", session.ID)
	return effects
}

// CompleteReview marks the review done and then runs the same best-effort
// chain as session creation, with today as the streak activity date.
func (ss *studyService) CompleteReview(ctx context.Context, reviewID uuid.UUID) (*types.ScheduledReview, *SideEffects, error) {
	userID, err := ss.userID(ctx)
	if err != nil {
		return nil, nil, err
	}

	review, err := ss.reviewRepo.GetByID(ctx, nil, userID, reviewID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load review: %w", err)
	}
	if review.IsCompleted {
		return nil, nil, fmt.Errorf("review already completed")
	}

	now := time.Now().UTC()
	if err := ss.reviewRepo.MarkCompleted(ctx, nil, review.ID, now); err != nil {
		return nil, nil, fmt.Errorf("failed to complete review: %w", err)
	}
	review.IsCompleted = true
	review.CompletedAt = &now

	effects := &SideEffects{}

	points := gamification.ReviewPoints()
	if err := ss.gamification.AddPoints(ctx, userID, points, types.PointsSourceReview, &review.ID, "Review completed: "+review.Theme); err != nil {
		effects.Failures = append(effects.Failures, err)
	} else {
		effects.PointsAwarded += points
	}

	if _, changed, err := ss.gamification.UpdateStreak(ctx, userID, now); err != nil {
		effects.Failures = append(effects.Failures, err)
	} else {
		effects.StreakUpdated = changed
	}

	ss.runBadgeEvaluation(ctx, userID, effects)
	ss.logFailures(effects, "review", review.ID)
	return review, effects, nil
}

func (ss *studyService) runBadgeEvaluation(ctx context.Context, userID uuid.UUID, effects *SideEffects) {
	stats, err := ss.gamification.StatsForUser(ctx, userID)
	if err != nil {
		effects.Failures = append(effects.Failures, err)
		return
	}
	granted, failures := ss.gamification.CheckBadgesForStats(ctx, userID, stats)
	effects.NewBadges = append(effects.NewBadges, granted...)
	effects.Failures = append(effects.Failures, failures...)
}

func (ss *studyService) logFailures(effects *SideEffects, kind string, id uuid.UUID) {
	for _, f := range effects.Failures {
		ss.log.Warn("gamification side effect failed (ignored)", kind+"ID", id, "error", f)
	}
}

func (ss *studyService) RescheduleReview(ctx context.Context, reviewID uuid.UUID, newDate time.Time) (*types.ScheduledReview, error) {
	userID, err := ss.userID(ctx)
	if err != nil {
		return nil, err
	}
	if newDate.IsZero() {
		return nil, fmt.Errorf("new review date is required")
	}

	review, err := ss.reviewRepo.GetByID(ctx, nil, userID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review: %w", err)
	}
	if review.IsCompleted {
		return nil, fmt.Errorf("cannot reschedule a completed review")
	}

	date := gamification.DateOnly(newDate)
	if err := ss.reviewRepo.Reschedule(ctx, nil, review.ID, date); err != nil {
		return nil, fmt.Errorf("failed to reschedule review: %w", err)
	}
	review.ReviewDate = date
	review.WasRescheduled = true
	return review, nil
}

func (ss *studyService) ListSessions(ctx context.Context) ([]*types.StudySession, error) {
	userID, err := ss.userID(ctx)
	if err != nil {
		return nil, err
	}
	return ss.sessionRepo.ListByUser(ctx, nil, userID)
}

func (ss *studyService) ThemeHistory(ctx context.Context, theme string) ([]*types.StudySession, error) {
	userID, err := ss.userID(ctx)
	if err != nil {
		return nil, err
	}
	theme = normalization.TrimInputString(theme)
	if theme == "" {
		return nil, fmt.Errorf("theme is required")
	}
	return ss.sessionRepo.ListByUserTheme(ctx, nil, userID, theme)
}

func (ss *studyService) ListPendingReviews(ctx context.Context) ([]*types.ScheduledReview, error) {
	userID, err := ss.userID(ctx)
	if err != nil {
		return nil, err
	}
	return ss.reviewRepo.ListPendingByUser(ctx, nil, userID)
}

// DeleteTheme removes the theme's reviews and sessions; no cascade is
// relied on. StudyContent for the theme stays.
func (ss *studyService) DeleteTheme(ctx context.Context, theme string) error {
	userID, err := ss.userID(ctx)
	if err != nil {
		return err
	}
	theme = normalization.TrimInputString(theme)
	if theme == "" {
		return fmt.Errorf("theme is required")
	}
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ss.reviewRepo.DeleteByUserTheme(ctx, tx, userID, theme); err != nil {
			return fmt.Errorf("failed to delete scheduled reviews: %w", err)
		}
		if err := ss.sessionRepo.DeleteByUserTheme(ctx, tx, userID, theme); err != nil {
			return fmt.Errorf("failed to delete study sessions: %w", err)
		}
		return nil
	})
}
