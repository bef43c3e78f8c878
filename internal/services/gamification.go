package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/clients/redis"
	"github.com/studyloop/studyloop-backend/internal/gamification"
	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/requestdata"
	"github.com/studyloop/studyloop-backend/internal/sse"
	"github.com/studyloop/studyloop-backend/internal/types"
)

type GamificationSummary struct {
	Points        *types.UserPoints      `json:"points"`
	Streak        *types.StudyStreak     `json:"streak"`
	Badges        []*types.UserBadge     `json:"badges"`
	RecentHistory []*types.PointsHistory `json:"recent_history"`
}

type GamificationService interface {
	// Dashboard reads, scoped to the authenticated user.
	GetPoints(ctx context.Context) (*types.UserPoints, error)
	GetStreak(ctx context.Context) (*types.StudyStreak, error)
	History(ctx context.Context, limit int) ([]*types.PointsHistory, error)
	Badges(ctx context.Context) ([]*types.UserBadge, error)
	Summary(ctx context.Context, historyLimit int) (*GamificationSummary, error)
	Catalog() []gamification.BadgeDefinition

	// Mutations, driven by the study orchestration layer.
	AddPoints(ctx context.Context, userID uuid.UUID, delta int, source types.PointsSource, sourceID *uuid.UUID, description string) error
	UpdateStreak(ctx context.Context, userID uuid.UUID, activityDate time.Time) (*types.StudyStreak, bool, error)
	CheckAndAwardBadge(ctx context.Context, userID uuid.UUID, badgeType gamification.BadgeType, metadata datatypes.JSON) (bool, error)
	CheckBadgesForStats(ctx context.Context, userID uuid.UUID, stats gamification.Stats) ([]gamification.BadgeType, []error)
	StatsForUser(ctx context.Context, userID uuid.UUID) (gamification.Stats, error)
}

type gamificationService struct {
	db          *gorm.DB
	log         *logger.Logger
	pointsRepo  repos.UserPointsRepo
	historyRepo repos.PointsHistoryRepo
	streakRepo  repos.StudyStreakRepo
	badgeRepo   repos.UserBadgeRepo
	sessionRepo repos.StudySessionRepo
	reviewRepo  repos.ScheduledReviewRepo
	hub         *sse.SSEHub
	bus         redis.SSEBus
}

func NewGamificationService(
	db *gorm.DB,
	log *logger.Logger,
	pointsRepo repos.UserPointsRepo,
	historyRepo repos.PointsHistoryRepo,
	streakRepo repos.StudyStreakRepo,
	badgeRepo repos.UserBadgeRepo,
	sessionRepo repos.StudySessionRepo,
	reviewRepo repos.ScheduledReviewRepo,
	hub *sse.SSEHub,
	bus redis.SSEBus,
) GamificationService {
	return &gamificationService{
		db:          db,
		log:         log.With("service", "GamificationService"),
		pointsRepo:  pointsRepo,
		historyRepo: historyRepo,
		streakRepo:  streakRepo,
		badgeRepo:   badgeRepo,
		sessionRepo: sessionRepo,
		reviewRepo:  reviewRepo,
		hub:         hub,
		bus:         bus,
	}
}

func (gs *gamificationService) userID(ctx context.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return uuid.Nil, fmt.Errorf("no request data found in context")
	}
	return rd.UserID, nil
}

// GetPoints creates the row with zero points on first read so the client
// never has to special-case a missing total.
func (gs *gamificationService) GetPoints(ctx context.Context) (*types.UserPoints, error) {
	userID, err := gs.userID(ctx)
	if err != nil {
		return nil, err
	}
	points, err := gs.pointsRepo.GetByUserID(ctx, nil, userID)
	if err == nil {
		return points, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load points: %w", err)
	}
	points = &types.UserPoints{ID: uuid.New(), UserID: userID, Points: 0}
	if cErr := gs.pointsRepo.Create(ctx, nil, points); cErr != nil {
		return nil, fmt.Errorf("failed to create points row: %w", cErr)
	}
	return points, nil
}

func (gs *gamificationService) GetStreak(ctx context.Context) (*types.StudyStreak, error) {
	userID, err := gs.userID(ctx)
	if err != nil {
		return nil, err
	}
	streak, err := gs.streakRepo.GetByUserID(ctx, nil, userID)
	if err == nil {
		return streak, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}
	streak = &types.StudyStreak{ID: uuid.New(), UserID: userID}
	if cErr := gs.streakRepo.Create(ctx, nil, streak); cErr != nil {
		return nil, fmt.Errorf("failed to create streak row: %w", cErr)
	}
	return streak, nil
}

func (gs *gamificationService) History(ctx context.Context, limit int) ([]*types.PointsHistory, error) {
	userID, err := gs.userID(ctx)
	if err != nil {
		return nil, err
	}
	return gs.historyRepo.ListByUser(ctx, nil, userID, limit)
}

func (gs *gamificationService) Badges(ctx context.Context) ([]*types.UserBadge, error) {
	userID, err := gs.userID(ctx)
	if err != nil {
		return nil, err
	}
	return gs.badgeRepo.ListByUser(ctx, nil, userID)
}

func (gs *gamificationService) Summary(ctx context.Context, historyLimit int) (*GamificationSummary, error) {
	points, err := gs.GetPoints(ctx)
	if err != nil {
		return nil, err
	}
	streak, err := gs.GetStreak(ctx)
	if err != nil {
		return nil, err
	}
	badges, err := gs.Badges(ctx)
	if err != nil {
		return nil, err
	}
	history, err := gs.History(ctx, historyLimit)
	if err != nil {
		return nil, err
	}
	return &GamificationSummary{
		Points:        points,
		Streak:        streak,
		Badges:        badges,
		RecentHistory: history,
	}, nil
}

func (gs *gamificationService) Catalog() []gamification.BadgeDefinition {
	return gamification.Catalog
}

// AddPoints applies the delta to the running total first and appends the
// ledger entry second. A ledger failure after a successful total update
// is returned so the caller can record it as a secondary failure; the
// total is never rolled back.
func (gs *gamificationService) AddPoints(ctx context.Context, userID uuid.UUID, delta int, source types.PointsSource, sourceID *uuid.UUID, description string) error {
	if err := gs.pointsRepo.AddPoints(ctx, nil, userID, delta); err != nil {
		return fmt.Errorf("failed to add points: %w", err)
	}
	entry := &types.PointsHistory{
		ID:          uuid.New(),
		UserID:      userID,
		Points:      delta,
		Source:      source,
		SourceID:    sourceID,
		Description: description,
	}
	if err := gs.historyRepo.Append(ctx, nil, entry); err != nil {
		return fmt.Errorf("points applied but history append failed: %w", err)
	}
	gs.publish(ctx, userID, sse.SSEEventPointsAwarded, map[string]any{
		"points":      delta,
		"source":      source,
		"description": description,
	})
	return nil
}

// UpdateStreak is a read-modify-write on the per-user streak row.
// Concurrent activity for the same user is last-writer-wins.
func (gs *gamificationService) UpdateStreak(ctx context.Context, userID uuid.UUID, activityDate time.Time) (*types.StudyStreak, bool, error) {
	existing, err := gs.streakRepo.GetByUserID(ctx, nil, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to load streak: %w", err)
	}

	state := gamification.StreakState{}
	rowID := uuid.New()
	if existing != nil {
		rowID = existing.ID
		state.Current = existing.CurrentStreak
		state.Longest = existing.LongestStreak
		if existing.LastStudyDate != nil {
			state.LastStudyDate = gamification.DateOnly(*existing.LastStudyDate)
		}
	}

	next, changed := gamification.NextStreak(state, activityDate)
	if !changed {
		return existing, false, nil
	}

	row := &types.StudyStreak{
		ID:            rowID,
		UserID:        userID,
		CurrentStreak: next.Current,
		LongestStreak: next.Longest,
		LastStudyDate: &next.LastStudyDate,
	}
	if err := gs.streakRepo.Upsert(ctx, nil, row); err != nil {
		return nil, false, fmt.Errorf("failed to upsert streak: %w", err)
	}
	gs.publish(ctx, userID, sse.SSEEventStreakUpdated, map[string]any{
		"current_streak": next.Current,
		"longest_streak": next.Longest,
	})
	return row, true, nil
}

// CheckAndAwardBadge inserts the badge row and treats a duplicate-key
// error as "already granted". The +50 bonus points are best-effort: a
// badge can exist without its points entry.
func (gs *gamificationService) CheckAndAwardBadge(ctx context.Context, userID uuid.UUID, badgeType gamification.BadgeType, metadata datatypes.JSON) (bool, error) {
	def, ok := gamification.Definition(badgeType)
	if !ok {
		return false, fmt.Errorf("unknown badge type %q", badgeType)
	}

	badge := &types.UserBadge{
		ID:        uuid.New(),
		UserID:    userID,
		BadgeType: string(badgeType),
		EarnedAt:  time.Now().UTC(),
		Metadata:  metadata,
	}
	if err := gs.badgeRepo.Create(ctx, nil, badge); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to grant badge %q: %w", badgeType, err)
	}

	if err := gs.AddPoints(ctx, userID, gamification.BadgePoints(), types.PointsSourceBadge, &badge.ID, "Badge earned: "+def.Name); err != nil {
		gs.log.Warn("badge granted but points award failed (ignored)",
			"userID", userID, "badgeType", badgeType, "error", err)
	}
	gs.publish(ctx, userID, sse.SSEEventBadgeEarned, def)
	return true, nil
}

// CheckBadgesForStats grants everything the snapshot newly qualifies for
// and keeps going past individual failures.
func (gs *gamificationService) CheckBadgesForStats(ctx context.Context, userID uuid.UUID, stats gamification.Stats) ([]gamification.BadgeType, []error) {
	earnedRaw, err := gs.badgeRepo.TypesByUser(ctx, nil, userID)
	if err != nil {
		return nil, []error{fmt.Errorf("failed to load earned badges: %w", err)}
	}
	earned := make(map[gamification.BadgeType]bool, len(earnedRaw))
	for t := range earnedRaw {
		earned[gamification.BadgeType(t)] = true
	}

	var granted []gamification.BadgeType
	var failures []error
	for _, t := range gamification.EvaluateBadges(stats, earned) {
		ok, err := gs.CheckAndAwardBadge(ctx, userID, t, nil)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if ok {
			granted = append(granted, t)
		}
	}
	return granted, failures
}

// StatsForUser recomputes the badge snapshot from storage. The five
// queries are independent and run concurrently.
func (gs *gamificationService) StatsForUser(ctx context.Context, userID uuid.UUID) (gamification.Stats, error) {
	var stats gamification.Stats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := gs.sessionRepo.CountByUser(gctx, nil, userID)
		stats.TotalSessions = int(n)
		return err
	})
	g.Go(func() error {
		n, err := gs.reviewRepo.CountCompletedByUser(gctx, nil, userID)
		stats.TotalReviews = int(n)
		return err
	})
	g.Go(func() error {
		n, err := gs.sessionRepo.CountDistinctThemes(gctx, nil, userID)
		stats.TotalThemes = int(n)
		return err
	})
	g.Go(func() error {
		ok, err := gs.sessionRepo.HasPerfectSession(gctx, nil, userID)
		stats.HasPerfectSession = ok
		return err
	})
	g.Go(func() error {
		streak, err := gs.streakRepo.GetByUserID(gctx, nil, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		stats.CurrentStreak = streak.CurrentStreak
		return nil
	})
	if err := g.Wait(); err != nil {
		return gamification.Stats{}, fmt.Errorf("failed to recompute stats: %w", err)
	}
	return stats, nil
}

// publish pushes an event to local SSE clients and, when a Redis bus is
// configured, to the other instances. Delivery is best-effort.
func (gs *gamificationService) publish(ctx context.Context, userID uuid.UUID, event sse.SSEEvent, data any) {
	msg := sse.SSEMessage{
		Channel: sse.UserChannel(userID),
		Event:   event,
		Data:    data,
	}
	if gs.hub != nil {
		gs.hub.Broadcast(msg)
	}
	if gs.bus != nil {
		if err := gs.bus.Publish(ctx, msg); err != nil {
			gs.log.Warn("failed to publish SSE event to bus (ignored)", "event", event, "error", err)
		}
	}
}
