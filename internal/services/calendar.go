package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/requestdata"
)

type CalendarService interface {
	CreateReviewEvent(ctx context.Context, reviewID uuid.UUID, providerToken string) (string, error)
}

type calendarService struct {
	log        *logger.Logger
	reviewRepo repos.ScheduledReviewRepo
}

func NewCalendarService(log *logger.Logger, reviewRepo repos.ScheduledReviewRepo) CalendarService {
	return &calendarService{
		log:        log.With("service", "CalendarService"),
		reviewRepo: reviewRepo,
	}
}

// CreateReviewEvent inserts a 30-minute event on the review's due date
// into the caller's primary Google calendar. The OAuth token comes from
// the client; no token is stored server-side.
func (cs *calendarService) CreateReviewEvent(ctx context.Context, reviewID uuid.UUID, providerToken string) (string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return "", fmt.Errorf("no request data found in context")
	}
	if providerToken == "" {
		return "", fmt.Errorf("a Google OAuth token is required")
	}

	review, err := cs.reviewRepo.GetByID(ctx, nil, rd.UserID, reviewID)
	if err != nil {
		return "", fmt.Errorf("failed to load review: %w", err)
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: providerToken})
	svc, err := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return "", fmt.Errorf("failed to create calendar client: %w", err)
	}

	start := time.Date(
		review.ReviewDate.Year(), review.ReviewDate.Month(), review.ReviewDate.Day(),
		9, 0, 0, 0, time.UTC,
	)
	end := start.Add(30 * time.Minute)

	event := &calendar.Event{
		Summary:     fmt.Sprintf("Review: %s", review.Theme),
		Description: fmt.Sprintf("Spaced repetition review for %s.", review.Theme),
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: "UTC"},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: "UTC"},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := svc.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return created.Id, nil
}
