package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyloop/studyloop-backend/internal/services"
)

type ReviewHandler struct {
	studyService    services.StudyService
	calendarService services.CalendarService
}

func NewReviewHandler(studyService services.StudyService, calendarService services.CalendarService) *ReviewHandler {
	return &ReviewHandler{studyService: studyService, calendarService: calendarService}
}

func reviewID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid review id")
	}
	return id, nil
}

func (rh *ReviewHandler) ListPending(c *gin.Context) {
	reviews, err := rh.studyService.ListPendingReviews(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "review_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"reviews": reviews})
}

func (rh *ReviewHandler) Complete(c *gin.Context) {
	id, err := reviewID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	review, effects, err := rh.studyService.CompleteReview(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, http.StatusBadRequest, "review_complete_failed", err)
		return
	}
	RespondOK(c, gin.H{"review": review, "effects": effects})
}

func (rh *ReviewHandler) Reschedule(c *gin.Context) {
	id, err := reviewID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		NewDate string `json:"new_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	newDate, err := time.Parse("2006-01-02", req.NewDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_date", fmt.Errorf("new_date must be YYYY-MM-DD"))
		return
	}
	review, err := rh.studyService.RescheduleReview(c.Request.Context(), id, newDate)
	if err != nil {
		RespondServiceError(c, http.StatusBadRequest, "review_reschedule_failed", err)
		return
	}
	RespondOK(c, gin.H{"review": review})
}

func (rh *ReviewHandler) CreateCalendarEvent(c *gin.Context) {
	id, err := reviewID(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		ProviderToken string `json:"provider_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	eventID, err := rh.calendarService.CreateReviewEvent(c.Request.Context(), id, req.ProviderToken)
	if err != nil {
		RespondServiceError(c, http.StatusBadGateway, "calendar_event_failed", err)
		return
	}
	RespondOK(c, gin.H{"event_id": eventID})
}
