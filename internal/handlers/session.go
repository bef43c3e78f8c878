package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studyloop/studyloop-backend/internal/services"
)

type SessionHandler struct {
	studyService services.StudyService
}

func NewSessionHandler(studyService services.StudyService) *SessionHandler {
	return &SessionHandler{studyService: studyService}
}

func (sh *SessionHandler) CreateSession(c *gin.Context) {
	var req struct {
		Theme            string `json:"theme"`
		Content          string `json:"content"`
		TotalQuestions   int    `json:"total_questions"`
		CorrectQuestions int    `json:"correct_questions"`
		SessionDate      string `json:"session_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}

	var sessionDate time.Time
	if req.SessionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.SessionDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_date", fmt.Errorf("session_date must be YYYY-MM-DD"))
			return
		}
		sessionDate = parsed
	}

	session, effects, err := sh.studyService.CreateSession(c.Request.Context(), services.CreateSessionInput{
		Theme:            req.Theme,
		Content:          req.Content,
		TotalQuestions:   req.TotalQuestions,
		CorrectQuestions: req.CorrectQuestions,
		SessionDate:      sessionDate,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "session_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session, "effects": effects})
}

func (sh *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := sh.studyService.ListSessions(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "session_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"sessions": sessions})
}

func (sh *SessionHandler) ThemeHistory(c *gin.Context) {
	sessions, err := sh.studyService.ThemeHistory(c.Request.Context(), c.Param("theme"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "theme_history_failed", err)
		return
	}
	RespondOK(c, gin.H{"sessions": sessions})
}

func (sh *SessionHandler) DeleteTheme(c *gin.Context) {
	if err := sh.studyService.DeleteTheme(c.Request.Context(), c.Param("theme")); err != nil {
		RespondError(c, http.StatusInternalServerError, "theme_delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
