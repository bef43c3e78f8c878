package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studyloop/studyloop-backend/internal/services"
)

type GamificationHandler struct {
	gamificationService services.GamificationService
}

func NewGamificationHandler(gamificationService services.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamificationService: gamificationService}
}

func (gh *GamificationHandler) Summary(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("history_limit", "20"))
	summary, err := gh.gamificationService.Summary(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "summary_failed", err)
		return
	}
	RespondOK(c, summary)
}

func (gh *GamificationHandler) Points(c *gin.Context) {
	points, err := gh.gamificationService.GetPoints(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "points_failed", err)
		return
	}
	RespondOK(c, gin.H{"points": points})
}

func (gh *GamificationHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	history, err := gh.gamificationService.History(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "history_failed", err)
		return
	}
	RespondOK(c, gin.H{"history": history})
}

func (gh *GamificationHandler) Badges(c *gin.Context) {
	badges, err := gh.gamificationService.Badges(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "badges_failed", err)
		return
	}
	RespondOK(c, gin.H{"badges": badges})
}

func (gh *GamificationHandler) Streak(c *gin.Context) {
	streak, err := gh.gamificationService.GetStreak(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "streak_failed", err)
		return
	}
	RespondOK(c, gin.H{"streak": streak})
}

func (gh *GamificationHandler) Catalog(c *gin.Context) {
	RespondOK(c, gin.H{"catalog": gh.gamificationService.Catalog()})
}
