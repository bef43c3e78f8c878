package server

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/studyloop/studyloop-backend/internal/handlers"
	"github.com/studyloop/studyloop-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	AuthMiddleware      *middleware.AuthMiddleware
	UserHandler         *handlers.UserHandler
	SessionHandler      *handlers.SessionHandler
	ReviewHandler       *handlers.ReviewHandler
	ContentHandler      *handlers.ContentHandler
	GamificationHandler *handlers.GamificationHandler
	SSEHandler          *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("studyloop-backend"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	protected.GET("/user", cfg.UserHandler.GetMe)

	protected.GET("/sse/stream", cfg.SSEHandler.Stream)
	protected.POST("/sse/subscribe", cfg.SSEHandler.Subscribe)
	protected.POST("/sse/unsubscribe", cfg.SSEHandler.Unsubscribe)

	api := protected.Group("/api")

	api.POST("/sessions", cfg.SessionHandler.CreateSession)
	api.GET("/sessions", cfg.SessionHandler.ListSessions)
	api.GET("/themes/:theme/history", cfg.SessionHandler.ThemeHistory)
	api.DELETE("/themes/:theme", cfg.SessionHandler.DeleteTheme)

	api.GET("/reviews", cfg.ReviewHandler.ListPending)
	api.POST("/reviews/:id/complete", cfg.ReviewHandler.Complete)
	api.POST("/reviews/:id/reschedule", cfg.ReviewHandler.Reschedule)
	api.POST("/reviews/:id/calendar-event", cfg.ReviewHandler.CreateCalendarEvent)

	api.POST("/content", cfg.ContentHandler.CreateContent)
	api.GET("/content", cfg.ContentHandler.ListContent)
	api.GET("/content/:id/file-url", cfg.ContentHandler.FileURL)
	api.PATCH("/content/:id", cfg.ContentHandler.UpdateContent)
	api.DELETE("/content/:id", cfg.ContentHandler.DeleteContent)

	api.GET("/gamification/summary", cfg.GamificationHandler.Summary)
	api.GET("/gamification/points", cfg.GamificationHandler.Points)
	api.GET("/gamification/history", cfg.GamificationHandler.History)
	api.GET("/gamification/badges", cfg.GamificationHandler.Badges)
	api.GET("/gamification/streak", cfg.GamificationHandler.Streak)
	api.GET("/gamification/catalog", cfg.GamificationHandler.Catalog)

	return router
}

func corsOrigins() []string {
	if raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); raw != "" {
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{
		"http://localhost:80",
		"http://localhost:3000",
		"http://localhost:5173",
	}
}
