package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/studyloop/studyloop-backend/internal/clients/redis"
	"github.com/studyloop/studyloop-backend/internal/db"
	"github.com/studyloop/studyloop-backend/internal/handlers"
	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/middleware"
	"github.com/studyloop/studyloop-backend/internal/observability"
	"github.com/studyloop/studyloop-backend/internal/repos"
	"github.com/studyloop/studyloop-backend/internal/server"
	"github.com/studyloop/studyloop-backend/internal/services"
	"github.com/studyloop/studyloop-backend/internal/sse"
	"github.com/studyloop/studyloop-backend/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "studyloop-backend",
		Environment: os.Getenv("APP_ENV"),
		Version:     os.Getenv("APP_VERSION"),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	sessionRepo := repos.NewStudySessionRepo(thePG, log)
	reviewRepo := repos.NewScheduledReviewRepo(thePG, log)
	contentRepo := repos.NewStudyContentRepo(thePG, log)
	pointsRepo := repos.NewUserPointsRepo(thePG, log)
	historyRepo := repos.NewPointsHistoryRepo(thePG, log)
	streakRepo := repos.NewStudyStreakRepo(thePG, log)
	badgeRepo := repos.NewUserBadgeRepo(thePG, log)

	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)

	// Redis is optional; without it events stay instance-local.
	var sseBus redis.SSEBus
	if os.Getenv("REDIS_ADDR") != "" {
		sseBus, err = redis.NewSSEBus(log)
		if err != nil {
			log.Warn("Could not init Redis SSE bus, falling back to local hub", "error", err)
			sseBus = nil
		} else {
			if err := sseBus.StartForwarder(ctx, sseHub.Broadcast); err != nil {
				log.Warn("Could not start Redis SSE forwarder", "error", err)
			}
			defer sseBus.Close()
		}
	}

	log.Info("Setting up services from main...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Error("Could not init BucketService", "error", err)
		os.Exit(1)
	}
	avatarService, err := services.NewAvatarService(log, bucketService)
	if err != nil {
		log.Error("Could not init AvatarService", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(
		thePG, log, userRepo, userTokenRepo, avatarService,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(thePG, log, userRepo)
	gamificationService := services.NewGamificationService(
		thePG, log,
		pointsRepo, historyRepo, streakRepo, badgeRepo,
		sessionRepo, reviewRepo,
		sseHub, sseBus,
	)
	studyService := services.NewStudyService(thePG, log, sessionRepo, reviewRepo, gamificationService)
	contentService := services.NewContentService(thePG, log, contentRepo, bucketService)
	calendarService := services.NewCalendarService(log, reviewRepo)

	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	sessionHandler := handlers.NewSessionHandler(studyService)
	reviewHandler := handlers.NewReviewHandler(studyService, calendarService)
	contentHandler := handlers.NewContentHandler(contentService)
	gamificationHandler := handlers.NewGamificationHandler(gamificationService)
	sseHandler := handlers.NewSSEHandler(log, sseHub)

	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:         authHandler,
		AuthMiddleware:      authMiddleware,
		UserHandler:         userHandler,
		SessionHandler:      sessionHandler,
		ReviewHandler:       reviewHandler,
		ContentHandler:      contentHandler,
		GamificationHandler: gamificationHandler,
		SSEHandler:          sseHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
