package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Mani19492/darkctf-arena/src/handler"
	"github.com/Mani19492/darkctf-arena/src/repository"
	"github.com/Mani19492/darkctf-arena/src/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rs/zerolog"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Application struct {
	config   AppConfig
	database *gorm.DB
	redis    *redis.Client

	AuthService       *service.AuthService
	SubmissionService *service.SubmissionService
	ChallengeService  *service.ChallengeService
	ScoreboardService *service.ScoreboardService
	SubmissionRepo    *repository.SubmissionRepository
}

func NewApplication(ctx context.Context, config AppConfig) *Application {
	logger := zerolog.Ctx(ctx).With().Str("function", "NewApplication").Logger()

	// Connect to Redis
	redisOpts, err := redis.ParseURL(*config.RedisAddr)
	if err != nil {
		logger.Error().Err(err).Msg("failed to parse redis URL")
		return nil
	}

	rdb := redis.NewClient(redisOpts)

	// Test Redis connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("connection to redis failed")
		return nil
	}
	logger.Info().Msg("Redis connection established")

	// Connect to database. TranslateError maps driver unique-violation
	// errors to gorm.ErrDuplicatedKey, which the submission repository
	// relies on for the correct-solve-per-team constraint.
	database, err := gorm.Open(postgresDriver.Open(*config.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Error().Err(err).Msg("connection to database failed")
		return nil
	}

	// Test database connection
	db, err := database.DB()
	if err != nil {
		logger.Error().Err(err).Msg("failed to get underlying database connection")
		return nil
	}

	if err := db.Ping(); err != nil {
		logger.Error().Err(err).Msg("connection to database failed")
		return nil
	}

	logger.Info().Msg("Database connection established")

	// run migration files
	if err := MigrationUp(*config.DSN, *config.MigrationPath); err != nil {
		logger.Error().Err(err).Msg("failed to run migrations")
		return nil
	}

	challengeRepo := repository.NewChallengeRepository(database)
	teamRepo := repository.NewTeamRepository(database)
	submissionRepo := repository.NewSubmissionRepository(database)
	standingsCache := repository.NewStandingsCache(rdb, "standings",
		time.Duration(*config.StandingsCacheTTL)*time.Second)

	authService := service.NewAuthService(*config.JWTSecret,
		time.Duration(*config.TokenTTLHours)*time.Hour)
	submissionService := service.NewSubmissionService(challengeRepo, submissionRepo, teamRepo, standingsCache)
	challengeService := service.NewChallengeService(challengeRepo)
	scoreboardService := service.NewScoreboardService(submissionRepo, teamRepo, standingsCache)

	return &Application{
		config:            config,
		database:          database,
		redis:             rdb,
		AuthService:       authService,
		SubmissionService: submissionService,
		ChallengeService:  challengeService,
		ScoreboardService: scoreboardService,
		SubmissionRepo:    submissionRepo,
	}
}

func (app *Application) Shutdown(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("function", "Shutdown").Logger()

	// Close database connection
	if app.database != nil {
		db, err := app.database.DB()
		if err != nil {
			logger.Error().Err(err).Msg("Failed to get underlying database connection")
		} else {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close database connection")
			} else {
				logger.Info().Msg("Database connection closed")
			}
		}
	}

	// Close Redis connection
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close redis connection")
		} else {
			logger.Info().Msg("Redis connection closed")
		}
	}
}

func (app *Application) RunHTTPServer(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	logger := zerolog.Ctx(ctx).With().Str("function", "RunHTTPServer").Logger()

	// Set to release mode to disable Gin logger
	gin.SetMode(gin.ReleaseMode)

	ginRouter := gin.Default()

	// Register routes
	app.registerRoutes(ctx, ginRouter)

	// Build HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", *app.config.Port),
		Handler: ginRouter,
	}

	// Start server in goroutine
	go func() {
		zerolog.Ctx(ctx).Info().Msgf("HTTP server is on http://localhost:%s/health", *app.config.Port)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zerolog.Ctx(ctx).Panic().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	logger.Info().Msg("Gracefully shutting down HTTP server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Shutdown server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shutdown HTTP server gracefully")
	} else {
		logger.Info().Msg("HTTP server shutdown complete")
	}
}

func (app *Application) registerRoutes(ctx context.Context, router *gin.Engine) {
	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = *app.config.AllowOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	config.AllowCredentials = true

	router.Use(cors.New(config))

	handler.SetMiddlewares(ctx, router)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", handler.HandleHealthCheck)

	submissionHandler := handler.NewSubmissionHandler(app.SubmissionService)
	challengeHandler := handler.NewChallengeHandler(app.ChallengeService)
	scoreboardHandler := handler.NewScoreboardHandler(app.ScoreboardService)
	adminHandler := handler.NewAdminHandler(app.ChallengeService, app.ScoreboardService, app.SubmissionRepo)

	v1 := router.Group("/api/v1")
	v1.Use(handler.AuthMiddleware(app.AuthService))
	{
		v1.POST("/flags/submit", submissionHandler.SubmitFlag)

		v1.GET("/challenges", challengeHandler.ListChallenges)
		v1.GET("/challenges/:id", challengeHandler.GetChallenge)

		v1.GET("/events/:id/standings", scoreboardHandler.GetStandings)
	}

	admin := v1.Group("/admin")
	admin.Use(handler.AdminMiddleware())
	{
		admin.POST("/challenges", adminHandler.CreateChallenge)
		admin.PUT("/challenges/:id", adminHandler.UpdateChallenge)
		admin.GET("/submissions", adminHandler.ListSubmissions)
		admin.POST("/events/:id/reconcile", adminHandler.ReconcileEvent)
	}
}
