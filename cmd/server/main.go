package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vedlearn/session-service/internal/cache"
	"github.com/vedlearn/session-service/internal/config"
	"github.com/vedlearn/session-service/internal/handlers"
	"github.com/vedlearn/session-service/internal/insight"
	"github.com/vedlearn/session-service/internal/models"
	"github.com/vedlearn/session-service/internal/repositories/postgres"
	"github.com/vedlearn/session-service/internal/services"
	"github.com/vedlearn/session-service/internal/supplier"
	"github.com/vedlearn/session-service/internal/utils"
	"github.com/vedlearn/session-service/internal/validator"
	"github.com/vedlearn/session-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	if err := run(cfg, logger); err != nil {
		logger.LogError(err, "server exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	ctx := context.Background()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := pkg.AutoMigrate(db); err != nil {
		return err
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	cacheService := cache.NewRedisCache(redisClient, logger)

	questionRepo := postgres.NewQuestionPostgreSQL(db)
	mockTestRepo := postgres.NewMockTestPostgreSQL(db)
	subjectRepo := postgres.NewSubjectPostgreSQL(db)
	courseRepo := postgres.NewCoursePostgreSQL(db)
	resultRepo := postgres.NewResultPostgreSQL(db)
	progressRepo := postgres.NewProgressPostgreSQL(db)

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		return err
	}
	defer publisher.Close()

	bankSupplier := supplier.NewBankSupplier(questionRepo, logger)
	suppliers := map[models.TestMode]supplier.TestSupplier{
		models.ModeSubjectAssessment: bankSupplier,
		models.ModeFixedMockTest:     supplier.NewFixedTestSupplier(mockTestRepo, logger),
		models.ModeAutomatedMockTest: bankSupplier,
	}

	var insights insight.Generator = insight.NewRuleBased()
	if cfg.GeminiAPIKey != "" {
		gemini, err := supplier.NewGeminiSupplier(ctx, cfg.GeminiAPIKey, logger)
		if err != nil {
			return err
		}
		suppliers[models.ModeAutomatedMockTest] = gemini

		insightGemini, err := insight.NewGemini(ctx, cfg.GeminiAPIKey, logger)
		if err != nil {
			return err
		}
		insights = insight.NewWithFallback(insightGemini, insight.NewRuleBased(), logger)
	} else {
		logger.Warn("GEMINI_API_KEY not set, automated tests use the question bank and insights are rule based")
	}

	sessionService := services.NewSessionService(services.SessionServiceConfig{
		Registry:  services.NewSessionRegistry(),
		Suppliers: suppliers,
		Subjects:  subjectRepo,
		Results:   resultRepo,
		Progress:  progressRepo,
		Publisher: publisher,
		Insights:  insights,
		Validator: validator.New(),
		Logger:    logger,
	})
	recommendationService := services.NewRecommendationService(courseRepo, subjectRepo, cacheService, logger)
	importService := services.NewCatalogImportService(courseRepo, subjectRepo, recommendationService.InvalidateSubject, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(gin.Recovery())

	handlers.NewHandlerManager(sessionService, recommendationService, importService, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting session service", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "server listen failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
