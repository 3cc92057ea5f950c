package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skillforge/skillforge-api/internal/config"
	"github.com/skillforge/skillforge-api/internal/database"
	"github.com/skillforge/skillforge-api/internal/handler"
	"github.com/skillforge/skillforge-api/internal/middleware"
	"github.com/skillforge/skillforge-api/internal/models"
	"github.com/skillforge/skillforge-api/internal/repository"
	"github.com/skillforge/skillforge-api/internal/router"
	"github.com/skillforge/skillforge-api/internal/service"
	"github.com/skillforge/skillforge-api/pkg/grader"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Challenge{}, &models.Submission{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer cache.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	var assessor grader.Assessor
	if cfg.OpenAIAPIKey != "" {
		openaiAssessor, err := grader.NewOpenAIAssessor(grader.OpenAIConfig{
			APIKey:    cfg.OpenAIAPIKey,
			Model:     cfg.GraderModel,
			MaxTokens: cfg.GraderMaxTokens,
			Logger:    logger,
		})
		if err != nil {
			log.Fatalf("failed to create grading client: %v", err)
		}
		assessor = openaiAssessor
	} else {
		logger.Warn().Msg("no openai api key configured; assessments will degrade to the default result")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	events := service.NewNATSEventPublisher(natsConn, "skillforge.submissions", logger)

	submissionService := service.NewSubmissionService(submissionRepo, challengeRepo, userRepo, assessor, events, validate, logger, service.SubmissionConfig{
		AssessmentTimeout: cfg.AssessmentTimeout,
	})
	challengeService := service.NewChallengeService(challengeRepo, cache, cfg.ChallengeCacheTTL, logger)
	userService := service.NewUserService(userRepo, validate, logger)

	submissionHandler := handler.NewSubmissionHandler(submissionService, validate, logger)
	challengeHandler := handler.NewChallengeHandler(challengeService, logger)
	userHandler := handler.NewUserHandler(userService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		SubmissionHandler: submissionHandler,
		ChallengeHandler:  challengeHandler,
		UserHandler:       userHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
