package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/api"
	"github.com/pay4skill/server/internal/api/handlers"
	mw "github.com/pay4skill/server/internal/api/middleware"
	"github.com/pay4skill/server/internal/auth"
	"github.com/pay4skill/server/internal/queue"
	"github.com/pay4skill/server/internal/realtime"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/internal/services"
	"github.com/pay4skill/server/pkg/config"
	"github.com/pay4skill/server/pkg/database"
	"github.com/pay4skill/server/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting Pay4Skill API",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	// Connect to database
	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL, log, database.DefaultOptions(cfg.AppEnv))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer rdb.Close()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer asynqClient.Close()

	hub := realtime.NewHub(cfg.ClientURL)
	deps := services.Deps{
		Jobs:     queue.NewClient(asynqClient),
		Notifier: hub,
	}
	tokens := auth.NewIssuer([]byte(cfg.JWTSecret), cfg.SessionTTL, cfg.ResetTokenTTL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	chatRepo := repository.NewChatRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	reportRepo := repository.NewReportRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize services
	authSvc := services.NewAuthService(userRepo, tokens, cfg.BcryptCost, deps)
	userSvc := services.NewUserService(userRepo, cfg.BcryptCost)
	taskSvc := services.NewTaskService(taskRepo, deps)
	appSvc := services.NewApplicationService(appRepo, taskRepo)
	paymentSvc := services.NewPaymentService(paymentRepo, taskRepo, deps)
	reviewSvc := services.NewReviewService(reviewRepo, deps)
	messageSvc := services.NewMessageService(messageRepo, deps)
	chatSvc := services.NewChatService(chatRepo, deps)
	badgeSvc := services.NewBadgeService(badgeRepo)
	reportSvc := services.NewReportService(reportRepo)
	analyticsSvc := services.NewAnalyticsService(analyticsRepo, badgeRepo, messageRepo)

	limiter := mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustedProxyPrefixes...)
	stopSweep := make(chan struct{})
	go limiter.Run(time.Minute, stopSweep)

	// Create router with dependencies
	router := api.NewRouter(api.Dependencies{
		Verifier:    authSvc,
		RateLimiter: limiter,
		CORSOrigin:  cfg.ClientURL,
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.Check{
			"postgres": func(ctx context.Context) error { return database.Ping(ctx, db) },
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		AuthHandler:         handlers.NewAuthHandler(authSvc),
		UsersHandler:        handlers.NewUsersHandler(userSvc),
		TasksHandler:        handlers.NewTasksHandler(taskSvc),
		ApplicationsHandler: handlers.NewApplicationsHandler(appSvc),
		PaymentsHandler:     handlers.NewPaymentsHandler(paymentSvc),
		ReviewsHandler:      handlers.NewReviewsHandler(reviewSvc),
		MessagesHandler:     handlers.NewMessagesHandler(messageSvc),
		ChatsHandler:        handlers.NewChatsHandler(chatSvc),
		BadgesHandler:       handlers.NewBadgesHandler(badgeSvc),
		ReportsHandler:      handlers.NewReportsHandler(reportSvc),
		AnalyticsHandler:    handlers.NewAnalyticsHandler(analyticsSvc),
		WSHandler:           handlers.NewWSHandler(authSvc, hub),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	close(stopSweep)
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
