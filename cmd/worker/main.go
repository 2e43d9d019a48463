package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pay4skill/server/pkg/config"
	"github.com/pay4skill/server/pkg/database"
	"github.com/pay4skill/server/pkg/logger"

	"github.com/pay4skill/server/internal/mailer"
	"github.com/pay4skill/server/internal/queue/tasks"
	"github.com/pay4skill/server/internal/repository"
	"github.com/pay4skill/server/internal/services"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	_ = rdb.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		},
		asynq.Config{
			Concurrency: cfg.AsynqConcurrency,
		},
	)

	// Initialize DB and repositories for task handlers
	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL, log, database.DefaultOptions(cfg.AppEnv))
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	badgeSvc := services.NewBadgeService(repository.NewBadgeRepository(db))
	m := mailer.New(cfg)
	if !cfg.MailEnabled() {
		log.Warn("SMTP_HOST not set, password reset mails are only logged")
	}

	mux := asynq.NewServeMux()
	tasks.Register(mux, tasks.NewBadgeTaskHandler(badgeSvc), tasks.NewMailTaskHandler(m))

	errCh := make(chan error, 1)
	go func() {
		log.Info("asynq worker starting", zap.Int("concurrency", cfg.AsynqConcurrency))
		if err := srv.Run(mux); err != nil {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("worker stopped with error", zap.Error(err))
	}

	// asynq.Server.Shutdown waits for in-flight tasks up to its ShutdownTimeout
	srv.Shutdown()
}
