package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/a2s-soft/subtrack/internal/config"
	"github.com/a2s-soft/subtrack/internal/metrics"
	"github.com/a2s-soft/subtrack/internal/queue"
	"github.com/a2s-soft/subtrack/internal/reminder"
	"github.com/a2s-soft/subtrack/internal/store/postgres"
	"github.com/a2s-soft/subtrack/internal/store/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	repo := postgres.NewRepository(db)

	cache := redis.NewClient(cfg.Redis.URL)
	defer cache.Close()

	jobQueue := queue.NewRedisQueue(cache.Client)
	collector := metrics.NewCollector()

	sched := reminder.NewScheduler(repo, cache, jobQueue, collector, logger, cfg.Reminder)

	ctx, cancel := context.WithCancel(context.Background())
	go sched.Start(ctx)

	logger.Info("Reminder scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down reminder scheduler...")
	cancel()
	logger.Info("Reminder scheduler stopped")
}
