package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a2s-soft/subtrack/internal/config"
	"github.com/a2s-soft/subtrack/internal/engine"
	"github.com/a2s-soft/subtrack/internal/metrics"
	"github.com/a2s-soft/subtrack/internal/queue"
	"github.com/a2s-soft/subtrack/internal/store/postgres"
	"github.com/a2s-soft/subtrack/internal/store/redis"
)

// Scheduler scans active subscriptions on an interval, classifies each one
// against its end date, and enqueues a reminder job per alert. The Redis
// dedup key keeps a subscription from being reminded more than once per
// window.
type Scheduler struct {
	repo    *postgres.Repository
	cache   *redis.Client
	queue   *queue.RedisQueue
	metrics *metrics.Collector
	logger  *zap.Logger
	config  config.ReminderConfig
}

func NewScheduler(repo *postgres.Repository, cache *redis.Client, q *queue.RedisQueue, collector *metrics.Collector, logger *zap.Logger, cfg config.ReminderConfig) *Scheduler {
	return &Scheduler{
		repo:    repo,
		cache:   cache,
		queue:   q,
		metrics: collector,
		logger:  logger,
		config:  cfg,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting reminder scheduler", zap.Duration("interval", s.config.Interval))

	// One scan up front so a restart does not wait a full interval
	s.scan(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping reminder scheduler")
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

func (s *Scheduler) scan(ctx context.Context) {
	start := time.Now()

	subs, clients, err := s.repo.ActiveSubscriptionsWithClients(ctx)
	if err != nil {
		s.logger.Error("Failed to load subscriptions for scan", zap.Error(err))
		return
	}

	alerts := engine.ClassifyAlerts(subs, time.Now())
	counts := engine.CountAlerts(alerts)
	s.metrics.RecordAlertCounts(map[string]int{
		"critical": counts.Critical,
		"high":     counts.High,
		"medium":   counts.Medium,
		"low":      counts.Low,
	}, counts.Total)

	enqueued := 0
	for _, alert := range alerts {
		// Only urgent-or-worse alerts warrant a reminder; attention and
		// important buckets surface in the API without one.
		if engine.PriorityRank(alert.Priority) > engine.PriorityRank(engine.PriorityHigh) {
			continue
		}
		subID := alert.Subscription.ID.String()

		first, err := s.cache.MarkReminded(ctx, subID, s.config.DedupWindow)
		if err != nil {
			s.logger.Error("Failed to check reminder dedup key",
				zap.String("subscription_id", subID),
				zap.Error(err),
			)
			continue
		}
		if !first {
			s.metrics.RecordReminderSkipped()
			continue
		}

		job := &queue.Job{
			ID:             uuid.New().String(),
			SubscriptionID: subID,
			ClientID:       alert.Subscription.ClientID.String(),
			AlertType:      string(alert.Type),
			Priority:       string(alert.Priority),
			PriorityRank:   engine.PriorityRank(alert.Priority),
			DaysRemaining:  alert.DaysRemaining,
			CreatedAt:      time.Now(),
		}

		if err := s.queue.Push(ctx, job); err != nil {
			s.logger.Error("Failed to enqueue reminder",
				zap.String("subscription_id", subID),
				zap.Error(err),
			)
			continue
		}
		enqueued++

		if client, ok := clients[alert.Subscription.ClientID]; ok {
			s.logger.Debug("Reminder enqueued",
				zap.String("subscription_id", subID),
				zap.String("client", client.FullName()),
				zap.String("priority", string(alert.Priority)),
				zap.Int("days_remaining", alert.DaysRemaining),
			)
		}
	}

	if size, err := s.queue.Length(ctx); err == nil {
		s.metrics.RecordQueueSize(size)
	}
	s.metrics.RecordScanDuration(time.Since(start).Seconds())

	s.logger.Info("Reminder scan completed",
		zap.Int("alerts", len(alerts)),
		zap.Int("enqueued", enqueued),
		zap.Duration("duration", time.Since(start)),
	)
}
