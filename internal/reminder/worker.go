package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a2s-soft/subtrack/internal/config"
	"github.com/a2s-soft/subtrack/internal/metrics"
	"github.com/a2s-soft/subtrack/internal/queue"
	"github.com/a2s-soft/subtrack/internal/store/postgres"
)

// Worker drains the reminder queue and records each reminder in Postgres.
// Dispatch to an actual channel (mail, SMS) hangs off the persisted row.
type Worker struct {
	repo    *postgres.Repository
	queue   *queue.RedisQueue
	metrics *metrics.Collector
	logger  *zap.Logger
	config  config.ReminderConfig
}

func NewWorker(repo *postgres.Repository, q *queue.RedisQueue, collector *metrics.Collector, logger *zap.Logger, cfg config.ReminderConfig) *Worker {
	return &Worker{
		repo:    repo,
		queue:   q,
		metrics: collector,
		logger:  logger,
		config:  cfg,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Reminder worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reminder worker stopped")
			return
		default:
		}

		job, err := w.queue.Pop(ctx, w.config.PopTimeout)
		if err != nil {
			if err == queue.ErrTimeout {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("Failed to pop reminder job", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		w.processJob(ctx, job)
	}
}

func (w *Worker) processJob(ctx context.Context, job *queue.Job) {
	subID, err := uuid.Parse(job.SubscriptionID)
	if err != nil {
		w.logger.Error("Dropping job with malformed subscription id",
			zap.String("job_id", job.ID),
			zap.String("subscription_id", job.SubscriptionID),
		)
		return
	}
	clientID, err := uuid.Parse(job.ClientID)
	if err != nil {
		w.logger.Error("Dropping job with malformed client id",
			zap.String("job_id", job.ID),
			zap.String("client_id", job.ClientID),
		)
		return
	}

	rr := &postgres.RenewalReminder{
		ID:             uuid.New(),
		SubscriptionID: subID,
		ClientID:       clientID,
		AlertType:      job.AlertType,
		Priority:       job.Priority,
		DaysRemaining:  job.DaysRemaining,
		SentAt:         time.Now(),
	}

	if err := w.repo.CreateRenewalReminder(ctx, rr); err != nil {
		w.logger.Error("Failed to record reminder",
			zap.String("subscription_id", job.SubscriptionID),
			zap.Error(err),
		)
		return
	}

	w.metrics.RecordReminderSent(job.AlertType, job.Priority)

	w.logger.Info("Reminder recorded",
		zap.String("subscription_id", job.SubscriptionID),
		zap.String("alert_type", job.AlertType),
		zap.String("priority", job.Priority),
		zap.Int("days_remaining", job.DaysRemaining),
	)
}
