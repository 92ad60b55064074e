package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTimeout = errors.New("queue timeout")

// Job is one renewal reminder to dispatch. Priority rank mirrors the alert
// priorities: lower is more urgent.
type Job struct {
	ID             string    `json:"id"`
	SubscriptionID string    `json:"subscription_id"`
	ClientID       string    `json:"client_id"`
	AlertType      string    `json:"alert_type"`
	Priority       string    `json:"priority"`
	PriorityRank   int       `json:"priority_rank"`
	DaysRemaining  int       `json:"days_remaining"`
	CreatedAt      time.Time `json:"created_at"`
}

type RedisQueue struct {
	client    *redis.Client
	queueName string
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{
		client:    client,
		queueName: "renewal_reminders",
	}
}

func (q *RedisQueue) Push(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	// Rank-major, age-minor score keeps critical reminders ahead of low
	// ones regardless of enqueue time.
	score := float64(job.PriorityRank)*1e12 + float64(job.CreatedAt.Unix())

	err = q.client.ZAdd(ctx, q.queueName, redis.Z{
		Score:  score,
		Member: data,
	}).Err()

	if err != nil {
		return fmt.Errorf("failed to push job: %w", err)
	}

	return nil
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (*Job, error) {
	result, err := q.client.BZPopMin(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("failed to pop job: %w", err)
	}

	member, ok := result.Z.Member.(string)
	if !ok {
		return nil, errors.New("invalid member type from queue")
	}

	var job Job
	if err := json.Unmarshal([]byte(member), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}

func (q *RedisQueue) Length(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, q.queueName).Result()
}
