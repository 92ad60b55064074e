package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	*redis.Client
}

func NewClient(redisURL string) *Client {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{
			Addr: redisURL,
		}
	}

	client := redis.NewClient(opt)

	return &Client{client}
}

// MarkReminded sets the reminder dedup key for a subscription. Returns
// false when a reminder was already sent within the window.
func (c *Client) MarkReminded(ctx context.Context, subscriptionID string, window time.Duration) (bool, error) {
	key := fmt.Sprintf("reminder:sent:%s", subscriptionID)
	return c.SetNX(ctx, key, time.Now().Unix(), window).Result()
}
