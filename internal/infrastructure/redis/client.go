package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PingTimeout bounds the connection check done by NewClient.
const PingTimeout = 5 * time.Second

// NewClient creates a new Redis client shared by the idempotency store and
// the notification subscriber.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	// Verify connection
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// Checker reports Redis reachability for readiness checks.
type Checker struct {
	client redis.UniversalClient
}

// NewChecker creates a Checker.
func NewChecker(client redis.UniversalClient) *Checker {
	return &Checker{client: client}
}

// Check pings Redis.
func (c *Checker) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
