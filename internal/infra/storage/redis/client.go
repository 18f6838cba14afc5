// Package redis holds the Redis-backed stores: the shared batch cache used by
// the transaction feed.
package redis

import (
	"context"

	"github.com/gabapcia/blockpulse/internal/pkg/logger"
	"github.com/gabapcia/blockpulse/internal/pkg/resilience/retry"

	redis "github.com/redis/go-redis/v9"
)

type client struct {
	conn *redis.Client
}

// Close releases the connection pool.
func (c *client) Close() error {
	return c.conn.Close()
}

type config struct {
	retry retry.Retry
}

// Option configures NewClient.
type Option func(*config)

// WithRetry retries the startup ping with r.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// NewClient connects to Redis and pings it, retrying the ping with the
// configured policy (3 attempts by default).
func NewClient(ctx context.Context, addr, username, password string, db int, opts ...Option) (*client, error) {
	cfg := config{
		retry: retry.New(retry.WithOnRetry(func(attempt uint, err error) {
			logger.Warn(ctx, "redis ping failed", "redis.addr", addr, "retry.attempt", attempt, "error", err)
		})),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	err := cfg.retry.Execute(ctx, func() error {
		return conn.Ping(ctx).Err()
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &client{
		conn: conn,
	}, nil
}
