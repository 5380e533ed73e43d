// Package redis builds configured Redis clients from environment-driven
// settings.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings. Fields map to environment
// variables via envconfig in the server binary.
type Config struct {
	URL          string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	DialTimeout  time.Duration `split_words:"true" default:"5s"`
	ReadTimeout  time.Duration `split_words:"true" default:"3s"`
	WriteTimeout time.Duration `split_words:"true" default:"3s"`
}

// New creates a client and verifies connectivity with a ping.
func (c Config) New(ctx context.Context) (*redis.Client, error) {
	opts, err := redis.ParseURL(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = c.DialTimeout
	opts.ReadTimeout = c.ReadTimeout
	opts.WriteTimeout = c.WriteTimeout

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, c.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// MustNew is New for wiring code that cannot proceed without Redis.
func (c Config) MustNew(ctx context.Context) *redis.Client {
	client, err := c.New(ctx)
	if err != nil {
		panic(err)
	}
	return client
}
