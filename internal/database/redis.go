package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/recipe-box/backend/config"
	"github.com/pageza/recipe-box/backend/internal/logger"
)

// NewRedisClient creates a new Redis client from cfg.RedisURL and checks it responds
func NewRedisClient(cfg *config.Config, log *logger.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("Successfully connected to Redis", "addr", opts.Addr)
	return client, nil
}
