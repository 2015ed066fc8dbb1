// Package cache keeps read-mostly catalogue data in Redis in front of the
// repositories.
package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/lshigami/behavio/config"
	"github.com/rs/zerolog/log"
)

func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 2,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	log.Info().Str("addr", cfg.Addr).Msg("Redis connection established")
	return rdb, nil
}
