package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"academix/internal/certificate/ledger"
)

const keyPrefix = "academix:ledger:token:"

// RedisCache shares ledger reads across instances. Redis failures degrade to
// cache misses.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, tokenID string) (*ledger.TokenRecord, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+tokenID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "ledger view cache read failed", "token_id", tokenID, "error", err)
		}
		cacheMisses.WithLabelValues("redis").Inc()
		return nil, false
	}

	var rec ledger.TokenRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		c.logger.WarnContext(ctx, "ledger view cache entry corrupt", "token_id", tokenID, "error", err)
		cacheMisses.WithLabelValues("redis").Inc()
		return nil, false
	}
	cacheHits.WithLabelValues("redis").Inc()
	return &rec, true
}

func (c *RedisCache) Set(ctx context.Context, tokenID string, record *ledger.TokenRecord) {
	if record == nil {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, keyPrefix+tokenID, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "ledger view cache write failed", "token_id", tokenID, "error", err)
	}
}
