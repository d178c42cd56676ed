package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dosada05/pong-ledger/models"
)

const keyPrefix = "pong:stats:"

// StatsCache keeps per-user aggregates in redis for ttl.
type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl}
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

func key(userID int64) string { return keyPrefix + strconv.FormatInt(userID, 10) }

// GetStats returns ok=false on a cache miss.
func (c *StatsCache) GetStats(ctx context.Context, userID int64) (*models.UserStats, bool, error) {
	raw, err := c.rdb.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var stats models.UserStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		// Битая запись: удаляем и считаем промахом.
		_ = c.rdb.Del(ctx, key(userID)).Err()
		return nil, false, nil
	}
	return &stats, true, nil
}

func (c *StatsCache) SetStats(ctx context.Context, stats *models.UserStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(stats.UserID), raw, c.ttl).Err()
}

func (c *StatsCache) Invalidate(ctx context.Context, userIDs ...int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = key(id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
