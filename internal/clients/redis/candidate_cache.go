package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kotekapu/kotekapu-backend/internal/logger"
	"github.com/kotekapu/kotekapu-backend/internal/personalization"
	"github.com/kotekapu/kotekapu-backend/internal/utils"
)

const candidatePoolKey = "feed:candidates"

// CandidateCache keeps the scoring candidate pool in redis so one feed
// request does not cost two full table scans. The pool is shared across
// users (scoring is per-user, the pool is not), so one key suffices.
type CandidateCache interface {
	Get(ctx context.Context) ([]personalization.ContentItem, error)
	Set(ctx context.Context, items []personalization.ContentItem) error
	Invalidate(ctx context.Context) error
	Close() error
}

type candidateCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewCandidateCache(log *logger.Logger) (CandidateCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSeconds := utils.GetEnvAsInt("FEED_CACHE_TTL", 30, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &candidateCache{
		log: log.With("service", "CandidateCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (c *candidateCache) Get(ctx context.Context) ([]personalization.ContentItem, error) {
	raw, err := c.rdb.Get(ctx, candidatePoolKey).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var items []personalization.ContentItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// A broken cache entry is dropped so the next Set repairs it.
		c.log.Warn("dropping undecodable candidate pool cache entry", "error", err)
		_ = c.rdb.Del(ctx, candidatePoolKey).Err()
		return nil, nil
	}
	return items, nil
}

func (c *candidateCache) Set(ctx context.Context, items []personalization.ContentItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal candidate pool: %w", err)
	}
	if err := c.rdb.Set(ctx, candidatePoolKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *candidateCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, candidatePoolKey).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *candidateCache) Close() error {
	return c.rdb.Close()
}
