package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
)

const keyPrefix = "snapshot:"

// SnapshotCache holds short-lived JSON snapshots of expensive read payloads
// (opportunity matrix, dashboard stats) in redis. It is strictly an overlay:
// every failure path degrades to a cache miss and the caller recomputes from
// the database. Enrichment runs call Invalidate when they finish.
type SnapshotCache struct {
	log *logger.Logger
	rdb *redis.Client
	ttl time.Duration
}

// NewSnapshotCache connects using REDIS_ADDR. An empty address is not an
// error; it returns a disabled cache so the read API works without redis.
func NewSnapshotCache(log *logger.Logger, ttl time.Duration) (*SnapshotCache, error) {
	cacheLog := log.With("service", "SnapshotCache")

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		cacheLog.Info("REDIS_ADDR not set, snapshot cache disabled")
		return &SnapshotCache{log: cacheLog, ttl: ttl}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &SnapshotCache{log: cacheLog, rdb: rdb, ttl: ttl}, nil
}

// Get unmarshals the snapshot under key into dest and reports whether a
// usable snapshot existed.
func (c *SnapshotCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("snapshot read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("snapshot decode failed", "key", key, "error", err)
		return false
	}
	return true
}

// Set stores a snapshot under key for the cache TTL. Failures only log.
func (c *SnapshotCache) Set(ctx context.Context, key string, value any) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("snapshot encode failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("snapshot write failed", "key", key, "error", err)
	}
}

// Invalidate drops every stored snapshot.
func (c *SnapshotCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("snapshot scan failed", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("snapshot invalidation failed", "error", err)
		return
	}
	c.log.Info("snapshot cache invalidated", "keys", len(keys))
}

// Close releases the redis connection.
func (c *SnapshotCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
