package auth

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rawaz/digital-menu/internal/model"
)

// SnapshotCache stores the account snapshot behind a session token. It is
// filled at login, refreshed by CheckAuth, and cleared on logout or any
// auth-invalidation path. Misses are not errors; the Manager falls back to
// the account store.
type SnapshotCache interface {
	Get(ctx context.Context, token string) (*model.AdminUser, bool)
	Set(ctx context.Context, token string, u *model.AdminUser)
	Delete(ctx context.Context, token string)
}

// MemorySnapshotCache is the process-local implementation, also used as the
// test fake.
type MemorySnapshotCache struct {
	mu sync.RWMutex
	m  map[string]*model.AdminUser
}

// NewMemorySnapshotCache returns an empty in-memory cache.
func NewMemorySnapshotCache() *MemorySnapshotCache {
	return &MemorySnapshotCache{m: make(map[string]*model.AdminUser)}
}

func (c *MemorySnapshotCache) Get(ctx context.Context, token string) (*model.AdminUser, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.m[token]
	return u, ok
}

func (c *MemorySnapshotCache) Set(ctx context.Context, token string, u *model.AdminUser) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[token] = u
}

func (c *MemorySnapshotCache) Delete(ctx context.Context, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, token)
}

// RedisSnapshotCache keeps snapshots in Redis so they survive process
// restarts and are shared across replicas. Entries carry the session TTL;
// Redis drops them on its own if an invalidation path is never reached.
type RedisSnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSnapshotCache wraps an existing client.
func NewRedisSnapshotCache(rdb *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{rdb: rdb, ttl: ttl}
}

func snapshotKey(token string) string { return "admin:snapshot:" + token }

func (c *RedisSnapshotCache) Get(ctx context.Context, token string) (*model.AdminUser, bool) {
	raw, err := c.rdb.Get(ctx, snapshotKey(token)).Bytes()
	if err != nil {
		return nil, false
	}
	var u model.AdminUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, false
	}
	return &u, true
}

func (c *RedisSnapshotCache) Set(ctx context.Context, token string, u *model.AdminUser) {
	raw, err := json.Marshal(u)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, snapshotKey(token), raw, c.ttl).Err()
}

func (c *RedisSnapshotCache) Delete(ctx context.Context, token string) {
	_ = c.rdb.Del(ctx, snapshotKey(token)).Err()
}
