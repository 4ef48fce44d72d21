package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

const (
	maxJitterMinutes = 5
	// versionTTL outlives any entry so an idle session cannot fall back to
	// a version whose entry is still live.
	versionTTL = 24 * time.Hour
)

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

// RedisCache keeps one counter per session under cart:{session}:version and
// the cart JSON under cart:{session}:v{n}. Entries expire after the base TTL
// plus up to five minutes of jitter; superseded versions are never read
// again and simply age out.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, sessionID string) (*domain.Cart, int64, error) {
	version, err := r.version(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}

	data, err := r.client.Get(ctx, entryKey(sessionID, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, ErrCacheMiss
	}
	if err != nil {
		return nil, 0, fmt.Errorf("redis get cart failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, 0, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, version, nil
}

func (r *RedisCache) Set(ctx context.Context, sessionID string, version int64, cart *domain.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	ttl := r.baseTTL + time.Duration(rand.Intn(maxJitterMinutes))*time.Minute
	if err := r.client.Set(ctx, entryKey(sessionID, version), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart failed: %w", err)
	}
	return nil
}

// Invalidate bumps the session's cart version. The previous entry stays in
// Redis until its TTL runs out but is no longer reachable through Get.
func (r *RedisCache) Invalidate(ctx context.Context, sessionID string) error {
	key := versionKey(sessionID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, versionTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis bump cart version failed: %w", err)
	}
	return nil
}

func (r *RedisCache) version(ctx context.Context, sessionID string) (int64, error) {
	version, err := r.client.Get(ctx, versionKey(sessionID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get cart version failed: %w", err)
	}
	return version, nil
}

func versionKey(sessionID string) string {
	return fmt.Sprintf("cart:%s:version", sessionID)
}

func entryKey(sessionID string, version int64) string {
	return fmt.Sprintf("cart:%s:v%d", sessionID, version)
}
