package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client), mr
}

func pizzaCart(sessionID string) *domain.Cart {
	size := domain.PizzaSize12
	return &domain.Cart{
		SessionID: sessionID,
		Lines: []domain.CartLine{
			{
				ID:             "3|size=12\"|stuffed=true|sv=false",
				MenuItemID:     3,
				Name:           "Margherita",
				Quantity:       2,
				UnitPrice:      decimal.RequireFromString("13.00"),
				Customizations: domain.Customization{Size: &size, StuffedCrust: true},
			},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestGet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)

	payload, err := json.Marshal(pizzaCart("s1"))
	require.NoError(t, err)
	require.NoError(t, mr.Set(entryKey("s1", 0), string(payload)))

	got, version, err := cache.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.Equal(t, "s1", got.SessionID)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].UnitPrice.Equal(decimal.RequireFromString("13")))
	require.NotNil(t, got.Lines[0].Customizations.Size)
	assert.Equal(t, domain.PizzaSize12, *got.Lines[0].Customizations.Size)
	assert.True(t, got.Lines[0].Customizations.StuffedCrust)
}

func TestGet_CacheMissReportsVersion(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(versionKey("s1"), "7"))

	got, version, err := cache.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, got)
	assert.Equal(t, int64(7), version)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(entryKey("s1", 0), `{"session_id":`))

	_, _, err := cache.Get(context.Background(), "s1")
	require.ErrorContains(t, err, "unmarshal cart failed")
}

func TestGet_CorruptVersion(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(versionKey("s1"), "abc"))

	_, _, err := cache.Get(context.Background(), "s1")
	require.ErrorContains(t, err, "redis get cart version failed")
}

func TestSet_WithTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), "s2", 3, pizzaCart("s2")))

	stored, err := mr.Get(entryKey("s2", 3))
	require.NoError(t, err)
	var cart domain.Cart
	require.NoError(t, json.Unmarshal([]byte(stored), &cart))
	assert.Equal(t, "s2", cart.SessionID)

	ttl := mr.TTL(entryKey("s2", 3))
	assert.GreaterOrEqual(t, ttl, 15*time.Minute)
	assert.Less(t, ttl, 20*time.Minute)
}

func TestInvalidate_HidesCurrentEntry(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "s3", 0, pizzaCart("s3")))

	require.NoError(t, cache.Invalidate(ctx, "s3"))

	_, version, err := cache.Get(ctx, "s3")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, versionTTL, mr.TTL(versionKey("s3")))
}

func TestSet_FillFromBeforeInvalidateIsNeverServed(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	// a reader misses and loads the old cart from the database
	_, readVersion, err := cache.Get(ctx, "s4")
	require.ErrorIs(t, err, ErrCacheMiss)
	stale := pizzaCart("s4")

	// a writer commits and invalidates before the reader fills
	require.NoError(t, cache.Invalidate(ctx, "s4"))
	require.NoError(t, cache.Set(ctx, "s4", readVersion, stale))

	got, version, err := cache.Get(ctx, "s4")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, got)
	assert.Equal(t, readVersion+1, version)
}

func TestKeys_Format(t *testing.T) {
	assert.Equal(t, "cart:abc:version", versionKey("abc"))
	assert.Equal(t, "cart:abc:v2", entryKey("abc", 2))
}
