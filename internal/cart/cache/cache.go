package cache

import (
	"context"
	"errors"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

// CartCache holds read copies of session carts. Every entry belongs to a
// cart version; Invalidate moves the session to a new version, so a fill
// computed from a read that raced with a write lands on a version nobody
// reads any more.
type CartCache interface {
	// Get returns the cached cart for the session's current version. On a
	// miss it returns ErrCacheMiss together with the version a fill must use.
	Get(ctx context.Context, sessionID string) (*domain.Cart, int64, error)
	Set(ctx context.Context, sessionID string, version int64, cart *domain.Cart) error
	Invalidate(ctx context.Context, sessionID string) error
}

var ErrCacheMiss = errors.New("cache miss")
