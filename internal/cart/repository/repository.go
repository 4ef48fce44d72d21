package repository

import (
	"context"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

// CartRepository is the durable home of session carts. Line merging happens
// in the cart package; the repository only stores whole carts.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}
