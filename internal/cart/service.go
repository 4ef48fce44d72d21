package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/cart/cache"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/cart/repository"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/pricing"
	"golang.org/x/sync/singleflight"
)

// MenuReader resolves the live menu item a selection refers to.
type MenuReader interface {
	Item(ctx context.Context, id int64) (*domain.MenuItem, error)
}

// Selection is what the customer picked on the menu page.
type Selection struct {
	MenuItemID     int64
	Quantity       int
	Customizations domain.Customization
}

type Service struct {
	repo  repository.CartRepository
	cache cache.CartCache
	menu  MenuReader
	sfg   singleflight.Group
	now   func() time.Time
}

func NewService(repo repository.CartRepository, cache cache.CartCache, menu MenuReader) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		menu:  menu,
		now:   time.Now,
	}
}

// GetCart returns the session's cart, empty if it has none. The returned
// cart may be shared with concurrent callers and must not be modified.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		cart, version, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cart, nil
		}
		fill := errors.Is(err, cache.ErrCacheMiss)
		if !fill {
			slog.WarnContext(ctx, "cart cache get failed", "error", err)
		}

		cart, err = s.repo.GetCart(ctx, sessionID)
		if errors.Is(err, repository.ErrCartNotFound) {
			return s.emptyCart(sessionID), nil
		}
		if err != nil {
			return nil, err
		}

		if !fill {
			return cart, nil
		}
		go func() {
			setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(setCtx, sessionID, version, cart); err != nil {
				slog.Warn("cart cache set failed", "error", err)
			}
		}()
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// AddSelection prices the selection against the live menu once and merges
// it into the cart. Later menu price changes do not touch the line.
func (s *Service) AddSelection(ctx context.Context, sessionID string, sel Selection) (*domain.Cart, error) {
	if sel.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.menu.Item(ctx, sel.MenuItemID)
	if err != nil {
		return nil, err
	}

	c := sel.Customizations
	if !item.HasSizePrices() {
		c.Size = nil
	}
	price, err := pricing.UnitPrice(item, c)
	if err != nil {
		return nil, err
	}

	cart, err := s.loadForWrite(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line := domain.CartLine{
		ID:             IdentityOf(item.ID, c),
		MenuItemID:     item.ID,
		Name:           item.Name,
		Quantity:       sel.Quantity,
		UnitPrice:      price,
		Customizations: c,
		AddedAt:        s.now().UTC(),
	}
	if err := Add(cart, line); err != nil {
		return nil, err
	}
	return cart, s.save(ctx, cart)
}

func (s *Service) SetQuantity(ctx context.Context, sessionID, lineID string, n int) (*domain.Cart, error) {
	cart, err := s.loadForWrite(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !SetQuantity(cart, lineID, n) {
		return nil, fmt.Errorf("%w: %s", ErrLineNotFound, lineID)
	}
	return cart, s.save(ctx, cart)
}

// Remove drops a line. An unknown line leaves the cart untouched.
func (s *Service) Remove(ctx context.Context, sessionID, lineID string) (*domain.Cart, error) {
	cart, err := s.loadForWrite(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !Remove(cart, lineID) {
		return cart, nil
	}
	return cart, s.save(ctx, cart)
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	err := s.repo.DeleteCart(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		slog.ErrorContext(ctx, "repo delete cart failed", "error", err)
		return err
	}
	s.invalidateCache(sessionID)
	return nil
}

// loadForWrite reads the cart from the repository, bypassing the cache and
// the singleflight group so the caller owns the returned value.
func (s *Service) loadForWrite(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, sessionID)
	if errors.Is(err, repository.ErrCartNotFound) {
		return s.emptyCart(sessionID), nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) save(ctx context.Context, cart *domain.Cart) error {
	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		slog.ErrorContext(ctx, "repo upsert cart failed", "error", err)
		return err
	}
	s.invalidateCache(cart.SessionID)
	return nil
}

func (s *Service) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx, sessionID); err != nil {
		slog.Warn("cart cache invalidate failed", "error", err)
	}
}

func (s *Service) emptyCart(sessionID string) *domain.Cart {
	now := s.now().UTC()
	return &domain.Cart{
		SessionID: sessionID,
		Lines:     []domain.CartLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
