// Package admin implements the operator's writes: order status, menu items,
// categories and shop settings.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/catalog"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/notify"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/store"
)

var ErrUnknownCategory = errors.New("unknown category")

type Store interface {
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
	UpsertMenuItem(ctx context.Context, item *domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, id int64) error
	InsertCategory(ctx context.Context, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	UpdateSettings(ctx context.Context, settings domain.Settings) error
}

type Catalog interface {
	Menu(ctx context.Context) (*catalog.Menu, error)
	Invalidate(ctx context.Context)
}

type Refresher interface {
	Refresh(ctx context.Context) error
}

type Service struct {
	store     Store
	catalog   Catalog
	publisher notify.Publisher
	board     Refresher
	now       func() time.Time
}

func NewService(store Store, catalog Catalog, publisher notify.Publisher, board Refresher) *Service {
	return &Service{
		store:     store,
		catalog:   catalog,
		publisher: publisher,
		board:     board,
		now:       time.Now,
	}
}

// UpdateOrderStatus sets any of the six statuses regardless of the current
// one.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	if !status.Valid() {
		return domain.NewValidationError("status", fmt.Sprintf("unknown order status %q", status))
	}
	if err := s.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}
	slog.InfoContext(ctx, "order status updated", "order_id", orderID, "status", status)

	s.announce(ctx, notify.Event{Type: notify.EventOrderUpdated, Table: notify.TableOrders, OrderID: orderID})
	return nil
}

// SaveMenuItem inserts an item with a zero ID or replaces an existing one.
// Items in the pizza category must carry a price for every size.
func (s *Service) SaveMenuItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}

	menu, err := s.catalog.Menu(ctx)
	if err != nil {
		return nil, err
	}
	category, ok := findCategory(menu.Categories, item.CategoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, item.CategoryID)
	}
	if category.Name == domain.CategoryPizzas && !item.HasSizePrices() {
		return nil, domain.NewValidationError("pizza_prices", "pizzas need a price for every size")
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	item.Category = nil
	if err := s.store.UpsertMenuItem(ctx, &item); err != nil {
		return nil, err
	}
	s.catalog.Invalidate(ctx)

	item.Category = &category
	return &item, nil
}

func (s *Service) DeleteMenuItem(ctx context.Context, id int64) error {
	if err := s.store.DeleteMenuItem(ctx, id); err != nil {
		return err
	}
	s.catalog.Invalidate(ctx)
	return nil
}

func (s *Service) AddCategory(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "category name is required")
	}
	category, err := s.store.InsertCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	s.catalog.Invalidate(ctx)
	return category, nil
}

// DeleteCategory refuses while any menu item uses the category. The foreign
// key catches items added after the check.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	menu, err := s.catalog.Menu(ctx)
	if err != nil {
		return err
	}
	for _, item := range menu.Items {
		if item.CategoryID == id {
			return fmt.Errorf("category %d: %w", id, store.ErrCategoryInUse)
		}
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.catalog.Invalidate(ctx)
	return nil
}

// SaveSettings overwrites the shop settings; concurrent saves race and the
// last one wins.
func (s *Service) SaveSettings(ctx context.Context, settings domain.Settings) error {
	if err := s.store.UpdateSettings(ctx, settings); err != nil {
		return err
	}
	s.catalog.Invalidate(ctx)
	return nil
}

func (s *Service) announce(ctx context.Context, event notify.Event) {
	event.OccurredAt = s.now().UTC()
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, event); err != nil {
			slog.ErrorContext(ctx, "publish order change failed", "order_id", event.OrderID, "error", err)
		}
	}
	if s.board != nil {
		if err := s.board.Refresh(ctx); err != nil {
			slog.WarnContext(ctx, "order board refresh failed", "error", err)
		}
	}
}

func findCategory(categories []domain.Category, id int64) (domain.Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}
