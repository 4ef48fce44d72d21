// Package catalog serves the menu, its categories and the shop settings.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/store"
	"golang.org/x/sync/singleflight"
)

const (
	menuCacheKey = "catalog:menu"

	Uncategorized = "Uncategorized"
)

var (
	ErrItemNotFound    = errors.New("menu item not found")
	ErrSettingsMissing = errors.New("settings not found; run the seed migration")
)

type Store interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	GetSettings(ctx context.Context) (*domain.Settings, error)
}

// Menu is the full catalogue with each item joined to its category.
type Menu struct {
	Categories []domain.Category `json:"categories"`
	Items      []domain.MenuItem `json:"items"`
}

type Group struct {
	Category string            `json:"category"`
	Items    []domain.MenuItem `json:"items"`
}

type Catalog struct {
	store Store
	redis *redis.Client
	ttl   time.Duration
	sfg   singleflight.Group
}

// New builds a catalogue over store. A nil redis client disables caching.
func New(store Store, client *redis.Client, ttl time.Duration) *Catalog {
	return &Catalog{store: store, redis: client, ttl: ttl}
}

func (c *Catalog) Menu(ctx context.Context) (*Menu, error) {
	v, err, _ := c.sfg.Do(menuCacheKey, func() (interface{}, error) {
		if menu, ok := c.cached(ctx); ok {
			return menu, nil
		}

		menu, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		c.fill(ctx, menu)
		return menu, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Menu), nil
}

// Invalidate drops the cached menu so the next read goes to the store.
func (c *Catalog) Invalidate(ctx context.Context) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, menuCacheKey).Err(); err != nil {
		slog.WarnContext(ctx, "menu cache invalidate failed", "error", err)
	}
}

func (c *Catalog) Item(ctx context.Context, id int64) (*domain.MenuItem, error) {
	menu, err := c.Menu(ctx)
	if err != nil {
		return nil, err
	}
	for i := range menu.Items {
		if menu.Items[i].ID == id {
			item := menu.Items[i]
			return &item, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrItemNotFound, id)
}

func (c *Catalog) Categories(ctx context.Context) ([]domain.Category, error) {
	menu, err := c.Menu(ctx)
	if err != nil {
		return nil, err
	}
	return menu.Categories, nil
}

// Search matches the trimmed query against item names and descriptions,
// ignoring case. An empty query returns the whole menu.
func (c *Catalog) Search(ctx context.Context, query string) ([]domain.MenuItem, error) {
	menu, err := c.Menu(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	matched := make([]domain.MenuItem, 0, len(menu.Items))
	for i := range menu.Items {
		if menu.Items[i].Matches(query) {
			matched = append(matched, menu.Items[i])
		}
	}
	return matched, nil
}

func (c *Catalog) Settings(ctx context.Context) (*domain.Settings, error) {
	settings, err := c.store.GetSettings(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSettingsMissing
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

// Grouped buckets items by category name, in category order, with items
// lacking a category last under Uncategorized.
func Grouped(categories []domain.Category, items []domain.MenuItem) []Group {
	byName := make(map[string][]domain.MenuItem)
	for _, item := range items {
		name := Uncategorized
		if item.Category != nil {
			name = item.Category.Name
		}
		byName[name] = append(byName[name], item)
	}

	groups := make([]Group, 0, len(byName))
	for _, cat := range categories {
		if items, ok := byName[cat.Name]; ok {
			groups = append(groups, Group{Category: cat.Name, Items: items})
			delete(byName, cat.Name)
		}
	}
	if items, ok := byName[Uncategorized]; ok {
		groups = append(groups, Group{Category: Uncategorized, Items: items})
	}
	return groups
}

func (c *Catalog) load(ctx context.Context) (*Menu, error) {
	categories, err := c.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	items, err := c.store.ListMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}

	byID := make(map[int64]domain.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}
	for i := range items {
		if cat, ok := byID[items[i].CategoryID]; ok {
			items[i].Category = &cat
		}
	}
	return &Menu{Categories: categories, Items: items}, nil
}

func (c *Catalog) cached(ctx context.Context) (*Menu, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, menuCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "menu cache get failed", "error", err)
		}
		return nil, false
	}

	var menu Menu
	if err := json.Unmarshal(data, &menu); err != nil {
		slog.WarnContext(ctx, "menu cache entry unreadable", "error", err)
		return nil, false
	}
	return &menu, true
}

func (c *Catalog) fill(ctx context.Context, menu *Menu) {
	if c.redis == nil {
		return
	}
	payload, err := json.Marshal(menu)
	if err != nil {
		slog.WarnContext(ctx, "marshal menu failed", "error", err)
		return
	}
	if err := c.redis.Set(ctx, menuCacheKey, payload, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "menu cache set failed", "error", err)
	}
}
