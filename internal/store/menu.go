package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, nil
}

func (s *Store) InsertCategory(ctx context.Context, name string) (*domain.Category, error) {
	c := domain.Category{Name: name}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&c.ID)
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			return nil, fmt.Errorf("category %q: %w", name, ErrDuplicate)
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return fmt.Errorf("category %d: %w", id, ErrCategoryInUse)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return affectedOne(res, fmt.Sprintf("category %d", id))
}

const menuItemColumns = `id, name, description, price, pizza_prices, category_id, image_url`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMenuItem(row rowScanner) (domain.MenuItem, error) {
	var (
		item        domain.MenuItem
		price       decimal.NullDecimal
		pizzaPrices []byte
	)
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &price, &pizzaPrices, &item.CategoryID, &item.ImageURL); err != nil {
		return item, err
	}
	if price.Valid {
		p := price.Decimal
		item.Price = &p
	}
	if pizzaPrices != nil {
		if err := json.Unmarshal(pizzaPrices, &item.PizzaPrices); err != nil {
			return item, fmt.Errorf("unmarshal pizza prices of item %d: %w", item.ID, err)
		}
	}
	return item, nil
}

// ListMenuItems returns items without their Category; callers join it.
func (s *Store) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func (s *Store) GetMenuItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, id)
	item, err := scanMenuItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("menu item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query menu item: %w", err)
	}
	return &item, nil
}

// UpsertMenuItem inserts an item with a zero ID and assigns it one, or
// replaces the stored item with the same ID.
func (s *Store) UpsertMenuItem(ctx context.Context, item *domain.MenuItem) error {
	var price any
	if item.Price != nil {
		price = *item.Price
	}
	var pizzaPrices any
	if item.HasSizePrices() {
		raw, err := json.Marshal(item.PizzaPrices)
		if err != nil {
			return fmt.Errorf("marshal pizza prices: %w", err)
		}
		pizzaPrices = string(raw)
	}

	if item.ID == 0 {
		err := s.db.QueryRowContext(ctx,
			`INSERT INTO menu_items (name, description, price, pizza_prices, category_id, image_url)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			item.Name, item.Description, price, pizzaPrices, item.CategoryID, item.ImageURL,
		).Scan(&item.ID)
		return menuItemWriteError(err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE menu_items
		 SET name = $2, description = $3, price = $4, pizza_prices = $5, category_id = $6, image_url = $7
		 WHERE id = $1`,
		item.ID, item.Name, item.Description, price, pizzaPrices, item.CategoryID, item.ImageURL)
	if err != nil {
		return menuItemWriteError(err)
	}
	return affectedOne(res, fmt.Sprintf("menu item %d", item.ID))
}

func menuItemWriteError(err error) error {
	if err == nil {
		return nil
	}
	if pqCode(err) == codeForeignKeyViolation {
		return fmt.Errorf("menu item category: %w", ErrBadReference)
	}
	return fmt.Errorf("write menu item: %w", err)
}

func (s *Store) DeleteMenuItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return affectedOne(res, fmt.Sprintf("menu item %d", id))
}
