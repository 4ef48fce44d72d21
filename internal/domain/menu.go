package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type PizzaSize string

const (
	PizzaSize10 PizzaSize = `10"`
	PizzaSize12 PizzaSize = `12"`
	PizzaSize14 PizzaSize = `14"`
)

// PizzaSizes lists the sizes every pizza price table must carry, smallest first.
var PizzaSizes = []PizzaSize{PizzaSize10, PizzaSize12, PizzaSize14}

func (s PizzaSize) Valid() bool {
	for _, size := range PizzaSizes {
		if s == size {
			return true
		}
	}
	return false
}

func (s PizzaSize) String() string {
	return string(s)
}

type PizzaPrices map[PizzaSize]decimal.Decimal

// Category names that change how items are ordered.
const (
	CategoryPizzas       = "Pizzas"
	CategoryFishAndChips = "Fish and Chips"
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MenuItem struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price"`
	PizzaPrices PizzaPrices      `json:"pizza_prices"`
	CategoryID  int64            `json:"category_id"`
	ImageURL    string           `json:"image_url"`

	// Category is joined client-side after fetching; it is never persisted.
	Category *Category `json:"category,omitempty"`
}

func (m *MenuItem) HasFlatPrice() bool {
	return m.Price != nil
}

func (m *MenuItem) HasSizePrices() bool {
	return len(m.PizzaPrices) > 0
}

func (m *MenuItem) InCategory(name string) bool {
	return m.Category != nil && m.Category.Name == name
}

// Validate checks that exactly one pricing mode is populated and that every
// price is non-negative.
func (m *MenuItem) Validate() error {
	switch {
	case m.HasFlatPrice() && m.HasSizePrices():
		return fmt.Errorf("%w: item %d has both a flat price and size prices", ErrInvalidItem, m.ID)
	case !m.HasFlatPrice() && !m.HasSizePrices():
		return fmt.Errorf("%w: item %d has no price", ErrInvalidItem, m.ID)
	}

	if m.HasFlatPrice() {
		if m.Price.IsNegative() {
			return fmt.Errorf("%w: item %d has a negative price", ErrInvalidItem, m.ID)
		}
		return nil
	}

	for size, price := range m.PizzaPrices {
		if !size.Valid() {
			return fmt.Errorf("%w: item %d has unknown size %s", ErrInvalidItem, m.ID, size)
		}
		if price.IsNegative() {
			return fmt.Errorf("%w: item %d has a negative price for %s", ErrInvalidItem, m.ID, size)
		}
	}
	for _, size := range PizzaSizes {
		if _, ok := m.PizzaPrices[size]; !ok {
			return fmt.Errorf("%w: item %d is missing a price for %s", ErrInvalidItem, m.ID, size)
		}
	}
	return nil
}

// Matches reports whether the lowercased query occurs in the item's name or description.
func (m *MenuItem) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(m.Name), q) ||
		strings.Contains(strings.ToLower(m.Description), q)
}
