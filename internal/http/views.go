package http

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/cart"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/catalog"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/pricing"
)

// Response DTOs. Money leaves the service as a fixed two-decimal string.

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type MenuItemDTO struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Price       *string           `json:"price,omitempty"`
	PizzaPrices map[string]string `json:"pizza_prices,omitempty"`
	CategoryID  int64             `json:"category_id"`
	Category    string            `json:"category,omitempty"`
	ImageURL    string            `json:"image_url,omitempty"`
}

type MenuGroupDTO struct {
	Category string        `json:"category"`
	Items    []MenuItemDTO `json:"items"`
}

type CartLineDTO struct {
	ID             string `json:"id"`
	MenuItemID     int64  `json:"menu_item_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPrice      string `json:"unit_price"`
	LineTotal      string `json:"line_total"`
	Size           string `json:"size,omitempty"`
	StuffedCrust   bool   `json:"stuffed_crust"`
	SaltAndVinegar bool   `json:"salt_and_vinegar"`
}

type CartDTO struct {
	SessionID string        `json:"session_id"`
	Lines     []CartLineDTO `json:"lines"`
	ItemCount int           `json:"item_count"`
	Subtotal  string        `json:"subtotal"`
	FreeGift  bool          `json:"free_gift"`
}

type QuoteDTO struct {
	OrderType          domain.OrderType `json:"order_type"`
	Distance           int              `json:"distance"`
	Subtotal           string           `json:"subtotal"`
	DeliveryCharge     string           `json:"delivery_charge"`
	Total              string           `json:"total"`
	FreeGift           bool             `json:"free_gift"`
	DeliveryMinimum    string           `json:"delivery_minimum"`
	DeliveryMinimumMet bool             `json:"delivery_minimum_met"`
}

type OrderLineDTO struct {
	MenuItemID     int64  `json:"menu_item_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPrice      string `json:"unit_price"`
	LineTotal      string `json:"line_total"`
	Size           string `json:"size,omitempty"`
	StuffedCrust   bool   `json:"stuffed_crust"`
	SaltAndVinegar bool   `json:"salt_and_vinegar"`
}

type OrderDTO struct {
	ID             int64                `json:"id"`
	OrderUID       string               `json:"order_uid"`
	CreatedAt      time.Time            `json:"created_at"`
	Customer       domain.Customer      `json:"customer"`
	Items          []OrderLineDTO       `json:"items"`
	Subtotal       string               `json:"subtotal"`
	DeliveryCharge string               `json:"delivery_charge"`
	Total          string               `json:"total"`
	OrderType      domain.OrderType     `json:"order_type"`
	PaymentMethod  domain.PaymentMethod `json:"payment_method"`
	Status         domain.OrderStatus   `json:"status"`
}

func toMenuItemDTO(item domain.MenuItem) MenuItemDTO {
	dto := MenuItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		CategoryID:  item.CategoryID,
		ImageURL:    item.ImageURL,
	}
	if item.Category != nil {
		dto.Category = item.Category.Name
	}
	if item.HasFlatPrice() {
		p := money(*item.Price)
		dto.Price = &p
	}
	if item.HasSizePrices() {
		dto.PizzaPrices = make(map[string]string, len(item.PizzaPrices))
		for size, price := range item.PizzaPrices {
			dto.PizzaPrices[size.String()] = money(price)
		}
	}
	return dto
}

func toMenuGroupsDTO(groups []catalog.Group) []MenuGroupDTO {
	out := make([]MenuGroupDTO, 0, len(groups))
	for _, g := range groups {
		items := make([]MenuItemDTO, 0, len(g.Items))
		for _, item := range g.Items {
			items = append(items, toMenuItemDTO(item))
		}
		out = append(out, MenuGroupDTO{Category: g.Category, Items: items})
	}
	return out
}

func sizeLabel(s *domain.PizzaSize) string {
	if s == nil {
		return ""
	}
	return s.String()
}

func toCartDTO(c *domain.Cart) CartDTO {
	lines := make([]CartLineDTO, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, CartLineDTO{
			ID:             l.ID,
			MenuItemID:     l.MenuItemID,
			Name:           l.Name,
			Quantity:       l.Quantity,
			UnitPrice:      money(l.UnitPrice),
			LineTotal:      money(l.LineTotal()),
			Size:           sizeLabel(l.Customizations.Size),
			StuffedCrust:   l.Customizations.StuffedCrust,
			SaltAndVinegar: l.Customizations.SaltAndVinegar,
		})
	}
	subtotal := pricing.CartSubtotal(c.Lines)
	return CartDTO{
		SessionID: c.SessionID,
		Lines:     lines,
		ItemCount: cart.ItemCount(c),
		Subtotal:  money(subtotal),
		FreeGift:  pricing.FreeGiftEligible(subtotal),
	}
}

func toQuoteDTO(q pricing.Quote, orderType domain.OrderType, distance int) QuoteDTO {
	return QuoteDTO{
		OrderType:          orderType,
		Distance:           distance,
		Subtotal:           money(q.Subtotal),
		DeliveryCharge:     money(q.DeliveryCharge),
		Total:              money(q.Total),
		FreeGift:           q.FreeGift,
		DeliveryMinimum:    money(pricing.DeliveryMinimum),
		DeliveryMinimumMet: q.DeliveryMinimumMet,
	}
}

func toOrderDTO(o *domain.Order) OrderDTO {
	items := make([]OrderLineDTO, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, OrderLineDTO{
			MenuItemID:     l.MenuItemID,
			Name:           l.MenuItemName,
			Quantity:       l.Quantity,
			UnitPrice:      money(l.UnitPrice),
			LineTotal:      money(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))),
			Size:           sizeLabel(l.Customizations.Size),
			StuffedCrust:   l.Customizations.StuffedCrust,
			SaltAndVinegar: l.Customizations.SaltAndVinegar,
		})
	}
	return OrderDTO{
		ID:             o.ID,
		OrderUID:       o.OrderUID,
		CreatedAt:      o.CreatedAt,
		Customer:       o.Customer,
		Items:          items,
		Subtotal:       money(o.Subtotal),
		DeliveryCharge: money(o.DeliveryCharge),
		Total:          money(o.Total),
		OrderType:      o.OrderType,
		PaymentMethod:  o.PaymentMethod,
		Status:         o.Status,
	}
}
