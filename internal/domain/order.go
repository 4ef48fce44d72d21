package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew                OrderStatus = "New"
	OrderStatusPreparing          OrderStatus = "Preparing"
	OrderStatusReadyForCollection OrderStatus = "Ready for Collection"
	OrderStatusOutForDelivery     OrderStatus = "Out for Delivery"
	OrderStatusCompleted          OrderStatus = "Completed"
	OrderStatusCancelled          OrderStatus = "Cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusPreparing,
	OrderStatusReadyForCollection,
	OrderStatusOutForDelivery,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Valid reports whether s is one of the six fixed statuses. Any status may
// follow any other; there is no transition graph.
func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

type OrderType string

const (
	OrderTypeCollection OrderType = "collection"
	OrderTypeDelivery   OrderType = "delivery"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeCollection || t == OrderTypeDelivery
}

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentMethodCash || p == PaymentMethodCard
}

type Customer struct {
	ID      *string `json:"id,omitempty"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email"`
}

// Validate checks the fields the checkout form requires. The address is only
// required for delivery orders.
func (c Customer) Validate(orderType OrderType) error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	if orderType == OrderTypeDelivery && strings.TrimSpace(c.Address) == "" {
		return NewValidationError("address", "address is required for delivery")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return NewValidationError("phone", "phone is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return NewValidationError("email", "email is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return NewValidationError("email", "email is not a valid address")
	}
	return nil
}

// OrderLine is a frozen copy of a cart line, decoupled from the live menu.
type OrderLine struct {
	MenuItemID     int64           `json:"menu_item_id"`
	MenuItemName   string          `json:"menu_item_name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Customizations Customization   `json:"customizations"`
}

type Order struct {
	ID             int64           `json:"id"`
	OrderUID       string          `json:"order_uid"`
	CreatedAt      time.Time       `json:"created_at"`
	Customer       Customer        `json:"customer"`
	Lines          []OrderLine     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Total          decimal.Decimal `json:"total"`
	OrderType      OrderType       `json:"order_type"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	Status         OrderStatus     `json:"status"`
}
