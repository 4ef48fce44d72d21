package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customization holds the variant attributes a customer picked for one line.
type Customization struct {
	Size           *PizzaSize `json:"size,omitempty"`
	StuffedCrust   bool       `json:"stuffed_crust,omitempty"`
	SaltAndVinegar bool       `json:"salt_and_vinegar,omitempty"`
}

type CartLine struct {
	ID             string          `json:"id"`
	MenuItemID     int64           `json:"menu_item_id"`
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Customizations Customization   `json:"customizations"`
	AddedAt        time.Time       `json:"added_at"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	SessionID string     `json:"session_id"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
