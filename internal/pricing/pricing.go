// Package pricing holds the pure price rules for menu selections and carts.
// All arithmetic is exact; rounding to pence happens only when values are
// rendered.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

var (
	StuffedCrustSurcharge = decimal.RequireFromString("3.00")
	FreeGiftThreshold     = decimal.RequireFromString("40.00")
	DeliveryMinimum       = decimal.RequireFromString("17.00")
	MaxDeliveryCharge     = decimal.RequireFromString("4.00")
)

const (
	FreeDeliveryMiles   = 1
	MaxDeliveryDistance = 5
)

// UnitPrice resolves the price of one unit of item with the given
// customization. The stuffed-crust surcharge applies to either pricing mode.
func UnitPrice(item *domain.MenuItem, c domain.Customization) (decimal.Decimal, error) {
	if item == nil {
		return decimal.Zero, fmt.Errorf("%w: no menu item", domain.ErrInvalidItem)
	}

	var price decimal.Decimal
	switch {
	case item.HasFlatPrice() && item.HasSizePrices():
		return decimal.Zero, fmt.Errorf("%w: item %d has two pricing modes", domain.ErrInvalidItem, item.ID)
	case item.HasFlatPrice():
		price = *item.Price
	case item.HasSizePrices():
		if c.Size == nil {
			return decimal.Zero, fmt.Errorf("%w: item %d needs a size", domain.ErrInvalidItem, item.ID)
		}
		sized, ok := item.PizzaPrices[*c.Size]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: item %d has no price for size %s", domain.ErrInvalidItem, item.ID, *c.Size)
		}
		price = sized
	default:
		return decimal.Zero, fmt.Errorf("%w: item %d has no price", domain.ErrInvalidItem, item.ID)
	}

	if c.StuffedCrust {
		price = price.Add(StuffedCrustSurcharge)
	}
	return price, nil
}

func CartSubtotal(lines []domain.CartLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	return subtotal
}

// DeliveryCharge is free up to one mile, one pound per mile beyond that, and
// capped at four pounds.
func DeliveryCharge(orderType domain.OrderType, distanceMiles int) decimal.Decimal {
	if orderType != domain.OrderTypeDelivery || distanceMiles <= FreeDeliveryMiles {
		return decimal.Zero
	}
	if distanceMiles <= MaxDeliveryDistance {
		return decimal.NewFromInt(int64(distanceMiles - FreeDeliveryMiles))
	}
	return MaxDeliveryCharge
}

func FreeGiftEligible(subtotal decimal.Decimal) bool {
	return subtotal.GreaterThan(FreeGiftThreshold)
}

func DeliveryMinimumMet(orderType domain.OrderType, subtotal decimal.Decimal) bool {
	if orderType != domain.OrderTypeDelivery {
		return true
	}
	return subtotal.GreaterThanOrEqual(DeliveryMinimum)
}

// ValidDistance reports whether d is one of the selectable distances. Zero
// means "not selected yet".
func ValidDistance(d int) bool {
	return d >= 0 && d <= MaxDeliveryDistance
}

type Quote struct {
	Subtotal           decimal.Decimal
	DeliveryCharge     decimal.Decimal
	Total              decimal.Decimal
	FreeGift           bool
	DeliveryMinimumMet bool
}

func NewQuote(lines []domain.CartLine, orderType domain.OrderType, distanceMiles int) Quote {
	subtotal := CartSubtotal(lines)
	delivery := DeliveryCharge(orderType, distanceMiles)
	return Quote{
		Subtotal:           subtotal,
		DeliveryCharge:     delivery,
		Total:              subtotal.Add(delivery),
		FreeGift:           FreeGiftEligible(subtotal),
		DeliveryMinimumMet: DeliveryMinimumMet(orderType, subtotal),
	}
}

// ValidateCheckout gates checkout progression. A delivery order needs a
// selected distance and the minimum subtotal.
func ValidateCheckout(orderType domain.OrderType, distanceMiles int, subtotal decimal.Decimal) error {
	if !orderType.Valid() {
		return domain.NewValidationError("order_type", "order type must be collection or delivery")
	}
	if orderType != domain.OrderTypeDelivery {
		return nil
	}
	if distanceMiles == 0 {
		return domain.NewValidationError("distance", "select a delivery distance")
	}
	if !ValidDistance(distanceMiles) {
		return domain.NewValidationError("distance", fmt.Sprintf("delivery distance must be between 1 and %d miles", MaxDeliveryDistance))
	}
	if !DeliveryMinimumMet(orderType, subtotal) {
		return domain.NewValidationError("subtotal", fmt.Sprintf("delivery orders need a subtotal of at least £%s", DeliveryMinimum.StringFixed(2)))
	}
	return nil
}
