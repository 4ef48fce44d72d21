package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "expected %s, got %s", want, got)
}

func pizza() *domain.MenuItem {
	return &domain.MenuItem{
		ID:   7,
		Name: "Margherita",
		PizzaPrices: domain.PizzaPrices{
			domain.PizzaSize10: dec("8.00"),
			domain.PizzaSize12: dec("10.50"),
			domain.PizzaSize14: dec("12.50"),
		},
	}
}

func flat(price string) *domain.MenuItem {
	p := dec(price)
	return &domain.MenuItem{ID: 3, Name: "Cod and Chips", Price: &p}
}

func size(s domain.PizzaSize) *domain.PizzaSize {
	return &s
}

func TestUnitPrice_FlatPrice(t *testing.T) {
	got, err := UnitPrice(flat("6.20"), domain.Customization{})
	require.NoError(t, err)
	assertMoney(t, "6.20", got)
}

func TestUnitPrice_FlatPriceWithStuffedCrust(t *testing.T) {
	got, err := UnitPrice(flat("6.20"), domain.Customization{StuffedCrust: true})
	require.NoError(t, err)
	assertMoney(t, "9.20", got)
}

func TestUnitPrice_SaltAndVinegarIsFree(t *testing.T) {
	got, err := UnitPrice(flat("6.20"), domain.Customization{SaltAndVinegar: true})
	require.NoError(t, err)
	assertMoney(t, "6.20", got)
}

func TestUnitPrice_PizzaSizes(t *testing.T) {
	cases := []struct {
		size    domain.PizzaSize
		stuffed bool
		want    string
	}{
		{domain.PizzaSize10, false, "8.00"},
		{domain.PizzaSize10, true, "11.00"},
		{domain.PizzaSize12, false, "10.50"},
		{domain.PizzaSize14, true, "15.50"},
	}
	for _, tc := range cases {
		got, err := UnitPrice(pizza(), domain.Customization{Size: size(tc.size), StuffedCrust: tc.stuffed})
		require.NoError(t, err)
		assertMoney(t, tc.want, got)
	}
}

func TestUnitPrice_MissingSize(t *testing.T) {
	_, err := UnitPrice(pizza(), domain.Customization{})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestUnitPrice_SizeAbsentFromTable(t *testing.T) {
	item := pizza()
	delete(item.PizzaPrices, domain.PizzaSize14)

	_, err := UnitPrice(item, domain.Customization{Size: size(domain.PizzaSize14)})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestUnitPrice_NoPricingMode(t *testing.T) {
	_, err := UnitPrice(&domain.MenuItem{ID: 1}, domain.Customization{})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestUnitPrice_BothPricingModes(t *testing.T) {
	item := pizza()
	p := dec("5")
	item.Price = &p

	_, err := UnitPrice(item, domain.Customization{Size: size(domain.PizzaSize10)})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestUnitPrice_NilItem(t *testing.T) {
	_, err := UnitPrice(nil, domain.Customization{})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestUnitPrice_IsPure(t *testing.T) {
	item := pizza()
	c := domain.Customization{Size: size(domain.PizzaSize12), StuffedCrust: true}

	first, err := UnitPrice(item, c)
	require.NoError(t, err)
	second, err := UnitPrice(item, c)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assertMoney(t, "10.50", item.PizzaPrices[domain.PizzaSize12])
}

func TestCartSubtotal_Empty(t *testing.T) {
	assertMoney(t, "0", CartSubtotal(nil))
}

func TestCartSubtotal_NoDriftAcrossManySmallLines(t *testing.T) {
	lines := make([]domain.CartLine, 0, 100)
	for i := 0; i < 100; i++ {
		lines = append(lines, domain.CartLine{Quantity: 3, UnitPrice: dec("0.10")})
	}
	assertMoney(t, "30.00", CartSubtotal(lines))
}

func TestDeliveryCharge_Tiers(t *testing.T) {
	cases := map[int]string{
		0:  "0",
		1:  "0",
		2:  "1.00",
		3:  "2.00",
		4:  "3.00",
		5:  "4.00",
		6:  "4.00",
		12: "4.00",
	}
	for distance, want := range cases {
		assertMoney(t, want, DeliveryCharge(domain.OrderTypeDelivery, distance))
	}
}

func TestDeliveryCharge_CollectionIsAlwaysFree(t *testing.T) {
	for d := 0; d <= 8; d++ {
		assertMoney(t, "0", DeliveryCharge(domain.OrderTypeCollection, d))
	}
}

func TestFreeGiftEligible_Boundary(t *testing.T) {
	assert.False(t, FreeGiftEligible(dec("0")))
	assert.False(t, FreeGiftEligible(dec("39.99")))
	assert.False(t, FreeGiftEligible(dec("40.00")))
	assert.True(t, FreeGiftEligible(dec("40.01")))
	assert.True(t, FreeGiftEligible(dec("45.00")))
}

func TestDeliveryMinimumMet(t *testing.T) {
	assert.False(t, DeliveryMinimumMet(domain.OrderTypeDelivery, dec("15.00")))
	assert.False(t, DeliveryMinimumMet(domain.OrderTypeDelivery, dec("16.99")))
	assert.True(t, DeliveryMinimumMet(domain.OrderTypeDelivery, dec("17.00")))
	assert.True(t, DeliveryMinimumMet(domain.OrderTypeCollection, dec("0")))
}

func TestQuote_StuffedCrustPizzaForCollection(t *testing.T) {
	unit, err := UnitPrice(pizza(), domain.Customization{Size: size(domain.PizzaSize10), StuffedCrust: true})
	require.NoError(t, err)
	assertMoney(t, "11.00", unit)

	q := NewQuote([]domain.CartLine{{Quantity: 1, UnitPrice: unit}}, domain.OrderTypeCollection, 0)
	assertMoney(t, "11.00", q.Subtotal)
	assertMoney(t, "0", q.DeliveryCharge)
	assertMoney(t, "11.00", q.Total)
	assert.False(t, q.FreeGift)
	assert.True(t, q.DeliveryMinimumMet)
}

func TestQuote_DeliveryWithFreeGift(t *testing.T) {
	lines := []domain.CartLine{
		{Quantity: 3, UnitPrice: dec("10.00")},
		{Quantity: 1, UnitPrice: dec("15.00")},
	}
	q := NewQuote(lines, domain.OrderTypeDelivery, 3)
	assertMoney(t, "45.00", q.Subtotal)
	assertMoney(t, "2.00", q.DeliveryCharge)
	assertMoney(t, "47.00", q.Total)
	assert.True(t, q.FreeGift)
}

func TestValidateCheckout_DeliveryBelowMinimum(t *testing.T) {
	err := ValidateCheckout(domain.OrderTypeDelivery, 2, dec("15.00"))
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.Contains(t, err.Error(), "17.00")
}

func TestValidateCheckout_DeliveryWithoutDistance(t *testing.T) {
	err := ValidateCheckout(domain.OrderTypeDelivery, 0, dec("30.00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distance")
}

func TestValidateCheckout_DistanceOutOfRange(t *testing.T) {
	err := ValidateCheckout(domain.OrderTypeDelivery, 9, dec("30.00"))
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestValidateCheckout_CollectionIgnoresDistance(t *testing.T) {
	assert.NoError(t, ValidateCheckout(domain.OrderTypeCollection, 0, dec("2.00")))
}

func TestValidateCheckout_UnknownOrderType(t *testing.T) {
	err := ValidateCheckout(domain.OrderType("drive-thru"), 0, dec("20"))
	assert.True(t, domain.IsValidationError(err))
}
