package checkout

import (
	"context"
	"errors"
	"log/slog"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/notify"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/pricing"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/store"
)

// resolveCustomer reuses the customer stored under the email, keeping the
// stored details as they are, or creates a new one.
func (o *Orchestrator) resolveCustomer(ctx context.Context, submitted domain.Customer) (domain.Customer, Reason, error) {
	existing, err := o.store.FindCustomerByEmail(ctx, submitted.Email)
	switch {
	case err == nil && existing.ID != nil:
		return *existing, ReasonNone, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return domain.Customer{}, ReasonCustomerLookup, err
	}

	id, err := o.store.CreateCustomer(ctx, submitted)
	if err != nil {
		return domain.Customer{}, ReasonCustomerCreate, err
	}
	customer := submitted
	customer.ID = &id
	return customer, ReasonNone, nil
}

func (o *Orchestrator) createOrder(ctx context.Context, customer domain.Customer, req Request, quote pricing.Quote) (*domain.Order, error) {
	order := &domain.Order{
		Customer:       customer,
		Lines:          freeze(req.Lines),
		Subtotal:       quote.Subtotal,
		DeliveryCharge: quote.DeliveryCharge,
		Total:          quote.Total,
		OrderType:      req.OrderType,
		PaymentMethod:  req.PaymentMethod,
		Status:         domain.OrderStatusNew,
	}
	if err := o.store.CreateOrder(ctx, order, *customer.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func (o *Orchestrator) insertItems(ctx context.Context, order *domain.Order) error {
	return o.store.CreateOrderItems(ctx, order.ID, order.Lines)
}

// compensate deletes an order whose lines could not be stored. Its own
// failure is logged and leaves an order without lines behind.
func (o *Orchestrator) compensate(ctx context.Context, orderID int64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()
	if err := o.store.DeleteOrder(ctx, orderID); err != nil {
		slog.ErrorContext(ctx, "compensating order delete failed", "order_id", orderID, "error", err)
	}
}

// announce tells other instances about the order and refreshes the local
// board. Neither failure affects the placed order.
func (o *Orchestrator) announce(ctx context.Context, order *domain.Order, sessionID string) {
	event := notify.Event{
		Type:       notify.EventOrderPlaced,
		Table:      notify.TableOrders,
		OrderID:    order.ID,
		SessionID:  sessionID,
		OccurredAt: o.now().UTC(),
	}
	published := false
	if o.publisher != nil {
		if err := o.publisher.Publish(ctx, event); err != nil {
			slog.ErrorContext(ctx, "publish order placed failed", "order_id", order.ID, "error", err)
		} else {
			published = true
		}
	}
	if !published && o.carts != nil && sessionID != "" {
		slog.WarnContext(ctx, "clearing cart locally", "order_id", order.ID)
		o.carts.ClearLater(context.WithoutCancel(ctx), sessionID, order.ID)
	}
	if o.board != nil {
		if err := o.board.Refresh(ctx); err != nil {
			slog.WarnContext(ctx, "order board refresh failed", "error", err)
		}
	}
}

func freeze(lines []domain.CartLine) []domain.OrderLine {
	frozen := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		frozen = append(frozen, domain.OrderLine{
			MenuItemID:     l.MenuItemID,
			MenuItemName:   l.Name,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			Customizations: l.Customizations,
		})
	}
	return frozen
}
