// Package checkout turns a session's cart into a persisted order through a
// short saga: resolve the customer, create the order, insert its lines. A
// failed line insert deletes the order it just created.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/notify"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/pricing"
)

const compensationTimeout = 5 * time.Second

type Store interface {
	FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, c domain.Customer) (string, error)
	CreateOrder(ctx context.Context, order *domain.Order, customerID string) error
	CreateOrderItems(ctx context.Context, orderID int64, lines []domain.OrderLine) error
	DeleteOrder(ctx context.Context, orderID int64) error
}

// Refresher re-pulls the admin order list.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// CartClearer schedules the delayed clear of a session's cart. It stands in
// for the order.placed consumer when the event cannot be published.
type CartClearer interface {
	ClearLater(ctx context.Context, sessionID string, orderID int64)
}

type Request struct {
	SessionID     string
	Customer      domain.Customer
	Lines         []domain.CartLine
	OrderType     domain.OrderType
	PaymentMethod domain.PaymentMethod
	DistanceMiles int
}

type Result struct {
	OK       bool
	State    State
	FailedAt State
	Reason   Reason
	Message  string
	Order    *domain.Order
	Quote    pricing.Quote
	Err      error
}

type Orchestrator struct {
	store     Store
	publisher notify.Publisher
	board     Refresher
	carts     CartClearer
	now       func() time.Time
}

// NewOrchestrator wires the saga. board may be nil when no order board runs
// in this process; carts may be nil when nothing but the event feed clears
// carts.
func NewOrchestrator(store Store, publisher notify.Publisher, board Refresher, carts CartClearer) *Orchestrator {
	return &Orchestrator{
		store:     store,
		publisher: publisher,
		board:     board,
		carts:     carts,
		now:       time.Now,
	}
}

type attempt struct {
	state State
	quote pricing.Quote
}

func (a *attempt) advance(ctx context.Context, to State) error {
	if !CanTransitionTo(a.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, a.state, to)
	}
	slog.DebugContext(ctx, "checkout state", "from", a.state, "to", to)
	a.state = to
	return nil
}

func (a *attempt) fail(ctx context.Context, reason Reason, err error) Result {
	failedAt := a.state
	a.state = StateFailed
	slog.WarnContext(ctx, "checkout failed", "state", failedAt, "reason", reason, "error", err)

	msg := reason.Message()
	var ve *domain.ValidationError
	if reason == ReasonValidation && errors.As(err, &ve) {
		msg = fmt.Sprintf("Please check your order: %s.", ve.Reason)
	}
	return Result{
		State:    StateFailed,
		FailedAt: failedAt,
		Reason:   reason,
		Message:  msg,
		Quote:    a.quote,
		Err:      err,
	}
}

// PlaceOrder runs one checkout attempt to completion. Each step runs once;
// nothing is retried. The result is never an error value: failures are
// reported through Result.Reason and Result.Message.
func (o *Orchestrator) PlaceOrder(ctx context.Context, req Request) Result {
	a := &attempt{state: StateIdle}
	a.quote = pricing.NewQuote(req.Lines, req.OrderType, req.DistanceMiles)

	if err := validate(req, a.quote); err != nil {
		return a.fail(ctx, ReasonValidation, err)
	}

	if err := a.advance(ctx, StateCustomerResolution); err != nil {
		return a.fail(ctx, ReasonInternal, err)
	}
	customer, reason, err := o.resolveCustomer(ctx, req.Customer)
	if err != nil {
		return a.fail(ctx, reason, err)
	}

	if err := a.advance(ctx, StateOrderCreation); err != nil {
		return a.fail(ctx, ReasonInternal, err)
	}
	order, err := o.createOrder(ctx, customer, req, a.quote)
	if err != nil {
		return a.fail(ctx, ReasonOrderCreate, err)
	}

	if err := a.advance(ctx, StateItemInsertion); err != nil {
		return a.fail(ctx, ReasonInternal, err)
	}
	if err := o.insertItems(ctx, order); err != nil {
		o.compensate(ctx, order.ID)
		return a.fail(ctx, ReasonItemInsert, err)
	}

	if err := a.advance(ctx, StateCompleted); err != nil {
		return a.fail(ctx, ReasonInternal, err)
	}
	slog.InfoContext(ctx, "order placed", "order_id", order.ID, "order_uid", order.OrderUID, "total", order.Total.StringFixed(2))
	o.announce(ctx, order, req.SessionID)

	return Result{OK: true, State: StateCompleted, Order: order, Quote: a.quote}
}

func validate(req Request, quote pricing.Quote) error {
	if len(req.Lines) == 0 {
		return domain.NewValidationError("cart", "your cart is empty")
	}
	for _, l := range req.Lines {
		if l.Quantity <= 0 {
			return domain.NewValidationError("cart", fmt.Sprintf("%s has no quantity", l.Name))
		}
	}
	if err := pricing.ValidateCheckout(req.OrderType, req.DistanceMiles, quote.Subtotal); err != nil {
		return err
	}
	if !req.PaymentMethod.Valid() {
		return domain.NewValidationError("payment_method", "payment method must be cash or card")
	}
	return req.Customer.Validate(req.OrderType)
}
