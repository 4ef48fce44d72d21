package http

import (
	"context"
	"net/http"
	"time"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/checkout"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

type CartReader interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req checkout.Request) checkout.Result
}

type CheckoutHandler struct {
	carts    CartReader
	checkout OrderPlacer
	timeout  time.Duration
}

func NewCheckoutHandler(carts CartReader, placer OrderPlacer, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		carts:    carts,
		checkout: placer,
		timeout:  timeout,
	}
}

type CustomerDTO struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type CheckoutRequestDTO struct {
	Customer      CustomerDTO `json:"customer"`
	OrderType     string      `json:"order_type"`
	PaymentMethod string      `json:"payment_method"`
	Distance      int         `json:"distance"`
}

type CheckoutResponseDTO struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Order   OrderDTO `json:"order"`
	Quote   QuoteDTO `json:"quote"`
}

var reasonCodes = map[checkout.Reason]string{
	checkout.ReasonValidation:     "invalid_argument",
	checkout.ReasonCustomerLookup: "customer_lookup_failed",
	checkout.ReasonCustomerCreate: "customer_create_failed",
	checkout.ReasonOrderCreate:    "order_create_failed",
	checkout.ReasonItemInsert:     "item_insert_failed",
	checkout.ReasonInternal:       "internal_error",
}

// POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sessionID := getSessionID(r.Context())
	c, err := h.carts.GetCart(ctx, sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	result := h.checkout.PlaceOrder(ctx, checkout.Request{
		SessionID: sessionID,
		Customer: domain.Customer{
			Name:    req.Customer.Name,
			Address: req.Customer.Address,
			Phone:   req.Customer.Phone,
			Email:   req.Customer.Email,
		},
		Lines:         c.Lines,
		OrderType:     domain.OrderType(req.OrderType),
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		DistanceMiles: req.Distance,
	})
	if !result.OK {
		status := http.StatusBadGateway
		if result.Reason == checkout.ReasonValidation {
			status = http.StatusUnprocessableEntity
		}
		respondJSON(w, status, ErrorResponse{
			Error:   result.Message,
			Code:    reasonCodes[result.Reason],
			Details: string(result.FailedAt),
		})
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		Status:  string(result.State),
		Message: "Thank you! Your order " + result.Order.OrderUID + " has been placed.",
		Order:   toOrderDTO(result.Order),
		Quote:   toQuoteDTO(result.Quote, result.Order.OrderType, req.Distance),
	})
}
