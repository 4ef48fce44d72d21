package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/cart"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/pricing"
)

const maxLineQuantity = 99

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddSelection(ctx context.Context, sessionID string, sel cart.Selection) (*domain.Cart, error)
	SetQuantity(ctx context.Context, sessionID, lineID string, n int) (*domain.Cart, error)
	Remove(ctx context.Context, sessionID, lineID string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
}

func NewCartHandler(carts CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	MenuItemID     int64  `json:"menu_item_id"`
	Quantity       int    `json:"quantity"`
	Size           string `json:"size,omitempty"`
	StuffedCrust   bool   `json:"stuffed_crust"`
	SaltAndVinegar bool   `json:"salt_and_vinegar"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.carts.GetCart(ctx, getSessionID(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(c))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.MenuItemID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_menu_item_id", "menu_item_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	sel := cart.Selection{
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		Customizations: domain.Customization{
			StuffedCrust:   req.StuffedCrust,
			SaltAndVinegar: req.SaltAndVinegar,
		},
	}
	if req.Size != "" {
		size := domain.PizzaSize(req.Size)
		if !size.Valid() {
			respondError(w, http.StatusBadRequest, "invalid_size", `size must be one of 10", 12" or 14"`)
			return
		}
		sel.Customizations.Size = &size
	}

	c, err := h.carts.AddSelection(ctx, getSessionID(r.Context()), sel)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCartDTO(c))
}

// PUT /api/v1/cart/items/{line_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	lineID := chi.URLParam(r, "line_id")
	if lineID == "" {
		respondError(w, http.StatusBadRequest, "invalid_line_id", "line_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	// Zero or less removes the line.
	if req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	c, err := h.carts.SetQuantity(ctx, getSessionID(r.Context()), lineID, req.Quantity)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(c))
}

// DELETE /api/v1/cart/items/{line_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.carts.Remove(ctx, getSessionID(r.Context()), chi.URLParam(r, "line_id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(c))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if err := h.carts.Clear(ctx, sessionID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(&domain.Cart{SessionID: sessionID}))
}

// GET /api/v1/cart/quote?order_type=&distance=
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderType := domain.OrderType(r.URL.Query().Get("order_type"))
	if orderType == "" {
		orderType = domain.OrderTypeCollection
	}
	if !orderType.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_order_type", "order_type must be collection or delivery")
		return
	}

	distance := 0
	if raw := r.URL.Query().Get("distance"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || !pricing.ValidDistance(d) {
			respondError(w, http.StatusBadRequest, "invalid_distance", "distance must be between 0 and 5 miles")
			return
		}
		distance = d
	}

	c, err := h.carts.GetCart(ctx, getSessionID(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toQuoteDTO(pricing.NewQuote(c.Lines, orderType, distance), orderType, distance))
}
