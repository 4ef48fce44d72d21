package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

type AdminService interface {
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
	SaveMenuItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) error
	AddCategory(ctx context.Context, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	SaveSettings(ctx context.Context, settings domain.Settings) error
}

type OrderBoard interface {
	Current(ctx context.Context) ([]domain.Order, error)
	LastRefreshed() time.Time
}

type AdminHandler struct {
	admin   AdminService
	board   OrderBoard
	timeout time.Duration
}

func NewAdminHandler(admin AdminService, board OrderBoard, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		admin:   admin,
		board:   board,
		timeout: timeout,
	}
}

type OrderListDTO struct {
	Orders        []OrderDTO `json:"orders"`
	LastRefreshed time.Time  `json:"last_refreshed"`
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

type MenuItemRequestDTO struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       *string           `json:"price"`
	PizzaPrices map[string]string `json:"pizza_prices"`
	CategoryID  int64             `json:"category_id"`
	ImageURL    string            `json:"image_url"`
}

type CategoryRequestDTO struct {
	Name string `json:"name"`
}

// GET /api/v1/admin/orders
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.board.Current(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}

	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderDTO(&orders[i]))
	}
	respondJSON(w, http.StatusOK, OrderListDTO{Orders: out, LastRefreshed: h.board.LastRefreshed()})
}

// PUT /api/v1/admin/orders/{id}/status
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := domain.OrderStatus(req.Status)
	if err := h.admin.UpdateOrderStatus(ctx, id, status); err != nil {
		handleError(w, r, err)
		return
	}
	h.audit(r, "order status updated", "order_id", id, "status", status)
	respondJSON(w, http.StatusOK, map[string]interface{}{"id": id, "status": status})
}

// PUT /api/v1/admin/menu/items
func (h *AdminHandler) SaveMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req MenuItemRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	item, err := req.toDomain()
	if err != nil {
		handleError(w, r, err)
		return
	}

	saved, err := h.admin.SaveMenuItem(ctx, item)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.audit(r, "menu item saved", "menu_item_id", saved.ID)
	respondJSON(w, http.StatusOK, toMenuItemDTO(*saved))
}

// DELETE /api/v1/admin/menu/items/{id}
func (h *AdminHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteMenuItem(ctx, id); err != nil {
		handleError(w, r, err)
		return
	}
	h.audit(r, "menu item deleted", "menu_item_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/admin/categories
func (h *AdminHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CategoryRequestDTO
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	category, err := h.admin.AddCategory(ctx, req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	h.audit(r, "category added", "category_id", category.ID)
	respondJSON(w, http.StatusCreated, category)
}

// DELETE /api/v1/admin/categories/{id}
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteCategory(ctx, id); err != nil {
		handleError(w, r, err)
		return
	}
	h.audit(r, "category deleted", "category_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/v1/admin/settings
func (h *AdminHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.Settings
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.admin.SaveSettings(ctx, req); err != nil {
		handleError(w, r, err)
		return
	}
	h.audit(r, "settings saved")
	respondJSON(w, http.StatusOK, req)
}

func (h *AdminHandler) audit(r *http.Request, action string, args ...any) {
	args = append([]any{"action", action}, args...)
	if op := getOperator(r.Context()); op != nil {
		args = append(args, "operator", op.Email)
	}
	args = append(args, "request_id", getRequestID(r.Context()))
	slog.InfoContext(r.Context(), "admin action", args...)
}

func (req MenuItemRequestDTO) toDomain() (domain.MenuItem, error) {
	item := domain.MenuItem{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	}
	if req.Price != nil {
		p, err := decimal.NewFromString(*req.Price)
		if err != nil {
			return item, domain.NewValidationError("price", "price must be a decimal amount")
		}
		item.Price = &p
	}
	if len(req.PizzaPrices) > 0 {
		item.PizzaPrices = make(domain.PizzaPrices, len(req.PizzaPrices))
		for size, raw := range req.PizzaPrices {
			p, err := decimal.NewFromString(raw)
			if err != nil {
				return item, domain.NewValidationError("pizza_prices", "price for "+size+" must be a decimal amount")
			}
			item.PizzaPrices[domain.PizzaSize(size)] = p
		}
	}
	return item, nil
}
