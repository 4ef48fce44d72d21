package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/catalog"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

type MenuCatalog interface {
	Item(ctx context.Context, id int64) (*domain.MenuItem, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Search(ctx context.Context, query string) ([]domain.MenuItem, error)
	Settings(ctx context.Context) (*domain.Settings, error)
}

type MenuHandler struct {
	catalog MenuCatalog
	timeout time.Duration
}

func NewMenuHandler(catalog MenuCatalog, timeout time.Duration) *MenuHandler {
	return &MenuHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

// GET /api/v1/menu?q=
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.catalog.Search(ctx, r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toMenuGroupsDTO(catalog.Grouped(categories, items)))
}

// GET /api/v1/menu/items/{id}
func (h *MenuHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.catalog.Item(ctx, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toMenuItemDTO(*item))
}

// GET /api/v1/categories
func (h *MenuHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// GET /api/v1/settings
func (h *MenuHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	settings, err := h.catalog.Settings(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_"+name, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
