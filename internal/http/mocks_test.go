package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/auth"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/cart"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/catalog"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/checkout"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
)

// --- Catalog ---

type mockCatalog struct {
	categories []domain.Category
	items      []domain.MenuItem
	settings   *domain.Settings
	err        error
}

func (m *mockCatalog) Item(ctx context.Context, id int64) (*domain.MenuItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, item := range m.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, catalog.ErrItemNotFound
}

func (m *mockCatalog) Categories(ctx context.Context) ([]domain.Category, error) {
	return m.categories, m.err
}

func (m *mockCatalog) Search(ctx context.Context, query string) ([]domain.MenuItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.MenuItem
	for _, item := range m.items {
		if item.Matches(query) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockCatalog) Settings(ctx context.Context) (*domain.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings == nil {
		return nil, catalog.ErrSettingsMissing
	}
	return m.settings, nil
}

// --- Cart ---

type mockCarts struct {
	mu      sync.RWMutex
	carts   map[string]*domain.Cart
	menu    *mockCatalog
	err     error
	cleared []string
}

func newMockCarts(menu *mockCatalog) *mockCarts {
	return &mockCarts{carts: make(map[string]*domain.Cart), menu: menu}
}

func (m *mockCarts) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if c, ok := m.carts[sessionID]; ok {
		return c, nil
	}
	return &domain.Cart{SessionID: sessionID, Lines: []domain.CartLine{}}, nil
}

func (m *mockCarts) AddSelection(ctx context.Context, sessionID string, sel cart.Selection) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	item, err := m.menu.Item(ctx, sel.MenuItemID)
	if err != nil {
		return nil, err
	}
	c, ok := m.carts[sessionID]
	if !ok {
		c = &domain.Cart{SessionID: sessionID}
		m.carts[sessionID] = c
	}
	line := domain.CartLine{
		ID:             cart.IdentityOf(item.ID, sel.Customizations),
		MenuItemID:     item.ID,
		Name:           item.Name,
		Quantity:       sel.Quantity,
		UnitPrice:      *item.Price,
		Customizations: sel.Customizations,
	}
	return c, cart.Add(c, line)
}

func (m *mockCarts) SetQuantity(ctx context.Context, sessionID, lineID string, n int) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[sessionID]
	if !ok || !cart.SetQuantity(c, lineID, n) {
		return nil, cart.ErrLineNotFound
	}
	return c, nil
}

func (m *mockCarts) Remove(ctx context.Context, sessionID, lineID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[sessionID]
	if !ok {
		return &domain.Cart{SessionID: sessionID}, nil
	}
	cart.Remove(c, lineID)
	return c, nil
}

func (m *mockCarts) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	m.cleared = append(m.cleared, sessionID)
	return nil
}

func (m *mockCarts) put(c *domain.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[c.SessionID] = c
}

// --- Checkout ---

type mockPlacer struct {
	mu       sync.RWMutex
	result   checkout.Result
	requests []checkout.Request
}

func (m *mockPlacer) PlaceOrder(ctx context.Context, req checkout.Request) checkout.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return m.result
}

// --- Auth ---

type mockAuth struct {
	token string
	user  auth.User
	err   error
}

func (m *mockAuth) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	if password != "secret" {
		return nil, auth.ErrInvalidCredentials
	}
	return &auth.Session{AccessToken: m.token, TokenType: "bearer", ExpiresIn: 3600, User: m.user}, nil
}

func (m *mockAuth) SignOut(ctx context.Context, accessToken string) error {
	return m.err
}

func (m *mockAuth) User(ctx context.Context, accessToken string) (*auth.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if accessToken != m.token {
		return nil, auth.ErrUnauthorized
	}
	u := m.user
	return &u, nil
}

// --- Admin ---

type mockAdmin struct {
	mu       sync.RWMutex
	err      error
	statuses map[int64]domain.OrderStatus
	saved    []domain.MenuItem
	settings *domain.Settings
}

func (m *mockAdmin) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !status.Valid() {
		return domain.NewValidationError("status", "unknown order status")
	}
	if m.err != nil {
		return m.err
	}
	if m.statuses == nil {
		m.statuses = make(map[int64]domain.OrderStatus)
	}
	m.statuses[orderID] = status
	return nil
}

func (m *mockAdmin) SaveMenuItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if item.ID == 0 {
		item.ID = int64(len(m.saved) + 100)
	}
	m.saved = append(m.saved, item)
	return &item, nil
}

func (m *mockAdmin) DeleteMenuItem(ctx context.Context, id int64) error {
	return m.err
}

func (m *mockAdmin) AddCategory(ctx context.Context, name string) (*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Category{ID: 9, Name: name}, nil
}

func (m *mockAdmin) DeleteCategory(ctx context.Context, id int64) error {
	return m.err
}

func (m *mockAdmin) SaveSettings(ctx context.Context, settings domain.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &settings
	return m.err
}

type mockBoard struct {
	orders []domain.Order
	at     time.Time
	err    error
}

func (m *mockBoard) Current(ctx context.Context) ([]domain.Order, error) {
	return m.orders, m.err
}

func (m *mockBoard) LastRefreshed() time.Time {
	return m.at
}

// --- helpers ---

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testMenu() *mockCatalog {
	pizzas := domain.Category{ID: 1, Name: domain.CategoryPizzas}
	fish := domain.Category{ID: 2, Name: domain.CategoryFishAndChips}
	return &mockCatalog{
		categories: []domain.Category{pizzas, fish},
		items: []domain.MenuItem{
			{ID: 1, Name: "Cod and Chips", Description: "Battered cod", Price: price("8.50"), CategoryID: 2, Category: &fish},
			{ID: 2, Name: "Margherita", PizzaPrices: domain.PizzaPrices{
				domain.PizzaSize10: decimal.RequireFromString("8"),
				domain.PizzaSize12: decimal.RequireFromString("10"),
				domain.PizzaSize14: decimal.RequireFromString("12"),
			}, CategoryID: 1, Category: &pizzas},
			{ID: 3, Name: "Haddock and Chips", Price: price("9.25"), CategoryID: 2, Category: &fish},
		},
		settings: &domain.Settings{
			ContactInfo:  domain.ContactInfo{Phone: "01568 000000"},
			OpeningHours: map[string]string{"Monday": "Closed"},
		},
	}
}

func withSession(r *http.Request, sessionID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionIDKey, sessionID))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
