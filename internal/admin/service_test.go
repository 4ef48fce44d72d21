package admin

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/catalog"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/notify"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/store"
)

type mockStore struct {
	m          sync.RWMutex
	statuses   map[int64]domain.OrderStatus
	items      []domain.MenuItem
	categories []domain.Category
	settings   domain.Settings
	err        error
	nextID     int64
}

func (m *mockStore) UpdateOrderStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.statuses[id]; !ok {
		return store.ErrNotFound
	}
	m.statuses[id] = status
	return nil
}

func (m *mockStore) UpsertMenuItem(_ context.Context, item *domain.MenuItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if item.ID == 0 {
		m.nextID++
		item.ID = 100 + m.nextID
	}
	m.items = append(m.items, *item)
	return nil
}

func (m *mockStore) DeleteMenuItem(context.Context, int64) error {
	return m.err
}

func (m *mockStore) InsertCategory(_ context.Context, name string) (*domain.Category, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	c := domain.Category{ID: m.nextID, Name: name}
	m.categories = append(m.categories, c)
	return &c, nil
}

func (m *mockStore) DeleteCategory(context.Context, int64) error {
	return m.err
}

func (m *mockStore) UpdateSettings(_ context.Context, s domain.Settings) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.settings = s
	return nil
}

type mockCatalog struct {
	m           sync.RWMutex
	menu        *catalog.Menu
	invalidated int
}

func (c *mockCatalog) Menu(context.Context) (*catalog.Menu, error) {
	return c.menu, nil
}

func (c *mockCatalog) Invalidate(context.Context) {
	c.m.Lock()
	defer c.m.Unlock()
	c.invalidated++
}

func (c *mockCatalog) invalidations() int {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.invalidated
}

type mockPublisher struct {
	m      sync.RWMutex
	events []notify.Event
}

func (p *mockPublisher) Publish(_ context.Context, e notify.Event) error {
	p.m.Lock()
	defer p.m.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *mockPublisher) Close() error { return nil }

type countingBoard struct{ n int }

func (b *countingBoard) Refresh(context.Context) error {
	b.n++
	return nil
}

func fixture() (*Service, *mockStore, *mockCatalog, *mockPublisher, *countingBoard) {
	cod := decimal.RequireFromString("8.50")
	st := &mockStore{statuses: map[int64]domain.OrderStatus{1: domain.OrderStatusNew}}
	cat := &mockCatalog{menu: &catalog.Menu{
		Categories: []domain.Category{{ID: 1, Name: domain.CategoryFishAndChips}, {ID: 2, Name: domain.CategoryPizzas}, {ID: 3, Name: "Drinks"}},
		Items:      []domain.MenuItem{{ID: 10, Name: "Cod & Chips", Price: &cod, CategoryID: 1}},
	}}
	pub := &mockPublisher{}
	board := &countingBoard{}
	return NewService(st, cat, pub, board), st, cat, pub, board
}

func TestUpdateOrderStatus_AnyToAny(t *testing.T) {
	svc, st, _, pub, board := fixture()
	ctx := context.Background()

	for _, status := range []domain.OrderStatus{
		domain.OrderStatusCompleted, domain.OrderStatusNew, domain.OrderStatusCancelled, domain.OrderStatusPreparing,
	} {
		require.NoError(t, svc.UpdateOrderStatus(ctx, 1, status))
		assert.Equal(t, status, st.statuses[1])
	}

	require.Len(t, pub.events, 4)
	assert.Equal(t, notify.EventOrderUpdated, pub.events[0].Type)
	assert.Equal(t, int64(1), pub.events[0].OrderID)
	assert.Equal(t, 4, board.n)
}

func TestUpdateOrderStatus_Rejects(t *testing.T) {
	svc, _, _, pub, _ := fixture()

	err := svc.UpdateOrderStatus(context.Background(), 1, "Eaten")
	assert.True(t, domain.IsValidationError(err))

	err = svc.UpdateOrderStatus(context.Background(), 42, domain.OrderStatusCompleted)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, pub.events)
}

func TestSaveMenuItem(t *testing.T) {
	svc, st, cat, _, _ := fixture()
	price := decimal.RequireFromString("1.20")

	saved, err := svc.SaveMenuItem(context.Background(), domain.MenuItem{Name: "  Cola ", Price: &price, CategoryID: 3})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "Cola", saved.Name)
	require.NotNil(t, saved.Category)
	assert.Equal(t, "Drinks", saved.Category.Name)
	assert.Nil(t, st.items[0].Category, "category is never persisted")
	assert.Equal(t, 1, cat.invalidations())
}

func TestSaveMenuItem_Validation(t *testing.T) {
	svc, st, cat, _, _ := fixture()
	price := decimal.RequireFromString("9.00")
	ctx := context.Background()

	_, err := svc.SaveMenuItem(ctx, domain.MenuItem{Name: " ", Price: &price, CategoryID: 3})
	assert.True(t, domain.IsValidationError(err))

	_, err = svc.SaveMenuItem(ctx, domain.MenuItem{Name: "Pie", Price: &price, CategoryID: 77})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = svc.SaveMenuItem(ctx, domain.MenuItem{Name: "Hawaiian", Price: &price, CategoryID: 2})
	assert.True(t, domain.IsValidationError(err), "pizza needs size prices")

	_, err = svc.SaveMenuItem(ctx, domain.MenuItem{Name: "Hawaiian", CategoryID: 2, PizzaPrices: domain.PizzaPrices{
		domain.PizzaSize10: decimal.NewFromInt(8),
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidItem, "missing sizes")

	_, err = svc.SaveMenuItem(ctx, domain.MenuItem{Name: "Both", Price: &price, CategoryID: 3, PizzaPrices: domain.PizzaPrices{
		domain.PizzaSize10: decimal.NewFromInt(8), domain.PizzaSize12: decimal.NewFromInt(9), domain.PizzaSize14: decimal.NewFromInt(10),
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)

	assert.Empty(t, st.items)
	assert.Equal(t, 0, cat.invalidations())
}

func TestCategories(t *testing.T) {
	svc, _, cat, _, _ := fixture()
	ctx := context.Background()

	c, err := svc.AddCategory(ctx, "  Desserts  ")
	require.NoError(t, err)
	assert.Equal(t, "Desserts", c.Name)

	_, err = svc.AddCategory(ctx, "   ")
	assert.True(t, domain.IsValidationError(err))

	err = svc.DeleteCategory(ctx, 1)
	assert.ErrorIs(t, err, store.ErrCategoryInUse)

	require.NoError(t, svc.DeleteCategory(ctx, 3))
	assert.Equal(t, 2, cat.invalidations())
}

func TestSaveSettingsAndDeleteItem(t *testing.T) {
	svc, st, cat, _, _ := fixture()
	ctx := context.Background()

	settings := domain.Settings{ContactInfo: domain.ContactInfo{Phone: "01568"}, OpeningHours: map[string]string{"Friday": "11-22"}}
	require.NoError(t, svc.SaveSettings(ctx, settings))
	assert.Equal(t, settings, st.settings)

	require.NoError(t, svc.DeleteMenuItem(ctx, 10))
	assert.Equal(t, 2, cat.invalidations())

	st.err = errors.New("db down")
	require.ErrorContains(t, svc.DeleteMenuItem(ctx, 10), "db down")
	assert.Equal(t, 2, cat.invalidations())
}
