package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/notify"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/store"
)

type mockStore struct {
	m sync.RWMutex

	customers map[string]string // email -> id
	orders    map[int64]*domain.Order
	items     map[int64][]domain.OrderLine
	nextID    int64

	findErr        error
	createCustErr  error
	createOrderErr error
	itemsErr       error
	deleteErr      error

	customersCreated int
	deleted          []int64
}

func newMockStore() *mockStore {
	return &mockStore{
		customers: map[string]string{},
		orders:    map[int64]*domain.Order{},
		items:     map[int64][]domain.OrderLine{},
	}
}

func (m *mockStore) FindCustomerByEmail(_ context.Context, email string) (*domain.Customer, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	id, ok := m.customers[email]
	if !ok {
		return nil, fmt.Errorf("customer %s: %w", email, store.ErrNotFound)
	}
	return &domain.Customer{ID: &id, Email: email, Name: "Stored Name"}, nil
}

func (m *mockStore) CreateCustomer(_ context.Context, c domain.Customer) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createCustErr != nil {
		return "", m.createCustErr
	}
	m.customersCreated++
	id := fmt.Sprintf("cust-%d", m.customersCreated)
	m.customers[c.Email] = id
	return id, nil
}

func (m *mockStore) CreateOrder(_ context.Context, order *domain.Order, _ string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createOrderErr != nil {
		return m.createOrderErr
	}
	m.nextID++
	order.ID = m.nextID
	order.OrderUID = fmt.Sprintf("LFB-%04d", m.nextID)
	stored := *order
	m.orders[order.ID] = &stored
	return nil
}

func (m *mockStore) CreateOrderItems(_ context.Context, orderID int64, lines []domain.OrderLine) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.itemsErr != nil {
		return m.itemsErr
	}
	m.items[orderID] = append(m.items[orderID], lines...)
	return nil
}

func (m *mockStore) DeleteOrder(_ context.Context, orderID int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deleted = append(m.deleted, orderID)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.orders, orderID)
	delete(m.items, orderID)
	return nil
}

func (m *mockStore) orderCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.orders)
}

type mockPublisher struct {
	m      sync.RWMutex
	events []notify.Event
	err    error
}

func (p *mockPublisher) Publish(_ context.Context, e notify.Event) error {
	p.m.Lock()
	defer p.m.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) published() []notify.Event {
	p.m.RLock()
	defer p.m.RUnlock()
	return append([]notify.Event(nil), p.events...)
}

type mockBoard struct {
	m         sync.RWMutex
	refreshes int
}

func (b *mockBoard) Refresh(context.Context) error {
	b.m.Lock()
	defer b.m.Unlock()
	b.refreshes++
	return nil
}

func (b *mockBoard) count() int {
	b.m.RLock()
	defer b.m.RUnlock()
	return b.refreshes
}

type mockCartStore struct {
	m       sync.RWMutex
	cleared []string
}

func (c *mockCartStore) Clear(_ context.Context, sessionID string) error {
	c.m.Lock()
	defer c.m.Unlock()
	c.cleared = append(c.cleared, sessionID)
	return nil
}

func (c *mockCartStore) sessions() []string {
	c.m.RLock()
	defer c.m.RUnlock()
	return append([]string(nil), c.cleared...)
}
