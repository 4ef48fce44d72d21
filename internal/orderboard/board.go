// Package orderboard keeps the admin view of all orders. It never merges
// changes: every change event and every poll re-pulls the whole list.
package orderboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/domain"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/notify"
	"golang.org/x/sync/errgroup"
)

const followUpTimeout = 10 * time.Second

type Lister interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

type Board struct {
	lister   Lister
	sub      notify.Subscriber
	interval time.Duration

	mu          sync.RWMutex
	orders      []domain.Order
	refreshedAt time.Time

	// inflight is the query running now; queued starts once it finishes
	// and collects every caller that arrived in the meantime.
	refreshMu sync.Mutex
	inflight  *refreshCall
	queued    *refreshCall

	now func() time.Time
}

type refreshCall struct {
	done chan struct{}
	err  error
}

// New builds a board. sub may be nil, leaving polling as the only trigger.
func New(lister Lister, sub notify.Subscriber, interval time.Duration) *Board {
	return &Board{
		lister:   lister,
		sub:      sub,
		interval: interval,
		now:      time.Now,
	}
}

// Refresh re-pulls the order list and returns once a query that started
// after the call has finished. A call that arrives while a query runs waits
// for one follow-up query, shared with every other caller that arrived
// during the same run.
func (b *Board) Refresh(ctx context.Context) error {
	b.refreshMu.Lock()
	if b.inflight == nil {
		call := &refreshCall{done: make(chan struct{})}
		b.inflight = call
		b.refreshMu.Unlock()
		b.execute(ctx, call)
		return call.err
	}
	call := b.queued
	if call == nil {
		call = &refreshCall{done: make(chan struct{})}
		b.queued = call
	}
	b.refreshMu.Unlock()

	select {
	case <-call.done:
		return call.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// execute runs call and then hands over to the queued follow-up, if any.
// The follow-up outlives the caller that started the chain.
func (b *Board) execute(ctx context.Context, call *refreshCall) {
	call.err = b.load(ctx)
	close(call.done)

	b.refreshMu.Lock()
	next := b.queued
	b.queued = nil
	b.inflight = next
	b.refreshMu.Unlock()

	if next != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), followUpTimeout)
			defer cancel()
			b.execute(ctx, next)
		}()
	}
}

func (b *Board) load(ctx context.Context) error {
	orders, err := b.lister.ListOrders(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.orders = orders
	b.refreshedAt = b.now()
	b.mu.Unlock()
	return nil
}

// Orders returns the latest snapshot, newest order first.
func (b *Board) Orders() []domain.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Order(nil), b.orders...)
}

func (b *Board) LastRefreshed() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.refreshedAt
}

// Current returns the snapshot, loading it first if the board has never
// been refreshed.
func (b *Board) Current(ctx context.Context) ([]domain.Order, error) {
	if b.LastRefreshed().IsZero() {
		if err := b.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return b.Orders(), nil
}

// Run refreshes on every change event and on each poll tick until ctx is
// done.
func (b *Board) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if b.sub != nil {
		g.Go(func() error {
			return b.sub.Subscribe(ctx, func(ctx context.Context, event notify.Event) error {
				slog.DebugContext(ctx, "order change received", "type", event.Type, "order_id", event.OrderID)
				return b.Refresh(ctx)
			})
		})
	}

	g.Go(func() error {
		b.refreshLogged(ctx)
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				b.refreshLogged(ctx)
			}
		}
	})

	return g.Wait()
}

func (b *Board) refreshLogged(ctx context.Context) {
	if err := b.Refresh(ctx); err != nil && ctx.Err() == nil {
		slog.WarnContext(ctx, "order board refresh failed", "error", err)
	}
}
