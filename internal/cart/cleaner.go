package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/umerjamal2011-design/leominster-fish-bar/internal/notify"
)

// Clearer empties one session's cart.
type Clearer interface {
	Clear(ctx context.Context, sessionID string) error
}

// Cleaner empties a session's cart a short while after that session placed
// an order, leaving the confirmation on screen until then.
type Cleaner struct {
	carts Clearer
	sub   notify.Subscriber
	delay time.Duration

	mu      sync.Mutex
	stopped bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewCleaner(carts Clearer, sub notify.Subscriber, delay time.Duration) *Cleaner {
	return &Cleaner{carts: carts, sub: sub, delay: delay, stop: make(chan struct{})}
}

// Run consumes change events until ctx is done, then flushes pending clears
// and waits for them to finish.
func (c *Cleaner) Run(ctx context.Context) error {
	err := c.sub.Subscribe(ctx, c.handle)

	c.mu.Lock()
	c.stopped = true
	close(c.stop)
	c.mu.Unlock()

	c.wg.Wait()
	return err
}

func (c *Cleaner) handle(ctx context.Context, event notify.Event) error {
	if event.Type != notify.EventOrderPlaced || event.SessionID == "" {
		return nil
	}
	c.ClearLater(ctx, event.SessionID, event.OrderID)
	return nil
}

// ClearLater empties the session's cart once the delay has passed. The clear
// happens early if ctx is done or Run returns, and at once if Run has already
// returned.
func (c *Cleaner) ClearLater(ctx context.Context, sessionID string, orderID int64) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		c.clear(sessionID, orderID)
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		case <-c.stop:
		}
		c.clear(sessionID, orderID)
	}()
}

func (c *Cleaner) clear(sessionID string, orderID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.carts.Clear(ctx, sessionID); err != nil {
		slog.Error("clear cart after order failed", "order_id", orderID, "error", err)
	}
}
