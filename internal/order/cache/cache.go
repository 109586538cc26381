// Package cache keeps a caller-owned copy of the canonical order list, the way
// the dashboard keeps its last fetch. It applies the same merge rule as the
// store, so the cached list never disagrees with a fresh read.
package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"orderdesk/internal/domain"
	"orderdesk/internal/order/merge"
)

// Snapshot persists the cached list between runs. repository.FileRepository
// satisfies it.
type Snapshot interface {
	Load(ctx context.Context) ([]domain.Order, error)
	Save(ctx context.Context, orders []domain.Order) error
}

type Cache struct {
	mu       sync.RWMutex
	orders   []domain.Order
	snapshot Snapshot
	logger   *zap.Logger
}

// New returns an empty cache. snapshot may be nil for a memory-only cache.
func New(snapshot Snapshot, logger *zap.Logger) *Cache {
	return &Cache{
		orders:   []domain.Order{},
		snapshot: snapshot,
		logger:   logger,
	}
}

// Restore replaces the cached list with the last snapshot.
func (c *Cache) Restore(ctx context.Context) error {
	if c.snapshot == nil {
		return nil
	}
	orders, err := c.snapshot.Load(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = merge.Merge(orders)
	return nil
}

// SetOrders replaces the cached list with the merged form of orders.
func (c *Cache) SetOrders(ctx context.Context, orders []domain.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.orders = merge.Merge(orders)
	return c.persist(ctx)
}

// Add appends order and re-merges, so a stale copy of a known order is ignored.
func (c *Cache) Add(ctx context.Context, order domain.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.orders = merge.Merge(append(c.orders, order))
	return c.persist(ctx)
}

// Update replaces the cached entry for order's key, or appends order when the
// key is unknown.
func (c *Cache) Update(ctx context.Context, order domain.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	normalized := merge.Normalize(order)
	if idx := c.indexOf(merge.Key(normalized)); idx >= 0 {
		c.orders[idx] = normalized
	} else {
		c.orders = append(c.orders, normalized)
	}
	return c.persist(ctx)
}

// UpdateStatus sets the status of the cached order. An empty status means
// Pending. It reports whether the order was cached.
func (c *Cache) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(merge.NormalizeOrderNumber(orderNumber))
	if idx < 0 {
		return false, nil
	}
	if status == domain.OrderStatusNone {
		status = domain.OrderStatusPending
	}
	c.orders[idx].Status = status
	return true, c.persist(ctx)
}

// Delete drops the cached order and reports how many entries were removed.
func (c *Cache) Delete(ctx context.Context, orderNumber string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := merge.NormalizeOrderNumber(orderNumber)
	kept := c.orders[:0]
	removed := 0
	for _, o := range c.orders {
		if merge.Key(o) == key {
			removed++
			continue
		}
		kept = append(kept, o)
	}
	c.orders = kept
	if removed == 0 {
		return 0, nil
	}
	return removed, c.persist(ctx)
}

// DeleteLine removes a line from the cached order and recomputes its amount.
func (c *Cache) DeleteLine(ctx context.Context, orderNumber, lineID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(merge.NormalizeOrderNumber(orderNumber))
	if idx < 0 {
		return false, nil
	}
	updated := c.orders[idx].Clone()
	if !updated.RemoveLine(lineID) {
		return false, nil
	}
	c.orders[idx] = updated
	return true, c.persist(ctx)
}

func (c *Cache) Get(orderNumber string) (domain.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx := c.indexOf(merge.NormalizeOrderNumber(orderNumber))
	if idx < 0 {
		return domain.Order{}, false
	}
	return c.orders[idx].Clone(), true
}

// Orders returns a copy of the cached list in merge order.
func (c *Cache) Orders() []domain.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Order, len(c.orders))
	for i, o := range c.orders {
		out[i] = o.Clone()
	}
	return out
}

func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.orders)
}

func (c *Cache) indexOf(key string) int {
	for i, o := range c.orders {
		if merge.Key(o) == key {
			return i
		}
	}
	return -1
}

// persist must be called with mu held.
func (c *Cache) persist(ctx context.Context) error {
	if c.snapshot == nil {
		return nil
	}
	if err := c.snapshot.Save(ctx, c.orders); err != nil {
		c.logger.Warn("saving order cache snapshot failed", zap.Error(err))
		return err
	}
	return nil
}
