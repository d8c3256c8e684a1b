package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/capitalize-ai/sales-assistant/internal/model"
)

// Memory is an in-process Gateway. Products keep insertion order so that
// equal-price results stay stable.
type Memory struct {
	mu       sync.RWMutex
	products []*model.Product
	orders   []*model.Order
	logs     []model.ConversationLog
	now      func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// FindProducts returns matching products ordered by ascending price.
func (m *Memory) FindProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Product
	for _, p := range m.products {
		if filter.Matches(p) {
			out = append(out, *p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price < out[j].Price
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// GetProduct returns a copy of the product with the given id.
func (m *Memory) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p := m.productLocked(id)
	if p == nil {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// DecrementStockIfPositive takes one unit under the store lock.
func (m *Memory) DecrementStockIfPositive(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.productLocked(id)
	if p == nil {
		return false, ErrNotFound
	}
	if p.Stock <= 0 {
		return false, nil
	}
	p.Stock--
	p.UpdatedAt = m.now()
	return true, nil
}

// IncrementStock gives one unit back.
func (m *Memory) IncrementStock(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.productLocked(id)
	if p == nil {
		return ErrNotFound
	}
	p.Stock++
	p.UpdatedAt = m.now()
	return nil
}

// SwapStock sets the stock to next only if it currently equals expected.
func (m *Memory) SwapStock(ctx context.Context, id string, expected, next int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.productLocked(id)
	if p == nil {
		return false, ErrNotFound
	}
	if p.Stock != expected {
		return false, nil
	}
	p.Stock = next
	p.UpdatedAt = m.now()
	return true, nil
}

func (m *Memory) productLocked(id string) *model.Product {
	for _, p := range m.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CountProducts returns the catalog size.
func (m *Memory) CountProducts(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products), nil
}

// InsertProducts appends products, assigning ids and timestamps when missing.
func (m *Memory) InsertProducts(ctx context.Context, products []model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for _, p := range products {
		p := p
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		m.products = append(m.products, &p)
	}
	return nil
}

// CreateOrder stores a new order.
func (m *Memory) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o := *order
	if o.ID == "" {
		o.ID = uuid.Must(uuid.NewV7()).String()
	}
	now := m.now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	m.orders = append(m.orders, &o)

	cp := o
	return &cp, nil
}

// GetOrder returns an order by id.
func (m *Memory) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, o := range m.orders {
		if o.ID == id {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateOrderStatus performs a conditional status change.
func (m *Memory) UpdateOrderStatus(ctx context.Context, id string, from, to model.OrderStatus) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.ID != id {
			continue
		}
		if o.Status != from {
			return nil, ErrStatusConflict
		}
		o.Status = to
		o.UpdatedAt = m.now()
		cp := *o
		return &cp, nil
	}
	return nil, ErrNotFound
}

// FindOrdersByUser returns the user's most recent orders first.
func (m *Memory) FindOrdersByUser(ctx context.Context, userID string, limit int) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Order
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].UserID != userID {
			continue
		}
		out = append(out, *m.orders[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// ListOrders returns the most recent orders first.
func (m *Memory) ListOrders(ctx context.Context, limit int) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Order
	for i := len(m.orders) - 1; i >= 0; i-- {
		out = append(out, *m.orders[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// AppendConversationLog stores a log entry.
func (m *Memory) AppendConversationLog(ctx context.Context, entry *model.ConversationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := *entry
	if e.ID == "" {
		e.ID = uuid.Must(uuid.NewV7()).String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
	}
	e.ShownProducts = append([]string(nil), entry.ShownProducts...)
	m.logs = append(m.logs, e)
	return nil
}

// ListConversationLogs returns a user's log entries, oldest first, keeping
// only the most recent limit entries.
func (m *Memory) ListConversationLogs(ctx context.Context, userID string, limit int) ([]model.ConversationLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.ConversationLog
	for _, e := range m.logs {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// Analytics aggregates conversation and order counters.
func (m *Memory) Analytics(ctx context.Context) (*model.Analytics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a := &model.Analytics{
		Conversations: len(m.logs),
		Orders:        len(m.orders),
	}
	for _, o := range m.orders {
		a.SalesTotal += o.Total
	}
	return a, nil
}

// Ping always succeeds.
func (m *Memory) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() error { return nil }
