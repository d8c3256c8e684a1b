// Package store provides the persistence gateway for products, orders and
// conversation logs.
package store

import (
	"context"
	"errors"

	"github.com/capitalize-ai/sales-assistant/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrStatusConflict is returned when an order is no longer in the expected status.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// Catalog is the read side of the product collection plus the atomic stock
// operations used by the order flow.
type Catalog interface {
	FindProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	// DecrementStockIfPositive atomically takes one unit. It returns false,
	// without changing anything, when the stock is already zero.
	DecrementStockIfPositive(ctx context.Context, id string) (bool, error)
	// IncrementStock gives one unit back; used to compensate a failed order.
	IncrementStock(ctx context.Context, id string) error
}

// Orders persists purchase orders.
type Orders interface {
	CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	// UpdateOrderStatus moves an order from one status to another. It fails
	// with ErrStatusConflict when the stored status is not from.
	UpdateOrderStatus(ctx context.Context, id string, from, to model.OrderStatus) (*model.Order, error)
	FindOrdersByUser(ctx context.Context, userID string, limit int) ([]model.Order, error)
	ListOrders(ctx context.Context, limit int) ([]model.Order, error)
}

// ConversationLogs is the append-only record of processed turns.
type ConversationLogs interface {
	AppendConversationLog(ctx context.Context, entry *model.ConversationLog) error
	ListConversationLogs(ctx context.Context, userID string, limit int) ([]model.ConversationLog, error)
}

// Gateway is the full persistence surface.
type Gateway interface {
	Catalog
	Orders
	ConversationLogs

	CountProducts(ctx context.Context) (int, error)
	InsertProducts(ctx context.Context, products []model.Product) error
	Analytics(ctx context.Context) (*model.Analytics, error)
	Ping(ctx context.Context) error
	Close() error
}
