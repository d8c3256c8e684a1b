package order

import (
	"context"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/store"
)

// DefaultSwapAttempts bounds the optimistic decrement retry.
const DefaultSwapAttempts = 3

// Inventory reserves and releases single units of stock.
type Inventory interface {
	// TakeOne removes one unit. It returns false when the stock is zero.
	TakeOne(ctx context.Context, productID string) (bool, error)
	// ReturnOne gives a unit back.
	ReturnOne(ctx context.Context, productID string) error
}

// AtomicInventory relies on the catalog's conditional decrement.
type AtomicInventory struct {
	catalog store.Catalog
}

// NewAtomicInventory wraps a catalog with an atomic decrement.
func NewAtomicInventory(catalog store.Catalog) *AtomicInventory {
	return &AtomicInventory{catalog: catalog}
}

// TakeOne implements Inventory.
func (a *AtomicInventory) TakeOne(ctx context.Context, productID string) (bool, error) {
	return a.catalog.DecrementStockIfPositive(ctx, productID)
}

// ReturnOne implements Inventory.
func (a *AtomicInventory) ReturnOne(ctx context.Context, productID string) error {
	return a.catalog.IncrementStock(ctx, productID)
}

// StockSwapper is a catalog offering only compare-and-set on stock.
type StockSwapper interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	SwapStock(ctx context.Context, id string, expected, next int) (bool, error)
	IncrementStock(ctx context.Context, id string) error
}

// OptimisticInventory emulates an atomic decrement with read, conditional
// write and a bounded number of retries.
type OptimisticInventory struct {
	catalog  StockSwapper
	attempts int
}

// NewOptimisticInventory creates an inventory retrying up to attempts times.
func NewOptimisticInventory(catalog StockSwapper, attempts int) *OptimisticInventory {
	if attempts <= 0 {
		attempts = DefaultSwapAttempts
	}
	return &OptimisticInventory{catalog: catalog, attempts: attempts}
}

// TakeOne implements Inventory. It fails with ErrConflict when every
// attempt lost the race.
func (o *OptimisticInventory) TakeOne(ctx context.Context, productID string) (bool, error) {
	for attempt := 0; attempt < o.attempts; attempt++ {
		p, err := o.catalog.GetProduct(ctx, productID)
		if err != nil {
			return false, err
		}
		if p.Stock <= 0 {
			return false, nil
		}

		swapped, err := o.catalog.SwapStock(ctx, productID, p.Stock, p.Stock-1)
		if err != nil {
			return false, err
		}
		if swapped {
			return true, nil
		}
	}
	return false, ErrConflict
}

// ReturnOne implements Inventory.
func (o *OptimisticInventory) ReturnOne(ctx context.Context, productID string) error {
	return o.catalog.IncrementStock(ctx, productID)
}
