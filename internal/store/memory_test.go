package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/sales-assistant/internal/model"
)

func seeded(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory()
	n, err := SeedIfEmpty(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	return m
}

func TestSeedIfEmptyOnlySeedsOnce(t *testing.T) {
	m := seeded(t)

	n, err := SeedIfEmpty(context.Background(), m)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, _ := m.CountProducts(context.Background())
	assert.Equal(t, 5, count)
}

func TestMemoryFindProductsSortsByPriceAndLimits(t *testing.T) {
	m := seeded(t)

	products, err := m.FindProducts(context.Background(), model.ProductFilter{Available: true, Limit: 3})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Alarme Pósitron PX360BT", products[0].Name)
	assert.Equal(t, "Som Pioneer DEH-X1980UB", products[1].Name)
	assert.Equal(t, `Interface Android 9" Corolla`, products[2].Name)
}

func TestMemoryDecrementStopsAtZero(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.InsertProducts(ctx, []model.Product{{ID: "p1", Name: "x", Stock: 1, Active: true}}))

	ok, err := m.DecrementStockIfPositive(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.DecrementStockIfPositive(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	p, _ := m.GetProduct(ctx, "p1")
	assert.Equal(t, 0, p.Stock)

	_, err = m.DecrementStockIfPositive(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryConcurrentDecrementNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.InsertProducts(ctx, []model.Product{{ID: "p1", Name: "x", Stock: 3, Active: true}}))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := m.DecrementStockIfPositive(ctx, "p1"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	p, _ := m.GetProduct(ctx, "p1")
	assert.Equal(t, int32(3), wins.Load())
	assert.Equal(t, 0, p.Stock)
}

func TestMemoryUpdateOrderStatusIsConditional(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	o, err := m.CreateOrder(ctx, &model.Order{UserID: "u1", Status: model.OrderPending})
	require.NoError(t, err)

	updated, err := m.UpdateOrderStatus(ctx, o.ID, model.OrderPending, model.OrderConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.OrderConfirmed, updated.Status)

	_, err = m.UpdateOrderStatus(ctx, o.ID, model.OrderPending, model.OrderCancelled)
	assert.ErrorIs(t, err, ErrStatusConflict)

	_, err = m.UpdateOrderStatus(ctx, "nope", model.OrderPending, model.OrderConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, u := range []string{"a", "b", "a", "a"} {
		_, err := m.CreateOrder(ctx, &model.Order{UserID: u, Total: 10})
		require.NoError(t, err)
	}

	orders, err := m.FindOrdersByUser(ctx, "a", 2)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	all, _ := m.ListOrders(ctx, 0)
	assert.Equal(t, all[0].ID, orders[0].ID)

	a, err := m.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, a.Orders)
	assert.InDelta(t, 40.0, a.SalesTotal, 1e-9)
}

func TestMemoryConversationLogsKeepsMostRecent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, msg := range []string{"oi", "quero som", "corolla 2018"} {
		require.NoError(t, m.AppendConversationLog(ctx, &model.ConversationLog{UserID: "u1", Message: msg}))
	}
	require.NoError(t, m.AppendConversationLog(ctx, &model.ConversationLog{UserID: "u2", Message: "x"}))

	logs, err := m.ListConversationLogs(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "quero som", logs[0].Message)
	assert.Equal(t, "corolla 2018", logs[1].Message)
}
