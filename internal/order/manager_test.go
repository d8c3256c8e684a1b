package order

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/store"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.OrderEvent
	err    error
}

func (n *recordingNotifier) PublishOrderEvent(ctx context.Context, event *model.OrderEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, *event)
	return n.err
}

func audioProduct(stock int) model.Product {
	return model.Product{
		ID:           "som-universal",
		Name:         "Central Multimídia Universal",
		Category:     model.CategoryAudio,
		VehicleModel: model.UniversalModel,
		YearStart:    2010,
		YearEnd:      2025,
		Price:        299.9,
		Stock:        stock,
		Active:       true,
	}
}

func setup(t *testing.T, stock int) (*Manager, *store.Memory, []model.Product) {
	t.Helper()
	mem := store.NewMemory()
	p := audioProduct(stock)
	require.NoError(t, mem.InsertProducts(context.Background(), []model.Product{p}))

	m := NewManager(mem, NewAtomicInventory(mem), Config{}, logger.NewNop())
	return m, mem, []model.Product{p}
}

func stockOf(t *testing.T, mem *store.Memory, id string) int {
	t.Helper()
	p, err := mem.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func TestPurchaseCreatesPendingOrderAtShownPrice(t *testing.T) {
	m, mem, shown := setup(t, 5)
	notifier := &recordingNotifier{}
	m.SetNotifier(notifier)

	o, err := m.Purchase(context.Background(), "5511999", "comprar 1", shown)
	require.NoError(t, err)

	assert.InDelta(t, 299.9, o.Total, 1e-9)
	assert.Equal(t, model.OrderPending, o.Status)
	assert.Equal(t, 1, o.Quantity)
	assert.Equal(t, "5511999", o.Customer.Phone)
	assert.Equal(t, 4, stockOf(t, mem, "som-universal"))

	require.Len(t, notifier.events, 1)
	assert.Equal(t, model.EventOrderCreated, notifier.events[0].Type)

	text := m.Confirmation(o)
	assert.Contains(t, text, "#"+o.Reference())
	assert.Contains(t, text, "R$ 299.90")
}

func TestPurchaseKeepsSnapshotPrice(t *testing.T) {
	m, _, shown := setup(t, 5)
	shown[0].Price = 250

	o, err := m.Purchase(context.Background(), "u1", "COMPRAR 1", shown)
	require.NoError(t, err)
	assert.InDelta(t, 250.0, o.Total, 1e-9)
}

func TestPurchaseValidation(t *testing.T) {
	tests := []struct {
		name    string
		command string
		shown   bool
		wantErr error
	}{
		{"missing number", "comprar", true, ErrUsage},
		{"zero position", "comprar 0", true, ErrUsage},
		{"not a number", "comprar um", true, ErrUsage},
		{"nothing shown", "comprar 1", false, ErrSearchFirst},
		{"out of range", "comprar 9", true, ErrProductNotFound},
		{"overflow", "comprar 99999999999999999999", true, ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, mem, shown := setup(t, 5)
			if !tt.shown {
				shown = nil
			}

			_, err := m.Purchase(context.Background(), "u1", tt.command, shown)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidation(err))
			assert.Equal(t, 5, stockOf(t, mem, "som-universal"))

			orders, err := mem.ListOrders(context.Background(), 0)
			require.NoError(t, err)
			assert.Empty(t, orders)
		})
	}
}

func TestPurchaseOutOfStock(t *testing.T) {
	m, mem, shown := setup(t, 0)

	_, err := m.Purchase(context.Background(), "u1", "comprar 1", shown)
	assert.ErrorIs(t, err, ErrUnavailable)

	msg, ok := UserMessage(err)
	assert.True(t, ok)
	assert.Equal(t, MsgUnavailable, msg)
	assert.Equal(t, 0, stockOf(t, mem, "som-universal"))
}

func TestConcurrentPurchaseOfLastUnit(t *testing.T) {
	inventories := map[string]func(mem *store.Memory) Inventory{
		"atomic":     func(mem *store.Memory) Inventory { return NewAtomicInventory(mem) },
		"optimistic": func(mem *store.Memory) Inventory { return NewOptimisticInventory(mem, DefaultSwapAttempts) },
	}

	for name, build := range inventories {
		t.Run(name, func(t *testing.T) {
			mem := store.NewMemory()
			p := audioProduct(1)
			require.NoError(t, mem.InsertProducts(context.Background(), []model.Product{p}))
			m := NewManager(mem, build(mem), Config{}, logger.NewNop())

			var wins, unavailable int32
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := m.Purchase(context.Background(), "u", "comprar 1", []model.Product{p})
					switch {
					case err == nil:
						atomic.AddInt32(&wins, 1)
					case IsInventoryConflict(err):
						atomic.AddInt32(&unavailable, 1)
					}
				}()
			}
			wg.Wait()

			assert.EqualValues(t, 1, wins)
			assert.EqualValues(t, 19, unavailable)
			assert.Equal(t, 0, stockOf(t, mem, p.ID))
		})
	}
}

type failingOrders struct {
	*store.Memory
}

func (failingOrders) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	return nil, errors.New("disk full")
}

func TestPurchaseRestoresStockWhenOrderFails(t *testing.T) {
	mem := store.NewMemory()
	p := audioProduct(2)
	require.NoError(t, mem.InsertProducts(context.Background(), []model.Product{p}))
	m := NewManager(failingOrders{mem}, NewAtomicInventory(mem), Config{}, logger.NewNop())

	_, err := m.Purchase(context.Background(), "u1", "comprar 1", []model.Product{p})
	require.Error(t, err)
	assert.False(t, IsValidation(err))
	assert.Equal(t, 2, stockOf(t, mem, p.ID))
}

type contendedCatalog struct {
	*store.Memory
}

func (contendedCatalog) SwapStock(ctx context.Context, id string, expected, next int) (bool, error) {
	return false, nil
}

func TestOptimisticInventoryGivesUp(t *testing.T) {
	mem := store.NewMemory()
	p := audioProduct(3)
	require.NoError(t, mem.InsertProducts(context.Background(), []model.Product{p}))

	inv := NewOptimisticInventory(contendedCatalog{mem}, 2)
	_, err := inv.TakeOne(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 3, stockOf(t, mem, p.ID))
}

func TestCommandRecognition(t *testing.T) {
	m, _, _ := setup(t, 1)

	assert.True(t, m.IsPurchaseCommand("Comprar 2"))
	assert.True(t, m.IsPurchaseCommand("comprar"))
	assert.False(t, m.IsPurchaseCommand("quero comprar um som"))
	assert.True(t, m.IsHistoryCommand(" /PEDIDOS "))
	assert.False(t, m.IsHistoryCommand("/pedidos agora"))
}

func TestHistory(t *testing.T) {
	m, _, shown := setup(t, HistoryLimit+5)
	ctx := context.Background()

	orders, err := m.History(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, MsgNoOrders, FormatHistory(orders))

	for i := 0; i < 6; i++ {
		_, err := m.Purchase(ctx, "u1", "comprar 1", shown)
		require.NoError(t, err)
	}

	orders, err = m.History(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, orders, HistoryLimit)

	text := FormatHistory(orders)
	assert.Contains(t, text, "Seus pedidos:")
	assert.Contains(t, text, "pendente")
}

func TestTransitionStatus(t *testing.T) {
	m, _, shown := setup(t, 5)
	notifier := &recordingNotifier{}
	m.SetNotifier(notifier)
	ctx := context.Background()

	o, err := m.Purchase(ctx, "u1", "comprar 1", shown)
	require.NoError(t, err)

	updated, err := m.TransitionStatus(ctx, o.ID, model.OrderConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.OrderConfirmed, updated.Status)

	_, err = m.TransitionStatus(ctx, o.ID, model.OrderDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = m.TransitionStatus(ctx, o.ID, "perdido")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = m.TransitionStatus(ctx, "missing", model.OrderCancelled)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.Len(t, notifier.events, 2)
	assert.Equal(t, model.EventOrderStatusChanged, notifier.events[1].Type)
	assert.Equal(t, model.OrderPending, notifier.events[1].Previous)
}

func TestNotifierFailureDoesNotFailPurchase(t *testing.T) {
	m, _, shown := setup(t, 5)
	m.SetNotifier(&recordingNotifier{err: errors.New("redis down")})

	_, err := m.Purchase(context.Background(), "u1", "comprar 1", shown)
	assert.NoError(t, err)
}
