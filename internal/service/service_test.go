package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/order"
	"github.com/capitalize-ai/sales-assistant/internal/store"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

func seededStore(t *testing.T) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	_, err := store.SeedIfEmpty(context.Background(), mem)
	require.NoError(t, err)
	return mem
}

func TestCatalogServiceList(t *testing.T) {
	svc := NewCatalogService(seededStore(t))
	ctx := context.Background()

	all, err := svc.List(ctx, ProductQuery{})
	require.NoError(t, err)
	assert.Len(t, all, len(store.SampleCatalog()))
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Price, all[i].Price)
	}

	som, err := svc.List(ctx, ProductQuery{Category: "SOM"})
	require.NoError(t, err)
	for _, p := range som {
		assert.Equal(t, model.CategoryAudio, p.Category)
	}

	_, err = svc.List(ctx, ProductQuery{Year: "novo"})
	assert.ErrorIs(t, err, ErrInvalidYear)

	none, err := svc.List(ctx, ProductQuery{Year: "1950"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestOrderServiceLifecycle(t *testing.T) {
	mem := seededStore(t)
	manager := order.NewManager(mem, order.NewAtomicInventory(mem), order.Config{}, logger.NewNop())
	svc := NewOrderService(mem, manager)
	ctx := context.Background()

	products, err := mem.FindProducts(ctx, model.ProductFilter{Available: true, Limit: 1})
	require.NoError(t, err)
	created, err := manager.Purchase(ctx, "u1", "comprar 1", products)
	require.NoError(t, err)

	recent, err := svc.Recent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, recent.Total)

	updated, err := svc.UpdateStatus(ctx, created.ID, &model.UpdateOrderStatusRequest{Status: model.OrderCancelled})
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, updated.Status)

	stats, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Orders)
	assert.InDelta(t, products[0].Price, stats.SalesTotal, 1e-9)
}

func TestConversationServiceLogsPaging(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, mem.AppendConversationLog(ctx, &model.ConversationLog{
			UserID:  "u1",
			Message: fmt.Sprintf("m%d", i),
		}))
	}
	svc := NewConversationService(mem, nil)

	resp, err := svc.Logs(ctx, "u1", 0, 3)
	require.NoError(t, err)
	assert.True(t, resp.HasMore)
	require.Len(t, resp.Logs, 3)
	assert.Equal(t, "m2", resp.Logs[0].Message)
	assert.Equal(t, "m4", resp.Logs[2].Message)

	resp, err = svc.Logs(ctx, "u1", 0, 10)
	require.NoError(t, err)
	assert.False(t, resp.HasMore)
	assert.Len(t, resp.Logs, 5)

	resp, err = svc.Logs(ctx, "nobody", 0, 10)
	require.NoError(t, err)
	assert.NotNil(t, resp.Logs)
}

type submitFunc func(ctx context.Context, userID, text string) (string, error)

func (f submitFunc) Submit(ctx context.Context, userID, text string) (string, error) {
	return f(ctx, userID, text)
}

func TestMessageServiceSend(t *testing.T) {
	var gotUser, gotText string
	svc := NewMessageService(submitFunc(func(ctx context.Context, userID, text string) (string, error) {
		gotUser, gotText = userID, text
		return "olá!", nil
	}))

	resp, err := svc.Send(context.Background(), &model.SendMessageRequest{UserID: "5511@c.us", Content: " oi "})
	require.NoError(t, err)
	assert.Equal(t, "5511", resp.UserID)
	assert.Equal(t, "olá!", resp.Reply)
	assert.Equal(t, "5511", gotUser)
	assert.Equal(t, "oi", gotText)

	_, err = svc.Send(context.Background(), &model.SendMessageRequest{UserID: "1203@g.us", Content: "oi"})
	assert.ErrorIs(t, err, ErrNotAddressed)
}

type fixedSessions int

func (n fixedSessions) Len() int { return int(n) }

func TestStatusServiceReportsDependencies(t *testing.T) {
	svc := NewStatusService(fixedSessions(3), time.Now().Add(-time.Minute))
	svc.AddCheck("store", func(ctx context.Context) error { return nil })

	st := svc.Status(context.Background())
	assert.Equal(t, "ok", st.Status)
	assert.Equal(t, 3, st.ActiveSessions)
	assert.Equal(t, "ok", st.Dependencies["store"])

	svc.AddCheck("llm", func(ctx context.Context) error { return errors.New("unreachable") })
	st = svc.Status(context.Background())
	assert.Equal(t, "degraded", st.Status)
	assert.Equal(t, "unreachable", st.Dependencies["llm"])
}
