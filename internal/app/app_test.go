package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/sales-assistant/internal/config"
	"github.com/capitalize-ai/sales-assistant/internal/llm/llmtest"
	"github.com/capitalize-ai/sales-assistant/internal/order"
	"github.com/capitalize-ai/sales-assistant/internal/store"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		StoreDriver:        config.StoreMemory,
		SeedCatalog:        true,
		StockStrategy:      config.StockAtomic,
		PurchaseKeyword:    "comprar",
		HistoryCommand:     "/pedidos",
		ExtractionHistory:  20,
		SessionIdleTimeout: 30 * time.Minute,
		SweepInterval:      time.Minute,
		LLMTimeout:         time.Second,
		RedisQueue:         "queue:orders",
	}
}

func scripted() *llmtest.ScriptedClient {
	return llmtest.New().
		On("extraia informações", "categoria: alarme\nmodelo_carro: onix\nano: 2020").
		On("vendedor brasileiro", "Qual o ano?").
		On("vendedor animado", "Temos um alarme ótimo!").
		On("", "ok")
}

func TestNewServesConversation(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logger.NewNop(), Options{LLMClient: scripted()})
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)

	reply, err := a.Dispatcher.Submit(ctx, "5511999990000", "quero um alarme pro onix 2020")
	require.NoError(t, err)
	assert.Contains(t, reply, "Temos um alarme ótimo!")

	reply, err = a.Dispatcher.Submit(ctx, "5511999990000", "comprar 1")
	require.NoError(t, err)
	assert.Contains(t, reply, "Pedido confirmado!")

	st := a.StatusService().Status(ctx)
	assert.Equal(t, "ok", st.Status)
	assert.Equal(t, 1, st.ActiveSessions)
	assert.Equal(t, "ok", st.Dependencies["llm"])
}

func TestProbeFailureDegradesStatus(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logger.NewNop(), Options{LLMClient: llmtest.New()})
	require.NoError(t, err)
	defer a.Close()

	st := a.StatusService().Status(context.Background())
	assert.Equal(t, "degraded", st.Status)
	assert.NotEqual(t, "ok", st.Dependencies["llm"])
}

func TestOrderEventsReachRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.RedisAddr = mr.Addr()

	a, err := New(context.Background(), cfg, logger.NewNop(), Options{LLMClient: scripted()})
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.Redis)

	ctx := context.Background()
	_, err = a.Dispatcher.Submit(ctx, "u1", "alarme pro onix 2020")
	require.NoError(t, err)
	_, err = a.Dispatcher.Submit(ctx, "u1", "comprar 1")
	require.NoError(t, err)

	queued, err := mr.List(cfg.RedisQueue)
	require.NoError(t, err)
	assert.Len(t, queued, 1)

	st := a.StatusService().Status(ctx)
	assert.Equal(t, "ok", st.Dependencies["redis"])
}

func TestNewInventory(t *testing.T) {
	mem := store.NewMemory()

	inv, err := newInventory(config.StockAtomic, mem)
	require.NoError(t, err)
	assert.IsType(t, &order.AtomicInventory{}, inv)

	inv, err = newInventory(config.StockOptimistic, mem)
	require.NoError(t, err)
	assert.IsType(t, &order.OptimisticInventory{}, inv)

	_, err = newInventory("pessimistic", mem)
	assert.Error(t, err)
}

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "sqlite"

	_, err := OpenStore(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
}

func TestOpenStoreSeedsMemory(t *testing.T) {
	gw, err := OpenStore(context.Background(), testConfig(), logger.NewNop())
	require.NoError(t, err)
	defer gw.Close()

	n, err := gw.CountProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(store.SampleCatalog()), n)
}
