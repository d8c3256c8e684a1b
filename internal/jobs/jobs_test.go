package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
	})
	return mr, rdb
}

func event(id string) *model.OrderEvent {
	return &model.OrderEvent{
		ID:   id,
		Type: model.EventOrderCreated,
		Order: model.Order{
			ID:     "order-" + id,
			Total:  299.9,
			Status: model.OrderPending,
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestPublisherPushesToQueue(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	p := NewPublisher(rdb, "")

	require.NoError(t, p.PublishOrderEvent(context.Background(), event("1")))

	items, err := mr.List(DefaultQueue)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Contains(t, items[0], `"order.created"`)
}

func TestWorkerConsumesInPublishOrder(t *testing.T) {
	_, rdb := setupMiniredis(t)
	p := NewPublisher(rdb, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, p.PublishOrderEvent(ctx, event(id)))
	}

	seen := make(chan string, 3)
	w := NewWorker(rdb, "", func(ctx context.Context, e *model.OrderEvent) error {
		seen <- e.ID
		return nil
	}, logger.NewNop())
	w.block = 100 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	var got []string
	for len(got) < 3 {
		select {
		case id := <-seen:
			got = append(got, id)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}
	assert.Equal(t, []string{"1", "2", "3"}, got)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorkerSkipsMalformedPayloads(t *testing.T) {
	_, rdb := setupMiniredis(t)

	called := false
	w := NewWorker(rdb, "", func(ctx context.Context, e *model.OrderEvent) error {
		called = true
		return nil
	}, logger.NewNop())

	w.process(context.Background(), "not json")
	assert.False(t, called)
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	addr := mr.Addr()

	rdb, err := ConnectRedis(context.Background(), RedisConfig{Addr: addr})
	require.NoError(t, err)
	_ = rdb.Close()

	mr.Close()
	_, err = ConnectRedis(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}
