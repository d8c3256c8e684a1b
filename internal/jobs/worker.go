package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
	"github.com/capitalize-ai/sales-assistant/pkg/metrics"
)

// EventHandler processes one order event.
type EventHandler func(ctx context.Context, event *model.OrderEvent) error

// Worker consumes order events in FIFO order.
type Worker struct {
	rdb     *redis.Client
	queue   string
	handler EventHandler
	log     *logger.Logger
	block   time.Duration
}

// NewWorker creates a worker. A nil handler only logs the events.
func NewWorker(rdb *redis.Client, queue string, handler EventHandler, log *logger.Logger) *Worker {
	if queue == "" {
		queue = DefaultQueue
	}
	w := &Worker{rdb: rdb, queue: queue, handler: handler, log: log, block: time.Second}
	if w.handler == nil {
		w.handler = w.logEvent
	}
	return w
}

// Run consumes events until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("order event worker started", zap.String("queue", w.queue))

	for {
		if ctx.Err() != nil {
			return nil
		}

		res, err := w.rdb.BRPop(ctx, w.block, w.queue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			w.log.Error("failed to read order event", zap.Error(err))
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		// res is [key, value].
		w.process(ctx, res[1])
	}
}

func (w *Worker) process(ctx context.Context, payload string) {
	var event model.OrderEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		metrics.OrderEventsTotal.WithLabelValues("unknown", "malformed").Inc()
		w.log.Warn("discarding malformed order event", zap.Error(err))
		return
	}

	if err := w.handler(ctx, &event); err != nil {
		metrics.OrderEventsTotal.WithLabelValues(string(event.Type), "failed").Inc()
		w.log.ForOrder(event.Order.ID).Error("order event handler failed",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		return
	}
	metrics.OrderEventsTotal.WithLabelValues(string(event.Type), "consumed").Inc()
}

func (w *Worker) logEvent(ctx context.Context, event *model.OrderEvent) error {
	w.log.Info("order event",
		zap.String("type", string(event.Type)),
		zap.String("order_id", event.Order.ID),
		zap.String("status", string(event.Order.Status)),
		zap.Float64("total", event.Order.Total),
	)
	return nil
}
