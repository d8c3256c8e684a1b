package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/pkg/metrics"
)

// Publisher pushes order events onto the queue.
type Publisher struct {
	rdb   *redis.Client
	queue string
}

// NewPublisher creates a publisher for queue, or DefaultQueue when empty.
func NewPublisher(rdb *redis.Client, queue string) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Publisher{rdb: rdb, queue: queue}
}

// PublishOrderEvent implements order.Notifier.
func (p *Publisher) PublishOrderEvent(ctx context.Context, event *model.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	if err := p.rdb.LPush(ctx, p.queue, payload).Err(); err != nil {
		return fmt.Errorf("failed to push order event: %w", err)
	}

	metrics.OrderEventsTotal.WithLabelValues(string(event.Type), "published").Inc()
	return nil
}
