package nats

import (
	"context"

	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/store"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
	"github.com/capitalize-ai/sales-assistant/pkg/metrics"
)

// LogPublisher publishes conversation logs. *StreamManager implements it.
type LogPublisher interface {
	PublishLog(ctx context.Context, entry *model.ConversationLog) (uint64, error)
}

// LogFanout writes conversation logs to the store and mirrors them to
// JetStream. The store is the source of truth; mirror failures are logged.
type LogFanout struct {
	store     store.ConversationLogs
	publisher LogPublisher
	log       *logger.Logger
}

// NewLogFanout creates a fanout over a store and a publisher.
func NewLogFanout(s store.ConversationLogs, p LogPublisher, log *logger.Logger) *LogFanout {
	return &LogFanout{store: s, publisher: p, log: log}
}

// AppendConversationLog implements store.ConversationLogs.
func (f *LogFanout) AppendConversationLog(ctx context.Context, entry *model.ConversationLog) error {
	if err := f.store.AppendConversationLog(ctx, entry); err != nil {
		return err
	}

	if _, err := f.publisher.PublishLog(ctx, entry); err != nil {
		metrics.ConversationLogFailures.WithLabelValues("nats").Inc()
		f.log.ForUser(entry.UserID).Warn("failed to mirror conversation log", zap.Error(err))
	}
	return nil
}

// ListConversationLogs implements store.ConversationLogs.
func (f *LogFanout) ListConversationLogs(ctx context.Context, userID string, limit int) ([]model.ConversationLog, error) {
	return f.store.ListConversationLogs(ctx, userID, limit)
}
