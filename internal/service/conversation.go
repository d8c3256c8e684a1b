package service

import (
	"context"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	natsclient "github.com/capitalize-ai/sales-assistant/internal/nats"
	"github.com/capitalize-ai/sales-assistant/internal/store"
)

// ConversationService reads the conversation log.
type ConversationService struct {
	logs   store.ConversationLogs
	stream *natsclient.StreamManager
}

// NewConversationService creates a conversation service. stream may be nil
// when NATS is disabled.
func NewConversationService(logs store.ConversationLogs, stream *natsclient.StreamManager) *ConversationService {
	return &ConversationService{logs: logs, stream: stream}
}

// Logs returns a user's processed turns, oldest first. With a sequence
// cursor the JetStream mirror is paged instead of the store.
func (s *ConversationService) Logs(ctx context.Context, userID string, afterSequence uint64, limit int) (*model.ListConversationLogsResponse, error) {
	if afterSequence > 0 && s.stream != nil {
		logs, hasMore, err := s.stream.Logs(ctx, userID, afterSequence, limit)
		if err != nil {
			return nil, err
		}
		return &model.ListConversationLogsResponse{Logs: nonNil(logs), HasMore: hasMore}, nil
	}

	// One extra row tells whether older entries exist.
	logs, err := s.logs.ListConversationLogs(ctx, userID, limit+1)
	if err != nil {
		return nil, err
	}
	hasMore := len(logs) > limit
	if hasMore {
		logs = logs[1:]
	}
	return &model.ListConversationLogsResponse{Logs: nonNil(logs), HasMore: hasMore}, nil
}

func nonNil(logs []model.ConversationLog) []model.ConversationLog {
	if logs == nil {
		return []model.ConversationLog{}
	}
	return logs
}
