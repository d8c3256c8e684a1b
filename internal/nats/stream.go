package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/capitalize-ai/sales-assistant/internal/model"
)

const (
	// StreamName is the name of the conversation log stream.
	StreamName = "CONVERSATIONS"

	// SubjectPrefix is the prefix for all conversation subjects.
	SubjectPrefix = "conv"
)

// StreamManager mirrors conversation logs into JetStream.
type StreamManager struct {
	js jetstream.JetStream
}

// NewStreamManager creates a new stream manager.
func NewStreamManager(client *Client) *StreamManager {
	return &StreamManager{js: client.JetStream()}
}

// EnsureStream creates the conversation log stream if it does not exist.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	_, err := m.js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream: %w", err)
	}

	_, err = m.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      180 * 24 * time.Hour,
		MaxBytes:    10 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		DenyDelete:  true,
		Description: "Processed conversation turns",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// SubjectToken makes a user id safe for use as a single subject token.
func SubjectToken(userID string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, userID)
}

// LogSubject returns the subject a user's conversation log is published on.
func LogSubject(userID string) string {
	return fmt.Sprintf("%s.%s.log", SubjectPrefix, SubjectToken(userID))
}

// PublishLog appends a processed turn to the stream.
func (m *StreamManager) PublishLog(ctx context.Context, entry *model.ConversationLog) (uint64, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal conversation log: %w", err)
	}

	ack, err := m.js.Publish(ctx, LogSubject(entry.UserID), data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish conversation log: %w", err)
	}

	return ack.Sequence, nil
}

// Logs reads a user's conversation log starting after a stream sequence.
func (m *StreamManager) Logs(ctx context.Context, userID string, afterSequence uint64, limit int) ([]model.ConversationLog, bool, error) {
	cfg := jetstream.ConsumerConfig{
		FilterSubject: LogSubject(userID),
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	}
	if afterSequence > 0 {
		cfg.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		cfg.OptStartSeq = afterSequence + 1
	}

	consumer, err := m.js.CreateConsumer(ctx, StreamName, cfg)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create consumer: %w", err)
	}

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch conversation logs: %w", err)
	}

	var logs []model.ConversationLog
	for msg := range batch.Messages() {
		var entry model.ConversationLog
		if err := json.Unmarshal(msg.Data(), &entry); err != nil {
			continue
		}
		if meta, err := msg.Metadata(); err == nil {
			entry.Sequence = meta.Sequence.Stream
		}
		logs = append(logs, entry)
	}

	if err := batch.Error(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, false, fmt.Errorf("batch error: %w", err)
	}

	return logs, len(logs) == limit, nil
}
