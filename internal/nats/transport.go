package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/internal/transport"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

const (
	// InboundSubject carries chat messages from channel gateways.
	InboundSubject = "salesbot.inbound"
	// OutboundPrefix prefixes the per-recipient reply subjects.
	OutboundPrefix = "salesbot.outbound"
)

// OutboundSubject returns the reply subject for a recipient.
func OutboundSubject(recipientID string) string {
	return fmt.Sprintf("%s.%s", OutboundPrefix, SubjectToken(recipientID))
}

// Transport bridges chat gateways over core NATS. Sessions and per-user
// ordering live in process memory, so exactly one assistant instance may
// subscribe to InboundSubject; the subscription is plain, not a queue group.
type Transport struct {
	conn *nats.Conn
	log  *logger.Logger
}

// NewTransport creates a NATS chat transport.
func NewTransport(client *Client, log *logger.Logger) *Transport {
	return &Transport{conn: client.Conn(), log: log}
}

// Receive implements transport.Transport.
func (t *Transport) Receive(ctx context.Context) (<-chan transport.Inbound, error) {
	raw := make(chan *nats.Msg, 256)
	sub, err := t.conn.ChanSubscribe(InboundSubject, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", InboundSubject, err)
	}

	out := make(chan transport.Inbound)
	go func() {
		defer close(out)
		defer func() {
			if err := sub.Unsubscribe(); err != nil {
				t.log.Warn("failed to unsubscribe", zap.Error(err))
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-raw:
				in, err := decodeInbound(msg.Data)
				if err != nil {
					t.log.Warn("discarding malformed inbound message", zap.Error(err))
					continue
				}
				select {
				case out <- in:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Send implements transport.Transport.
func (t *Transport) Send(ctx context.Context, msg transport.Outbound) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}
	if err := t.conn.Publish(OutboundSubject(msg.RecipientID), data); err != nil {
		return fmt.Errorf("failed to publish reply: %w", err)
	}
	return nil
}

func decodeInbound(data []byte) (transport.Inbound, error) {
	var in transport.Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return transport.Inbound{}, fmt.Errorf("invalid inbound payload: %w", err)
	}
	if in.SenderID == "" {
		return transport.Inbound{}, fmt.Errorf("invalid inbound payload: missing sender_id")
	}
	return in, nil
}
