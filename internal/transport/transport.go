// Package transport connects chat channels to the dialogue pipeline.
package transport

import (
	"context"
	"strings"
)

// Inbound is a message received from a chat channel.
type Inbound struct {
	SenderID   string `json:"sender_id"`
	Text       string `json:"text"`
	IsGroup    bool   `json:"is_group,omitempty"`
	IsFromSelf bool   `json:"is_from_self,omitempty"`
}

// Outbound is a reply to deliver.
type Outbound struct {
	RecipientID string `json:"recipient_id"`
	Text        string `json:"text"`
}

// Transport is a chat channel.
type Transport interface {
	// Receive streams inbound messages until ctx ends or the channel closes.
	Receive(ctx context.Context) (<-chan Inbound, error)
	Send(ctx context.Context, msg Outbound) error
}

const (
	contactSuffix = "@c.us"
	groupSuffix   = "@g.us"
)

// NormalizeSender turns a WhatsApp-style JID into a user id. Group JIDs are
// reported as such and keep their suffix.
func NormalizeSender(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, groupSuffix) {
		return raw, true
	}
	return strings.TrimSuffix(raw, contactSuffix), false
}

// Addressed reports whether msg is a private message for the assistant.
// Group messages, messages we sent ourselves and blank texts are not.
func Addressed(msg Inbound) bool {
	if msg.IsGroup || msg.IsFromSelf {
		return false
	}
	if _, group := NormalizeSender(msg.SenderID); group {
		return false
	}
	return strings.TrimSpace(msg.Text) != "" && msg.SenderID != ""
}
