package service

import (
	"context"
	"errors"
	"strings"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/transport"
)

// ErrNotAddressed is returned for group JIDs.
var ErrNotAddressed = errors.New("message is not a private chat message")

// Submitter runs a message through the per-user queue and waits for the
// reply. *dialogue.Dispatcher implements it.
type Submitter interface {
	Submit(ctx context.Context, userID, text string) (string, error)
}

// MessageService injects chat messages received over HTTP.
type MessageService struct {
	submitter Submitter
}

// NewMessageService creates a message service.
func NewMessageService(s Submitter) *MessageService {
	return &MessageService{submitter: s}
}

// Send processes req and returns the assistant reply.
func (s *MessageService) Send(ctx context.Context, req *model.SendMessageRequest) (*model.SendMessageResponse, error) {
	in := transport.Inbound{SenderID: req.UserID, Text: req.Content}
	if !transport.Addressed(in) {
		return nil, ErrNotAddressed
	}

	userID, _ := transport.NormalizeSender(req.UserID)
	reply, err := s.submitter.Submit(ctx, userID, strings.TrimSpace(req.Content))
	if err != nil {
		return nil, err
	}

	return &model.SendMessageResponse{UserID: userID, Reply: reply}, nil
}
