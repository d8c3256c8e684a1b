package model

import (
	"time"
)

// Role represents the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of a session's conversation history.
type Turn struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// SendMessageRequest injects a chat message through the HTTP API.
type SendMessageRequest struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

// SendMessageResponse carries the assistant reply.
type SendMessageResponse struct {
	UserID string `json:"user_id"`
	Reply  string `json:"reply"`
}
