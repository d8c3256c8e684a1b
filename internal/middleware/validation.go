package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxMessageLength = 4096
	maxUserIDLength  = 128
)

// ValidateMessageContent validates chat message content.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content cannot be empty")
	}
	if len(content) > maxMessageLength {
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateUserID validates a chat user id such as a phone number or JID.
func ValidateUserID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("user ID cannot be empty")
	}
	if len(id) > maxUserIDLength {
		return errors.New("user ID exceeds maximum length")
	}
	if strings.ContainsAny(id, " \t\r\n*>") {
		return errors.New("user ID contains invalid characters")
	}
	return nil
}

// ValidateOrderID validates an order id.
func ValidateOrderID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid order ID format")
	}
	return nil
}
