package model

import (
	"time"
)

// EventType represents the type of order event.
type EventType string

const (
	EventOrderCreated       EventType = "order.created"
	EventOrderStatusChanged EventType = "order.status_changed"
)

// OrderEvent is published whenever an order is created or changes status.
type OrderEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Order     Order          `json:"order"`
	Previous  OrderStatus    `json:"previous,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
