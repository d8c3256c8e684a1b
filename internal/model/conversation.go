// Package model defines data structures for the sales assistant.
package model

import (
	"time"
)

// ConversationLog is the durable record of one processed turn.
type ConversationLog struct {
	ID            string    `json:"id"`
	UserID        string    `json:"usuario_id"`
	Message       string    `json:"mensagem"`
	Response      string    `json:"resposta"`
	Intent        Intent    `json:"dados_extraidos"`
	ShownProducts []string  `json:"produtos_mostrados,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	// JetStream sequence, populated on read from the stream.
	Sequence uint64 `json:"sequence,omitempty"`
}

// ListConversationLogsResponse is the response for listing a user's log.
type ListConversationLogsResponse struct {
	Logs    []ConversationLog `json:"logs"`
	HasMore bool              `json:"has_more"`
}

// Analytics aggregates counters over the persistence store.
type Analytics struct {
	Conversations int     `json:"conversas"`
	Orders        int     `json:"pedidos"`
	SalesTotal    float64 `json:"vendas_total"`
}

// Status describes the running service.
type Status struct {
	Status         string            `json:"status"`
	ActiveSessions int               `json:"sessoes_ativas"`
	Uptime         string            `json:"uptime"`
	Dependencies   map[string]string `json:"dependencias"`
}
