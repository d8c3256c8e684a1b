// Package session holds per-user dialogue state.
package session

import (
	"time"

	"github.com/capitalize-ai/sales-assistant/internal/model"
)

// Session is the mutable dialogue state of one user. Its fields are only
// touched by the single in-flight pipeline for that user; the store guards
// lastActivity and the in-flight counter.
type Session struct {
	UserID            string
	History           []model.Turn
	Intent            model.Intent
	LastShownProducts []model.Product

	lastActivity time.Time
	inFlight     int
}

// Append adds a turn to the history.
func (s *Session) Append(role model.Role, text string, at time.Time) {
	s.History = append(s.History, model.Turn{Role: role, Text: text, Timestamp: at})
}

// Recent returns at most n of the latest turns, oldest first. n <= 0 returns
// the whole history.
func (s *Session) Recent(n int) []model.Turn {
	if n <= 0 || len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// ShownProduct resolves a 1-based position in the last presented list.
func (s *Session) ShownProduct(position int) (model.Product, bool) {
	if position < 1 || position > len(s.LastShownProducts) {
		return model.Product{}, false
	}
	return s.LastShownProducts[position-1], true
}

// ShowProducts replaces the presented list wholesale.
func (s *Session) ShowProducts(products []model.Product) {
	s.LastShownProducts = append([]model.Product(nil), products...)
}
