package handler

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/service"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

// ERPEvent is the payload an ERP posts when an order changes on its side.
type ERPEvent struct {
	OrderID string            `json:"pedido_id"`
	Status  model.OrderStatus `json:"status"`
	Source  string            `json:"origem,omitempty"`
}

// WebhookHandler receives ERP notifications.
type WebhookHandler struct {
	orders *service.OrderService
	token  string
	logger *logger.Logger
}

// NewWebhookHandler creates a webhook handler. With an empty token every
// request is refused, since the route sits outside JWT auth.
func NewWebhookHandler(orders *service.OrderService, token string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{orders: orders, token: token, logger: log}
}

// ERP handles POST /webhook/erp
func (h *WebhookHandler) ERP(w http.ResponseWriter, r *http.Request) {
	if h.token == "" {
		writeError(w, http.StatusServiceUnavailable, "webhook not configured")
		return
	}
	got := r.Header.Get("X-Webhook-Token")
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid webhook token")
		return
	}

	var event ERPEvent
	if err := decodeJSON(w, r, &event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	log := h.logger.ForOrder(event.OrderID)
	log.Info("ERP webhook received",
		zap.String("status", string(event.Status)),
		zap.String("source", event.Source),
	)

	if event.OrderID == "" || event.Status == "" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
		return
	}

	if _, err := h.orders.UpdateStatus(r.Context(), event.OrderID, &model.UpdateOrderStatusRequest{Status: event.Status}); err != nil {
		log.Warn("ERP status update rejected", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]string{"status": "rejected", "error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "applied"})
}
