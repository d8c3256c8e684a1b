package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/internal/middleware"
	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/order"
	"github.com/capitalize-ai/sales-assistant/internal/service"
	"github.com/capitalize-ai/sales-assistant/internal/store"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

// OrderHandler handles order and analytics endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *logger.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(svc *service.OrderService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{service: svc, logger: log}
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Recent(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateOrderID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

// UpdateStatus handles PUT /api/v1/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := middleware.ValidateOrderID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.service.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		h.writeOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

// Analytics handles GET /api/v1/analytics
func (h *OrderHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Analytics(r.Context())
	if err != nil {
		h.logger.Error("failed to compute analytics", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to compute analytics")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *OrderHandler) writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, order.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, order.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("order request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "order request failed")
	}
}
