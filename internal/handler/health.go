// Package handler provides HTTP handlers for the admin API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/service"
)

const statusCheckTimeout = 3 * time.Second

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	status *service.StatusService
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(status *service.StatusService) *HealthHandler {
	return &HealthHandler{status: status}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready. It fails while any dependency check fails.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	st := h.check(r)
	if st.Status != "ok" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":       "not ready",
			"dependencias": st.Dependencies,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// Status handles GET /status
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.check(r))
}

func (h *HealthHandler) check(r *http.Request) *model.Status {
	ctx, cancel := context.WithTimeout(r.Context(), statusCheckTimeout)
	defer cancel()
	return h.status.Status(ctx)
}
