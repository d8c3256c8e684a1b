package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/internal/middleware"
	"github.com/capitalize-ai/sales-assistant/internal/service"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

// ConversationHandler serves the conversation log.
type ConversationHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc *service.ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{service: svc, logger: log}
}

// Logs handles GET /api/v1/conversations/{userID}/logs
func (h *ConversationHandler) Logs(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := middleware.ValidateUserID(userID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	afterSequence := uint64(0)
	if seq := r.URL.Query().Get("after_sequence"); seq != "" {
		if parsed, err := strconv.ParseUint(seq, 10, 64); err == nil {
			afterSequence = parsed
		}
	}
	limit := queryInt(r, "limit", 50, 100)

	resp, err := h.service.Logs(r.Context(), userID, afterSequence, limit)
	if err != nil {
		h.logger.Error("failed to list conversation logs", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list conversation logs")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
