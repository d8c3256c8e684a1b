package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/internal/dialogue"
	"github.com/capitalize-ai/sales-assistant/internal/middleware"
	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/service"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

// MessageHandler injects chat messages over HTTP.
type MessageHandler struct {
	service *service.MessageService
	logger  *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(svc *service.MessageService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{service: svc, logger: log}
}

// Send handles POST /api/v1/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateUserID(req.UserID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Send(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAddressed):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, dialogue.ErrDispatcherClosed):
			writeError(w, http.StatusServiceUnavailable, "shutting down")
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			writeError(w, http.StatusGatewayTimeout, "reply not ready in time")
		default:
			h.logger.Error("failed to process message", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to process message")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
