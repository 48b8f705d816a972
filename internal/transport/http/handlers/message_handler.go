package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/service"
	"github.com/markod/fitlink/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type MessageHandler struct {
	messageService *service.MessageService
	logger         *zap.Logger
}

func NewMessageHandler(messageService *service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{messageService: messageService, logger: logger}
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	partnershipID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid partnership ID")
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	msg, err := h.messageService.Send(r.Context(), userID, partnershipID, input.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "EMPTY_MESSAGE", "Message text is required")
		case errors.Is(err, service.ErrPartnershipNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Partnership not found")
		case errors.Is(err, service.ErrNotParticipant):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You are not a participant of this partnership")
		default:
			h.logger.Error("send message failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) Window(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	partnershipID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid partnership ID")
		return
	}

	msgs, err := h.messageService.Window(r.Context(), userID, partnershipID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPartnershipNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Partnership not found")
		case errors.Is(err, service.ErrNotParticipant):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You are not a participant of this partnership")
		default:
			h.logger.Error("list messages failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}

func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	partnershipID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid partnership ID")
		return
	}

	count, err := h.messageService.UnreadCount(r.Context(), userID, partnershipID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPartnershipNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Partnership not found")
		case errors.Is(err, service.ErrNotParticipant):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You are not a participant of this partnership")
		default:
			h.logger.Error("unread count failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}
