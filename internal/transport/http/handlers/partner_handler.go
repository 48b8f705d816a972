package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/service"
	"github.com/markod/fitlink/internal/transport/http/middleware"
	"github.com/markod/fitlink/pkg/validator"
	"go.uber.org/zap"
)

type PartnerHandler struct {
	partnerService *service.PartnerService
	logger         *zap.Logger
}

func NewPartnerHandler(partnerService *service.PartnerService, logger *zap.Logger) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService, logger: logger}
}

func (h *PartnerHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.ValidatePartnerEmail(input.Email); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	req, err := h.partnerService.SendRequest(r.Context(), userID, input.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotRequestSelf):
			writeError(w, http.StatusBadRequest, "CANNOT_REQUEST_SELF", "Cannot send a request to yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrRequestAlreadySent):
			writeError(w, http.StatusConflict, "ALREADY_EXISTS", "Request already sent")
		case errors.Is(err, service.ErrAlreadyPartners):
			writeError(w, http.StatusConflict, "ALREADY_PARTNERS", "You are already partners")
		default:
			h.logger.Error("send partner request failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

func (h *PartnerHandler) ListPartners(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	partners, err := h.partnerService.ListPartners(r.Context(), userID)
	if err != nil {
		h.logger.Error("list partners failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, partners)
}

func (h *PartnerHandler) ListIncomingRequests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	reqs, err := h.partnerService.ListIncomingRequests(r.Context(), userID)
	if err != nil {
		h.logger.Error("list incoming requests failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, reqs)
}

func (h *PartnerHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	requestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	pm, err := h.partnerService.AcceptRequest(r.Context(), userID, requestID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Request not found")
		case errors.Is(err, service.ErrNotRequestRecipient):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the recipient can accept this request")
		case errors.Is(err, service.ErrAlreadyPartners):
			writeError(w, http.StatusConflict, "ALREADY_PARTNERS", "You are already partners")
		default:
			h.logger.Error("accept partner request failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, pm)
}

func (h *PartnerHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	requestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	if err := h.partnerService.RejectRequest(r.Context(), userID, requestID); err != nil {
		if errors.Is(err, service.ErrNotRequestRecipient) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the recipient can reject this request")
		} else {
			h.logger.Error("reject partner request failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PartnerHandler) DeletePartnership(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	partnershipID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid partnership ID")
		return
	}

	if err := h.partnerService.DeletePartnership(r.Context(), userID, partnershipID); err != nil {
		if errors.Is(err, service.ErrNotParticipant) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "You are not a participant of this partnership")
		} else {
			h.logger.Error("delete partnership failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
