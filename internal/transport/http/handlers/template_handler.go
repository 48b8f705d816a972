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

type TemplateHandler struct {
	templateService *service.TemplateService
	logger          *zap.Logger
}

func NewTemplateHandler(templateService *service.TemplateService, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{templateService: templateService, logger: logger}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	templates, err := h.templateService.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list templates failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.ValidateTemplate(input.Title, strDeref(input.Difficulty)); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	tpl, err := h.templateService.Create(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrEmptyTemplateTitle) {
			writeError(w, http.StatusBadRequest, "EMPTY_TITLE", "Template title is required")
		} else {
			h.logger.Error("create template failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	templateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid template ID")
		return
	}

	var input service.TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.ValidateTemplate(input.Title, strDeref(input.Difficulty)); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	tpl, err := h.templateService.Update(r.Context(), userID, templateID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Template not found")
		case errors.Is(err, service.ErrNotTemplateOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the owner can edit this template")
		case errors.Is(err, service.ErrEmptyTemplateTitle):
			writeError(w, http.StatusBadRequest, "EMPTY_TITLE", "Template title is required")
		default:
			h.logger.Error("update template failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	templateID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid template ID")
		return
	}

	if err := h.templateService.Delete(r.Context(), userID, templateID); err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Template not found")
		case errors.Is(err, service.ErrNotTemplateOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the owner can delete this template")
		default:
			h.logger.Error("delete template failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
