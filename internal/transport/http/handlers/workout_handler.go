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

type WorkoutHandler struct {
	workoutService *service.WorkoutService
	logger         *zap.Logger
}

func NewWorkoutHandler(workoutService *service.WorkoutService, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, logger: logger}
}

func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.CreateWorkoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.ValidateWorkout(input.Title, input.Category); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	workout, err := h.workoutService.Create(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrEmptyTitle) {
			writeError(w, http.StatusBadRequest, "EMPTY_TITLE", "Workout title is required")
		} else {
			h.logger.Error("create workout failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, workout)
}

func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	workouts, err := h.workoutService.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list workouts failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, workouts)
}

func (h *WorkoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workoutID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid workout ID")
		return
	}

	if err := h.workoutService.Complete(r.Context(), userID, workoutID); err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Workout not found")
		case errors.Is(err, service.ErrNotWorkoutOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the owner can complete this workout")
		default:
			h.logger.Error("complete workout failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	workoutID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid workout ID")
		return
	}

	if err := h.workoutService.Delete(r.Context(), userID, workoutID); err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Workout not found")
		case errors.Is(err, service.ErrNotWorkoutOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the owner can delete this workout")
		default:
			h.logger.Error("delete workout failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
