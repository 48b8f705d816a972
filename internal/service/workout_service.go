package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/domain"
	"github.com/markod/fitlink/internal/repository"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrNotWorkoutOwner = errors.New("only the workout owner can perform this action")
	ErrEmptyTitle      = errors.New("workout title is required")
)

type WorkoutService struct {
	workoutRepo repository.WorkoutRepository
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository) *WorkoutService {
	return &WorkoutService{workoutRepo: workoutRepo}
}

type CreateWorkoutInput struct {
	ExerciseID int     `json:"exercise_id"`
	Title      string  `json:"title"`
	Category   string  `json:"category"`
	Notes      *string `json:"notes,omitempty"`
}

func (s *WorkoutService) Create(ctx context.Context, userID uuid.UUID, input CreateWorkoutInput) (*domain.Workout, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	w := &domain.Workout{
		ID:         uuid.New(),
		UserID:     userID,
		ExerciseID: input.ExerciseID,
		Title:      title,
		Category:   strings.TrimSpace(input.Category),
		Notes:      input.Notes,
		Completed:  false,
		CreatedAt:  time.Now(),
	}
	if err := s.workoutRepo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("creating workout: %w", err)
	}
	return w, nil
}

func (s *WorkoutService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Workout, error) {
	ws, err := s.workoutRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		ws = []domain.Workout{}
	}
	return ws, nil
}

func (s *WorkoutService) Complete(ctx context.Context, userID, workoutID uuid.UUID) error {
	if err := s.checkOwner(ctx, userID, workoutID); err != nil {
		return err
	}
	return s.workoutRepo.MarkCompleted(ctx, workoutID)
}

func (s *WorkoutService) Delete(ctx context.Context, userID, workoutID uuid.UUID) error {
	if err := s.checkOwner(ctx, userID, workoutID); err != nil {
		return err
	}
	return s.workoutRepo.Delete(ctx, workoutID)
}

func (s *WorkoutService) checkOwner(ctx context.Context, userID, workoutID uuid.UUID) error {
	w, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return err
	}
	if w == nil {
		return ErrWorkoutNotFound
	}
	if w.UserID != userID {
		return ErrNotWorkoutOwner
	}
	return nil
}
