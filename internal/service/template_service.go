package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/markod/fitlink/internal/domain"
	"github.com/markod/fitlink/internal/repository"
)

var (
	ErrTemplateNotFound   = errors.New("workout template not found")
	ErrNotTemplateOwner   = errors.New("only the template owner can perform this action")
	ErrEmptyTemplateTitle = errors.New("template title is required")
)

type TemplateService struct {
	templateRepo repository.TemplateRepository
}

func NewTemplateService(templateRepo repository.TemplateRepository) *TemplateService {
	return &TemplateService{templateRepo: templateRepo}
}

type TemplateInput struct {
	Title             string                    `json:"title"`
	Description       *string                   `json:"description,omitempty"`
	Difficulty        *string                   `json:"difficulty,omitempty"`
	EstimatedDuration *int                      `json:"estimated_duration,omitempty"`
	Exercises         []domain.TemplateExercise `json:"exercises"`
}

func (s *TemplateService) Create(ctx context.Context, userID uuid.UUID, input TemplateInput) (*domain.WorkoutTemplate, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrEmptyTemplateTitle
	}

	now := time.Now()
	tpl := &domain.WorkoutTemplate{
		ID:                uuid.New(),
		UserID:            userID,
		Title:             title,
		Description:       input.Description,
		Difficulty:        input.Difficulty,
		EstimatedDuration: input.EstimatedDuration,
		Exercises:         normalizeExercises(input.Exercises),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.templateRepo.Create(ctx, tpl); err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}
	return tpl, nil
}

func (s *TemplateService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WorkoutTemplate, error) {
	tpls, err := s.templateRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if tpls == nil {
		tpls = []domain.WorkoutTemplate{}
	}
	return tpls, nil
}

// Update replaces the template wholesale: title, metadata and the full
// exercise list, as edited on the client. ID, owner and creation time
// survive the replace.
func (s *TemplateService) Update(ctx context.Context, userID, templateID uuid.UUID, input TemplateInput) (*domain.WorkoutTemplate, error) {
	existing, err := s.checkOwner(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrEmptyTemplateTitle
	}

	tpl := &domain.WorkoutTemplate{
		ID:                existing.ID,
		UserID:            existing.UserID,
		Title:             title,
		Description:       input.Description,
		Difficulty:        input.Difficulty,
		EstimatedDuration: input.EstimatedDuration,
		Exercises:         normalizeExercises(input.Exercises),
		CreatedAt:         existing.CreatedAt,
		UpdatedAt:         time.Now(),
	}
	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		return nil, fmt.Errorf("updating template: %w", err)
	}
	return tpl, nil
}

func (s *TemplateService) Delete(ctx context.Context, userID, templateID uuid.UUID) error {
	if _, err := s.checkOwner(ctx, userID, templateID); err != nil {
		return err
	}
	return s.templateRepo.Delete(ctx, templateID)
}

func (s *TemplateService) checkOwner(ctx context.Context, userID, templateID uuid.UUID) (*domain.WorkoutTemplate, error) {
	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrTemplateNotFound
	}
	if tpl.UserID != userID {
		return nil, ErrNotTemplateOwner
	}
	return tpl, nil
}

// normalizeExercises sorts by the client-supplied order and renumbers the
// slots 0..n-1, so reordering and removal never leave gaps.
func normalizeExercises(exercises []domain.TemplateExercise) []domain.TemplateExercise {
	out := make([]domain.TemplateExercise, len(exercises))
	copy(out, exercises)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i
	}
	return out
}
