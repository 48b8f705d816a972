package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markod/fitlink/internal/domain"
)

type TemplateRepo struct {
	pool *pgxpool.Pool
}

func NewTemplateRepo(pool *pgxpool.Pool) *TemplateRepo {
	return &TemplateRepo{pool: pool}
}

func (r *TemplateRepo) Create(ctx context.Context, tpl *domain.WorkoutTemplate) error {
	query := `
		INSERT INTO workout_templates (id, user_id, title, description, difficulty, estimated_duration, exercises, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, query,
		tpl.ID, tpl.UserID, tpl.Title, tpl.Description, tpl.Difficulty,
		tpl.EstimatedDuration, tpl.Exercises, tpl.CreatedAt, tpl.UpdatedAt,
	)
	return mapError(err)
}

func (r *TemplateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkoutTemplate, error) {
	query := `
		SELECT id, user_id, title, description, difficulty, estimated_duration, exercises, created_at, updated_at
		FROM workout_templates
		WHERE id = $1`
	var tpl domain.WorkoutTemplate
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&tpl.ID, &tpl.UserID, &tpl.Title, &tpl.Description, &tpl.Difficulty,
		&tpl.EstimatedDuration, &tpl.Exercises, &tpl.CreatedAt, &tpl.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &tpl, nil
}

func (r *TemplateRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WorkoutTemplate, error) {
	query := `
		SELECT id, user_id, title, description, difficulty, estimated_duration, exercises, created_at, updated_at
		FROM workout_templates
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var tpls []domain.WorkoutTemplate
	for rows.Next() {
		var tpl domain.WorkoutTemplate
		if err := rows.Scan(
			&tpl.ID, &tpl.UserID, &tpl.Title, &tpl.Description, &tpl.Difficulty,
			&tpl.EstimatedDuration, &tpl.Exercises, &tpl.CreatedAt, &tpl.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tpls = append(tpls, tpl)
	}
	return tpls, rows.Err()
}

func (r *TemplateRepo) Update(ctx context.Context, tpl *domain.WorkoutTemplate) error {
	query := `
		UPDATE workout_templates
		SET title = $2, description = $3, difficulty = $4, estimated_duration = $5, exercises = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query,
		tpl.ID, tpl.Title, tpl.Description, tpl.Difficulty,
		tpl.EstimatedDuration, tpl.Exercises, tpl.UpdatedAt,
	)
	return mapError(err)
}

func (r *TemplateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM workout_templates WHERE id = $1`, id)
	return mapError(err)
}
