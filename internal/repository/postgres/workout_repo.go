package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/markod/fitlink/internal/domain"
)

type WorkoutRepo struct {
	pool *pgxpool.Pool
}

func NewWorkoutRepo(pool *pgxpool.Pool) *WorkoutRepo {
	return &WorkoutRepo{pool: pool}
}

func (r *WorkoutRepo) Create(ctx context.Context, w *domain.Workout) error {
	query := `
		INSERT INTO workouts (id, user_id, exercise_id, title, category, notes, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		w.ID, w.UserID, w.ExerciseID, w.Title, w.Category, w.Notes, w.Completed, w.CreatedAt,
	)
	return mapError(err)
}

func (r *WorkoutRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	query := `
		SELECT id, user_id, exercise_id, title, category, notes, completed, completed_at, created_at
		FROM workouts
		WHERE id = $1`
	var w domain.Workout
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&w.ID, &w.UserID, &w.ExerciseID, &w.Title, &w.Category, &w.Notes,
		&w.Completed, &w.CompletedAt, &w.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &w, nil
}

func (r *WorkoutRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Workout, error) {
	query := `
		SELECT id, user_id, exercise_id, title, category, notes, completed, completed_at, created_at
		FROM workouts
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ws []domain.Workout
	for rows.Next() {
		var w domain.Workout
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.ExerciseID, &w.Title, &w.Category, &w.Notes,
			&w.Completed, &w.CompletedAt, &w.CreatedAt,
		); err != nil {
			return nil, err
		}
		ws = append(ws, w)
	}
	return ws, rows.Err()
}

func (r *WorkoutRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE workouts SET completed = true, completed_at = now() WHERE id = $1`, id)
	return mapError(err)
}

func (r *WorkoutRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	return mapError(err)
}
