package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workout is a personal workout a user tracks, usually created from a
// catalog exercise.
type Workout struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	ExerciseID  int        `json:"exercise_id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Notes       *string    `json:"notes,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
