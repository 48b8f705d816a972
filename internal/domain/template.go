package domain

import (
	"time"

	"github.com/google/uuid"
)

// TemplateExercise is one ordered slot in a workout template. Weight,
// duration and distance are optional so the same shape covers strength,
// timed and distance work.
type TemplateExercise struct {
	ExerciseID int      `json:"exercise_id"`
	Sets       int      `json:"sets"`
	Reps       int      `json:"reps"`
	Weight     *float64 `json:"weight,omitempty"`
	Duration   *int     `json:"duration,omitempty"`
	Distance   *float64 `json:"distance,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	Order      int      `json:"order"`
}

// WorkoutTemplate is a reusable workout plan: an ordered exercise list a
// user edits as a whole. Updates replace the exercise list, they never
// patch individual slots.
type WorkoutTemplate struct {
	ID                uuid.UUID          `json:"id"`
	UserID            uuid.UUID          `json:"user_id"`
	Title             string             `json:"title"`
	Description       *string            `json:"description,omitempty"`
	Difficulty        *string            `json:"difficulty,omitempty"`
	EstimatedDuration *int               `json:"estimated_duration,omitempty"`
	Exercises         []TemplateExercise `json:"exercises"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}
