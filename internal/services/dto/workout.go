package dto

import "time"

type LogWorkoutRequest struct {
	ProgramID   string    `json:"program_id" binding:"required" validate:"required"`
	PerformedAt time.Time `json:"performed_at" binding:"required" validate:"required"`
	Kind        string    `json:"kind" binding:"required" validate:"required,max=100"`
	DurationMin int       `json:"duration_min" binding:"required" validate:"required,min=1,max=1440"`
	Notes       string    `json:"notes" validate:"max=2000"`
}

type WorkoutResponse struct {
	ID          string    `json:"id"`
	ProgramID   string    `json:"program_id"`
	PerformedAt time.Time `json:"performed_at"`
	Kind        string    `json:"kind"`
	DurationMin int       `json:"duration_min"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

type WorkoutListResponse struct {
	Workouts []*WorkoutResponse `json:"workouts"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}
