package dto

import "time"

type UpsertHealthLogRequest struct {
	LogDate    time.Time `json:"log_date" binding:"required" validate:"required"`
	WeightKg   *float64  `json:"weight_kg" validate:"omitempty,gt=0,lt=500"`
	RestingHR  *int      `json:"resting_hr" validate:"omitempty,gt=0,lt=300"`
	SleepHours *float64  `json:"sleep_hours" validate:"omitempty,gte=0,lte=24"`
	Notes      string    `json:"notes" validate:"max=2000"`
}

type HealthLogResponse struct {
	ID         string    `json:"id"`
	LogDate    time.Time `json:"log_date"`
	WeightKg   *float64  `json:"weight_kg"`
	RestingHR  *int      `json:"resting_hr"`
	SleepHours *float64  `json:"sleep_hours"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}
