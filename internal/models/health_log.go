package models

import "time"

// HealthLog — одна запись на участника в день
type HealthLog struct {
	BaseModel
	MemberID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_member_log_date"`
	LogDate    time.Time `gorm:"not null;uniqueIndex:idx_member_log_date"`
	WeightKg   *float64
	RestingHR  *int
	SleepHours *float64
	Notes      string
}
