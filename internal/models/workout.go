package models

import "time"

type Workout struct {
	BaseModel
	MemberID    string    `gorm:"type:uuid;not null;index"`
	ProgramID   string    `gorm:"type:uuid;not null;index"`
	PerformedAt time.Time `gorm:"not null;index"`
	Kind        string    `gorm:"not null"` // "run", "strength", "yoga"...
	DurationMin int       `gorm:"not null"`
	Notes       string
}
