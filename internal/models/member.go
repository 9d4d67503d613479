package models

type Member struct {
	BaseModel
	Username string     `gorm:"uniqueIndex;not null"`
	Email    *string    `gorm:"index"`
	Role     MemberRole `gorm:"type:varchar(20);not null;default:'standard'"`

	// Relations
	Memberships   []ProgramMembership     `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
	Workouts      []Workout               `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
	HealthLogs    []HealthLog             `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
	Notifications []NotificationRecipient `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
}
