package models

import "time"

type Program struct {
	BaseModel
	Name        string        `gorm:"not null"`
	Description string
	StartDate   time.Time     `gorm:"not null"`
	EndDate     time.Time     `gorm:"not null"`
	Status      ProgramStatus `gorm:"type:varchar(20);not null;default:'active'"`
	// CreatedBy обнуляется, когда создатель покидает программу
	CreatedBy *string `gorm:"type:uuid;index"`
	IsDeleted bool    `gorm:"not null;default:false;index"`

	Memberships []ProgramMembership `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE"`
}

type ProgramMembership struct {
	BaseModel
	ProgramID string           `gorm:"type:uuid;not null;uniqueIndex:idx_program_member"`
	MemberID  string           `gorm:"type:uuid;not null;uniqueIndex:idx_program_member;index"`
	Role      MembershipRole   `gorm:"type:varchar(20);not null;default:'member'"`
	Status    MembershipStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	JoinedAt  time.Time        `gorm:"not null"`
}
