package models

type ProgramInvite struct {
	BaseModel
	ProgramID       string       `gorm:"type:uuid;not null;index"`
	InviterMemberID string       `gorm:"type:uuid;not null;index"`
	InviteeMemberID string       `gorm:"type:uuid;not null;index"`
	Status          InviteStatus `gorm:"type:varchar(20);not null;default:'pending'"`
}
