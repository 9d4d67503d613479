package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	Type      string  `gorm:"not null;index"` // "program.deleted", "program.member_left", ...
	ProgramID *string `gorm:"type:uuid;index"`
	// ActorMemberID == nil для системных событий (например, каскад удаления аккаунта)
	ActorMemberID *string        `gorm:"type:uuid;index"`
	Title         string         `gorm:"not null"`
	Body          string
	Data          datatypes.JSON `gorm:"type:jsonb"` // {"new_admin_member_id": "..."}

	Recipients []NotificationRecipient `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE"`
}

// NotificationRecipient — составной ключ (notification_id, member_id).
// Создается один раз при рассылке, мутируется только acknowledged_at.
type NotificationRecipient struct {
	NotificationID string     `gorm:"type:uuid;primaryKey"`
	MemberID       string     `gorm:"type:uuid;primaryKey;index"`
	AcknowledgedAt *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}
